package cost

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	resourcesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "iaccost",
		Subsystem: "estimator",
		Name:      "resources_total",
		Help:      "Resources processed by outcome: priced, unsupported or warned.",
	}, []string{"outcome"})

	cacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "iaccost",
		Subsystem: "estimator",
		Name:      "price_cache_hits_total",
		Help:      "Price lookups served from the per-run cache.",
	})
)
