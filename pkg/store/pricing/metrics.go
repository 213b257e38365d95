package pricing

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "iaccost",
		Subsystem: "pricing",
		Name:      "requests_total",
		Help:      "Retail price API page requests by outcome.",
	}, []string{"outcome"})

	queryDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "iaccost",
		Subsystem: "pricing",
		Name:      "query_duration_seconds",
		Help:      "Wall time of a paginated retail price query.",
		Buckets:   prometheus.DefBuckets,
	})

	itemsReturned = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "iaccost",
		Subsystem: "pricing",
		Name:      "items_total",
		Help:      "Catalog items returned to callers.",
	})
)
