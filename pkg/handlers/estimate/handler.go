package estimate

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/de-tools/iac-cost/pkg/adapters"
	"github.com/de-tools/iac-cost/pkg/models/api"
	"github.com/de-tools/iac-cost/pkg/models/domain"
	"github.com/de-tools/iac-cost/pkg/services/cost"
	"github.com/de-tools/iac-cost/pkg/store/duckdb/reports"
	"github.com/de-tools/iac-cost/pkg/store/pricing"
	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
)

const (
	defaultTemplateName = "template"
	parametersPath      = "parameters.json"
	maxBodyBytes        = 4 << 20
)

var dialectExtensions = map[api.Dialect]string{
	api.DialectBicep: ".bicep",
	api.DialectARM:   ".json",
}

type Estimator interface {
	Estimate(ctx context.Context, src cost.Source, region string) (*domain.CostReport, error)
}

type PriceLookup interface {
	GetPrice(ctx context.Context, service, sku, region, priceType string) (*domain.PriceRecord, error)
}

type Handler struct {
	estimator Estimator
	archive   reports.Store
	prices    PriceLookup
}

func NewHandler(estimator Estimator, archive reports.Store, prices PriceLookup) *Handler {
	return &Handler{
		estimator: estimator,
		archive:   archive,
		prices:    prices,
	}
}

// CreateEstimate prices an inline template and archives the report.
func (h *Handler) CreateEstimate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := zerolog.Ctx(ctx)

	var req api.EstimateRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	src, err := source(req)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	report, err := h.estimator.Estimate(ctx, src, req.Region)
	if err != nil {
		if errors.Is(err, cost.ErrUnsupportedTemplate) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		logger.Error().Err(err).Str("template", src.Path).Msg("failed to estimate template")
		http.Error(w, "failed to estimate template", http.StatusInternalServerError)
		return
	}

	record, err := adapters.MapDomainReportToStore(report)
	if err == nil {
		err = h.archive.Save(ctx, record)
	}
	if err != nil {
		logger.Error().Err(err).Str("report", report.ID).Msg("failed to archive report")
		http.Error(w, "failed to archive report", http.StatusInternalServerError)
		return
	}

	writeJSON(ctx, w, http.StatusCreated, adapters.MapDomainReportToApi(report))
}

func (h *Handler) ListEstimates(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := zerolog.Ctx(ctx)

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			http.Error(w, "invalid 'limit'. Expected a positive integer", http.StatusBadRequest)
			return
		}
		limit = n
	}

	summaries, err := h.archive.List(ctx, limit)
	if err != nil {
		logger.Error().Err(err).Msg("failed to list reports")
		http.Error(w, "failed to list reports", http.StatusInternalServerError)
		return
	}

	response := make([]api.EstimateSummary, 0, len(summaries))
	for _, s := range summaries {
		response = append(response, adapters.MapStoreSummaryToApi(s))
	}
	writeJSON(ctx, w, http.StatusOK, response)
}

func (h *Handler) GetEstimate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := zerolog.Ctx(ctx)
	id := chi.URLParam(r, "id")

	record, err := h.archive.Get(ctx, id)
	if errors.Is(err, reports.ErrNotFound) {
		http.Error(w, fmt.Sprintf("report %s not found", id), http.StatusNotFound)
		return
	}
	if err != nil {
		logger.Error().Err(err).Str("report", id).Msg("failed to load report")
		http.Error(w, "failed to load report", http.StatusInternalServerError)
		return
	}

	report, err := adapters.MapStoreReportToDomain(record)
	if err != nil {
		logger.Error().Err(err).Str("report", id).Msg("failed to decode report")
		http.Error(w, "failed to load report", http.StatusInternalServerError)
		return
	}
	writeJSON(ctx, w, http.StatusOK, adapters.MapDomainReportToApi(report))
}

// GetPrice looks up the pay-as-you-go price of one SKU.
func (h *Handler) GetPrice(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := zerolog.Ctx(ctx)
	query := r.URL.Query()
	service, sku, region := query.Get("service"), query.Get("sku"), query.Get("region")

	if service == "" || sku == "" || region == "" {
		http.Error(w, "'service', 'sku' and 'region' are required", http.StatusBadRequest)
		return
	}

	price, err := h.prices.GetPrice(ctx, service, sku, region, pricing.ConsumptionPriceType)
	if err != nil {
		logger.Error().Err(err).Str("sku", sku).Str("region", region).Msg("price lookup failed")
		http.Error(w, "price lookup failed", http.StatusBadGateway)
		return
	}
	if price == nil {
		http.Error(w, fmt.Sprintf("no pricing found for %s in %s", sku, region), http.StatusNotFound)
		return
	}
	writeJSON(ctx, w, http.StatusOK, adapters.MapDomainPriceToApi(price))
}

// source turns a request into a template source. Plain parameter values are
// wrapped as a deployment parameters document, which both dialects accept.
func source(req api.EstimateRequest) (cost.Source, error) {
	if strings.TrimSpace(req.Content) == "" {
		return cost.Source{}, errors.New("'content' is required")
	}

	dialect := req.Dialect
	if dialect == "" {
		dialect = api.DialectBicep
	}
	ext, ok := dialectExtensions[api.Dialect(strings.ToLower(string(dialect)))]
	if !ok {
		return cost.Source{}, fmt.Errorf("unsupported dialect %q. Expected bicep or arm", req.Dialect)
	}

	name := req.Name
	if name == "" {
		name = defaultTemplateName
	}
	name = strings.TrimSuffix(filepath.Base(name), filepath.Ext(name)) + ext

	src := cost.Source{Path: name, Content: []byte(req.Content)}
	if len(req.Parameters) > 0 {
		doc := map[string]map[string]map[string]any{"parameters": {}}
		for key, value := range req.Parameters {
			doc["parameters"][key] = map[string]any{"value": value}
		}
		params, err := json.Marshal(doc)
		if err != nil {
			return cost.Source{}, fmt.Errorf("invalid parameters: %w", err)
		}
		src.ParamsPath = parametersPath
		src.Params = params
	}
	return src, nil
}

func writeJSON(ctx context.Context, w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		zerolog.Ctx(ctx).Error().
			Err(err).
			Msg("failed to encode response")
	}
}
