package estimate

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/de-tools/iac-cost/pkg/adapters"
	"github.com/de-tools/iac-cost/pkg/models/api"
	"github.com/de-tools/iac-cost/pkg/models/domain"
	"github.com/de-tools/iac-cost/pkg/models/store"
	"github.com/de-tools/iac-cost/pkg/services/cost"
	"github.com/de-tools/iac-cost/pkg/store/duckdb/reports"
	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockEstimator struct {
	mock.Mock
}

func (m *mockEstimator) Estimate(ctx context.Context, src cost.Source, region string) (*domain.CostReport, error) {
	args := m.Called(ctx, src, region)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CostReport), args.Error(1)
}

type mockArchive struct {
	mock.Mock
}

func (m *mockArchive) Save(ctx context.Context, report *store.Report) error {
	return m.Called(ctx, report).Error(0)
}

func (m *mockArchive) Get(ctx context.Context, id string) (*store.Report, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*store.Report), args.Error(1)
}

func (m *mockArchive) List(ctx context.Context, limit int) ([]store.ReportSummary, error) {
	args := m.Called(ctx, limit)
	return args.Get(0).([]store.ReportSummary), args.Error(1)
}

type mockPrices struct {
	mock.Mock
}

func (m *mockPrices) GetPrice(ctx context.Context, service, sku, region, priceType string) (*domain.PriceRecord, error) {
	args := m.Called(ctx, service, sku, region, priceType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PriceRecord), args.Error(1)
}

var generatedAt = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func sampleReport() *domain.CostReport {
	return &domain.CostReport{
		ID:               "r-1",
		TemplatePath:     "app.bicep",
		Region:           "westeurope",
		Currency:         "USD",
		GeneratedAt:      generatedAt,
		TotalMonthlyCost: 73,
		TotalYearlyCost:  876,
		ResourceCount:    1,
		ResourceCosts: []domain.ResourceCost{{
			ResourceName: "plan", ResourceType: "Microsoft.Web/serverfarms", SKU: "S1",
			Location: "westeurope", MonthlyCost: 73, YearlyCost: 876, Count: 1, Notes: []string{},
		}},
		Recommendations:      []string{},
		Warnings:             []string{},
		UnsupportedResources: []string{},
	}
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&out))
	return out
}

func TestCreateEstimate(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		setupMocks     func(*mockEstimator, *mockArchive)
		expectedStatus int
		expectedError  string
	}{
		{
			name: "bicep with parameters",
			body: `{"name": "app", "content": "param sku string = 'B1'", "region": "westeurope", "parameters": {"sku": "S1"}}`,
			setupMocks: func(e *mockEstimator, a *mockArchive) {
				e.On("Estimate", mock.Anything, mock.MatchedBy(func(src cost.Source) bool {
					return src.Path == "app.bicep" &&
						src.ParamsPath == "parameters.json" &&
						string(src.Params) == `{"parameters":{"sku":{"value":"S1"}}}`
				}), "westeurope").Return(sampleReport(), nil)
				a.On("Save", mock.Anything, mock.MatchedBy(func(r *store.Report) bool {
					return r.ID == "r-1" && len(r.Items) == 1
				})).Return(nil)
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name: "arm without parameters",
			body: `{"content": "{}", "dialect": "ARM"}`,
			setupMocks: func(e *mockEstimator, a *mockArchive) {
				e.On("Estimate", mock.Anything, cost.Source{Path: "template.json", Content: []byte("{}")}, "").
					Return(sampleReport(), nil)
				a.On("Save", mock.Anything, mock.Anything).Return(nil)
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "invalid body",
			body:           `{"content":`,
			setupMocks:     func(*mockEstimator, *mockArchive) {},
			expectedStatus: http.StatusBadRequest,
			expectedError:  "invalid request body\n",
		},
		{
			name:           "missing content",
			body:           `{"dialect": "bicep"}`,
			setupMocks:     func(*mockEstimator, *mockArchive) {},
			expectedStatus: http.StatusBadRequest,
			expectedError:  "'content' is required\n",
		},
		{
			name:           "unknown dialect",
			body:           `{"content": "x", "dialect": "terraform"}`,
			setupMocks:     func(*mockEstimator, *mockArchive) {},
			expectedStatus: http.StatusBadRequest,
			expectedError:  "unsupported dialect \"terraform\". Expected bicep or arm\n",
		},
		{
			name: "estimator failure",
			body: `{"content": "x"}`,
			setupMocks: func(e *mockEstimator, _ *mockArchive) {
				e.On("Estimate", mock.Anything, mock.Anything, "").Return(nil, errors.New("boom"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedError:  "failed to estimate template\n",
		},
		{
			name: "archive failure",
			body: `{"content": "x"}`,
			setupMocks: func(e *mockEstimator, a *mockArchive) {
				e.On("Estimate", mock.Anything, mock.Anything, "").Return(sampleReport(), nil)
				a.On("Save", mock.Anything, mock.Anything).Return(errors.New("disk full"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedError:  "failed to archive report\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			estimator := new(mockEstimator)
			archive := new(mockArchive)
			tt.setupMocks(estimator, archive)
			handler := NewHandler(estimator, archive, new(mockPrices))

			req := httptest.NewRequest(http.MethodPost, "/estimates", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()

			handler.CreateEstimate(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)
			if tt.expectedError != "" {
				assert.Equal(t, tt.expectedError, rec.Body.String())
			} else {
				assert.Equal(t, adapters.MapDomainReportToApi(sampleReport()), decode[api.Estimate](t, rec))
			}
			estimator.AssertExpectations(t)
			archive.AssertExpectations(t)
		})
	}
}

func TestListEstimates(t *testing.T) {
	summaries := []store.ReportSummary{{ID: "r-1", Template: "app.bicep", Region: "westeurope", Currency: "USD", GeneratedAt: generatedAt, TotalMonthly: 73, ResourceCount: 1}}

	t.Run("default limit", func(t *testing.T) {
		archive := new(mockArchive)
		archive.On("List", mock.Anything, 0).Return(summaries, nil)
		rec := httptest.NewRecorder()

		NewHandler(nil, archive, nil).ListEstimates(rec, httptest.NewRequest(http.MethodGet, "/estimates", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, []api.EstimateSummary{adapters.MapStoreSummaryToApi(summaries[0])}, decode[[]api.EstimateSummary](t, rec))
	})

	t.Run("explicit limit on empty archive", func(t *testing.T) {
		archive := new(mockArchive)
		archive.On("List", mock.Anything, 5).Return([]store.ReportSummary{}, nil)
		rec := httptest.NewRecorder()

		NewHandler(nil, archive, nil).ListEstimates(rec, httptest.NewRequest(http.MethodGet, "/estimates?limit=5", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "[]\n", rec.Body.String())
	})

	t.Run("invalid limit", func(t *testing.T) {
		rec := httptest.NewRecorder()

		NewHandler(nil, new(mockArchive), nil).ListEstimates(rec, httptest.NewRequest(http.MethodGet, "/estimates?limit=abc", nil))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestGetEstimate(t *testing.T) {
	record, err := adapters.MapDomainReportToStore(sampleReport())
	require.NoError(t, err)

	tests := []struct {
		name           string
		id             string
		setupMock      func(*mockArchive)
		expectedStatus int
	}{
		{
			name: "found",
			id:   "r-1",
			setupMock: func(a *mockArchive) {
				a.On("Get", mock.Anything, "r-1").Return(record, nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name: "not found",
			id:   "r-2",
			setupMock: func(a *mockArchive) {
				a.On("Get", mock.Anything, "r-2").Return(nil, fmt.Errorf("%w: r-2", reports.ErrNotFound))
			},
			expectedStatus: http.StatusNotFound,
		},
		{
			name: "corrupt payload",
			id:   "r-3",
			setupMock: func(a *mockArchive) {
				a.On("Get", mock.Anything, "r-3").Return(&store.Report{ID: "r-3", Payload: []byte("{")}, nil)
			},
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			archive := new(mockArchive)
			tt.setupMock(archive)

			req := httptest.NewRequest(http.MethodGet, "/estimates/"+tt.id, nil)
			rctx := chi.NewRouteContext()
			rctx.URLParams.Add("id", tt.id)
			req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
			rec := httptest.NewRecorder()

			NewHandler(nil, archive, nil).GetEstimate(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)
			if tt.expectedStatus == http.StatusOK {
				assert.Equal(t, "r-1", decode[api.Estimate](t, rec).ID)
			}
			archive.AssertExpectations(t)
		})
	}
}

func TestGetPrice(t *testing.T) {
	price := &domain.PriceRecord{UnitPrice: 0.1, UnitOfMeasure: "1 Hour", MatchedSKU: "S1", ServiceName: "Azure App Service", Region: "eastus", Currency: "USD"}

	tests := []struct {
		name           string
		query          string
		setupMock      func(*mockPrices)
		expectedStatus int
		expectedBody   string
	}{
		{
			name:  "found",
			query: "service=Azure+App+Service&sku=S1&region=eastus",
			setupMock: func(m *mockPrices) {
				m.On("GetPrice", mock.Anything, "Azure App Service", "S1", "eastus", "Consumption").Return(price, nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:  "no match",
			query: "service=Azure+App+Service&sku=Z9&region=eastus",
			setupMock: func(m *mockPrices) {
				m.On("GetPrice", mock.Anything, "Azure App Service", "Z9", "eastus", "Consumption").Return(nil, nil)
			},
			expectedStatus: http.StatusNotFound,
			expectedBody:   "no pricing found for Z9 in eastus\n",
		},
		{
			name:  "upstream failure",
			query: "service=Azure+App+Service&sku=S1&region=eastus",
			setupMock: func(m *mockPrices) {
				m.On("GetPrice", mock.Anything, "Azure App Service", "S1", "eastus", "Consumption").Return(nil, errors.New("timeout"))
			},
			expectedStatus: http.StatusBadGateway,
			expectedBody:   "price lookup failed\n",
		},
		{
			name:           "missing region",
			query:          "service=Azure+App+Service&sku=S1",
			setupMock:      func(*mockPrices) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   "'service', 'sku' and 'region' are required\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prices := new(mockPrices)
			tt.setupMock(prices)
			rec := httptest.NewRecorder()

			NewHandler(nil, nil, prices).GetPrice(rec, httptest.NewRequest(http.MethodGet, "/prices?"+tt.query, nil))

			assert.Equal(t, tt.expectedStatus, rec.Code)
			if tt.expectedBody != "" {
				assert.Equal(t, tt.expectedBody, rec.Body.String())
			} else {
				body := decode[api.Price](t, rec)
				assert.Equal(t, "S1", body.SKU)
				assert.InDelta(t, 73.0, body.MonthlyCost, 1e-9)
			}
			prices.AssertExpectations(t)
		})
	}
}
