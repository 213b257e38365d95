package server

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/de-tools/iac-cost/pkg/models/api"
	"github.com/de-tools/iac-cost/pkg/services/cost"
	"github.com/de-tools/iac-cost/pkg/store/duckdb"
	"github.com/de-tools/iac-cost/pkg/store/duckdb/reports"
	"github.com/de-tools/iac-cost/pkg/store/pricing"
	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const vmTemplate = `{
  "$schema": "https://schema.management.azure.com/schemas/2019-04-01/deploymentTemplate.json#",
  "parameters": {"vmSize": {"type": "string", "defaultValue": "Standard_B1s"}},
  "resources": [{
    "type": "Microsoft.Compute/virtualMachines",
    "name": "web",
    "location": "[resourceGroup().location]",
    "properties": {"hardwareProfile": {"vmSize": "[parameters('vmSize')]"}}
  }]
}`

func catalog(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		filter := r.URL.Query().Get("$filter")
		items := []map[string]any{}
		if strings.Contains(filter, "Standard_D2s_v3") && strings.Contains(filter, "'Consumption'") {
			items = append(items, map[string]any{
				"retailPrice":   0.1,
				"unitOfMeasure": "1 Hour",
				"productName":   "Virtual Machines Dsv3 Series",
				"serviceName":   "Virtual Machines",
				"armSkuName":    "Standard_D2s_v3",
				"skuName":       "D2s v3",
				"meterName":     "D2s v3",
				"type":          "Consumption",
			})
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"Items": items, "NextPageLink": ""})
	}))
	t.Cleanup(srv.Close)
	return srv
}

func setupServer(t *testing.T) *httptest.Server {
	t.Helper()

	db, err := duckdb.NewDB(duckdb.Settings{DbPath: ":memory:"})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	archive, err := reports.NewStore(db)
	require.NoError(t, err)

	prices := pricing.NewClient(pricing.Options{
		BaseURL:    catalog(t).URL,
		Currency:   "USD",
		Timeout:    5 * time.Second,
		MaxRetries: -1,
	})

	router := ConfigureRouter(zerolog.New(zerolog.NewTestWriter(t)), Dependencies{
		Estimator: cost.NewService(prices, cost.Options{Region: "eastus"}),
		Archive:   archive,
		Prices:    prices,
	})
	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv
}

func TestWebAPI_EstimateLifecycle(t *testing.T) {
	srv := setupServer(t)

	// Given
	body, err := json.Marshal(api.EstimateRequest{
		Name:       "vm",
		Content:    vmTemplate,
		Dialect:    api.DialectARM,
		Region:     "westus2",
		Parameters: map[string]any{"vmSize": "Standard_D2s_v3"},
	})
	require.NoError(t, err)

	// When
	resp, err := http.Post(srv.URL+"/api/v1/estimates", "application/json", strings.NewReader(string(body)))
	require.NoError(t, err)
	created := readJSON[api.Estimate](t, resp, http.StatusCreated)

	// Then
	assert.Equal(t, "vm.json", created.Template)
	assert.Equal(t, "westus2", created.Region)
	assert.InDelta(t, 73.0, created.TotalMonthly, 0.001)
	require.Len(t, created.Resources, 1)
	assert.Equal(t, "Standard_D2s_v3", created.Resources[0].SKU)

	resp, err = http.Get(srv.URL + "/api/v1/estimates/" + created.ID)
	require.NoError(t, err)
	fetched := readJSON[api.Estimate](t, resp, http.StatusOK)
	assert.Equal(t, created, fetched)

	resp, err = http.Get(srv.URL + "/api/v1/estimates")
	require.NoError(t, err)
	summaries := readJSON[[]api.EstimateSummary](t, resp, http.StatusOK)
	require.Len(t, summaries, 1)
	assert.Equal(t, created.ID, summaries[0].ID)
	assert.Equal(t, 1, summaries[0].ResourceCount)
}

func TestWebAPI_Endpoints(t *testing.T) {
	srv := setupServer(t)

	tests := []struct {
		name           string
		path           string
		expectedStatus int
		expectedBody   string
	}{
		{
			name:           "GetPrice",
			path:           "/api/v1/prices?service=Virtual+Machines&sku=Standard_D2s_v3&region=eastus",
			expectedStatus: http.StatusOK,
			expectedBody:   `"monthly_cost":73`,
		},
		{
			name:           "GetPrice_NoMatch",
			path:           "/api/v1/prices?service=Virtual+Machines&sku=Standard_B1s&region=eastus",
			expectedStatus: http.StatusNotFound,
			expectedBody:   "no pricing found for Standard_B1s in eastus\n",
		},
		{
			name:           "GetEstimate_Unknown",
			path:           "/api/v1/estimates/does-not-exist",
			expectedStatus: http.StatusNotFound,
			expectedBody:   "report does-not-exist not found\n",
		},
		{
			name:           "Metrics",
			path:           "/metrics",
			expectedStatus: http.StatusOK,
			expectedBody:   "iaccost_http_requests_total",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			resp, err := http.Get(srv.URL + tc.path)
			require.NoError(t, err, "Failed to send request")
			defer resp.Body.Close()

			assert.Equal(t, tc.expectedStatus, resp.StatusCode, "Status code mismatch")

			body, err := io.ReadAll(resp.Body)
			require.NoError(t, err, "Failed to read response body")
			assert.Contains(t, string(body), tc.expectedBody)
		})
	}
}

func TestNewWebAPI_DefaultShutdownTimeout(t *testing.T) {
	webAPI := NewWebAPI(zerolog.Nop(), Config{Addr: ":0"})
	assert.Equal(t, DefaultShutdownTimeout, webAPI.shutdownTimeout)
	assert.Equal(t, ":0", webAPI.server.Addr)
}

func readJSON[T any](t *testing.T, resp *http.Response, status int) T {
	t.Helper()
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.Equal(t, status, resp.StatusCode, string(data))

	var out T
	require.NoError(t, json.Unmarshal(data, &out))
	return out
}
