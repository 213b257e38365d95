package pricing

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_GetStorageAccountPrice(t *testing.T) {
	catalog := &fakeCatalog{respond: single(
		RetailItem{RetailPrice: 0.05, MeterName: "LRS Write Operations", SkuName: "Hot LRS"},
		RetailItem{RetailPrice: 0.015, MeterName: "Cool LRS Data Stored", SkuName: "Cool LRS"},
		RetailItem{RetailPrice: 0.0184, MeterName: "Hot LRS Data Stored", SkuName: "Hot LRS"},
	)}
	client := newTestClient(t, catalog, false)

	price, err := client.GetStorageAccountPrice(context.Background(), "Standard_LRS", "eastus")
	require.NoError(t, err)
	require.NotNil(t, price)
	assert.Equal(t, 0.0184, price.UnitPrice)
	assert.Contains(t, catalog.seenFilters()[0], "contains(skuName, 'Standard LRS')")
}

func TestClient_GetAppServicePlanPrice(t *testing.T) {
	tests := []struct {
		name     string
		items    []RetailItem
		expected float64
	}{
		{
			name: "prefers linux",
			items: []RetailItem{
				{RetailPrice: 0.1, ProductName: "Azure App Service Standard Plan"},
				{RetailPrice: 0.095, ProductName: "Azure App Service Standard Plan - Linux"},
			},
			expected: 0.095,
		},
		{
			name: "skips windows fallback",
			items: []RetailItem{
				{RetailPrice: 0.2, ProductName: "Azure App Service Standard Plan - Windows"},
				{RetailPrice: 0.1, ProductName: "Azure App Service Standard Plan"},
			},
			expected: 0.1,
		},
		{
			name:     "first item when only windows",
			items:    []RetailItem{{RetailPrice: 0.2, ProductName: "Azure App Service Standard Plan - Windows"}},
			expected: 0.2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, &fakeCatalog{respond: single(tt.items...)}, false)

			price, err := client.GetAppServicePlanPrice(context.Background(), "S1", "eastus")
			require.NoError(t, err)
			require.NotNil(t, price)
			assert.Equal(t, tt.expected, price.UnitPrice)
		})
	}

	client := newTestClient(t, &fakeCatalog{respond: single()}, false)
	price, err := client.GetAppServicePlanPrice(context.Background(), "S1", "eastus")
	require.NoError(t, err)
	assert.Nil(t, price)
}

func TestClient_GetStaticWebAppPrice(t *testing.T) {
	catalog := &fakeCatalog{respond: single(
		RetailItem{RetailPrice: 0.2, MeterName: "Standard Bandwidth Usage"},
		RetailItem{RetailPrice: 9, MeterName: "Standard App", UnitOfMeasure: "1/Month"},
	)}
	client := newTestClient(t, catalog, false)

	price, err := client.GetStaticWebAppPrice(context.Background(), "Standard", "eastus")
	require.NoError(t, err)
	require.NotNil(t, price)
	assert.Equal(t, 9.0, price.MonthlyCost())
}

func TestClient_GetContainerRegistryPrice(t *testing.T) {
	catalog := &fakeCatalog{respond: single(
		RetailItem{RetailPrice: 0, MeterName: "Basic Registry Unit"},
		RetailItem{RetailPrice: 0.1666, MeterName: "Basic Registry Unit", UnitOfMeasure: "1/Day"},
	)}
	client := newTestClient(t, catalog, false)

	price, err := client.GetContainerRegistryPrice(context.Background(), "Basic", "eastus")
	require.NoError(t, err)
	require.NotNil(t, price)
	assert.Equal(t, 0.1666, price.UnitPrice)
	assert.Contains(t, catalog.seenFilters()[0], "contains(meterName, 'Basic Registry Unit')")
}

func TestClient_GetLogAnalyticsPrice(t *testing.T) {
	t.Run("pay-as-you-go", func(t *testing.T) {
		catalog := &fakeCatalog{respond: single(
			RetailItem{RetailPrice: 196, MeterName: "100 GB Commitment Tier Data Ingestion", SkuName: "100 GB Commitment Tier"},
			RetailItem{RetailPrice: 2.76, MeterName: "Pay-as-you-go Data Ingestion", SkuName: "Pay-as-you-go"},
		)}
		price, err := newTestClient(t, catalog, false).GetLogAnalyticsPrice(context.Background(), "eastus")
		require.NoError(t, err)
		require.NotNil(t, price)
		assert.Equal(t, 2.76, price.UnitPrice)
	})

	t.Run("only commitment tiers", func(t *testing.T) {
		catalog := &fakeCatalog{respond: single(
			RetailItem{RetailPrice: 196, MeterName: "100 GB Commitment Tier Data Ingestion", SkuName: "100 GB Commitment Tier"},
		)}
		price, err := newTestClient(t, catalog, false).GetLogAnalyticsPrice(context.Background(), "eastus")
		require.NoError(t, err)
		assert.Nil(t, price)
	})
}

func TestClient_GetFunctionAppPrices(t *testing.T) {
	catalog := &fakeCatalog{respond: single(
		RetailItem{RetailPrice: 0.0000173, MeterName: "Premium Execution Time", SkuName: "Premium"},
		RetailItem{RetailPrice: 2, MeterName: "Standard Total Executions", SkuName: "Standard", UnitOfMeasure: "10M"},
		RetailItem{RetailPrice: 0.000016, MeterName: "Standard Execution Time", SkuName: "Standard", UnitOfMeasure: "1 GB Second"},
	)}
	rates, err := newTestClient(t, catalog, false).GetFunctionAppPrices(context.Background(), "eastus")
	require.NoError(t, err)

	assert.InDelta(t, 0.2, rates.ExecutionPerMillion, 1e-12)
	assert.InDelta(t, 0.000016, rates.GBSecond, 1e-12)
}

func TestClient_GetContainerAppsRates(t *testing.T) {
	catalog := &fakeCatalog{respond: func(filter string) [][]RetailItem {
		if strings.Contains(filter, "'vCPU'") {
			return [][]RetailItem{{
				{RetailPrice: 0.000003, MeterName: "Standard vCPU Idle Usage", SkuName: "Consumption", UnitOfMeasure: "1 Second"},
				{RetailPrice: 0.0864, MeterName: "Standard vCPU Active Usage", SkuName: "Consumption", UnitOfMeasure: "1 Hour"},
			}}
		}
		return [][]RetailItem{{
			{RetailPrice: 0.000003, MeterName: "Standard Memory Active Usage", SkuName: "Consumption", UnitOfMeasure: "1 Second"},
		}}
	}}
	rates, err := newTestClient(t, catalog, false).GetContainerAppsRates(context.Background(), "eastus")
	require.NoError(t, err)

	assert.InDelta(t, 0.000024, rates.VCPUPerSecond, 1e-12)
	assert.InDelta(t, 0.000003, rates.MemoryPerGiBSecond, 1e-12)
}

func TestClient_EstimateVMCost(t *testing.T) {
	catalog := &fakeCatalog{respond: func(filter string) [][]RetailItem {
		switch {
		case strings.Contains(filter, "'3 Years'"):
			return [][]RetailItem{{{RetailPrice: 1000, UnitOfMeasure: "1 Hour"}}}
		case strings.Contains(filter, "reservationTerm"):
			return [][]RetailItem{{}}
		}
		return [][]RetailItem{{
			{RetailPrice: 0.2, UnitOfMeasure: "1 Hour", ProductName: "Virtual Machines Dsv3 Series Windows"},
			{RetailPrice: 0.1, UnitOfMeasure: "1 Hour", ProductName: "Virtual Machines Dsv3 Series"},
		}}
	}}
	client := newTestClient(t, catalog, false)

	estimate, err := client.EstimateVMCost(context.Background(), "Standard_D2s_v3", "eastus", "")
	require.NoError(t, err)
	require.NotNil(t, estimate)
	assert.Equal(t, "Linux", estimate.OSType)
	assert.InDelta(t, 73.0, estimate.MonthlyCost, 1e-9)
	require.NotNil(t, estimate.Savings)
	assert.Nil(t, estimate.Savings.Reserved1YrMonthly)
	require.NotNil(t, estimate.Savings.Reserved3YrMonthly)

	estimate, err = client.EstimateVMCost(context.Background(), "Standard_D2s_v3", "eastus", "Windows")
	require.NoError(t, err)
	assert.InDelta(t, 0.2, estimate.HourlyCost, 1e-12)
}

func TestClient_EstimateVMCost_NoMatch(t *testing.T) {
	client := newTestClient(t, &fakeCatalog{respond: single()}, false)

	estimate, err := client.EstimateVMCost(context.Background(), "Standard_Z9", "eastus", "Linux")
	require.NoError(t, err)
	assert.Nil(t, estimate)
}
