package cost

import (
	"context"
	"testing"

	"github.com/de-tools/iac-cost/pkg/models/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const inlineVM = `{
  "$schema": "https://schema.management.azure.com/schemas/2019-04-01/deploymentTemplate.json#",
  "parameters": {"vmSize": {"type": "string", "defaultValue": "Standard_B1s"}},
  "resources": [{
    "type": "Microsoft.Compute/virtualMachines",
    "name": "vm",
    "location": "[resourceGroup().location]",
    "properties": {"hardwareProfile": {"vmSize": "[parameters('vmSize')]"}}
  }]
}`

func TestService_Estimate(t *testing.T) {
	store := new(mockStore)
	store.On("GetVMPrices", mock.Anything, "Standard_D2s_v3", "northeurope", true, true).
		Return([]domain.PriceRecord{hourly(0.1, "Virtual Machines Dsv3 Series")}, nil).Once()
	store.On("GetReservedSavings", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(nil, nil)
	store.On("GetVMPrices", mock.Anything, "Standard_B1s", "eastus", true, true).
		Return([]domain.PriceRecord{hourly(0.01, "Virtual Machines BS Series")}, nil).Once()

	svc := NewService(store, Options{Region: "eastus"})
	ctx := context.Background()

	t.Run("request region and parameters", func(t *testing.T) {
		report, err := svc.Estimate(ctx, Source{
			Path:       "vm.json",
			Content:    []byte(inlineVM),
			ParamsPath: "parameters.json",
			Params:     []byte(`{"parameters": {"vmSize": {"value": "Standard_D2s_v3"}}}`),
		}, "northeurope")
		require.NoError(t, err)
		assert.Equal(t, "northeurope", report.Region)
		assert.InDelta(t, 73.0, report.TotalMonthlyCost, 0.001)
	})

	t.Run("default region", func(t *testing.T) {
		report, err := svc.Estimate(ctx, Source{Path: "vm.json", Content: []byte(inlineVM)}, "")
		require.NoError(t, err)
		assert.Equal(t, "eastus", report.Region)
		assert.InDelta(t, 7.3, report.TotalMonthlyCost, 0.001)
	})

	t.Run("unsupported dialect", func(t *testing.T) {
		_, err := svc.Estimate(ctx, Source{Path: "vm.tf"}, "")
		assert.ErrorIs(t, err, ErrUnsupportedTemplate)
	})

	store.AssertExpectations(t)
}
