package cost

import (
	"context"

	"github.com/de-tools/iac-cost/pkg/models/domain"
	"github.com/de-tools/iac-cost/pkg/store/pricing"
	"github.com/stretchr/testify/mock"
)

type mockStore struct{ mock.Mock }

func (m *mockStore) GetPrice(ctx context.Context, service, sku, region, priceType string) (*domain.PriceRecord, error) {
	args := m.Called(ctx, service, sku, region, priceType)
	return priceArg(args), args.Error(1)
}

func (m *mockStore) GetVMPrices(ctx context.Context, sku, region string, includeWindows, includeLinux bool) ([]domain.PriceRecord, error) {
	args := m.Called(ctx, sku, region, includeWindows, includeLinux)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PriceRecord), args.Error(1)
}

func (m *mockStore) GetReservedSavings(ctx context.Context, service, sku, region string) (*domain.SavingsInfo, error) {
	args := m.Called(ctx, service, sku, region)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SavingsInfo), args.Error(1)
}

func (m *mockStore) GetStorageAccountPrice(ctx context.Context, sku, region string) (*domain.PriceRecord, error) {
	args := m.Called(ctx, sku, region)
	return priceArg(args), args.Error(1)
}

func (m *mockStore) GetContainerRegistryPrice(ctx context.Context, tier, region string) (*domain.PriceRecord, error) {
	args := m.Called(ctx, tier, region)
	return priceArg(args), args.Error(1)
}

func (m *mockStore) GetAppServicePlanPrice(ctx context.Context, sku, region string) (*domain.PriceRecord, error) {
	args := m.Called(ctx, sku, region)
	return priceArg(args), args.Error(1)
}

func (m *mockStore) GetStaticWebAppPrice(ctx context.Context, tier, region string) (*domain.PriceRecord, error) {
	args := m.Called(ctx, tier, region)
	return priceArg(args), args.Error(1)
}

func (m *mockStore) GetLogAnalyticsPrice(ctx context.Context, region string) (*domain.PriceRecord, error) {
	args := m.Called(ctx, region)
	return priceArg(args), args.Error(1)
}

func (m *mockStore) GetFunctionAppPrices(ctx context.Context, region string) (*pricing.FunctionRates, error) {
	args := m.Called(ctx, region)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*pricing.FunctionRates), args.Error(1)
}

func (m *mockStore) GetContainerAppsRates(ctx context.Context, region string) (*pricing.ConsumptionRates, error) {
	args := m.Called(ctx, region)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*pricing.ConsumptionRates), args.Error(1)
}

func priceArg(args mock.Arguments) *domain.PriceRecord {
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).(*domain.PriceRecord)
}

// emptyCatalog answers every lookup not expected earlier with no match.
// Register specific expectations before calling it.
func (m *mockStore) emptyCatalog() *mockStore {
	return m.failingCatalog(nil)
}

// failingCatalog answers every lookup not expected earlier with err.
func (m *mockStore) failingCatalog(err error) *mockStore {
	any4 := []any{mock.Anything, mock.Anything, mock.Anything, mock.Anything}
	m.On("GetPrice", append(any4, mock.Anything)...).Return(nil, err).Maybe()
	m.On("GetVMPrices", append(any4, mock.Anything)...).Return(nil, err).Maybe()
	m.On("GetReservedSavings", any4...).Return(nil, err).Maybe()
	for _, method := range []string{"GetStorageAccountPrice", "GetContainerRegistryPrice", "GetAppServicePlanPrice", "GetStaticWebAppPrice"} {
		m.On(method, mock.Anything, mock.Anything, mock.Anything).Return(nil, err).Maybe()
	}
	for _, method := range []string{"GetLogAnalyticsPrice", "GetFunctionAppPrices", "GetContainerAppsRates"} {
		m.On(method, mock.Anything, mock.Anything).Return(nil, err).Maybe()
	}
	return m
}

var _ pricing.Store = (*mockStore)(nil)
