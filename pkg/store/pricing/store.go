package pricing

import (
	"context"

	"github.com/de-tools/iac-cost/pkg/models/domain"
)

const (
	ConsumptionPriceType = "Consumption"
	ReservationPriceType = "Reservation"
)

// Store is the price source the cost engine depends on. Lookups return
// (nil, nil) when the catalog has no match.
type Store interface {
	GetPrice(ctx context.Context, service, sku, region, priceType string) (*domain.PriceRecord, error)
	GetVMPrices(ctx context.Context, sku, region string, includeWindows, includeLinux bool) ([]domain.PriceRecord, error)
	GetReservedSavings(ctx context.Context, service, sku, region string) (*domain.SavingsInfo, error)

	GetStorageAccountPrice(ctx context.Context, sku, region string) (*domain.PriceRecord, error)
	GetContainerRegistryPrice(ctx context.Context, tier, region string) (*domain.PriceRecord, error)
	GetAppServicePlanPrice(ctx context.Context, sku, region string) (*domain.PriceRecord, error)
	GetStaticWebAppPrice(ctx context.Context, tier, region string) (*domain.PriceRecord, error)
	GetLogAnalyticsPrice(ctx context.Context, region string) (*domain.PriceRecord, error)
	GetFunctionAppPrices(ctx context.Context, region string) (*FunctionRates, error)
	GetContainerAppsRates(ctx context.Context, region string) (*ConsumptionRates, error)
}
