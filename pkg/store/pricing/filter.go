package pricing

import "strings"

// OData field names accepted by the retail prices API.
const (
	FieldServiceName     = "serviceName"
	FieldArmSkuName      = "armSkuName"
	FieldSkuName         = "skuName"
	FieldArmRegionName   = "armRegionName"
	FieldProductName     = "productName"
	FieldMeterName       = "meterName"
	FieldPriceType       = "priceType"
	FieldReservationTerm = "reservationTerm"
)

// Filter builds an OData $filter expression from and-joined clauses.
type Filter struct {
	clauses []string
}

func NewFilter() *Filter {
	return &Filter{}
}

// Eq adds `field eq 'value'`. Empty values are skipped.
func (f *Filter) Eq(field, value string) *Filter {
	if value == "" {
		return f
	}
	f.clauses = append(f.clauses, field+" eq "+quote(value))
	return f
}

// Contains adds `contains(field, 'value')`. Empty values are skipped.
func (f *Filter) Contains(field, value string) *Filter {
	if value == "" {
		return f
	}
	f.clauses = append(f.clauses, "contains("+field+", "+quote(value)+")")
	return f
}

func (f *Filter) String() string {
	return strings.Join(f.clauses, " and ")
}

func quote(v string) string {
	return "'" + strings.ReplaceAll(v, "'", "''") + "'"
}
