package cost

import "strings"

// Rates holds the static fallback prices and usage assumptions used when the
// catalog has no usable match. Every field can be overridden from settings.
type Rates struct {
	// Per-second consumption rates shared by container apps and jobs.
	VCPUSecond      float64 `mapstructure:"vcpu_second" json:"vcpu_second"`
	MemoryGiBSecond float64 `mapstructure:"memory_gib_second" json:"memory_gib_second"`
	FreeVCPUSeconds float64 `mapstructure:"free_vcpu_seconds" json:"free_vcpu_seconds"`
	FreeGiBSeconds  float64 `mapstructure:"free_gib_seconds" json:"free_gib_seconds"`

	LogMonthlyGB      float64 `mapstructure:"log_monthly_gb" json:"log_monthly_gb"`
	LogIngestionPerGB float64 `mapstructure:"log_ingestion_per_gb" json:"log_ingestion_per_gb"`
	LogRetentionPerGB float64 `mapstructure:"log_retention_per_gb" json:"log_retention_per_gb"`
	LogFreeRetention  int     `mapstructure:"log_free_retention_days" json:"log_free_retention_days"`
	TelemetryFreeGB   float64 `mapstructure:"telemetry_free_gb" json:"telemetry_free_gb"`

	StaticSiteStandard float64 `mapstructure:"static_site_standard" json:"static_site_standard"`

	// RegistryDaily is the per-day price keyed by registry tier.
	RegistryDaily map[string]float64 `mapstructure:"registry_daily" json:"registry_daily"`

	StorageGB           float64            `mapstructure:"storage_gb" json:"storage_gb"`
	StoragePerGB        map[string]float64 `mapstructure:"storage_per_gb" json:"storage_per_gb"`
	StorageDefaultPerGB float64            `mapstructure:"storage_default_per_gb" json:"storage_default_per_gb"`

	FunctionExecutions          float64 `mapstructure:"function_executions" json:"function_executions"`
	FunctionDurationSeconds     float64 `mapstructure:"function_duration_seconds" json:"function_duration_seconds"`
	FunctionMemoryGB            float64 `mapstructure:"function_memory_gb" json:"function_memory_gb"`
	FunctionFreeExecutions      float64 `mapstructure:"function_free_executions" json:"function_free_executions"`
	FunctionFreeGBSeconds       float64 `mapstructure:"function_free_gb_seconds" json:"function_free_gb_seconds"`
	FunctionExecutionPerMillion float64 `mapstructure:"function_execution_per_million" json:"function_execution_per_million"`
	FunctionGBSecond            float64 `mapstructure:"function_gb_second" json:"function_gb_second"`
}

func DefaultRates() Rates {
	return Rates{
		VCPUSecond:      0.000024,
		MemoryGiBSecond: 0.000003,
		FreeVCPUSeconds: 180_000,
		FreeGiBSeconds:  360_000,

		LogMonthlyGB:      5,
		LogIngestionPerGB: 2.76,
		LogRetentionPerGB: 0.12,
		LogFreeRetention:  31,
		TelemetryFreeGB:   5,

		StaticSiteStandard: 9.00,

		RegistryDaily: map[string]float64{
			"Basic":    0.167,
			"Standard": 0.667,
			"Premium":  1.667,
		},

		StorageGB: 100,
		StoragePerGB: map[string]float64{
			"Standard_LRS":  0.018,
			"Standard_GRS":  0.036,
			"Standard_ZRS":  0.023,
			"Standard_GZRS": 0.040,
			"Premium_LRS":   0.15,
		},
		StorageDefaultPerGB: 0.02,

		FunctionExecutions:          100_000,
		FunctionDurationSeconds:     1,
		FunctionMemoryGB:            0.25,
		FunctionFreeExecutions:      1_000_000,
		FunctionFreeGBSeconds:       400_000,
		FunctionExecutionPerMillion: 0.20,
		FunctionGBSecond:            0.000016,
	}
}

// lookupRate finds key in a rate table. Settings loaders lower-case map
// keys, so an exact miss falls back to a case-insensitive match.
func lookupRate(table map[string]float64, key string) (float64, bool) {
	if rate, ok := table[key]; ok {
		return rate, true
	}
	for k, rate := range table {
		if strings.EqualFold(k, key) {
			return rate, true
		}
	}
	return 0, false
}
