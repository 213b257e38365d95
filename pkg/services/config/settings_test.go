package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/de-tools/iac-cost/pkg/services/cost"
	"github.com/de-tools/iac-cost/pkg/store/pricing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadSettings_Defaults(t *testing.T) {
	// Given
	missing := filepath.Join(t.TempDir(), "absent.yaml")

	for _, path := range []string{"", missing} {
		// When
		s, err := LoadSettings(path)

		// Then
		require.NoError(t, err)
		assert.Equal(t, "eastus", s.Region)
		assert.Equal(t, "USD", s.Currency)
		assert.Equal(t, pricing.DefaultBaseURL, s.Pricing.BaseURL)
		assert.Equal(t, 30*time.Second, s.Pricing.Timeout)
		assert.Equal(t, int32(3), s.Pricing.MaxRetries)
		assert.False(t, s.Pricing.Strict)

		defaults := cost.DefaultRates()
		assert.Equal(t, defaults.VCPUSecond, s.Rates.VCPUSecond)
		assert.Equal(t, defaults.LogFreeRetention, s.Rates.LogFreeRetention)
		assert.Equal(t, defaults.StorageGB, s.Rates.StorageGB)
		assert.Len(t, s.Rates.StoragePerGB, len(defaults.StoragePerGB))
		assert.InDelta(t, 0.15, s.Rates.StoragePerGB["premium_lrs"], 1e-9)
	}
}

func TestLoadSettings_File(t *testing.T) {
	// Given
	path := filepath.Join(t.TempDir(), "settings.yaml")
	content := `region: westeurope
currency: EUR
pricing:
  timeout: 5s
  strict: true
rates:
  storage_gb: 250
  storage_per_gb:
    premium_lrs: 0.2
  log_free_retention_days: 60
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	// When
	s, err := LoadSettings(path)

	// Then
	require.NoError(t, err)
	assert.Equal(t, "westeurope", s.Region)
	assert.Equal(t, "EUR", s.Currency)
	assert.Equal(t, 5*time.Second, s.Pricing.Timeout)
	assert.True(t, s.Pricing.Strict)
	assert.Equal(t, pricing.DefaultBaseURL, s.Pricing.BaseURL)
	assert.Equal(t, 250.0, s.Rates.StorageGB)
	assert.Equal(t, 0.2, s.Rates.StoragePerGB["premium_lrs"])
	assert.InDelta(t, 0.018, s.Rates.StoragePerGB["standard_lrs"], 1e-9)
	assert.Equal(t, 60, s.Rates.LogFreeRetention)
	assert.Equal(t, cost.DefaultRates().VCPUSecond, s.Rates.VCPUSecond)

	opts := s.PricingOptions()
	assert.Equal(t, "EUR", opts.Currency)
	assert.Equal(t, 5*time.Second, opts.Timeout)

	calc := s.CalculatorOptions()
	assert.Equal(t, "westeurope", calc.Region)
	require.NotNil(t, calc.Rates)
	assert.Equal(t, 250.0, calc.Rates.StorageGB)
}

func TestLoadSettings_Environment(t *testing.T) {
	// Given
	t.Setenv("IACCOST_REGION", "japaneast")
	t.Setenv("IACCOST_PRICING_MAX_RETRIES", "7")
	t.Setenv("IACCOST_RATES_VCPU_SECOND", "0.00003")

	// When
	s, err := LoadSettings("")

	// Then
	require.NoError(t, err)
	assert.Equal(t, "japaneast", s.Region)
	assert.Equal(t, int32(7), s.Pricing.MaxRetries)
	assert.Equal(t, 0.00003, s.Rates.VCPUSecond)
}

func TestLoadSettings_InvalidFile(t *testing.T) {
	// Given
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("region: eastus: bad"), 0o644))

	// When
	_, err := LoadSettings(path)

	// Then
	assert.Error(t, err)
}

func TestSettings_ApplyProfile(t *testing.T) {
	s := &Settings{Region: "eastus", Currency: "USD"}

	s.ApplyProfile(nil)
	assert.Equal(t, "eastus", s.Region)

	s.ApplyProfile(&Profile{Name: "eu", Region: "northeurope"})
	assert.Equal(t, "northeurope", s.Region)
	assert.Equal(t, "USD", s.Currency)

	s.ApplyProfile(&Profile{Name: "gbp", Currency: "GBP"})
	assert.Equal(t, "northeurope", s.Region)
	assert.Equal(t, "GBP", s.Currency)
}
