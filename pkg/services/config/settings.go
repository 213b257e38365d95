package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/de-tools/iac-cost/pkg/services/cost"
	"github.com/de-tools/iac-cost/pkg/store/pricing"
	"github.com/goccy/go-json"
	"github.com/spf13/viper"
)

// EnvPrefix namespaces environment overrides, e.g. IACCOST_PRICING_TIMEOUT.
const EnvPrefix = "IACCOST"

type PricingSettings struct {
	BaseURL    string        `mapstructure:"base_url"`
	Timeout    time.Duration `mapstructure:"timeout"`
	MaxRetries int32         `mapstructure:"max_retries"`
	Strict     bool          `mapstructure:"strict"`
}

type Settings struct {
	Region   string          `mapstructure:"region"`
	Currency string          `mapstructure:"currency"`
	Pricing  PricingSettings `mapstructure:"pricing"`
	Rates    cost.Rates      `mapstructure:"rates"`
}

// LoadSettings reads a YAML, JSON or TOML settings file on top of the
// built-in defaults. An empty or missing path yields the defaults; the
// environment overrides both.
func LoadSettings(path string) (*Settings, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := setDefaults(v); err != nil {
		return nil, err
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to read settings file: %w", err)
		}
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return nil, fmt.Errorf("failed to parse settings: %w", err)
	}
	return &s, nil
}

func setDefaults(v *viper.Viper) error {
	v.SetDefault("region", cost.DefaultRegion)
	v.SetDefault("currency", cost.DefaultCurrency)
	v.SetDefault("pricing.base_url", pricing.DefaultBaseURL)
	v.SetDefault("pricing.timeout", pricing.DefaultTimeout)
	v.SetDefault("pricing.max_retries", 3)
	v.SetDefault("pricing.strict", false)

	// Rate defaults are registered key by key so each one can be
	// overridden individually from the file or the environment.
	raw, err := json.Marshal(cost.DefaultRates())
	if err != nil {
		return fmt.Errorf("failed to encode default rates: %w", err)
	}
	var rates map[string]any
	if err := json.Unmarshal(raw, &rates); err != nil {
		return fmt.Errorf("failed to decode default rates: %w", err)
	}
	for key, value := range rates {
		v.SetDefault("rates."+key, value)
	}
	return nil
}

// PricingOptions configures the retail prices client.
func (s *Settings) PricingOptions() pricing.Options {
	return pricing.Options{
		BaseURL:    s.Pricing.BaseURL,
		Currency:   s.Currency,
		Timeout:    s.Pricing.Timeout,
		MaxRetries: s.Pricing.MaxRetries,
		Strict:     s.Pricing.Strict,
	}
}

// CalculatorOptions configures the cost engine.
func (s *Settings) CalculatorOptions() cost.Options {
	rates := s.Rates
	return cost.Options{
		Region:   s.Region,
		Currency: s.Currency,
		Rates:    &rates,
	}
}

// ApplyProfile overrides region and currency with the profile's non-empty values.
func (s *Settings) ApplyProfile(p *Profile) {
	if p == nil {
		return
	}
	if p.Region != "" {
		s.Region = p.Region
	}
	if p.Currency != "" {
		s.Currency = p.Currency
	}
}
