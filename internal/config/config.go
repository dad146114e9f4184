// Package config provides configuration loading and validation for the CLI.
package config

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// EnvPrefix namespaces environment overrides, e.g. TLF_ORIGIN or TLF_TIMEOUT.
const EnvPrefix = "TLF"

// Config represents the CLI configuration. Values come from defaults, an
// optional config file and TLF_* environment variables, in rising priority.
// CLI flags are applied on top by the caller.
type Config struct {
	Origin    string `mapstructure:"origin" validate:"required,url"`   // Directory site origin
	Locale    string `mapstructure:"locale" validate:"required,alpha"` // Locale segment of the data path
	UserAgent string `mapstructure:"user_agent"`                       // User-Agent header sent upstream
	Output    string `mapstructure:"output" validate:"oneof=plain table json"`

	Timeout     time.Duration `mapstructure:"timeout" validate:"gt=0"` // Per-request timeout
	Concurrency int           `mapstructure:"concurrency" validate:"min=1,max=16"`
	RateLimit   float64       `mapstructure:"rate_limit" validate:"gte=0"` // Requests per second; 0 is unlimited

	UseBrowser bool `mapstructure:"use_browser"` // Render the root page in headless Chrome when the token is missing
	Color      bool `mapstructure:"color"`       // Bold names in plain output
	Verbose    bool `mapstructure:"verbose"`     // Debug logging and diagnostic boxes
}

// ValidationError reports the first configuration field that failed validation.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("config error: '%s' %s", e.Field, e.Message)
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Origin:      "https://www.gulesider.no",
		Locale:      "nb",
		UserAgent:   "Mozilla/5.0 (compatible; tlf/1.0)",
		Output:      "plain",
		Timeout:     10 * time.Second,
		Concurrency: 1,
	}
}

// Load builds a Config from defaults, the file at path (skipped when empty)
// and the environment. The file format follows its extension (json, yaml, toml).
func Load(path string) (*Config, error) {
	v := viper.New()

	def := Default()
	v.SetDefault("origin", def.Origin)
	v.SetDefault("locale", def.Locale)
	v.SetDefault("user_agent", def.UserAgent)
	v.SetDefault("output", def.Output)
	v.SetDefault("timeout", def.Timeout)
	v.SetDefault("concurrency", def.Concurrency)
	v.SetDefault("rate_limit", def.RateLimit)
	v.SetDefault("use_browser", false)
	v.SetDefault("color", false)
	v.SetDefault("verbose", false)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return &cfg, nil
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("mapstructure"), ",", 2)[0]
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	return v
}

// Validate checks that the configuration has usable values.
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return fmt.Errorf("config error: %w", err)
	}

	fe := fieldErrs[0]
	return &ValidationError{Field: fe.Field(), Message: describe(fe)}
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "url":
		return "must be an absolute URL"
	case "alpha":
		return "must contain letters only"
	case "gt":
		return "must be positive"
	case "gte":
		return "must not be negative"
	case "min":
		return "must be at least " + fe.Param()
	case "max":
		return "must be at most " + fe.Param()
	case "oneof":
		return "must be one of: " + fe.Param()
	default:
		return "failed '" + fe.Tag() + "' check"
	}
}

// MergeWithDefaults returns a new Config with zero fields filled from defaults.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	if result.Origin == "" {
		result.Origin = defaults.Origin
	}
	if result.Locale == "" {
		result.Locale = defaults.Locale
	}
	if result.UserAgent == "" {
		result.UserAgent = defaults.UserAgent
	}
	if result.Output == "" {
		result.Output = defaults.Output
	}
	if result.Timeout == 0 {
		result.Timeout = defaults.Timeout
	}
	if result.Concurrency == 0 {
		result.Concurrency = defaults.Concurrency
	}

	// Bool fields: cannot distinguish unset from false, so we don't merge
	// (CLI flags should always win for bools)

	return result
}
