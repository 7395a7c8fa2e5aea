package config

import (
	"fmt"
	"os"
	"strings"

	"sales-observer/src/models"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// EnvPrefix is the prefix for environment overrides, e.g. SALES_OBSERVER_SOURCE_LOCATION.
const EnvPrefix = "SALES_OBSERVER"

// -----------------------------------------------------------------------------

// Config wraps models.MConfig and provides business logic methods
type Config struct {
	*models.MConfig
}

// -----------------------------------------------------------------------------

// Default returns a configuration that works against ./sales_data.csv.
func Default() *Config {
	return &Config{MConfig: &models.MConfig{
		Name:      "sales-observer",
		Host:      "127.0.0.1",
		Port:      8501,
		LogLevel:  "INFO",
		LogFormat: "console",
		GrpcHost:  "127.0.0.1",
		GrpcPort:  50051,
		Source: models.MSourceConfig{
			Location: "sales_data.csv",
			Query:    "SELECT * FROM sales",
			Columns:  DefaultColumns(),
		},
		Cleaning: models.MCleaningConfig{
			DateLayouts: []string{
				"2006-01-02",
				"2006-01-02 15:04:05",
				"2006-01-02T15:04:05Z07:00",
				"2006-01-02T15:04:05",
				"2006/01/02",
				"01/02/2006",
			},
		},
		Forecast: models.MForecastConfig{
			Horizon: []int{6, 7, 8, 9},
		},
		Report: models.MReportConfig{
			MonthLocale:    "pt",
			PriceThreshold: 100,
			CalendarMIC:    "xnys",
			TopProducts:    3,
			SampleRows:     5,
		},
		Cache:   models.MCacheConfig{Size: 8},
		Network: models.MNetworkConfig{RequestTimeout: 30, UserAgent: "sales-observer/1.0"},
		Watch:   models.MWatchConfig{DebounceMs: 500},
	}}
}

// DefaultColumns maps each logical column onto the header name of the same name.
func DefaultColumns() models.MColumnMapping {
	return models.MColumnMapping{
		DateSold:     models.ColDateSold,
		Category:     models.ColCategory,
		ProductName:  models.ColProductName,
		QuantitySold: models.ColQuantitySold,
		Price:        models.ColPrice,
		TotalSales:   models.ColTotalSales,
	}
}

// -----------------------------------------------------------------------------

// NewConfig creates a new Config from a YAML file layered over Default,
// then applies environment overrides. An empty path skips the file.
func NewConfig(configPath string) (*Config, error) {
	config := Default()

	// 1. Read the YAML file content
	if configPath != "" {
		data, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file '%s': %w", configPath, err)
		}

		// 2. Unmarshal data over the defaults
		if err := yaml.Unmarshal(data, config.MConfig); err != nil {
			return nil, fmt.Errorf("failed to parse config from YAML: %w", err)
		}
	}

	// 3. Environment wins over the file
	if err := envconfig.Process(EnvPrefix, config.MConfig); err != nil {
		return nil, fmt.Errorf("failed to apply environment overrides: %w", err)
	}

	// 4. Validate the loaded configuration
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return config, nil
}

// -----------------------------------------------------------------------------

var validate = validator.New()

// Validate performs configuration validation
func (c *Config) Validate() error {
	if err := validate.Struct(c.MConfig); err != nil {
		return err
	}

	if c.Port <= 1024 || c.Port > 65535 {
		return fmt.Errorf("invalid server port number: %d (must be between 1025 and 65535)", c.Port)
	}
	if c.GrpcPort != 0 {
		if c.GrpcPort <= 1024 || c.GrpcPort > 65535 {
			return fmt.Errorf("invalid grpc port number: %d (must be between 1025 and 65535)", c.GrpcPort)
		}
		if c.GrpcPort == c.Port && c.GrpcHost == c.Host {
			return fmt.Errorf("grpc and http servers cannot share %s:%d", c.Host, c.Port)
		}
	}

	// Horizon buckets must be distinct so every category gets exactly len(horizon) predictions
	seen := make(map[int]struct{}, len(c.Forecast.Horizon))
	for _, m := range c.Forecast.Horizon {
		if _, dup := seen[m]; dup {
			return fmt.Errorf("forecast horizon contains month %d twice", m)
		}
		seen[m] = struct{}{}
	}

	for i, layout := range c.Cleaning.DateLayouts {
		if strings.TrimSpace(layout) == "" {
			return fmt.Errorf("date layout %d cannot be empty", i)
		}
	}

	return nil
}

// -----------------------------------------------------------------------------

// Save persists the current configuration to the specified YAML file path
func (c *Config) Save(configPath string) error {
	// 1. Marshal the struct to YAML
	data, err := yaml.Marshal(c.MConfig)
	if err != nil {
		return fmt.Errorf("failed to marshal config to YAML: %w", err)
	}

	// 2. Write to file (0644 permissions)
	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config to file '%s': %w", configPath, err)
	}

	return nil
}
