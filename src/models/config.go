package models

// MConfig Structure
type MConfig struct {
	Name      string          `yaml:"name" validate:"required"`
	Host      string          `yaml:"host" validate:"required"`
	Port      int             `yaml:"port" envconfig:"PORT"`
	LogLevel  string          `yaml:"log_level" envconfig:"LOG_LEVEL" validate:"omitempty,oneof=DEBUG INFO WARNING ERROR"`
	LogFormat string          `yaml:"log_format" envconfig:"LOG_FORMAT" validate:"omitempty,oneof=console json"`
	GrpcHost  string          `yaml:"grpc_host" envconfig:"GRPC_HOST"`
	GrpcPort  int             `yaml:"grpc_port" envconfig:"GRPC_PORT"`
	Source    MSourceConfig   `yaml:"source" envconfig:"SOURCE"`
	Cleaning  MCleaningConfig `yaml:"cleaning" envconfig:"CLEANING"`
	Forecast  MForecastConfig `yaml:"forecast" envconfig:"FORECAST"`
	Report    MReportConfig   `yaml:"report" envconfig:"REPORT"`
	Cache     MCacheConfig    `yaml:"cache" envconfig:"CACHE"`
	Network   MNetworkConfig  `yaml:"network" envconfig:"NETWORK"`
	Watch     MWatchConfig    `yaml:"watch" envconfig:"WATCH"`
}

// MSourceConfig describes where the transaction table is read from.
type MSourceConfig struct {
	Location string         `yaml:"location" envconfig:"LOCATION" validate:"required"`
	Sheet    string         `yaml:"sheet" envconfig:"SHEET"`
	Query    string         `yaml:"query" envconfig:"QUERY"`
	Columns  MColumnMapping `yaml:"columns"`
}

// MColumnMapping maps logical fields to header names in the input.
type MColumnMapping struct {
	DateSold     string `yaml:"date_sold" validate:"required"`
	Category     string `yaml:"category" validate:"required"`
	ProductName  string `yaml:"product_name" validate:"required"`
	QuantitySold string `yaml:"quantity_sold" validate:"required"`
	Price        string `yaml:"price" validate:"required"`
	TotalSales   string `yaml:"total_sales" validate:"required"`
}

type MCleaningConfig struct {
	DateLayouts []string `yaml:"date_layouts" envconfig:"DATE_LAYOUTS" validate:"min=1"`
}

type MForecastConfig struct {
	Horizon       []int `yaml:"horizon" envconfig:"HORIZON" validate:"min=1,dive,min=1"`
	ClampNegative bool  `yaml:"clamp_negative" envconfig:"CLAMP_NEGATIVE"`
	Parallel      int   `yaml:"parallel" envconfig:"PARALLEL" validate:"min=0"`
}

type MReportConfig struct {
	MonthLocale    string  `yaml:"month_locale" envconfig:"MONTH_LOCALE" validate:"oneof=pt en"`
	PriceThreshold float64 `yaml:"price_threshold" envconfig:"PRICE_THRESHOLD" validate:"gte=0"`
	CalendarMIC    string  `yaml:"calendar_mic" envconfig:"CALENDAR_MIC"`
	TopProducts    int     `yaml:"top_products" envconfig:"TOP_PRODUCTS" validate:"min=1"`
	SampleRows     int     `yaml:"sample_rows" envconfig:"SAMPLE_ROWS" validate:"gte=0"`
}

type MCacheConfig struct {
	Size int `yaml:"size" envconfig:"SIZE" validate:"min=1"`
}

type MNetworkConfig struct {
	RequestTimeout int    `yaml:"timeout" envconfig:"TIMEOUT" validate:"gt=0"`
	UserAgent      string `yaml:"user_agent" envconfig:"USER_AGENT"`
	Proxy          string `yaml:"proxy" envconfig:"PROXY"`
}

type MWatchConfig struct {
	Enabled    bool `yaml:"enabled" envconfig:"ENABLED"`
	DebounceMs int  `yaml:"debounce_ms" envconfig:"DEBOUNCE_MS" validate:"gte=0"`
}
