package config

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
)

// Pie chart backends
const (
	PieBackendRaster  = "raster"
	PieBackendECharts = "echarts"
)

// Storage modes for chart exports
const (
	StorageLocal = "local"
	StorageGCS   = "gcs"
)

// Config holds all configuration for the budget chart service
type Config struct {
	// Server configuration
	Port               string   `env:"PORT,default=8080"`
	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS,default=*"`

	// Budget backend
	BudgetAPIURL   string        `env:"BUDGET_API_URL,default=http://localhost:3001"`
	BudgetPiePath  string        `env:"BUDGET_PIE_PATH,default=/budget"`
	BudgetBarPath  string        `env:"BUDGET_BAR_PATH,default=/new-budget-endpoint"`
	HTTPTimeout    time.Duration `env:"HTTP_TIMEOUT,default=10s"`
	HTTPRetryCount int           `env:"HTTP_RETRY_COUNT,default=0"`

	// Rendering
	PieBackend string `env:"PIE_BACKEND,default=raster"`
	MockupMode bool   `env:"MOCKUP_MODE,default=false"`

	// Chart export storage
	StorageMode    string `env:"STORAGE_MODE,default=local"`
	LocalExportDir string `env:"LOCAL_EXPORT_DIR,default=./exports"`
	GCSBucket      string `env:"GCS_BUCKET"`

	// Service configuration
	Environment string `env:"ENVIRONMENT,default=development"`
	LogLevel    string `env:"LOG_LEVEL,default=info"`
	LogFormat   string `env:"LOG_FORMAT,default=auto"`
}

// Load loads configuration from a .env file, an optional TOML file named by
// CONFIG_FILE and the process environment. Variables already set always win.
func Load(ctx context.Context) (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := applyFile(path); err != nil {
			return nil, err
		}
	}

	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// applyFile exports the keys of a TOML file as environment variables unless they are already set
func applyFile(path string) error {
	values := map[string]interface{}{}
	if _, err := toml.DecodeFile(path, &values); err != nil {
		return fmt.Errorf("failed to decode config file %s: %w", path, err)
	}

	for key, value := range values {
		if _, set := os.LookupEnv(key); set {
			continue
		}
		if err := os.Setenv(key, tomlValueString(value)); err != nil {
			return fmt.Errorf("failed to export %s: %w", key, err)
		}
	}
	return nil
}

func tomlValueString(value interface{}) string {
	switch v := value.(type) {
	case []interface{}:
		parts := make([]string, len(v))
		for i, item := range v {
			parts[i] = fmt.Sprint(item)
		}
		return strings.Join(parts, ",")
	default:
		return fmt.Sprint(v)
	}
}

// Validate checks values envconfig cannot check on its own
func (c *Config) Validate() error {
	u, err := url.Parse(c.BudgetAPIURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid BUDGET_API_URL %q", c.BudgetAPIURL)
	}

	switch c.PieBackend {
	case PieBackendRaster, PieBackendECharts:
	default:
		return fmt.Errorf("unsupported PIE_BACKEND %q", c.PieBackend)
	}

	switch c.StorageMode {
	case StorageLocal:
	case StorageGCS:
		if c.GCSBucket == "" {
			return fmt.Errorf("GCS_BUCKET is required when STORAGE_MODE=gcs")
		}
	default:
		return fmt.Errorf("unsupported STORAGE_MODE %q", c.StorageMode)
	}

	if c.HTTPRetryCount < 0 {
		return fmt.Errorf("HTTP_RETRY_COUNT must not be negative")
	}
	return nil
}

// ResolvedLogFormat maps "auto" to json in production and text elsewhere
func (c *Config) ResolvedLogFormat() string {
	if c.LogFormat != "auto" && c.LogFormat != "" {
		return c.LogFormat
	}
	if c.Environment == "production" {
		return "json"
	}
	return "text"
}
