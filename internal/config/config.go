package config

import (
	"errors"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	DataPath        string        `envconfig:"DATA_PATH" default:"data/FAWN_Newreport_features.csv"`
	HTTPAddr        string        `envconfig:"HTTP_ADDR" default:":8080"`
	LogLevel        string        `envconfig:"LOG_LEVEL" default:"info"`
	LogFormat       string        `envconfig:"LOG_FORMAT" default:"json"`
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"10s"`

	// StrictTimestamps makes loading fail on an unparseable Period cell
	// instead of coercing it to missing.
	StrictTimestamps bool `envconfig:"STRICT_TIMESTAMPS" default:"false"`

	// MaxSamplePoints caps the scatter-plot sample size regardless of the
	// requested n.
	MaxSamplePoints int `envconfig:"MAX_SAMPLE_POINTS" default:"1000"`

	// DefaultHistogramBins applies when a histogram request omits bins.
	DefaultHistogramBins int `envconfig:"DEFAULT_HISTOGRAM_BINS" default:"50"`

	// MaxHistogramBins caps the bins query parameter; bin slices are
	// allocated per request, so this bounds what one query can ask for.
	MaxHistogramBins int `envconfig:"MAX_HISTOGRAM_BINS" default:"500"`

	// ExportPrefix is the filename prefix for CSV downloads.
	ExportPrefix string `envconfig:"EXPORT_PREFIX" default:"fawn_filtered"`
}

// Load reads configuration from environment variables, applying defaults
// where unset.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}

	if cfg.DataPath == "" {
		return nil, errors.New("DATA_PATH is required")
	}
	if cfg.HTTPAddr == "" {
		return nil, errors.New("HTTP_ADDR is required")
	}
	if cfg.ShutdownTimeout <= 0 {
		return nil, errors.New("SHUTDOWN_TIMEOUT must be positive")
	}
	if cfg.MaxSamplePoints <= 0 {
		return nil, errors.New("MAX_SAMPLE_POINTS must be positive")
	}
	if cfg.DefaultHistogramBins <= 0 {
		return nil, errors.New("DEFAULT_HISTOGRAM_BINS must be positive")
	}
	if cfg.MaxHistogramBins < cfg.DefaultHistogramBins {
		return nil, errors.New("MAX_HISTOGRAM_BINS must be at least DEFAULT_HISTOGRAM_BINS")
	}
	if cfg.ExportPrefix == "" {
		return nil, errors.New("EXPORT_PREFIX is required")
	}

	return &cfg, nil
}
