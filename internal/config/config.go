package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// Config represents the complete application configuration
type Config struct {
	Logging  LoggingConfig  `yaml:"logging" envconfig:"LOGGING"`
	Paths    PathsConfig    `yaml:"paths" envconfig:"PATHS"`
	Analysis AnalysisConfig `yaml:"analysis" envconfig:"ANALYSIS"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" validate:"oneof=debug info warn error"`
	Format   string `yaml:"format" envconfig:"FORMAT" validate:"oneof=json text"`
	Output   string `yaml:"output" envconfig:"OUTPUT" validate:"oneof=console file both"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH"`
}

// PathsConfig contains file system paths configuration
type PathsConfig struct {
	DataDir    string `yaml:"data_dir" envconfig:"DATA_DIR"`
	ReportsDir string `yaml:"reports_dir" envconfig:"REPORTS_DIR"`
}

// AnalysisConfig contains the tunable surface of the statistics engine.
// The values mirror the named constants in constants.go; exposing them
// here lets the robustness variant rerun the engine without a rebuild.
type AnalysisConfig struct {
	MinAge            float64   `yaml:"min_age" envconfig:"MIN_AGE" validate:"gte=0"`
	MaxAge            float64   `yaml:"max_age" envconfig:"MAX_AGE" validate:"gtefield=MinAge"`
	TailTrimThreshold float64   `yaml:"tail_trim_threshold" envconfig:"TAIL_TRIM_THRESHOLD" validate:"gte=0,lt=1"`
	CashMultiplier    float64   `yaml:"cash_multiplier" envconfig:"CASH_MULTIPLIER" validate:"gt=0"`
	NewbornAge        float64   `yaml:"newborn_age" envconfig:"NEWBORN_AGE" validate:"gte=0"`
	WealthVariant     string    `yaml:"wealth_variant" envconfig:"WEALTH_VARIANT" validate:"oneof=kaplan installment"`
	AdjustInflation   bool      `yaml:"adjust_inflation" envconfig:"ADJUST_INFLATION"`
	InflationFactor   float64   `yaml:"inflation_factor" envconfig:"INFLATION_FACTOR" validate:"gt=0"`
	PercentileBreaks  []float64 `yaml:"percentile_breaks" envconfig:"PERCENTILE_BREAKS" validate:"min=1,dive,gt=0,lt=100"`
}

// defaultConfig returns the built-in configuration, sourced from the
// named methodology constants.
func defaultConfig() Config {
	breaks := make([]float64, len(DefaultPercentileBreaks))
	copy(breaks, DefaultPercentileBreaks)
	return Config{
		Logging: LoggingConfig{
			Level:    DefaultLogLevel,
			Format:   DefaultLogFormat,
			Output:   DefaultLogOutput,
			FilePath: DefaultLogFilePath,
		},
		Paths: PathsConfig{
			DataDir:    DefaultDataDir,
			ReportsDir: DefaultReportsDir,
		},
		Analysis: AnalysisConfig{
			MinAge:            DefaultMinAge,
			MaxAge:            DefaultMaxAge,
			TailTrimThreshold: DefaultTailTrimThreshold,
			CashMultiplier:    DefaultCashMultiplier,
			NewbornAge:        DefaultNewbornAge,
			WealthVariant:     VariantKaplan,
			InflationFactor:   DefaultInflationFactor,
			PercentileBreaks:  breaks,
		},
	}
}

// Load builds the configuration in precedence order: built-in defaults,
// then the optional YAML file, then environment variables (prefix SCF).
// Later sources override earlier ones field by field; a field no source
// sets keeps its default. The struct tags carry no envconfig defaults so
// an unset environment variable leaves the file value untouched.
func Load() (*Config, error) {
	cfg := defaultConfig()

	configFile := getConfigFilePath()
	if _, err := os.Stat(configFile); err == nil {
		if err := applyFile(configFile, &cfg); err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
	}

	if err := envconfig.Process("SCF", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// applyFile overlays the YAML file onto cfg. Keys absent from the file
// leave the existing values in place.
func applyFile(filePath string, cfg *Config) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

// Validate checks the configuration against the struct-tag constraints.
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// getConfigFilePath returns the config file path, honoring SCF_CONFIG_FILE.
func getConfigFilePath() string {
	if path := os.Getenv("SCF_CONFIG_FILE"); path != "" {
		return path
	}
	return filepath.Join(".", "scfstats.yaml")
}
