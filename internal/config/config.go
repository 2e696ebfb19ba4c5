package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"

	"futurescli/internal/series"
)

// Config represents the complete application configuration
type Config struct {
	Data     DataConfig     `yaml:"data" envconfig:"DATA"`
	Output   OutputConfig   `yaml:"output" envconfig:"OUTPUT"`
	Build    BuildConfig    `yaml:"build" envconfig:"BUILD"`
	Logging  LoggingConfig  `yaml:"logging" envconfig:"LOGGING"`
	Families []FamilyConfig `yaml:"families" ignored:"true"`
}

// DataConfig locates the two input tables: the contract reference list
// and the daily price history.
type DataConfig struct {
	ReferenceCSV string `yaml:"reference_csv" envconfig:"REFERENCE_CSV"`
	PriceCSV     string `yaml:"price_csv" envconfig:"PRICE_CSV"`
}

// OutputConfig controls where generated series land
type OutputConfig struct {
	Dir      string `yaml:"dir" envconfig:"DIR"`
	Workbook bool   `yaml:"workbook" envconfig:"WORKBOOK"`
}

// BuildConfig bounds a series build run. From and To are inclusive
// trading-day limits in YYYYMMDD or YYYY-MM-DD form; an empty bound is
// open.
type BuildConfig struct {
	From    string        `yaml:"from" envconfig:"FROM"`
	To      string        `yaml:"to" envconfig:"TO"`
	Timeout time.Duration `yaml:"timeout" envconfig:"TIMEOUT"`
}

// Window returns the parsed build range. A zero time means the bound
// is open on that side.
func (b BuildConfig) Window() (from, to time.Time, err error) {
	if b.From != "" {
		from, err = parseConfigDay(b.From)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("build.from: %w", err)
		}
	}
	if b.To != "" {
		to, err = parseConfigDay(b.To)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("build.to: %w", err)
		}
	}
	if !from.IsZero() && !to.IsZero() && to.Before(from) {
		return time.Time{}, time.Time{}, fmt.Errorf("build window ends before it starts: %s > %s",
			from.Format(DayFormatISO), to.Format(DayFormatISO))
	}
	return from, to, nil
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL"`
	Format   string `yaml:"format" envconfig:"FORMAT"`
	Output   string `yaml:"output" envconfig:"OUTPUT"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH"`
}

// FamilyConfig describes one futures family and how its generic series
// are formed. Slot labels are Code+Suffix+rank, so IF with suffix "c"
// yields IFc1, IFc2, IFc3.
type FamilyConfig struct {
	Code               string  `yaml:"code"`
	Suffix             string  `yaml:"suffix"`
	Criterion          string  `yaml:"criterion"`
	Slots              int     `yaml:"slots"`
	VolumeWeight       float64 `yaml:"volume_weight"`
	OpenInterestWeight float64 `yaml:"open_interest_weight"`
}

// ToSpec converts the configured family into an engine spec. Composite
// families with no weights configured fall back to the standard equal
// blend.
func (f FamilyConfig) ToSpec() series.FamilySpec {
	spec := series.FamilySpec{
		Family:     f.Code,
		Criterion:  series.Criterion(f.Criterion),
		SlotPrefix: f.Suffix,
		Depth:      f.Slots,
		Weights: series.ActivityWeights{
			Volume:       f.VolumeWeight,
			OpenInterest: f.OpenInterestWeight,
		},
	}
	if spec.Criterion == series.CriterionComposite && spec.Weights == (series.ActivityWeights{}) {
		spec.Weights = series.DefaultActivityWeights()
	}
	return spec
}

// FamilySpecs returns engine specs for every configured family.
func (c *Config) FamilySpecs() []series.FamilySpec {
	specs := make([]series.FamilySpec, 0, len(c.Families))
	for _, fam := range c.Families {
		specs = append(specs, fam.ToSpec())
	}
	return specs
}

// Load loads configuration from defaults, an optional config file, and
// environment variables, in ascending order of precedence.
func Load() (*Config, error) {
	return LoadFrom("")
}

// LoadFrom is Load with an explicit config file path. An empty path
// falls back to the well-known locations; a non-empty path must exist.
func LoadFrom(configFile string) (*Config, error) {
	cfg := Default()

	if configFile == "" {
		configFile = getConfigFilePath()
	} else if _, err := os.Stat(configFile); err != nil {
		return nil, fmt.Errorf("config file %s: %w", configFile, err)
	}

	if configFile != "" {
		if err := loadFromFile(configFile, cfg); err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
	}

	// Env vars override the file. The envconfig tags carry no defaults;
	// defaults applied here would clobber values read from the file.
	if err := envconfig.Process("FUTURES", cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// loadFromFile overlays configuration from a YAML file onto cfg
func loadFromFile(filePath string, cfg *Config) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse %s: %w", filePath, err)
	}

	return nil
}

// validate validates the configuration and normalizes the logging
// section the way the rest of the toolchain expects it.
func (c *Config) validate() error {
	if c.Data.ReferenceCSV == "" {
		return fmt.Errorf("data.reference_csv must be set")
	}
	if c.Data.PriceCSV == "" {
		return fmt.Errorf("data.price_csv must be set")
	}
	if c.Output.Dir == "" {
		return fmt.Errorf("output.dir must be set")
	}

	if len(c.Families) == 0 {
		return fmt.Errorf("at least one family must be configured")
	}
	seen := make(map[string]bool, len(c.Families))
	for _, fam := range c.Families {
		if seen[fam.Code] {
			return fmt.Errorf("family %q configured twice", fam.Code)
		}
		seen[fam.Code] = true
		if fam.Slots > MaxSlots {
			return fmt.Errorf("family %q: slots must be at most %d, got %d", fam.Code, MaxSlots, fam.Slots)
		}
		if err := fam.ToSpec().Validate(); err != nil {
			return fmt.Errorf("family %q: %w", fam.Code, err)
		}
	}

	if _, _, err := c.Build.Window(); err != nil {
		return err
	}
	if c.Build.Timeout <= 0 {
		c.Build.Timeout = DefaultBuildTimeout
	}

	// Logging is normalized rather than rejected
	if c.Logging.Format != "json" {
		c.Logging.Format = DefaultLogFormat
	}
	switch strings.ToLower(c.Logging.Output) {
	case "console", "file", "both":
	default:
		c.Logging.Output = "both"
	}
	if c.Logging.FilePath == "" {
		c.Logging.FilePath = DefaultLogPath
	}

	return nil
}

// getConfigFilePath returns the path to the config file
func getConfigFilePath() string {
	// Check for config file in common locations
	locations := []string{
		"config.yaml",
		"configs/config.yaml",
	}

	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location
		}
	}

	return "" // No config file found, use env vars only
}

// parseConfigDay accepts the two date encodings used across the
// toolchain's inputs.
func parseConfigDay(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(DayFormat, s); err == nil {
		return t, nil
	}
	if t, err := time.Parse(DayFormatISO, s); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}

// Default returns default configuration
func Default() *Config {
	return &Config{
		Data: DataConfig{
			ReferenceCSV: DefaultReferenceCSV,
			PriceCSV:     DefaultPriceCSV,
		},
		Output: OutputConfig{
			Dir:      DefaultSeriesDir,
			Workbook: true,
		},
		Build: BuildConfig{
			Timeout: DefaultBuildTimeout,
		},
		Logging: LoggingConfig{
			Level:    DefaultLogLevel,
			Format:   DefaultLogFormat,
			Output:   "both",
			FilePath: DefaultLogPath,
		},
		Families: DefaultFamilies(),
	}
}

// DefaultFamilies returns the two families the toolchain ships with: an
// index family rolled on the expiry calendar and a commodity family
// rolled on open interest.
func DefaultFamilies() []FamilyConfig {
	return []FamilyConfig{
		{Code: "IF", Suffix: "c", Criterion: string(series.CriterionCalendar), Slots: 3},
		{Code: "P", Suffix: "v", Criterion: string(series.CriterionOpenInterest), Slots: 3},
	}
}
