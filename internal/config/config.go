package config

import (
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Data     DataConfig               `yaml:"data" mapstructure:"data"`
	Vintages map[string]VintageConfig `yaml:"vintages" mapstructure:"vintages"`
	Store    StoreConfig              `yaml:"store" mapstructure:"store"`
	Render   RenderConfig             `yaml:"render" mapstructure:"render"`
	Fetch    FetchConfig              `yaml:"fetch" mapstructure:"fetch"`
	Log      LogConfig                `yaml:"log" mapstructure:"log"`
}

// DataConfig locates the raw inputs shared across vintages.
type DataConfig struct {
	Dir            string `yaml:"dir" mapstructure:"dir"`
	StateShapefile string `yaml:"state_shapefile" mapstructure:"state_shapefile"`
	StateURL       string `yaml:"state_url" mapstructure:"state_url"`
}

// Resolve joins a configured path with the data directory. Absolute paths
// pass through unchanged.
func (d DataConfig) Resolve(path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(d.Dir, path)
}

// VintageConfig locates the raw inputs for one ACS 5-year vintage. Paths are
// relative to data.dir unless absolute.
type VintageConfig struct {
	CSV            string `yaml:"csv" mapstructure:"csv"`
	TractShapefile string `yaml:"tract_shapefile" mapstructure:"tract_shapefile"`
	TractURL       string `yaml:"tract_url" mapstructure:"tract_url"`
}

// StoreConfig configures the database backend.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	Path        string `yaml:"path" mapstructure:"path"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
}

// RenderConfig configures map output.
type RenderConfig struct {
	OutputDir     string   `yaml:"output_dir" mapstructure:"output_dir"`
	DPI           float64  `yaml:"dpi" mapstructure:"dpi"`
	WidthInches   float64  `yaml:"width_inches" mapstructure:"width_inches"`
	HeightInches  float64  `yaml:"height_inches" mapstructure:"height_inches"`
	ExcludeStates []string `yaml:"exclude_states" mapstructure:"exclude_states"`
	AlaskaInset   bool     `yaml:"alaska_inset" mapstructure:"alaska_inset"`
}

// FetchConfig configures boundary and extract downloads.
type FetchConfig struct {
	TimeoutSecs int     `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	Retries     int     `yaml:"retries" mapstructure:"retries"`
	RatePerSec  float64 `yaml:"rate_per_sec" mapstructure:"rate_per_sec"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Vintage returns the configuration for one survey year.
func (c *Config) Vintage(year int) (VintageConfig, error) {
	v, ok := c.Vintages[strconv.Itoa(year)]
	if !ok {
		return VintageConfig{}, eris.Errorf("config: no vintage configured for year %d", year)
	}
	return v, nil
}

// Years lists the configured vintage years in ascending order.
func (c *Config) Years() []int {
	years := make([]int, 0, len(c.Vintages))
	for k := range c.Vintages {
		if y, err := strconv.Atoi(k); err == nil {
			years = append(years, y)
		}
	}
	sort.Ints(years)
	return years
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("FUELATLAS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	for key, val := range Defaults() {
		v.SetDefault(key, val)
	}

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// Defaults returns the flat default configuration map, shared by Load and
// the init command's config.yaml template.
func Defaults() map[string]any {
	return map[string]any{
		"data.dir":             "data",
		"data.state_shapefile": "shapes/cb_2018_us_state_500k/cb_2018_us_state_500k.shp",
		"data.state_url":       "https://www2.census.gov/geo/tiger/GENZ2018/shp/cb_2018_us_state_500k.zip",

		"vintages.2015.csv":             "nhgis0011_ds215_20155_tract.csv",
		"vintages.2015.tract_shapefile": "shapes/cb_2015_us_tract_500k/cb_2015_us_tract_500k.shp",
		"vintages.2015.tract_url":       "https://www2.census.gov/geo/tiger/GENZ2015/shp/cb_2015_us_tract_500k.zip",

		"vintages.2020.csv":             "nhgis0012_ds249_20205_tract.csv",
		"vintages.2020.tract_shapefile": "shapes/cb_2020_us_tract_500k/cb_2020_us_tract_500k.shp",
		"vintages.2020.tract_url":       "https://www2.census.gov/geo/tiger/GENZ2020/shp/cb_2020_us_tract_500k.zip",

		"vintages.2023.csv":             "nhgis0013_ds267_20235_tract.csv",
		"vintages.2023.tract_shapefile": "shapes/cb_2023_us_tract_500k/cb_2023_us_tract_500k.shp",
		"vintages.2023.tract_url":       "https://www2.census.gov/geo/tiger/GENZ2023/shp/cb_2023_us_tract_500k.zip",

		"store.driver": "sqlite",
		"store.path":   "fuelatlas.db",

		"render.output_dir":     "output",
		"render.dpi":            600.0,
		"render.width_inches":   20.0,
		"render.height_inches":  11.0,
		"render.exclude_states": []string{"HI", "PR"},
		"render.alaska_inset":   true,

		"fetch.timeout_secs": 120,
		"fetch.retries":      3,
		"fetch.rate_per_sec": 2.0,

		"log.level":  "info",
		"log.format": "json",
	}
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
