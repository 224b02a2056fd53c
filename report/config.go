package report

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/spektr-org/worlddash/engine"
	"github.com/spektr-org/worlddash/helpers"
)

// ============================================================================
// CONFIG — Report inputs, column names and section tuning
// ============================================================================
// Resolution order: DefaultConfig → YAML file → .env file → environment.
// Maps in the YAML file extend the default maps rather than replace them.
// ============================================================================

// Config drives every section of the report.
type Config struct {
	Title    string         `yaml:"title"`
	Source   helpers.Source `yaml:"source"`
	Server   ServerConfig   `yaml:"server"`
	LogLevel string         `yaml:"log_level"`

	Columns Columns `yaml:"columns"`
	TopN    TopN    `yaml:"top_n"`

	// RegionNames maps HDI region codes to display names. Unmapped codes
	// are dropped from the regional average.
	RegionNames map[string]string `yaml:"region_names"`

	// IncomeGroups collapses income classifications into two classes.
	IncomeGroups map[string]string `yaml:"income_groups"`
	IncomeTarget string            `yaml:"income_target"`

	// CorrelationDrop lists identifier and derived columns removed before
	// correlation analysis.
	CorrelationDrop []string `yaml:"correlation_drop"`

	// Filters restrict the indicator rows before every section.
	Filters engine.Filters `yaml:"filters"`

	// Sections lists the sections to build, in order. Empty = all.
	Sections []string `yaml:"sections"`
}

// ServerConfig configures the interactive page.
type ServerConfig struct {
	Addr            string        `yaml:"addr"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// Columns names the source and derived columns the sections read.
type Columns struct {
	Country        string `yaml:"country"`
	Year           string `yaml:"year"`
	GDP            string `yaml:"gdp"`
	GDPPerCapita   string `yaml:"gdp_per_capita"`
	LifeExpectancy string `yaml:"life_expectancy"`
	IncomeGroup    string `yaml:"income_group"`

	HDIRegion string `yaml:"hdi_region"`
	HDIStart  string `yaml:"hdi_start"`
	HDIEnd    string `yaml:"hdi_end"`

	// Derived
	Population       string `yaml:"population"`
	GDPGrowth        string `yaml:"gdp_growth"`
	PopulationGrowth string `yaml:"population_growth"`
	HDIGrowth        string `yaml:"hdi_growth"`
}

// TopN bounds rankings.
type TopN struct {
	Table   int `yaml:"table"`
	Regions int `yaml:"regions"`
	Chart   int `yaml:"chart"`
}

// DefaultConfig returns the stock dashboard settings.
func DefaultConfig() Config {
	cols := Columns{
		Country:          "Country Name",
		Year:             "Year",
		GDP:              "GDP (USD)",
		GDPPerCapita:     "GDP per capita (USD)",
		LifeExpectancy:   "Life expectancy at birth (years)",
		IncomeGroup:      "IncomeGroup",
		HDIRegion:        "region",
		HDIStart:         "hdi_2000",
		HDIEnd:           "hdi_2021",
		Population:       "Population",
		GDPGrowth:        "GDP Growth (%)",
		PopulationGrowth: "Population Growth (%)",
		HDIGrowth:        "hdi_growth_21st_century",
	}

	return Config{
		Title: "🌍 Global Economic & Human Development Dashboard",
		Source: helpers.Source{
			IndicatorsPath: "./World+Economic+Indicators/WorldBank.xlsx",
			HDIPath:        "./World+Economic+Indicators/HDI.csv",
		},
		Server: ServerConfig{
			Addr:            ":8501",
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    60 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		LogLevel: "info",
		Columns:  cols,
		TopN:     TopN{Table: 10, Regions: 5, Chart: 20},
		RegionNames: map[string]string{
			"SA":  "South Asia",
			"SSA": "Sub-Saharan Africa",
			"ECA": "Europe and Central Asia",
			"AS":  "Arab States",
			"LAC": "Latin America and the Caribbean",
			"EAP": "East Asia and the Pacific",
		},
		IncomeGroups: map[string]string{
			"Upper middle income":  "High Income",
			"Lower middle income":  "Low Income",
			"High income: nonOECD": "High Income",
			"High income: OECD":    "High Income",
			"Low income":           "Low Income",
		},
		IncomeTarget: "IncomeGroup_Low Income",
		CorrelationDrop: []string{
			cols.Country, "Country Code", "Region", cols.Year,
			cols.Population, cols.GDPGrowth, cols.PopulationGrowth,
		},
	}
}

// Environment variables that override file settings.
const (
	EnvAddr       = "WORLDDASH_ADDR"
	EnvIndicators = "WORLDDASH_INDICATORS"
	EnvSheet      = "WORLDDASH_SHEET"
	EnvHDI        = "WORLDDASH_HDI"
	EnvLogLevel   = "WORLDDASH_LOG_LEVEL"
)

// LoadConfig resolves the configuration. An empty path skips the YAML file;
// a missing .env file is not an error.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return cfg, fmt.Errorf("load .env: %w", err)
	}
	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	overrides := []struct {
		env    string
		target *string
	}{
		{EnvAddr, &c.Server.Addr},
		{EnvIndicators, &c.Source.IndicatorsPath},
		{EnvSheet, &c.Source.Sheet},
		{EnvHDI, &c.Source.HDIPath},
		{EnvLogLevel, &c.LogLevel},
	}
	for _, o := range overrides {
		if v := strings.TrimSpace(os.Getenv(o.env)); v != "" {
			*o.target = v
		}
	}
}

// Validate checks the settings sections cannot run without.
func (c Config) Validate() error {
	var problems []string
	if c.Source.IndicatorsPath == "" {
		problems = append(problems, "source.indicators is empty")
	}
	if c.Source.HDIPath == "" {
		problems = append(problems, "source.hdi is empty")
	}
	if c.TopN.Table < 0 || c.TopN.Regions < 0 || c.TopN.Chart < 0 {
		problems = append(problems, "top_n values must not be negative")
	}
	for _, id := range c.Sections {
		if _, ok := lookupSection(SectionID(id)); !ok {
			problems = append(problems, fmt.Sprintf("%v: %s", ErrUnknownSection, id))
		}
	}
	if len(problems) > 0 {
		return fmt.Errorf("invalid config: %s", strings.Join(problems, "; "))
	}
	return nil
}
