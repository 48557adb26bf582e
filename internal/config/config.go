package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/cmc-agency/policy-cli/internal/commission"
)

// Config holds the full application configuration.
type Config struct {
	Store      StoreConfig      `yaml:"store" mapstructure:"store"`
	Export     ExportConfig     `yaml:"export" mapstructure:"export"`
	PDF        PDFConfig        `yaml:"pdf" mapstructure:"pdf"`
	Search     SearchConfig     `yaml:"search" mapstructure:"search"`
	Commission CommissionConfig `yaml:"commission" mapstructure:"commission"`
	Log        LogConfig        `yaml:"log" mapstructure:"log"`
}

// StoreConfig configures the SQLite archive.
type StoreConfig struct {
	Path string `yaml:"path" mapstructure:"path"`
}

// ExportConfig configures the spreadsheet output.
type ExportConfig struct {
	// File is the workbook file name, created under the batch output folder.
	File string `yaml:"file" mapstructure:"file"`
}

// PDFConfig configures text extraction.
type PDFConfig struct {
	MaxPages   int `yaml:"max_pages" mapstructure:"max_pages"`
	MinTextLen int `yaml:"min_text_len" mapstructure:"min_text_len"`
}

// SearchConfig configures the archive query surface.
type SearchConfig struct {
	Limit int `yaml:"limit" mapstructure:"limit"`
}

// CommissionConfig holds the agency rate table. Viper folds map keys to
// lower case; the calculator folds agent names on lookup, so the table is
// case-insensitive end to end.
type CommissionConfig struct {
	TrafficCommission float64                     `yaml:"traffic_commission" mapstructure:"traffic_commission"`
	DefaultCommission float64                     `yaml:"default_commission" mapstructure:"default_commission"`
	DefaultPayout     float64                     `yaml:"default_payout" mapstructure:"default_payout"`
	Agents            map[string]AgentRatesConfig `yaml:"agents" mapstructure:"agents"`
}

// AgentRatesConfig holds one agent's rate overrides. Zero values fall back
// to the table defaults.
type AgentRatesConfig struct {
	Commission float64 `yaml:"commission" mapstructure:"commission"`
	Payout     float64 `yaml:"payout" mapstructure:"payout"`
}

// Table converts the configured rates into a calculator table.
func (c CommissionConfig) Table() commission.Table {
	agents := make(map[string]commission.AgentRates, len(c.Agents))
	for name, rates := range c.Agents {
		agents[name] = commission.AgentRates{Commission: rates.Commission, Payout: rates.Payout}
	}
	return commission.Table{
		TrafficCommission: c.TrafficCommission,
		DefaultCommission: c.DefaultCommission,
		DefaultPayout:     c.DefaultPayout,
		Agents:            agents,
	}
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("POLICY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("store.path", "policies.db")
	v.SetDefault("export.file", "POLİÇELER.xlsx")
	v.SetDefault("pdf.max_pages", 5)
	v.SetDefault("pdf.min_text_len", 50)
	v.SetDefault("search.limit", 100)
	v.SetDefault("commission.traffic_commission", 0.10)
	v.SetDefault("commission.default_commission", 0.15)
	v.SetDefault("commission.default_payout", 0.50)
	v.SetDefault("commission.agents.tezer.commission", 0.13)
	v.SetDefault("commission.agents.tezer.payout", 0.50)
	v.SetDefault("commission.agents.yaşar.commission", 0.15)
	v.SetDefault("commission.agents.yaşar.payout", 0.60)
	v.SetDefault("commission.agents.kamil", map[string]float64{})
	v.SetDefault("commission.agents.cmc", map[string]float64{})
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

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

// InitLogger initializes the global zap logger. Output goes to stderr so the
// JSON result contract on stdout stays machine-parseable.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}
	zapCfg.OutputPaths = []string{"stderr"}

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
