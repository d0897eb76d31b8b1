// Package config loads the application configuration from file and
// environment, and exposes it to the fx graph.
package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
	"go.uber.org/fx"
)

var Module = fx.Module("config",
	fx.Provide(Load),
)

// Config is the root application configuration.
type Config struct {
	Environment string         `mapstructure:"environment"`
	HTTP        HTTPConfig     `mapstructure:"http"`
	Database    DatabaseConfig `mapstructure:"database"`
	Offers      OffersConfig   `mapstructure:"offers"`
	SMTP        SMTPConfig     `mapstructure:"smtp"`
	Tracing     TracingConfig  `mapstructure:"tracing"`
}

type HTTPConfig struct {
	Addr         string `mapstructure:"addr"`
	ReadTimeout  int    `mapstructure:"read_timeout"`
	WriteTimeout int    `mapstructure:"write_timeout"`
}

type DatabaseConfig struct {
	Driver                 string `mapstructure:"driver"`
	DSN                    string `mapstructure:"dsn"`
	MaxOpenConns           int    `mapstructure:"max_open_conns"`
	MaxIdleConns           int    `mapstructure:"max_idle_conns"`
	ConnMaxLifetimeSeconds int    `mapstructure:"conn_max_lifetime"`
	LogEnabled             bool   `mapstructure:"log_enabled"`
}

// OffersConfig controls the provider fan-out.
type OffersConfig struct {
	AggregationTimeout time.Duration `mapstructure:"aggregation_timeout"`
	SyntheticProviders bool          `mapstructure:"synthetic_providers"`
	BankClientTimeout  time.Duration `mapstructure:"bank_client_timeout"`
}

type SMTPConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	From     string `mapstructure:"from"`
}

type TracingConfig struct {
	Enabled          bool    `mapstructure:"enabled"`
	ExporterEndpoint string  `mapstructure:"exporter_endpoint"`
	ExporterProtocol string  `mapstructure:"exporter_protocol"`
	SamplingRatio    float64 `mapstructure:"sampling_ratio"`
}

// IsProduction reports whether the app runs in the production environment.
func (c Config) IsProduction() bool {
	return strings.EqualFold(strings.TrimSpace(c.Environment), "production")
}

// Load reads loanhub.yaml (working directory or /etc/loanhub) with
// LOANHUB_* environment overrides.
func Load() (Config, error) {
	v := viper.New()
	v.SetConfigName("loanhub")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("/etc/loanhub")
	v.SetEnvPrefix("LOANHUB")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return Config{}, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("environment", "development")
	v.SetDefault("http.addr", ":8080")
	v.SetDefault("http.read_timeout", 30)
	v.SetDefault("http.write_timeout", 30)
	v.SetDefault("database.driver", "postgres")
	v.SetDefault("database.max_open_conns", 25)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.conn_max_lifetime", 300)
	v.SetDefault("offers.aggregation_timeout", "5s")
	v.SetDefault("offers.synthetic_providers", true)
	v.SetDefault("offers.bank_client_timeout", "10s")
	v.SetDefault("smtp.enabled", false)
	v.SetDefault("smtp.port", 587)
	v.SetDefault("tracing.enabled", false)
	v.SetDefault("tracing.exporter_protocol", "http")
	v.SetDefault("tracing.sampling_ratio", 1.0)
}
