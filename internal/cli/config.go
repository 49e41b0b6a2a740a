package cli

import (
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/mcoot/betsim/internal/factory"
	redisstorage "github.com/mcoot/betsim/internal/storage/redis"
)

// EnvPrefix prefixes every environment variable the CLI reads
const EnvPrefix = "BETSIM"

// Output formats
const (
	OutputText = "text"
	OutputJSON = "json"
)

// Config holds CLI configuration
type Config struct {
	ConfigFile string
	Storage    string
	DataDir    string
	RedisURL   string
	SQLitePath string
	ReportsDir string
	Output     string
	Verbose    bool
}

// DefaultConfig returns a Config with default values
func DefaultConfig() *Config {
	return &Config{
		Storage:  factory.StorageTypeFile,
		DataDir:  factory.DefaultDataDir,
		RedisURL: redisstorage.DefaultConfig().URL,
		Output:   OutputText,
	}
}

// Resolve layers flags over BETSIM_* environment variables over the optional config file.
// Flags left at their defaults do not mask the other sources.
func (c *Config) Resolve(flags *pflag.FlagSet) error {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if err := v.BindPFlags(flags); err != nil {
		return err
	}

	if path := v.GetString("config"); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("failed to read config file: %w", err)
		}
	}

	c.ConfigFile = v.GetString("config")
	c.Storage = v.GetString("storage")
	c.DataDir = v.GetString("data-dir")
	c.RedisURL = v.GetString("redis-url")
	c.SQLitePath = v.GetString("sqlite-path")
	c.ReportsDir = v.GetString("reports-dir")
	c.Output = v.GetString("output")
	c.Verbose = v.GetBool("verbose")

	return c.validate()
}

func (c *Config) validate() error {
	if !slices.Contains(factory.StorageTypes, c.Storage) {
		return fmt.Errorf("invalid storage %q: must be one of %s", c.Storage, strings.Join(factory.StorageTypes, ", "))
	}
	if c.Output != OutputText && c.Output != OutputJSON {
		return fmt.Errorf("invalid output %q: must be text or json", c.Output)
	}
	return nil
}

// LogLevel is Warn, or Debug when verbose
func (c *Config) LogLevel() slog.Level {
	if c.Verbose {
		return slog.LevelDebug
	}
	return slog.LevelWarn
}

// FactoryConfig converts the CLI configuration into factory settings
func (c *Config) FactoryConfig(logger *slog.Logger) factory.Config {
	fc := factory.Config{
		Logger:      logger,
		StorageType: c.Storage,
		DataDir:     c.DataDir,
		SQLitePath:  c.SQLitePath,
		ReportsDir:  c.ReportsDir,
	}
	if c.Storage == factory.StorageTypeRedis {
		redisCfg := redisstorage.DefaultConfig()
		redisCfg.URL = c.RedisURL
		fc.RedisConfig = &redisCfg
	}
	return fc
}
