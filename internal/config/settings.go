package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/robfig/cron/v3"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. RETRAITE_SERVER_ADDR
const EnvPrefix = "RETRAITE"

// Settings holds the service configuration of the simulator
type Settings struct {
	Server    ServerSettings    `mapstructure:"server"    yaml:"server"`
	Storage   StorageSettings   `mapstructure:"storage"   yaml:"storage"`
	Scheduler SchedulerSettings `mapstructure:"scheduler" yaml:"scheduler"`
	Rules     RulesSettings     `mapstructure:"rules"     yaml:"rules"`
	Logging   LoggingSettings   `mapstructure:"logging"   yaml:"logging"`
	Output    OutputSettings    `mapstructure:"output"    yaml:"output"`
}

type ServerSettings struct {
	Addr string `mapstructure:"addr" yaml:"addr"`
}

type StorageSettings struct {
	Path          string `mapstructure:"path"           yaml:"path"` // empty disables persistence
	RetentionDays int    `mapstructure:"retention_days" yaml:"retention_days"`
}

type SchedulerSettings struct {
	RetentionCron string `mapstructure:"retention_cron" yaml:"retention_cron"` // six fields, seconds first
}

type RulesSettings struct {
	File  string `mapstructure:"file"  yaml:"file"` // optional override of the built-in legal year
	Watch bool   `mapstructure:"watch" yaml:"watch"`
}

type LoggingSettings struct {
	Level string `mapstructure:"level" yaml:"level"` // "debug", "info", "warn", "error"
}

type OutputSettings struct {
	Format string `mapstructure:"format" yaml:"format"`
}

// LoadSettings reads the service settings. An empty path searches for
// retraite.yaml in the working directory and /etc/retraite; a missing file is not an error.
// Environment variables override both.
func LoadSettings(path string) (*Settings, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("retraite")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("/etc/retraite")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// DefaultSettings returns the settings used when nothing is configured
func DefaultSettings() *Settings {
	v := viper.New()
	setDefaults(v)

	var s Settings
	_ = v.Unmarshal(&s)
	return &s
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.addr", ":8080")

	v.SetDefault("storage.path", "simulations.db")
	v.SetDefault("storage.retention_days", 365)

	v.SetDefault("scheduler.retention_cron", "0 30 3 * * *") // daily at 03:30

	v.SetDefault("rules.file", "")
	v.SetDefault("rules.watch", false)

	v.SetDefault("logging.level", "info")

	v.SetDefault("output.format", "console")
}

// Validate checks the settings that would otherwise fail late, at server start
func (s *Settings) Validate() error {
	if strings.TrimSpace(s.Server.Addr) == "" {
		return fmt.Errorf("server.addr is required")
	}
	if s.Storage.RetentionDays < 0 {
		return fmt.Errorf("storage.retention_days cannot be negative")
	}
	if s.Scheduler.RetentionCron != "" {
		parser := cron.NewParser(cron.Second | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)
		if _, err := parser.Parse(s.Scheduler.RetentionCron); err != nil {
			return fmt.Errorf("invalid scheduler.retention_cron %q: %w", s.Scheduler.RetentionCron, err)
		}
	}
	if s.Rules.Watch && s.Rules.File == "" {
		return fmt.Errorf("rules.watch requires rules.file")
	}
	return nil
}
