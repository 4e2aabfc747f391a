package config

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/viper"
)

// StopperConfig is the environment of the deployed stop function.
type StopperConfig struct {
	InstanceID  string        `mapstructure:"instance_id" validate:"required,startswith=i-"`
	Region      string        `mapstructure:"region"`
	LogLevel    string        `mapstructure:"log_level"`
	InitTimeout time.Duration `mapstructure:"init_timeout" validate:"gt=0"`
}

// LoadStopper reads the stop function configuration from its environment.
// The instance id is bound at function creation and never changes afterwards.
func LoadStopper() (*StopperConfig, error) {
	v := viper.New()
	v.SetDefault("log_level", "INFO")
	v.SetDefault("init_timeout", 5*time.Second)

	_ = v.BindEnv("instance_id", "INSTANCE_ID")
	_ = v.BindEnv("region", "AWS_REGION")
	_ = v.BindEnv("log_level", "VPNFORGE_LOG_LEVEL")
	_ = v.BindEnv("init_timeout", "VPNFORGE_INIT_TIMEOUT")

	var cfg StopperConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling stopper config: %w", err)
	}
	if err := validate.Struct(&cfg); err != nil {
		return nil, fmt.Errorf("stopper config validation failed: %w", err)
	}
	return &cfg, nil
}

// MustLoadStopper loads the stop function configuration and exits on error.
func MustLoadStopper() *StopperConfig {
	cfg, err := LoadStopper()
	if err != nil {
		slog.Error("failed to load stopper configuration", "error", err)
		os.Exit(1)
	}
	return cfg
}

// GetLogLevel returns the configured level, INFO when unparseable.
func (c *StopperConfig) GetLogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return level
}
