// Package config manages configuration for the vpnforge CLI.
// It uses Viper for unified configuration management from files and environment variables.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/user"
	"path/filepath"
	"strings"
	"time"

	awsconfig "github.com/vpnforge/vpnforge/internal/config/aws"
	"github.com/vpnforge/vpnforge/internal/constants"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Config represents the configuration of a single vpnforge deployment.
// It supports loading from YAML files and environment variables.
type Config struct {
	Region     string `mapstructure:"region" yaml:"region"`
	Deployment string `mapstructure:"deployment" yaml:"deployment" validate:"required,max=64"`
	LedgerPath string `mapstructure:"ledger_path" yaml:"ledger_path" validate:"required"`
	LogLevel   string `mapstructure:"log_level" yaml:"log_level"`

	Network  NetworkConfig  `mapstructure:"network" yaml:"network"`
	Security SecurityConfig `mapstructure:"security" yaml:"security"`
	Instance InstanceConfig `mapstructure:"instance" yaml:"instance"`
	Guard    GuardConfig    `mapstructure:"guard" yaml:"guard"`
	Poll     PollConfig     `mapstructure:"poll" yaml:"poll"`

	AWS *awsconfig.Config `mapstructure:"aws" yaml:"aws"`
}

// NetworkConfig describes the network to create, or the existing one to reuse.
type NetworkConfig struct {
	VPCCIDR             string `mapstructure:"vpc_cidr" yaml:"vpc_cidr" validate:"required,cidrv4"`
	SubnetCIDR          string `mapstructure:"subnet_cidr" yaml:"subnet_cidr" validate:"required,cidrv4"`
	SecondarySubnetCIDR string `mapstructure:"secondary_subnet_cidr" yaml:"secondary_subnet_cidr" validate:"omitempty,cidrv4"`
	Name                string `mapstructure:"name" yaml:"name" validate:"required"`

	// ExistingVPCID and ExistingSubnetID select the reuse path. Both or neither.
	ExistingVPCID    string `mapstructure:"existing_vpc_id" yaml:"existing_vpc_id" validate:"required_with=ExistingSubnetID"`
	ExistingSubnetID string `mapstructure:"existing_subnet_id" yaml:"existing_subnet_id" validate:"required_with=ExistingVPCID"`
}

// Reuse reports whether an operator-supplied network should be used.
func (n NetworkConfig) Reuse() bool {
	return n.ExistingVPCID != "" && n.ExistingSubnetID != ""
}

// IngressRule is a single inbound allow rule.
type IngressRule struct {
	Protocol string `mapstructure:"protocol" yaml:"protocol" validate:"required,oneof=tcp udp icmp -1"`
	Port     int32  `mapstructure:"port" yaml:"port" validate:"min=0,max=65535"`
	CIDR     string `mapstructure:"cidr" yaml:"cidr" validate:"required,cidrv4"`
}

// SecurityConfig describes the VPN security group.
type SecurityConfig struct {
	GroupName   string        `mapstructure:"group_name" yaml:"group_name" validate:"required"`
	Description string        `mapstructure:"description" yaml:"description" validate:"required"`
	Ingress     []IngressRule `mapstructure:"ingress" yaml:"ingress" validate:"dive"`
}

// InstanceConfig describes the VPN server instance and its key pair.
type InstanceConfig struct {
	ImageID        string `mapstructure:"image_id" yaml:"image_id" validate:"required_without=ImageParameter"`
	ImageParameter string `mapstructure:"image_parameter" yaml:"image_parameter"`
	InstanceType   string `mapstructure:"instance_type" yaml:"instance_type" validate:"required"`
	Name           string `mapstructure:"name" yaml:"name" validate:"required"`
	KeyName        string `mapstructure:"key_name" yaml:"key_name"`
	KeyDir         string `mapstructure:"key_dir" yaml:"key_dir" validate:"required"`
	SSHUser        string `mapstructure:"ssh_user" yaml:"ssh_user" validate:"required"`
}

// GuardConfig describes the usage alarm and the function it invokes.
type GuardConfig struct {
	Enabled           bool          `mapstructure:"enabled" yaml:"enabled"`
	RoleName          string        `mapstructure:"role_name" yaml:"role_name" validate:"required"`
	FunctionName      string        `mapstructure:"function_name" yaml:"function_name" validate:"required"`
	AlarmName         string        `mapstructure:"alarm_name" yaml:"alarm_name" validate:"required"`
	Runtime           string        `mapstructure:"runtime" yaml:"runtime" validate:"oneof=python3.12 provided.al2023"`
	BootstrapPath     string        `mapstructure:"bootstrap_path" yaml:"bootstrap_path"`
	ThresholdBytes    int64         `mapstructure:"threshold_bytes" yaml:"threshold_bytes" validate:"gt=0"`
	PeriodSeconds     int32         `mapstructure:"period_seconds" yaml:"period_seconds" validate:"gte=60"`
	EvaluationPeriods int32         `mapstructure:"evaluation_periods" yaml:"evaluation_periods" validate:"gte=1"`
	SettleDelay       time.Duration `mapstructure:"settle_delay" yaml:"settle_delay"`
}

// PollConfig bounds the waits for instance state convergence.
type PollConfig struct {
	Interval          time.Duration `mapstructure:"interval" yaml:"interval" validate:"gt=0"`
	RunningTimeout    time.Duration `mapstructure:"running_timeout" yaml:"running_timeout" validate:"gtefield=Interval"`
	TerminatedTimeout time.Duration `mapstructure:"terminated_timeout" yaml:"terminated_timeout" validate:"gtefield=Interval"`
}

var validate = validator.New()

// Load loads the configuration using Viper.
// It reads ~/.vpnforge/config.yaml (or path when non-empty) and then
// environment variables with the VPNFORGE_ prefix, which take precedence.
// A missing config file is not an error: every field has a default.
func Load(path string) (*Config, error) {
	v := newViper()

	if err := loadConfigFile(v, path); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !(path == "" && errors.Is(err, os.ErrNotExist)) {
			return nil, fmt.Errorf("error loading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks the struct tags, nested sections included.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}
	return nil
}

// Save writes the configuration to the user's home directory.
// Overwrites the existing config file if it exists.
func Save(cfg *Config) error {
	configFilePath, err := GetConfigPath()
	if err != nil {
		return err
	}

	if err = os.MkdirAll(filepath.Dir(configFilePath), constants.ConfigDirPermissions); err != nil {
		return fmt.Errorf("error creating config directory: %w", err)
	}

	v := viper.New()
	v.Set("region", cfg.Region)
	v.Set("deployment", cfg.Deployment)
	v.Set("ledger_path", cfg.LedgerPath)
	v.Set("instance.key_name", cfg.Instance.KeyName)
	v.Set("instance.key_dir", cfg.Instance.KeyDir)
	v.Set("guard.enabled", cfg.Guard.Enabled)
	if cfg.Network.Reuse() {
		v.Set("network.existing_vpc_id", cfg.Network.ExistingVPCID)
		v.Set("network.existing_subnet_id", cfg.Network.ExistingSubnetID)
	}
	if cfg.AWS != nil && cfg.AWS.Profile != "" {
		v.Set("aws.profile", cfg.AWS.Profile)
	}

	if err = v.WriteConfigAs(configFilePath); err != nil {
		return fmt.Errorf("error writing config file: %w", err)
	}

	if err = os.Chmod(configFilePath, constants.ConfigFilePermissions); err != nil {
		return fmt.Errorf("error setting config file permissions: %w", err)
	}

	return nil
}

// GetConfigPath returns the path to the config file
func GetConfigPath() (string, error) {
	currentUser, err := user.Current()
	if err != nil {
		return "", fmt.Errorf("error getting current user: %w", err)
	}

	return constants.ConfigFilePath(currentUser.HomeDir), nil
}

// GetLogLevel returns the slog.Level from the string configuration.
// Defaults to INFO if the level string is invalid.
func (c *Config) GetLogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return level
}

// KeyPath returns where the private key of the named key pair is written.
func (c *Config) KeyPath(keyName string) string {
	return filepath.Join(c.Instance.KeyDir, keyName+".pem")
}

// Helper functions

func newViper() *viper.Viper {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(constants.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	bindEnvVars(v)
	awsconfig.BindEnvVars(v, constants.EnvPrefix)
	return v
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("deployment", constants.ProjectName)
	v.SetDefault("ledger_path", constants.DefaultLedgerFile)
	v.SetDefault("log_level", "INFO")

	v.SetDefault("network.name", "OpenVPN-VPC")
	v.SetDefault("network.vpc_cidr", "10.0.0.0/16")
	v.SetDefault("network.subnet_cidr", "10.0.1.0/24")
	v.SetDefault("network.secondary_subnet_cidr", "10.0.2.0/24")

	v.SetDefault("security.group_name", "OpenVPN-Security-Group")
	v.SetDefault("security.description", "Security group for OpenVPN server")
	v.SetDefault("security.ingress", []map[string]any{
		{"protocol": "tcp", "port": 22, "cidr": "0.0.0.0/0"},
		{"protocol": "tcp", "port": 443, "cidr": "0.0.0.0/0"},
		{"protocol": "udp", "port": 1194, "cidr": "0.0.0.0/0"},
		{"protocol": "tcp", "port": 943, "cidr": "0.0.0.0/0"},
	})

	v.SetDefault("instance.image_id", "ami-031c46bb046b90dae")
	v.SetDefault("instance.instance_type", "t2.micro")
	v.SetDefault("instance.name", "OpenVPN-Server")
	v.SetDefault("instance.key_dir", ".")
	v.SetDefault("instance.ssh_user", "openvpnas")

	v.SetDefault("guard.enabled", true)
	v.SetDefault("guard.role_name", "LambdaStopInstanceRole")
	v.SetDefault("guard.function_name", "StopEC2Instance")
	v.SetDefault("guard.alarm_name", "VPNNetworkUsageAlarm")
	v.SetDefault("guard.runtime", "python3.12")
	v.SetDefault("guard.threshold_bytes", int64(107374182400))
	v.SetDefault("guard.period_seconds", 3600)
	v.SetDefault("guard.evaluation_periods", 24)
	v.SetDefault("guard.settle_delay", constants.DefaultIdentitySettleDelay)

	v.SetDefault("poll.interval", constants.DefaultPollInterval)
	v.SetDefault("poll.running_timeout", constants.DefaultInstanceRunningTimeout)
	v.SetDefault("poll.terminated_timeout", constants.DefaultInstanceTerminatedTimeout)
}

func loadConfigFile(v *viper.Viper, path string) error {
	if path == "" {
		defaultPath, err := GetConfigPath()
		if err != nil {
			return err
		}
		path = defaultPath
	}

	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	return v.ReadInConfig()
}

func bindEnvVars(v *viper.Viper) {
	// Nested keys are not picked up by AutomaticEnv during Unmarshal unless bound.
	keys := []string{
		"region",
		"deployment",
		"ledger_path",
		"log_level",
		"network.existing_vpc_id",
		"network.existing_subnet_id",
		"instance.image_id",
		"instance.image_parameter",
		"instance.instance_type",
		"instance.key_name",
		"instance.key_dir",
		"guard.enabled",
		"guard.runtime",
		"guard.bootstrap_path",
		"guard.threshold_bytes",
		"guard.period_seconds",
		"guard.evaluation_periods",
	}

	for _, key := range keys {
		envVar := constants.EnvPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
		_ = v.BindEnv(key, envVar)
	}
	_ = v.BindEnv("region", constants.EnvPrefix+"_REGION", "AWS_REGION")
}
