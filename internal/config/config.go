package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"
)

const (
	// Exit codes
	ExitSuccess = iota
	ExitGeneralError
	ExitInvalidArguments
	ExitValidationError
	ExitParseError
	ExitIOError
)

// FileName is the configuration file looked up without an extension.
const FileName = "populate"

// EnvPrefix prefixes environment overrides, e.g. POPULATE_PARAMETERS_FILE.
const EnvPrefix = "POPULATE"

// Keys recognised in populate.yaml and the environment.
const (
	KeyParametersFile = "parameters_file"
	KeyOutputFile     = "output_file"
	KeyProjectDir     = "project_dir"
	KeyLaunchSettings = "launch_settings"
	KeyLogLevel       = "log_level"
	KeyForce          = "force"
)

var keys = []string{KeyParametersFile, KeyOutputFile, KeyProjectDir, KeyLaunchSettings, KeyLogLevel, KeyForce}

// Config holds defaults that flags may override.
type Config struct {
	ParametersFile string `mapstructure:"parameters_file"`
	OutputFile     string `mapstructure:"output_file"`
	ProjectDir     string `mapstructure:"project_dir"`
	LaunchSettings string `mapstructure:"launch_settings"`
	LogLevel       string `mapstructure:"log_level"`
	Force          bool   `mapstructure:"force"`

	// Source is the file the values were read from, empty if none.
	Source string `mapstructure:"-"`
}

// Load reads configuration.
//
// With an explicit path that file must exist. Otherwise populate.yaml is
// looked up in dir and then in the global config directory; finding none is
// not an error. POPULATE_* environment variables override file values.
func Load(explicit, dir string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")

	if explicit != "" {
		v.SetConfigFile(explicit)
	} else {
		v.SetConfigName(FileName)
		if dir != "" {
			v.AddConfigPath(dir)
		}
		if globalDir, err := GetGlobalConfigDir(); err == nil {
			v.AddConfigPath(globalDir)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	for _, key := range keys {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("binding %s: %w", key, err)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if explicit != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	var cfg Config
	hook := mapstructure.ComposeDecodeHookFunc(trimSpaceHook(), expandHomeHook())
	if err := v.Unmarshal(&cfg, viper.DecodeHook(hook)); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	cfg.Source = v.ConfigFileUsed()

	return &cfg, nil
}

// GetGlobalConfigDir returns the global config directory
func GetGlobalConfigDir() (string, error) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, FileName), nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}

	return filepath.Join(home, ".config", FileName), nil
}

func trimSpaceHook() mapstructure.DecodeHookFuncKind {
	return func(from, to reflect.Kind, data any) (any, error) {
		if from != reflect.String || to != reflect.String {
			return data, nil
		}
		return strings.TrimSpace(data.(string)), nil
	}
}

// expandHomeHook turns a leading ~/ into the user's home directory.
func expandHomeHook() mapstructure.DecodeHookFuncKind {
	return func(from, to reflect.Kind, data any) (any, error) {
		if from != reflect.String || to != reflect.String {
			return data, nil
		}
		s := data.(string)
		if !strings.HasPrefix(s, "~/") {
			return s, nil
		}
		home, err := os.UserHomeDir()
		if err != nil {
			return s, nil
		}
		return filepath.Join(home, s[2:]), nil
	}
}
