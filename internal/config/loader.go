package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/Sumatoshi-tech/initall/pkg/discovery"
)

// configName is the config file name without extension.
const configName = ".initall"

// configType is the config file format.
const configType = "yaml"

// envPrefix is the environment variable prefix for initall settings.
const envPrefix = "INITALL"

// envKeySeparator is the nested key separator in environment variable names.
const envKeySeparator = "_"

// LoadConfigFrom loads configuration from defaults, a config file, the
// [tool.initall] table of dir/pyproject.toml and INITALL_* environment
// variables, later sources winning. If configPath is non-empty it is the
// config file; otherwise .initall.yaml is searched in dir and $HOME.
// A missing config file or pyproject.toml is not an error.
func LoadConfigFrom(dir, configPath string) (*Config, error) {
	viperCfg := viper.New()

	applyDefaults(viperCfg)

	viperCfg.SetConfigType(configType)
	viperCfg.SetEnvPrefix(envPrefix)
	viperCfg.SetEnvKeyReplacer(strings.NewReplacer(".", envKeySeparator))
	viperCfg.AutomaticEnv()

	if configPath != "" {
		viperCfg.SetConfigFile(configPath)
	} else {
		viperCfg.SetConfigName(configName)
		viperCfg.AddConfigPath(dir)

		home, err := os.UserHomeDir()
		if err == nil {
			viperCfg.AddConfigPath(home)
		}
	}

	var sources []string

	readErr := viperCfg.ReadInConfig()
	if readErr != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(readErr, &notFound) {
			return nil, fmt.Errorf("read config: %w", readErr)
		}
	} else {
		sources = append(sources, viperCfg.ConfigFileUsed())
	}

	pyprojectPath := filepath.Join(dir, pyprojectName)

	section, found, err := readPyproject(pyprojectPath)
	if err != nil {
		return nil, err
	}

	if found {
		mergeErr := viperCfg.MergeConfigMap(section)
		if mergeErr != nil {
			return nil, fmt.Errorf("merge %s: %w", pyprojectPath, mergeErr)
		}

		sources = append(sources, pyprojectPath)
	}

	var cfg Config

	unmarshalErr := viperCfg.Unmarshal(&cfg)
	if unmarshalErr != nil {
		return nil, fmt.Errorf("unmarshal config: %w", unmarshalErr)
	}

	cfg.Sources = sources

	validateErr := cfg.Validate()
	if validateErr != nil {
		return nil, fmt.Errorf("validate config: %w", validateErr)
	}

	return &cfg, nil
}

func applyDefaults(viperCfg *viper.Viper) {
	viperCfg.SetDefault("line_length", DefaultLineLength)
	viperCfg.SetDefault("double_quotes", false)
	viperCfg.SetDefault("fix", false)
	viperCfg.SetDefault("workers", DefaultWorkers)
	viperCfg.SetDefault("patterns", discovery.DefaultPatterns())
	viperCfg.SetDefault("exclude", discovery.DefaultExcludes())

	viperCfg.SetDefault("output.format", DefaultOutputFormat)
	viperCfg.SetDefault("output.diff", true)
	viperCfg.SetDefault("output.color", true)

	viperCfg.SetDefault("logging.level", DefaultLogLevel)
	viperCfg.SetDefault("logging.format", DefaultLoggingFormat)

	viperCfg.SetDefault("cache.enabled", true)
	viperCfg.SetDefault("cache.dir", "")
}
