package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// configName is the config file name without extension.
const configName = "cubetree"

// configType is the config file format.
const configType = "yaml"

// envPrefix is the environment variable prefix for cubetree settings.
const envPrefix = "CUBETREE"

// envKeySeparator is the nested key separator in environment variable names.
const envKeySeparator = "_"

// LoadConfig loads configuration from file, env vars, and defaults.
// If configPath is non-empty, it is used as the explicit config file path.
// Otherwise, cubetree.yaml is searched in the working directory and in
// ./config. A missing config file is not an error; defaults are used.
func LoadConfig(configPath string) (*Config, error) {
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
		viperCfg.AddConfigPath(".")
		viperCfg.AddConfigPath("./config")
	}

	readErr := viperCfg.ReadInConfig()
	if readErr != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(readErr, &notFound) {
			return nil, fmt.Errorf("read config: %w", readErr)
		}
	}

	var cfg Config

	unmarshalErr := viperCfg.Unmarshal(&cfg)
	if unmarshalErr != nil {
		return nil, fmt.Errorf("unmarshal config: %w", unmarshalErr)
	}

	validateErr := cfg.Validate()
	if validateErr != nil {
		return nil, fmt.Errorf("validate config: %w", validateErr)
	}

	return &cfg, nil
}

// Default returns the configuration used when no file or environment
// overrides are present.
func Default() *Config {
	return &Config{
		Reboot:  RebootConfig{InitBound: DefaultInitBound, DefaultPart: DefaultDefaultPart},
		Logging: LoggingConfig{Level: DefaultLogLevel, Format: DefaultLogFormat},
		Engine:  EngineConfig{Timeout: DefaultEngineTimeout},
		Mesh:    MeshConfig{Cells: DefaultMeshCells, MaxLeaves: DefaultMeshMaxLeaves},
		Verify:  VerifyConfig{MaxCells: DefaultVerifyMaxCells},
	}
}

func applyDefaults(viperCfg *viper.Viper) {
	viperCfg.SetDefault("reboot.init_bound", DefaultInitBound)
	viperCfg.SetDefault("reboot.default_part", DefaultDefaultPart)

	viperCfg.SetDefault("logging.level", DefaultLogLevel)
	viperCfg.SetDefault("logging.format", DefaultLogFormat)

	viperCfg.SetDefault("engine.timeout", DefaultEngineTimeout)

	viperCfg.SetDefault("mesh.cells", DefaultMeshCells)
	viperCfg.SetDefault("mesh.max_leaves", DefaultMeshMaxLeaves)

	viperCfg.SetDefault("verify.max_cells", DefaultVerifyMaxCells)
}
