package config

import (
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/pkg/errors"
)

const (
	configPathVar     = "ANPR_CONFIG"
	defaultConfigPath = "config/anpr.yaml"
)

type Config interface {
	EnvConfig
	APIConfig
	OtpConfig
	StorageConfig
}

type EnvConfig interface {
	GetAppName() string
	GetEnv() string
	GetLogLevel() string
}

type APIConfig interface {
	GetBaseURL() string
	GetHTTPTimeout() time.Duration
}

type mainConfig struct {
	EnvVars `yaml:",inline"`
	API     `yaml:"api"`
	Otp     `yaml:"otp"`
	Storage `yaml:"storage"`
}

// New returns a configuration made only of defaults.
func New() Config {
	return mainConfig{}
}

// Load reads the optional YAML file named by ANPR_CONFIG and then the environment.
// Environment variables win over the file.
func Load() (Config, error) {
	cfg := &mainConfig{}
	path := GetEnv(configPathVar, defaultConfigPath)
	if st, err := os.Stat(path); err == nil && !st.IsDir() {
		if err := cleanenv.ReadConfig(path, cfg); err != nil {
			return nil, errors.Wrapf(err, "[config.Load] reading %s", path)
		}
	}
	if err := cleanenv.ReadEnv(cfg); err != nil {
		return nil, errors.Wrap(err, "[config.Load] reading environment")
	}
	return cfg, nil
}
