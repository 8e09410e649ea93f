package server

import (
	lconfig "github.infra.cloudera.com/CAI/AmpExperimentLab/pkg/config"
)

type Config struct {
	ApiBasePath string `env:"SERVER_API_BASE_PATH" envDefault:"/api"`
}

func NewConfigFromEnv() (*Config, error) {
	var cfg Config
	err := lconfig.Parse(&cfg)
	if err != nil {
		return nil, err
	}
	return &cfg, nil
}
