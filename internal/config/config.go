package config

import (
	log "github.com/sirupsen/logrus"
	lconfig "github.infra.cloudera.com/CAI/AmpExperimentLab/pkg/config"
)

type Config struct {
	Migrate bool `env:"MIGRATE" envDefault:"true"`
	// Zero migrates to the newest schema
	MigrationVersion uint   `env:"MIGRATION_VERSION" envDefault:"0"`
	LogLevel         string `env:"LOG_LEVEL" envDefault:"info"`
}

func NewConfigFromEnv() (*Config, error) {
	var cfg Config
	err := lconfig.Parse(&cfg)
	if err != nil {
		return nil, err
	}
	if _, err := log.ParseLevel(cfg.LogLevel); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// DesiredVersion is the schema version to migrate to, nil meaning the newest one
func (cfg *Config) DesiredVersion() *uint {
	if cfg.MigrationVersion == 0 {
		return nil
	}
	version := cfg.MigrationVersion
	return &version
}

func (cfg *Config) Level() log.Level {
	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		return log.InfoLevel
	}
	return level
}
