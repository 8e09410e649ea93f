package lifecycle

import (
	"fmt"
	"time"

	lconfig "github.infra.cloudera.com/CAI/AmpExperimentLab/pkg/config"
	"github.infra.cloudera.com/CAI/AmpExperimentLab/pkg/reconciler"
)

type Config struct {
	Enabled         bool          `env:"LIFECYCLE_RUNNER_ENABLED" envDefault:"true"`
	EpochDuration   time.Duration `env:"LIFECYCLE_RUNNER_EPOCH_DURATION" envDefault:"1s"`
	ResyncFrequency time.Duration `env:"LIFECYCLE_RUNNER_RESYNC_FREQUENCY" envDefault:"15s"`
	ResyncMaxItems  int           `env:"LIFECYCLE_RUNNER_RESYNC_MAX_ITEMS" envDefault:"100"`
	MaxWorkers      int           `env:"LIFECYCLE_RUNNER_MAX_WORKERS" envDefault:"4"`
	RunMaxItems     int           `env:"LIFECYCLE_RUNNER_RUN_MAX_ITEMS" envDefault:"1"`
	Seed            int64         `env:"LIFECYCLE_RUNNER_SEED" envDefault:"0"`
}

func NewConfigFromEnv() (*Config, error) {
	var cfg Config
	err := lconfig.Parse(&cfg)
	if err != nil {
		return nil, err
	}
	err = validateConfig(&cfg)
	if err != nil {
		return nil, err
	}
	return &cfg, nil
}

var ErrInvalidEpochDuration = fmt.Errorf("invalid epoch duration")
var ErrInvalidResyncMaxItems = fmt.Errorf("invalid resync max items")

func validateConfig(config *Config) error {
	if config.ResyncFrequency < 1*time.Millisecond {
		return reconciler.ErrInvalidResyncFrequency
	}

	if config.MaxWorkers < 1 {
		return reconciler.ErrInvalidMaxWorkers
	}

	if config.RunMaxItems < 1 {
		return reconciler.ErrInvalidRunMaxItems
	}

	if config.EpochDuration < 0 {
		return ErrInvalidEpochDuration
	}
	if config.ResyncMaxItems < 1 {
		return ErrInvalidResyncMaxItems
	}
	return nil
}
