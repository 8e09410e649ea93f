package lsql

import (
	"os"
	"time"

	ltest "github.infra.cloudera.com/CAI/AmpExperimentLab/pkg/test"
)

// NewTestingConfig points at a throwaway sqlite file removed when the test finishes.
func NewTestingConfig(t ltest.T) (*Config, error) {
	file, err := os.CreateTemp("", "experiments-*.db")
	if err != nil {
		return nil, err
	}
	if err := file.Close(); err != nil {
		return nil, err
	}
	t.Cleanup(func() {
		_, err := os.Stat(file.Name())
		if !os.IsNotExist(err) {
			os.RemoveAll(file.Name())
		}
	})
	return &Config{
		Engine:          EngineSqlite,
		DatabaseName:    "test",
		Address:         file.Name(),
		MaxLifetime:     time.Minute,
		MaxIdleConns:    2,
		MaxOpenConns:    4,
		BusyTimeout:     5 * time.Second,
		ConnectAttempts: 1,
	}, nil
}
