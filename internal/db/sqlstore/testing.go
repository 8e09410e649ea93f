package sqlstore

import (
	"github.infra.cloudera.com/CAI/AmpExperimentLab/internal/db"
	"github.infra.cloudera.com/CAI/AmpExperimentLab/internal/migrations"
	lsql "github.infra.cloudera.com/CAI/AmpExperimentLab/pkg/sql"
	ltest "github.infra.cloudera.com/CAI/AmpExperimentLab/pkg/test"
)

// NewTestingDatabase returns a migrated sqlite database living for the duration of the test.
func NewTestingDatabase(t ltest.T) (db.Database, *lsql.Instance) {
	t.Helper()
	cfg, err := lsql.NewTestingConfig(t)
	if err != nil {
		t.Fatalf("failed to create testing config: %s", err)
	}
	if err := migrations.Apply(cfg, nil); err != nil {
		t.Fatalf("failed to migrate testing database: %s", err)
	}
	instance, err := lsql.NewInstance(cfg)
	if err != nil {
		t.Fatalf("failed to open testing database: %s", err)
	}
	t.Cleanup(func() { instance.Close() })
	return db.NewDatabase(NewExperiments(instance), NewHistory(instance)), instance
}
