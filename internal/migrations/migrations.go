package migrations

import (
	"github.infra.cloudera.com/CAI/AmpExperimentLab/internal/migrations/postgres"
	"github.infra.cloudera.com/CAI/AmpExperimentLab/internal/migrations/sqlite"
	lmigration "github.infra.cloudera.com/CAI/AmpExperimentLab/pkg/sql/migration"
	lsql "github.infra.cloudera.com/CAI/AmpExperimentLab/pkg/sql"
)

// Sets keys the schema migrations by SQL_DB_ENGINE value.
func Sets() map[string]lmigration.MigrationSet {
	sqliteSet := lmigration.MigrationSet{FS: sqlite.Files}
	return map[string]lmigration.MigrationSet{
		lsql.EngineSqlite:   sqliteSet,
		lsql.EngineSqlite3:  sqliteSet,
		lsql.EnginePostgres: {FS: postgres.Files},
	}
}

// Apply brings the schema to version, or to the newest version when version is nil.
func Apply(cfg *lsql.Config, version *uint) error {
	migration, err := lmigration.NewMigration(cfg, Sets())
	if err != nil {
		return err
	}
	defer migration.Close()
	return migration.Run(version)
}
