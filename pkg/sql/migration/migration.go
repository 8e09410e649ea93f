package lmigration

import (
	"database/sql"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	"github.com/golang-migrate/migrate/v4/database/pgx"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	lsql "github.infra.cloudera.com/CAI/AmpExperimentLab/pkg/sql"
)

const sourceName = "iofs"

type Migration struct {
	DB       *sql.DB
	cfg      *lsql.Config
	migrate  *migrate.Migrate
	database database.Driver
	source   source.Driver
}

// MigrationSet is a directory of golang-migrate files ("000001_name.up.sql", ...) at Path within FS.
type MigrationSet struct {
	FS   fs.FS
	Path string
}

type MigrationLogger struct {
}

func (m MigrationLogger) Printf(format string, v ...interface{}) {
	msg := strings.TrimSpace(fmt.Sprintf(format, v...))
	log.Print(msg)
}

func (m MigrationLogger) Verbose() bool {
	return false
}

func NewMigration(cfg *lsql.Config, sets map[string]MigrationSet) (*Migration, error) {
	engine := strings.ToLower(cfg.Engine)
	set, ok := sets[engine]
	if !ok {
		return nil, fmt.Errorf("migration set not found for DB engine: set name: %s", engine)
	}

	path := set.Path
	if path == "" {
		path = "."
	}
	src, err := iofs.New(set.FS, path)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	driver, err := cfg.DriverName()
	if err != nil {
		return nil, err
	}
	db, err := sql.Open(driver, cfg.FullAddress())
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(0)

	var dbDriver database.Driver
	switch engine {
	case lsql.EngineSqlite:
		dbDriver, err = sqlite.WithInstance(db, &sqlite.Config{})
	case lsql.EngineSqlite3:
		dbDriver, err = sqlite3.WithInstance(db, &sqlite3.Config{})
	case lsql.EnginePostgres:
		dbDriver, err = pgx.WithInstance(db, &pgx.Config{})
	default:
		err = fmt.Errorf("unknown engine \"%s\"", cfg.Engine)
	}
	if err != nil {
		db.Close()
		return nil, err
	}

	mig, err := migrate.NewWithInstance(sourceName, src, cfg.DatabaseName, dbDriver)
	if err != nil {
		db.Close()
		return nil, err
	}
	mig.Log = MigrationLogger{}

	return &Migration{
		DB:       db,
		cfg:      cfg,
		migrate:  mig,
		source:   src,
		database: dbDriver,
	}, nil
}

// Version reports the applied schema version; zero when nothing has been applied.
func (m *Migration) Version() (uint, bool, error) {
	version, dirty, err := m.migrate.Version()
	if err == migrate.ErrNilVersion {
		return 0, false, nil
	}
	return version, dirty, err
}

// Run migrates to desiredVersion, or to the newest available migration when it is nil.
func (m *Migration) Run(desiredVersion *uint) error {
	version, dirty, err := m.migrate.Version()

	if err != nil && err != migrate.ErrNilVersion {
		return errors.WithStack(err)
	}

	if dirty {
		log.Printf("schema version %d is dirty, rolling back to the previous version", version)
		if version > 1 {
			if err := m.migrate.Force(int(version) - 1); err != nil {
				return errors.WithStack(err)
			}
		} else {
			if err := m.migrate.Drop(); err != nil {
				return errors.WithStack(err)
			}
			m.migrate, err = migrate.NewWithInstance(sourceName, m.source, m.cfg.DatabaseName, m.database)
			if err != nil {
				return errors.WithStack(err)
			}
			m.migrate.Log = MigrationLogger{}
		}
	}

	done := make(chan bool)
	errs := make(chan error, 1)

	// Watch for stops
	go func() {
		sigint := make(chan os.Signal, 1)
		signal.Notify(sigint, os.Interrupt, syscall.SIGTERM)
		defer signal.Stop(sigint)
		select {
		case <-done:
			return
		case <-sigint:
			m.migrate.GracefulStop <- true
		}
	}()

	go func() {
		var err error
		if desiredVersion == nil {
			err = m.migrate.Up()
		} else {
			err = m.migrate.Migrate(*desiredVersion)
		}
		if err != nil && err != migrate.ErrNoChange {
			errs <- errors.WithStack(err)
		}
		close(errs)

		close(done)
	}()

	return <-errs
}

func (m *Migration) Close() error {
	srcErr, dbErr := m.migrate.Close()
	if srcErr != nil {
		return srcErr
	}
	return dbErr
}
