package main

import (
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.infra.cloudera.com/CAI/AmpExperimentLab/internal/config"
	"github.infra.cloudera.com/CAI/AmpExperimentLab/internal/migrations"
	"github.infra.cloudera.com/CAI/AmpExperimentLab/internal/reconcilers"
	"github.infra.cloudera.com/CAI/AmpExperimentLab/pkg/app"
	sbhttpserver "github.infra.cloudera.com/CAI/AmpExperimentLab/pkg/serverbase/http/server"
	lsql "github.infra.cloudera.com/CAI/AmpExperimentLab/pkg/sql"
)

type dependencies struct {
	cfg         *config.Config
	app         *app.Instance
	svc         *sbhttpserver.Instance
	servers     []sbhttpserver.Server
	db          *lsql.Instance
	reconcilers *reconcilers.ReconcilerSet
}

// NewDatabaseInstance migrates the schema before connecting, since the lifecycle runner
// touches the experiments table as soon as it is constructed.
func NewDatabaseInstance(appCfg *config.Config, cfg *lsql.Config) (*lsql.Instance, error) {
	if appCfg.Migrate {
		if err := migrations.Apply(cfg, appCfg.DesiredVersion()); err != nil {
			return nil, err
		}
	}
	return lsql.NewInstance(cfg)
}

func newDependencies(cfg *config.Config, app *app.Instance, svc *sbhttpserver.Instance,
	servers []sbhttpserver.Server, db *lsql.Instance, reconcilers *reconcilers.ReconcilerSet) *dependencies {
	return &dependencies{
		cfg:         cfg,
		app:         app,
		svc:         svc,
		servers:     servers,
		db:          db,
		reconcilers: reconcilers,
	}
}

func serve() error {
	deps, err := InitializeDependencies()
	if err != nil {
		return err
	}

	// closers run in reverse: http first, then the runner, then the database
	deps.app.AddCloser(deps.db)
	deps.reconcilers.Start()
	deps.app.AddCloser(deps.reconcilers)

	if err := deps.svc.Register(sbhttpserver.NewMultiServer(deps.servers)); err != nil {
		_ = deps.app.Close()
		return err
	}
	if err := deps.svc.Serve(); err != nil {
		_ = deps.app.Close()
		return err
	}

	deps.app.WaitForFinish()
	return nil
}

func migrate(version uint) error {
	cfg, err := lsql.NewConfigFromEnv()
	if err != nil {
		return err
	}
	var desired *uint
	if version > 0 {
		desired = &version
	}
	return migrations.Apply(cfg, desired)
}

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "experiment-lab",
		Short:         "Configure, launch and review simulated training runs",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.NewConfigFromEnv()
			if err != nil {
				return err
			}
			log.SetLevel(cfg.Level())
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve()
		},
	}

	root.AddCommand(&cobra.Command{
		Use:   "serve",
		Short: "Run the API server and the lifecycle runner",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve()
		},
	})

	var version uint
	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply the schema migrations and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			return migrate(version)
		},
	}
	migrateCmd.Flags().UintVar(&version, "to", 0, "schema version to migrate to, 0 for the newest")
	root.AddCommand(migrateCmd)

	return root
}

func main() {
	log.SetFormatter(&log.TextFormatter{
		FullTimestamp: true,
	})
	log.SetReportCaller(true)

	if err := newRootCommand().Execute(); err != nil {
		log.Errorf("experiment-lab: %v", err)
		os.Exit(1)
	}
}
