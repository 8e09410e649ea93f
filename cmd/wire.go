//go:build wireinject
// +build wireinject

package main

import (
	"github.com/google/wire"
	"github.infra.cloudera.com/CAI/AmpExperimentLab/internal/config"
	"github.infra.cloudera.com/CAI/AmpExperimentLab/internal/db/sqlstore"
	"github.infra.cloudera.com/CAI/AmpExperimentLab/internal/experiments"
	"github.infra.cloudera.com/CAI/AmpExperimentLab/internal/reconcilers"
	"github.infra.cloudera.com/CAI/AmpExperimentLab/internal/reconcilers/lifecycle"
	"github.infra.cloudera.com/CAI/AmpExperimentLab/internal/restapi"
	"github.infra.cloudera.com/CAI/AmpExperimentLab/internal/server"
	"github.infra.cloudera.com/CAI/AmpExperimentLab/pkg/app/builders"
	lsql "github.infra.cloudera.com/CAI/AmpExperimentLab/pkg/sql"
)

// wire up the dependencies.
func InitializeDependencies() (*dependencies, error) {
	wire.Build(config.NewConfigFromEnv, builders.Builders,
		NewDatabaseInstance, sqlstore.WireSet,
		lifecycle.NewConfigFromEnv, lifecycle.NewSimulator, lifecycle.NewRunner,
		reconcilers.NewReconcilerSet,
		wire.Bind(new(experiments.Scheduler), new(*reconcilers.ReconcilerSet)),
		experiments.NewService,
		restapi.NewExperimentAPI,
		server.NewConfigFromEnv, server.NewExperimentsServer, server.NewHttpServers,
		wire.Bind(new(server.Pinger), new(*lsql.Instance)),
		newDependencies)
	return &dependencies{}, nil
}
