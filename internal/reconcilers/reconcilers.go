package reconcilers

import (
	log "github.com/sirupsen/logrus"
	"github.infra.cloudera.com/CAI/AmpExperimentLab/internal/experiments"
	"github.infra.cloudera.com/CAI/AmpExperimentLab/internal/reconcilers/lifecycle"
	"github.infra.cloudera.com/CAI/AmpExperimentLab/pkg/app"
	"github.infra.cloudera.com/CAI/AmpExperimentLab/pkg/reconciler"
)

type ReconcilerSet struct {
	Runner *lifecycle.Runner

	runnerCfg     *lifecycle.Config
	runnerManager *reconciler.Manager[int64]
}

var _ experiments.Scheduler = &ReconcilerSet{}

func NewReconcilerSet(app *app.Instance, runnerCfg *lifecycle.Config, runner *lifecycle.Runner) *ReconcilerSet {
	runnerManager, err := lifecycle.NewRunnerManager(app, runnerCfg, runner)
	if err != nil {
		panic(err)
	}

	return &ReconcilerSet{
		Runner: runner,

		runnerCfg:     runnerCfg,
		runnerManager: runnerManager,
	}
}

// Schedule hands a queued experiment to the lifecycle runner. While the runner is disabled the
// experiment stays queued until a runner picks it up on resync.
func (r *ReconcilerSet) Schedule(id int64) {
	if !r.runnerCfg.Enabled {
		log.Printf("lifecycle runner disabled, experiment %d stays queued", id)
		return
	}
	r.runnerManager.Add(id)
}

func (r *ReconcilerSet) Start() {
	if r.runnerCfg.Enabled {
		r.runnerManager.Start()
	}
}

func (r *ReconcilerSet) Finish() {
	if r.runnerCfg.Enabled {
		r.runnerManager.Finish()
	}
}

func (r *ReconcilerSet) Close() error {
	r.Finish()
	return nil
}
