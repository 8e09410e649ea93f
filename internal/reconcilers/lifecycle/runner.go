package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
	"github.infra.cloudera.com/CAI/AmpExperimentLab/internal/db"
	"github.infra.cloudera.com/CAI/AmpExperimentLab/internal/simulator"
	"github.infra.cloudera.com/CAI/AmpExperimentLab/pkg/app"
	"github.infra.cloudera.com/CAI/AmpExperimentLab/pkg/reconciler"
	ltime "github.infra.cloudera.com/CAI/AmpExperimentLab/pkg/time"
)

const failTimeout = 10 * time.Second

var ErrInterrupted = errors.New("run interrupted by shutdown")

type EpochSimulator interface {
	Simulate(experiment *db.Experiment, epoch int64) *db.HistoryEntry
}

// Runner drives queued experiments through their epochs to completed or failed.
type Runner struct {
	config    *Config
	db        db.Database
	simulator EpochSimulator
	sleeper   ltime.Sleeper
	watch     ltime.Watch
}

var _ reconciler.Reconciler[int64] = &Runner{}

func NewRunner(config *Config, db db.Database, simulator EpochSimulator, sleeper ltime.Sleeper, watch ltime.Watch) *Runner {
	return &Runner{
		config:    config,
		db:        db,
		simulator: simulator,
		sleeper:   sleeper,
		watch:     watch,
	}
}

func NewSimulator(config *Config) EpochSimulator {
	return simulator.New(config.Seed)
}

func (r *Runner) Name() string {
	return "lifecycle-runner"
}

// Reboot fails experiments a previous process left running; their runs cannot be resumed.
func (r *Runner) Reboot(ctx context.Context) {
	if !r.config.Enabled {
		return
	}
	failed, err := r.db.Experiments().FailRunningExperiments(ctx, r.watch.Now())
	if err != nil {
		log.Printf("failed to mark orphaned experiments as failed: %s", err)
		return
	}
	if failed > 0 {
		log.Printf("marked %d orphaned running experiments as failed", failed)
	}
}

func (r *Runner) Resync(ctx context.Context, queue *reconciler.ReconcileQueue[int64]) {
	if !r.config.Enabled {
		return
	}
	log.Debugln("beginning lifecycle runner resync")

	ids, err := r.db.Experiments().ListQueuedExperimentIds(ctx, int64(r.config.ResyncMaxItems))
	if err != nil {
		log.Printf("failed to fetch queued experiment ids: %s", err)
		return
	}
	for _, id := range ids {
		if queue.Add(id) {
			log.Printf("queueing experiment %d for a run", id)
		}
	}

	log.Debugln("completing lifecycle runner resync")
}

func (r *Runner) Reconcile(ctx context.Context, items []reconciler.ReconcileItem[int64]) {
	for _, item := range items {
		err := r.run(ctx, item.ID)
		if err != nil {
			r.fail(ctx, item.ID, err)
		}
		item.Callback(err)
	}
}

func (r *Runner) run(ctx context.Context, id int64) error {
	startedAt := r.watch.Now()
	started, err := r.db.Experiments().StartExperiment(ctx, id, startedAt)
	if err != nil {
		return fmt.Errorf("failed to start: %w", err)
	}
	if !started {
		log.Debugf("experiment %d is no longer queued, skipping", id)
		return nil
	}

	experiment, err := r.db.Experiments().GetExperiment(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to load: %w", err)
	}
	log.Printf("running experiment %d (%s) for %d epochs", id, experiment.Name, experiment.Epochs)

	var last *db.HistoryEntry
	for epoch := int64(1); epoch <= experiment.Epochs; epoch++ {
		entry := r.simulator.Simulate(experiment, epoch)
		if err := r.db.Experiments().RecordEpoch(ctx, entry); err != nil {
			return fmt.Errorf("failed to record epoch %d: %w", epoch, err)
		}
		last = entry
		if err := r.sleeper.Sleep(ctx, r.config.EpochDuration); err != nil {
			return fmt.Errorf("%w after epoch %d", ErrInterrupted, epoch)
		}
	}

	finishedAt := r.watch.Now()
	results := &db.Results{
		Accuracy:   last.ValAcc,
		Loss:       last.ValLoss,
		Duration:   finishedAt.Sub(startedAt).Seconds(),
		FinishedAt: finishedAt,
	}
	if err := r.db.Experiments().CompleteExperiment(ctx, id, results); err != nil {
		return fmt.Errorf("failed to complete: %w", err)
	}
	log.Printf("experiment %d completed: accuracy %.4f, loss %.4f, duration %.1fs", id, results.Accuracy, results.Loss, results.Duration)
	return nil
}

// fail runs on a context detached from cancellation so shutdown still records the failure.
func (r *Runner) fail(ctx context.Context, id int64, cause error) {
	log.Printf("experiment %d failed: %s", id, cause)
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), failTimeout)
	defer cancel()
	if err := r.db.Experiments().FailExperiment(ctx, id, r.watch.Now()); err != nil && !errors.Is(err, db.ErrNotFound) {
		log.Printf("failed to mark experiment %d as failed: %s", id, err)
	}
}

func NewRunnerManager(app *app.Instance, cfg *Config, runner *Runner) (*reconciler.Manager[int64], error) {
	log.Println("lifecycle runner initializing")
	reconcilerConfig, err := reconciler.NewConfig(cfg.ResyncFrequency, cfg.MaxWorkers, cfg.RunMaxItems)

	if err != nil {
		return nil, err
	}
	return reconciler.NewManager[int64](app.Context(), reconcilerConfig, runner), nil
}
