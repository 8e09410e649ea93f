package experiments

import (
	"context"
	"errors"

	"github.com/go-openapi/strfmt"
	log "github.com/sirupsen/logrus"
	"github.infra.cloudera.com/CAI/AmpExperimentLab/internal/db"
	"github.infra.cloudera.com/CAI/AmpExperimentLab/models"
	ltime "github.infra.cloudera.com/CAI/AmpExperimentLab/pkg/time"
)

// ValidationError wraps every field violation found in a submitted configuration.
type ValidationError struct {
	Err error
}

func (e *ValidationError) Error() string {
	return e.Err.Error()
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// Scheduler hands queued experiments to the lifecycle runner. Schedule must not block.
type Scheduler interface {
	Schedule(id int64)
}

type Details struct {
	Experiment *db.Experiment
	History    []*db.HistoryEntry
}

type Service struct {
	db        db.Database
	scheduler Scheduler
	watch     ltime.Watch
}

func NewService(database db.Database, scheduler Scheduler, watch ltime.Watch) *Service {
	return &Service{
		db:        database,
		scheduler: scheduler,
		watch:     watch,
	}
}

func configFromModel(m *models.NewExperiment) *db.ExperimentConfig {
	return &db.ExperimentConfig{
		Name:            *m.Name,
		LearningRate:    *m.LearningRate,
		BatchSize:       *m.BatchSize,
		Epochs:          *m.Epochs,
		Optimizer:       *m.Optimizer,
		ModelType:       *m.ModelType,
		HiddenLayers:    *m.HiddenLayers,
		NeuronsPerLayer: *m.NeuronsPerLayer,
	}
}

// Create validates and stores a not_started experiment. It returns a *ValidationError or a
// *db.DuplicateConfigError when the submission is refused.
func (s *Service) Create(ctx context.Context, m *models.NewExperiment) (*db.Experiment, error) {
	if m == nil {
		m = &models.NewExperiment{}
	}
	if err := m.Validate(strfmt.Default); err != nil {
		return nil, &ValidationError{Err: err}
	}
	cfg := configFromModel(m)

	existing, err := s.db.Experiments().FindExperimentByConfig(ctx, cfg)
	if err == nil {
		return nil, &db.DuplicateConfigError{ExistingId: existing.Id}
	} else if !errors.Is(err, db.ErrNotFound) {
		return nil, err
	}

	experiment, err := s.db.Experiments().CreateExperiment(ctx, cfg, s.watch.Now())
	if err != nil {
		return nil, err
	}
	log.Printf("created experiment %d (%s)", experiment.Id, experiment.Name)
	return experiment, nil
}

// Submit creates an experiment and immediately queues it for a run. When queueing fails the
// stored experiment is still returned, not_started, so the caller can trigger the run later.
func (s *Service) Submit(ctx context.Context, m *models.NewExperiment) (*db.Experiment, error) {
	experiment, err := s.Create(ctx, m)
	if err != nil {
		return nil, err
	}
	if err := s.Enqueue(ctx, experiment.Id); err != nil {
		log.Printf("experiment %d stored but not queued: %s", experiment.Id, err)
		return experiment, nil
	}
	return s.db.Experiments().GetExperiment(ctx, experiment.Id)
}

func (s *Service) Get(ctx context.Context, id int64) (*Details, error) {
	experiment, err := s.db.Experiments().GetExperiment(ctx, id)
	if err != nil {
		return nil, err
	}
	history, err := s.db.History().ListHistory(ctx, id)
	if err != nil {
		return nil, err
	}
	return &Details{Experiment: experiment, History: history}, nil
}

// List accepts any sort and order strings; unknown values fall back to created_at desc.
func (s *Service) List(ctx context.Context, sort string, order string) ([]*db.Experiment, error) {
	return s.db.Experiments().ListExperiments(ctx, db.ParseSortField(sort), db.ParseSortOrder(order))
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := s.db.Experiments().DeleteExperiment(ctx, id); err != nil {
		return err
	}
	log.Printf("deleted experiment %d", id)
	return nil
}

// Enqueue resets a runnable experiment to queued and schedules it. Queued and running experiments
// are refused with a *db.InvalidStateError.
func (s *Service) Enqueue(ctx context.Context, id int64) error {
	if err := s.db.Experiments().RequeueExperiment(ctx, id); err != nil {
		return err
	}
	log.Printf("queued experiment %d", id)
	s.scheduler.Schedule(id)
	return nil
}
