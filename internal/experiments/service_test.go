package experiments

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/go-openapi/swag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.infra.cloudera.com/CAI/AmpExperimentLab/internal/db"
	"github.infra.cloudera.com/CAI/AmpExperimentLab/models"
	ltime "github.infra.cloudera.com/CAI/AmpExperimentLab/pkg/time"
	"pgregory.net/rapid"
)

type recordingScheduler struct {
	lock      sync.Mutex
	scheduled []int64
}

func (r *recordingScheduler) Schedule(id int64) {
	r.lock.Lock()
	defer r.lock.Unlock()
	r.scheduled = append(r.scheduled, id)
}

func (r *recordingScheduler) ids() []int64 {
	r.lock.Lock()
	defer r.lock.Unlock()
	return append([]int64(nil), r.scheduled...)
}

func newTestService() (*Service, *db.MemoryStore, *recordingScheduler) {
	return newTestServiceAt(&ltime.TestingWatch{Current: time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC), Step: time.Second})
}

func newTestServiceAt(watch ltime.Watch) (*Service, *db.MemoryStore, *recordingScheduler) {
	store := db.NewMemoryStore()
	scheduler := &recordingScheduler{}
	return NewService(db.NewMemoryDatabase(store), scheduler, watch), store, scheduler
}

func modelFromConfig(cfg *db.ExperimentConfig) *models.NewExperiment {
	return &models.NewExperiment{
		Name:            swag.String(cfg.Name),
		LearningRate:    swag.Float64(cfg.LearningRate),
		BatchSize:       swag.Int64(cfg.BatchSize),
		Epochs:          swag.Int64(cfg.Epochs),
		Optimizer:       swag.String(cfg.Optimizer),
		ModelType:       swag.String(cfg.ModelType),
		HiddenLayers:    swag.Int64(cfg.HiddenLayers),
		NeuronsPerLayer: swag.Int64(cfg.NeuronsPerLayer),
	}
}

func TestCreateStoresNotStarted(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		watch := ltime.TestingWatchGenerator().Draw(t, "watch")
		createdAt := watch.Current
		service, _, scheduler := newTestServiceAt(watch)
		cfg := db.ExperimentConfigGenerator().Draw(t, "config")

		experiment, err := service.Create(context.Background(), modelFromConfig(cfg))
		if err != nil {
			t.Fatalf("create failed: %s", err)
		}
		if experiment.Status != db.StatusNotStarted || experiment.CurrentEpoch != 0 {
			t.Fatalf("unexpected initial state %+v", experiment)
		}
		if experiment.Accuracy != nil || experiment.Loss != nil || experiment.Duration != nil {
			t.Fatalf("results must be empty on create")
		}
		if !experiment.CreatedAt.Equal(createdAt) {
			t.Fatalf("created_at %s, expected %s", experiment.CreatedAt, createdAt)
		}
		if experiment.ExperimentConfig != *cfg {
			t.Fatalf("config not persisted: %+v != %+v", experiment.ExperimentConfig, *cfg)
		}
		if len(scheduler.ids()) != 0 {
			t.Fatalf("create must not schedule")
		}
	})
}

func TestCreateRejectsInvalid(t *testing.T) {
	service, store, _ := newTestService()
	m := modelFromConfig(&db.ExperimentConfig{Name: "x", LearningRate: 2, BatchSize: 4, Epochs: 5,
		Optimizer: "adam", ModelType: "simple", HiddenLayers: 1, NeuronsPerLayer: 32})
	m.ModelType = nil

	_, err := service.Create(context.Background(), m)
	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Contains(t, err.Error(), "learning_rate")
	assert.Contains(t, err.Error(), "batch_size")
	assert.Contains(t, err.Error(), "model_type")
	assert.Empty(t, store.Experiments)

	_, err = service.Create(context.Background(), nil)
	assert.ErrorAs(t, err, &validationErr)
}

func TestCreateRejectsDuplicateRegardlessOfName(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		service, store, _ := newTestService()
		cfg := db.ExperimentConfigGenerator().Draw(t, "config")
		first, err := service.Create(context.Background(), modelFromConfig(cfg))
		if err != nil {
			t.Fatalf("create failed: %s", err)
		}

		renamed := *cfg
		renamed.Name = rapid.StringMatching("[A-Z]{1,8}").Draw(t, "name")
		_, err = service.Create(context.Background(), modelFromConfig(&renamed))
		var dupErr *db.DuplicateConfigError
		if !errors.As(err, &dupErr) || dupErr.ExistingId != first.Id {
			t.Fatalf("expected duplicate of %d, got %v", first.Id, err)
		}
		if len(store.Experiments) != 1 {
			t.Fatalf("duplicate must not be stored")
		}
	})
}

func TestSubmitQueuesAndSchedules(t *testing.T) {
	service, _, scheduler := newTestService()
	cfg := &db.ExperimentConfig{Name: "submit", LearningRate: 0.1, BatchSize: 32, Epochs: 2,
		Optimizer: "sgd", ModelType: "complex", HiddenLayers: 3, NeuronsPerLayer: 64}

	experiment, err := service.Submit(context.Background(), modelFromConfig(cfg))
	require.NoError(t, err)
	assert.Equal(t, db.StatusQueued, experiment.Status)
	assert.Equal(t, []int64{experiment.Id}, scheduler.ids())
}

func TestEnqueueRefusesActive(t *testing.T) {
	service, store, scheduler := newTestService()
	ctx := context.Background()
	cfg := &db.ExperimentConfig{Name: "enqueue", LearningRate: 0.1, BatchSize: 32, Epochs: 2,
		Optimizer: "sgd", ModelType: "complex", HiddenLayers: 3, NeuronsPerLayer: 64}
	experiment, err := service.Create(ctx, modelFromConfig(cfg))
	require.NoError(t, err)

	assert.ErrorIs(t, service.Enqueue(ctx, experiment.Id+1), db.ErrNotFound)

	require.NoError(t, service.Enqueue(ctx, experiment.Id))
	err = service.Enqueue(ctx, experiment.Id)
	assert.True(t, db.IsInvalidState(err))

	store.Experiments[experiment.Id].Status = db.StatusRunning
	assert.True(t, db.IsInvalidState(service.Enqueue(ctx, experiment.Id)))
	assert.True(t, db.IsInvalidState(service.Delete(ctx, experiment.Id)))

	store.Experiments[experiment.Id].Status = db.StatusFailed
	require.NoError(t, service.Enqueue(ctx, experiment.Id))
	assert.Equal(t, []int64{experiment.Id, experiment.Id}, scheduler.ids())
}

func TestRefusedEnqueueKeepsHistory(t *testing.T) {
	service, store, scheduler := newTestService()
	ctx := context.Background()
	cfg := &db.ExperimentConfig{Name: "progress", LearningRate: 0.2, BatchSize: 64, Epochs: 3,
		Optimizer: "adam", ModelType: "simple", HiddenLayers: 2, NeuronsPerLayer: 64}
	experiment, err := service.Create(ctx, modelFromConfig(cfg))
	require.NoError(t, err)

	require.NoError(t, service.Enqueue(ctx, experiment.Id))
	started, err := store.StartExperiment(ctx, experiment.Id, time.Now())
	require.NoError(t, err)
	require.True(t, started)
	require.NoError(t, store.RecordEpoch(ctx, &db.HistoryEntry{ExperimentId: experiment.Id, Epoch: 1, ValAcc: 0.5}))

	assert.True(t, db.IsInvalidState(service.Enqueue(ctx, experiment.Id)))

	details, err := service.Get(ctx, experiment.Id)
	require.NoError(t, err)
	assert.Equal(t, db.StatusRunning, details.Experiment.Status)
	assert.Equal(t, int64(1), details.Experiment.CurrentEpoch)
	require.Len(t, details.History, 1)
	assert.Equal(t, int64(1), details.History[0].Epoch)
	assert.Equal(t, []int64{experiment.Id}, scheduler.ids())
}

type failingRequeue struct {
	*db.MemoryStore
}

func (f *failingRequeue) RequeueExperiment(_ context.Context, _ int64) error {
	return errors.New("database is locked")
}

func TestSubmitReturnsStoredExperimentWhenQueueingFails(t *testing.T) {
	store := db.NewMemoryStore()
	scheduler := &recordingScheduler{}
	watch := &ltime.TestingWatch{Current: time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC), Step: time.Second}
	service := NewService(db.NewDatabase(&failingRequeue{store}, store), scheduler, watch)
	ctx := context.Background()
	cfg := &db.ExperimentConfig{Name: "unqueued", LearningRate: 0.3, BatchSize: 128, Epochs: 4,
		Optimizer: "sgd", ModelType: "complex", HiddenLayers: 4, NeuronsPerLayer: 256}

	experiment, err := service.Submit(ctx, modelFromConfig(cfg))
	require.NoError(t, err)
	require.NotNil(t, experiment)
	assert.NotZero(t, experiment.Id)
	assert.Equal(t, db.StatusNotStarted, experiment.Status)
	assert.Empty(t, scheduler.ids())

	_, err = service.Submit(ctx, modelFromConfig(cfg))
	var dupErr *db.DuplicateConfigError
	require.ErrorAs(t, err, &dupErr)
	assert.Equal(t, experiment.Id, dupErr.ExistingId)
}

func TestConcurrentEnqueueSchedulesOnce(t *testing.T) {
	service, _, scheduler := newTestService()
	ctx := context.Background()
	cfg := &db.ExperimentConfig{Name: "race", LearningRate: 0.5, BatchSize: 16, Epochs: 1,
		Optimizer: "adadelta", ModelType: "simple", HiddenLayers: 1, NeuronsPerLayer: 32}
	experiment, err := service.Create(ctx, modelFromConfig(cfg))
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = service.Enqueue(ctx, experiment.Id)
		}()
	}
	wg.Wait()
	assert.Equal(t, []int64{experiment.Id}, scheduler.ids())
}

func TestGetIncludesHistory(t *testing.T) {
	service, store, _ := newTestService()
	ctx := context.Background()
	cfg := &db.ExperimentConfig{Name: "history", LearningRate: 0.5, BatchSize: 16, Epochs: 2,
		Optimizer: "adadelta", ModelType: "simple", HiddenLayers: 1, NeuronsPerLayer: 32}
	experiment, err := service.Create(ctx, modelFromConfig(cfg))
	require.NoError(t, err)
	require.NoError(t, service.Enqueue(ctx, experiment.Id))
	_, err = store.StartExperiment(ctx, experiment.Id, time.Now())
	require.NoError(t, err)
	require.NoError(t, store.RecordEpoch(ctx, &db.HistoryEntry{ExperimentId: experiment.Id, Epoch: 1}))

	details, err := service.Get(ctx, experiment.Id)
	require.NoError(t, err)
	assert.Equal(t, db.StatusRunning, details.Experiment.Status)
	require.Len(t, details.History, 1)
	assert.Equal(t, int64(1), details.History[0].Epoch)

	_, err = service.Get(ctx, experiment.Id+10)
	assert.ErrorIs(t, err, db.ErrNotFound)
}

func TestListFallsBack(t *testing.T) {
	service, _, _ := newTestService()
	ctx := context.Background()
	var ids []int64
	for i, rate := range []float64{0.1, 0.2, 0.3} {
		experiment, err := service.Create(ctx, modelFromConfig(&db.ExperimentConfig{Name: string(rune('a' + i)),
			LearningRate: rate, BatchSize: 16, Epochs: 1, Optimizer: "sgd", ModelType: "simple",
			HiddenLayers: 1, NeuronsPerLayer: 32}))
		require.NoError(t, err)
		ids = append(ids, experiment.Id)
	}

	experiments, err := service.List(ctx, "bogus", "bogus")
	require.NoError(t, err)
	require.Len(t, experiments, 3)
	assert.Equal(t, ids[2], experiments[0].Id)
	assert.Equal(t, ids[0], experiments[2].Id)

	experiments, err = service.List(ctx, "name", "asc")
	require.NoError(t, err)
	assert.Equal(t, ids[0], experiments[0].Id)
}
