package restapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/go-openapi/swag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.infra.cloudera.com/CAI/AmpExperimentLab/internal/db"
	"github.infra.cloudera.com/CAI/AmpExperimentLab/internal/experiments"
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

func newTestAPI(database db.Database) (*ExperimentAPI, *recordingScheduler) {
	scheduler := &recordingScheduler{}
	watch := &ltime.TestingWatch{Current: time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC), Step: time.Second}
	return NewExperimentAPI(experiments.NewService(database, scheduler, watch)), scheduler
}

func newExperimentBody(cfg *db.ExperimentConfig) *models.NewExperiment {
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

func TestCreateExperimentQueues(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		api, scheduler := newTestAPI(db.NewMemoryDatabase(db.NewMemoryStore()))
		cfg := db.ExperimentConfigGenerator().Draw(t, "config")

		created, herr := api.CreateExperiment(context.TODO(), CreateExperimentParams{Body: newExperimentBody(cfg)})
		if herr != nil {
			t.Fatalf("unexpected error %v", herr)
		}
		assert.Equal(t, string(db.StatusQueued), created.Status)
		assert.Equal(t, cfg.Name, created.Name)
		assert.Equal(t, int64(0), created.CurrentEpoch)
		assert.Nil(t, created.Accuracy)
		assert.Equal(t, []int64{created.ID}, scheduler.scheduled)
	})
}

func TestCreateExperimentInvalid(t *testing.T) {
	api, scheduler := newTestAPI(db.NewMemoryDatabase(db.NewMemoryStore()))

	_, herr := api.CreateExperiment(context.TODO(), CreateExperimentParams{Body: &models.NewExperiment{
		LearningRate: swag.Float64(5),
	}})
	require.NotNil(t, herr)
	assert.Equal(t, http.StatusBadRequest, herr.Code)
	assert.Contains(t, herr.Message, "name")
	assert.Contains(t, herr.Message, "learning_rate")
	assert.Empty(t, scheduler.scheduled)

	_, herr = api.CreateExperiment(context.TODO(), CreateExperimentParams{})
	require.NotNil(t, herr)
	assert.Equal(t, http.StatusBadRequest, herr.Code)
}

func TestCreateExperimentDuplicate(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		api, _ := newTestAPI(db.NewMemoryDatabase(db.NewMemoryStore()))
		cfg := db.ExperimentConfigGenerator().Draw(t, "config")

		first, herr := api.CreateExperiment(context.TODO(), CreateExperimentParams{Body: newExperimentBody(cfg)})
		require.Nil(t, herr)

		renamed := *cfg
		renamed.Name = cfg.Name + "-again"
		_, herr = api.CreateExperiment(context.TODO(), CreateExperimentParams{Body: newExperimentBody(&renamed)})
		require.NotNil(t, herr)
		assert.Equal(t, http.StatusConflict, herr.Code)
		assert.Equal(t, &models.ConflictResponse{
			Error:      "Similar experiment already exists",
			ExistingID: first.ID,
		}, herr.Payload)
	})
}

func TestGetExperimentNotFound(t *testing.T) {
	api, _ := newTestAPI(db.NewMemoryDatabase(db.NewMemoryStore()))
	for _, id := range []int64{0, 1, 42} {
		_, herr := api.GetExperiment(context.TODO(), ExperimentParams{ID: id})
		require.NotNil(t, herr)
		assert.Equal(t, http.StatusNotFound, herr.Code)
		assert.Equal(t, "Experiment not found", herr.Message)
	}
	_, herr := api.DeleteExperiment(context.TODO(), ExperimentParams{ID: 3})
	assert.Equal(t, http.StatusNotFound, herr.Code)
	_, herr = api.RunExperiment(context.TODO(), ExperimentParams{ID: 3})
	assert.Equal(t, http.StatusNotFound, herr.Code)
}

func TestGetExperimentWithHistory(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		ctx := context.TODO()
		store := db.NewMemoryStore()
		api, _ := newTestAPI(db.NewMemoryDatabase(store))
		cfg := db.ExperimentConfigGenerator().Draw(t, "config")

		created, herr := api.CreateExperiment(ctx, CreateExperimentParams{Body: newExperimentBody(cfg)})
		require.Nil(t, herr)
		started, err := store.StartExperiment(ctx, created.ID, time.Now())
		require.NoError(t, err)
		require.True(t, started)

		written := rapid.Int64Range(0, cfg.Epochs).Draw(t, "written")
		for epoch := int64(1); epoch <= written; epoch++ {
			require.NoError(t, store.RecordEpoch(ctx, db.HistoryEntryGenerator(created.ID, epoch).Draw(t, "entry")))
		}

		details, herr := api.GetExperiment(ctx, ExperimentParams{ID: created.ID})
		require.Nil(t, herr)
		assert.Equal(t, string(db.StatusRunning), details.Status)
		assert.Equal(t, written, details.CurrentEpoch)
		assert.NotNil(t, details.StartedAt)
		require.Len(t, details.History, int(written))
		for i, entry := range details.History {
			assert.Equal(t, int64(i+1), entry.Epoch)
		}
	})
}

func TestDeleteAndRunStateErrors(t *testing.T) {
	ctx := context.TODO()
	store := db.NewMemoryStore()
	api, scheduler := newTestAPI(db.NewMemoryDatabase(store))
	cfg := &db.ExperimentConfig{Name: "base", LearningRate: 0.01, BatchSize: 32, Epochs: 3,
		Optimizer: "adam", ModelType: "simple", HiddenLayers: 2, NeuronsPerLayer: 64}

	created, herr := api.CreateExperiment(ctx, CreateExperimentParams{Body: newExperimentBody(cfg)})
	require.Nil(t, herr)

	_, herr = api.RunExperiment(ctx, ExperimentParams{ID: created.ID})
	require.NotNil(t, herr)
	assert.Equal(t, http.StatusBadRequest, herr.Code)
	assert.Equal(t, "Experiment is already running or queued", herr.Message)

	_, err := store.StartExperiment(ctx, created.ID, time.Now())
	require.NoError(t, err)
	_, herr = api.DeleteExperiment(ctx, ExperimentParams{ID: created.ID})
	require.NotNil(t, herr)
	assert.Equal(t, http.StatusBadRequest, herr.Code)
	assert.Equal(t, "Cannot delete a running experiment", herr.Message)

	require.NoError(t, store.FailExperiment(ctx, created.ID, time.Now()))
	ok, herr := api.RunExperiment(ctx, ExperimentParams{ID: created.ID})
	require.Nil(t, herr)
	assert.True(t, ok.Success)
	assert.Equal(t, []int64{created.ID, created.ID}, scheduler.scheduled)

	require.NoError(t, store.FailExperiment(ctx, created.ID, time.Now()))
	ok, herr = api.DeleteExperiment(ctx, ExperimentParams{ID: created.ID})
	require.Nil(t, herr)
	assert.True(t, ok.Success)
	_, herr = api.GetExperiment(ctx, ExperimentParams{ID: created.ID})
	assert.Equal(t, http.StatusNotFound, herr.Code)
}

func TestListExperimentsSummaries(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		ctx := context.TODO()
		api, _ := newTestAPI(db.NewMemoryDatabase(db.NewMemoryStore()))
		configs := rapid.SliceOfNDistinct(db.ExperimentConfigGenerator(), 0, 8, func(c *db.ExperimentConfig) db.ExperimentConfig {
			key := *c
			key.Name = ""
			return key
		}).Draw(t, "configs")
		for _, cfg := range configs {
			_, herr := api.CreateExperiment(ctx, CreateExperimentParams{Body: newExperimentBody(cfg)})
			require.Nil(t, herr)
		}

		params := ListExperimentsParams{
			Sort:  rapid.SampledFrom([]string{"", "name", "accuracy", "bogus"}).Draw(t, "sort"),
			Order: rapid.SampledFrom([]string{"", "asc", "desc", "sideways"}).Draw(t, "order"),
		}
		summaries, herr := api.ListExperiments(ctx, params)
		require.Nil(t, herr)
		assert.Len(t, summaries, len(configs))

		// default ordering is newest first
		if params.Sort != "name" && params.Sort != "accuracy" && params.Order != "asc" {
			for i := 1; i < len(summaries); i++ {
				assert.False(t, time.Time(summaries[i].CreatedAt).After(time.Time(summaries[i-1].CreatedAt)))
			}
		}
	})
}

type brokenExperiments struct {
	*db.MemoryStore
}

func (b *brokenExperiments) ListExperiments(_ context.Context, _ db.SortField, _ db.SortOrder) ([]*db.Experiment, error) {
	return nil, errors.New("disk unavailable")
}

func TestInternalErrorsAreHidden(t *testing.T) {
	store := db.NewMemoryStore()
	api, _ := newTestAPI(db.NewDatabase(&brokenExperiments{store}, store))

	_, herr := api.ListExperiments(context.TODO(), ListExperimentsParams{})
	require.NotNil(t, herr)

	recorder := httptest.NewRecorder()
	herr.WriteResponse(recorder)
	assert.Equal(t, http.StatusInternalServerError, recorder.Code)

	var body models.ErrorResponse
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	assert.Equal(t, "Internal server error", body.Error)
	assert.NotContains(t, recorder.Body.String(), "disk")
}
