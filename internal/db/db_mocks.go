package db

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"pgregory.net/rapid"
)

// MemoryStore is an in-memory ExperimentService and HistoryService for tests.
type MemoryStore struct {
	lock        sync.Mutex
	nextId      int64
	Experiments map[int64]*Experiment
	Entries     map[int64][]*HistoryEntry
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		nextId:      1,
		Experiments: make(map[int64]*Experiment),
		Entries:     make(map[int64][]*HistoryEntry),
	}
}

// NewMemoryDatabase wraps a MemoryStore as a Database.
func NewMemoryDatabase(store *MemoryStore) Database {
	return NewDatabase(store, store)
}

func copyExperiment(e *Experiment) *Experiment {
	c := *e
	return &c
}

func (m *MemoryStore) CreateExperiment(_ context.Context, cfg *ExperimentConfig, createdAt time.Time) (*Experiment, error) {
	m.lock.Lock()
	defer m.lock.Unlock()
	for _, id := range m.sortedIds() {
		if m.Experiments[id].SameTuple(cfg) {
			return nil, &DuplicateConfigError{ExistingId: id}
		}
	}
	experiment := &Experiment{
		Id:               m.nextId,
		ExperimentConfig: *cfg,
		Status:           StatusNotStarted,
		CreatedAt:        createdAt.UTC(),
	}
	m.nextId++
	m.Experiments[experiment.Id] = experiment
	return copyExperiment(experiment), nil
}

func (m *MemoryStore) GetExperiment(_ context.Context, id int64) (*Experiment, error) {
	m.lock.Lock()
	defer m.lock.Unlock()
	if experiment, ok := m.Experiments[id]; ok {
		return copyExperiment(experiment), nil
	}
	return nil, ErrNotFound
}

func (m *MemoryStore) FindExperimentByConfig(_ context.Context, cfg *ExperimentConfig) (*Experiment, error) {
	m.lock.Lock()
	defer m.lock.Unlock()
	for _, id := range m.sortedIds() {
		if m.Experiments[id].SameTuple(cfg) {
			return copyExperiment(m.Experiments[id]), nil
		}
	}
	return nil, ErrNotFound
}

func (m *MemoryStore) ListExperiments(_ context.Context, field SortField, order SortOrder) ([]*Experiment, error) {
	m.lock.Lock()
	defer m.lock.Unlock()
	field = ParseSortField(string(field))
	order = ParseSortOrder(string(order))

	response := make([]*Experiment, 0, len(m.Experiments))
	for _, id := range m.sortedIds() {
		response = append(response, copyExperiment(m.Experiments[id]))
	}
	sort.SliceStable(response, func(i, j int) bool {
		a, b := response[i], response[j]
		cmp, aNull, bNull := compareField(a, b, field)
		if aNull != bNull {
			return bNull
		}
		if cmp == 0 {
			cmp = compareInt(a.Id, b.Id)
		}
		if order == SortAsc {
			return cmp < 0
		}
		return cmp > 0
	})
	return response, nil
}

func compareField(a, b *Experiment, field SortField) (int, bool, bool) {
	switch field {
	case SortAccuracy:
		return compareNullable(a.Accuracy, b.Accuracy)
	case SortLoss:
		return compareNullable(a.Loss, b.Loss)
	case SortDuration:
		return compareNullable(a.Duration, b.Duration)
	case SortName:
		return strings.Compare(a.Name, b.Name), false, false
	default:
		return a.CreatedAt.Compare(b.CreatedAt), false, false
	}
}

func compareNullable(a, b *float64) (int, bool, bool) {
	if a == nil || b == nil {
		return 0, a == nil, b == nil
	}
	switch {
	case *a < *b:
		return -1, false, false
	case *a > *b:
		return 1, false, false
	}
	return 0, false, false
}

func compareInt(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func (m *MemoryStore) DeleteExperiment(_ context.Context, id int64) error {
	m.lock.Lock()
	defer m.lock.Unlock()
	experiment, ok := m.Experiments[id]
	if !ok {
		return ErrNotFound
	}
	if experiment.Status == StatusRunning {
		return &InvalidStateError{Id: id, Status: experiment.Status, Action: ActionDelete}
	}
	delete(m.Experiments, id)
	delete(m.Entries, id)
	return nil
}

func (m *MemoryStore) RequeueExperiment(_ context.Context, id int64) error {
	m.lock.Lock()
	defer m.lock.Unlock()
	experiment, ok := m.Experiments[id]
	if !ok {
		return ErrNotFound
	}
	if !experiment.Status.Runnable() {
		return &InvalidStateError{Id: id, Status: experiment.Status, Action: ActionRun}
	}
	experiment.Status = StatusQueued
	experiment.CurrentEpoch = 0
	experiment.Accuracy, experiment.Loss, experiment.Duration = nil, nil, nil
	experiment.StartedAt, experiment.FinishedAt = nil, nil
	delete(m.Entries, id)
	return nil
}

func (m *MemoryStore) StartExperiment(_ context.Context, id int64, startedAt time.Time) (bool, error) {
	m.lock.Lock()
	defer m.lock.Unlock()
	experiment, ok := m.Experiments[id]
	if !ok || experiment.Status != StatusQueued {
		return false, nil
	}
	experiment.Status = StatusRunning
	started := startedAt.UTC()
	experiment.StartedAt = &started
	return true, nil
}

func (m *MemoryStore) RecordEpoch(_ context.Context, entry *HistoryEntry) error {
	m.lock.Lock()
	defer m.lock.Unlock()
	experiment, ok := m.Experiments[entry.ExperimentId]
	if !ok {
		return ErrNotFound
	}
	if experiment.Status != StatusRunning || experiment.CurrentEpoch != entry.Epoch-1 || entry.Epoch > experiment.Epochs {
		return &InvalidStateError{Id: entry.ExperimentId, Status: experiment.Status, Action: ActionRecord}
	}
	e := *entry
	m.Entries[entry.ExperimentId] = append(m.Entries[entry.ExperimentId], &e)
	experiment.CurrentEpoch = entry.Epoch
	return nil
}

func (m *MemoryStore) CompleteExperiment(_ context.Context, id int64, results *Results) error {
	m.lock.Lock()
	defer m.lock.Unlock()
	experiment, ok := m.Experiments[id]
	if !ok {
		return ErrNotFound
	}
	if experiment.Status != StatusRunning || experiment.CurrentEpoch != experiment.Epochs {
		return &InvalidStateError{Id: id, Status: experiment.Status, Action: ActionComplete}
	}
	accuracy, loss, duration := results.Accuracy, results.Loss, results.Duration
	finished := results.FinishedAt.UTC()
	experiment.Status = StatusCompleted
	experiment.Accuracy, experiment.Loss, experiment.Duration = &accuracy, &loss, &duration
	experiment.FinishedAt = &finished
	return nil
}

func (m *MemoryStore) FailExperiment(_ context.Context, id int64, finishedAt time.Time) error {
	m.lock.Lock()
	defer m.lock.Unlock()
	experiment, ok := m.Experiments[id]
	if !ok {
		return ErrNotFound
	}
	if experiment.Status != StatusQueued && experiment.Status != StatusRunning {
		return &InvalidStateError{Id: id, Status: experiment.Status, Action: ActionFail}
	}
	finished := finishedAt.UTC()
	experiment.Status = StatusFailed
	experiment.FinishedAt = &finished
	return nil
}

func (m *MemoryStore) FailRunningExperiments(_ context.Context, finishedAt time.Time) (int64, error) {
	m.lock.Lock()
	defer m.lock.Unlock()
	var failed int64
	for _, experiment := range m.Experiments {
		if experiment.Status == StatusRunning {
			finished := finishedAt.UTC()
			experiment.Status = StatusFailed
			experiment.FinishedAt = &finished
			failed++
		}
	}
	return failed, nil
}

func (m *MemoryStore) ListQueuedExperimentIds(_ context.Context, maxItems int64) ([]int64, error) {
	m.lock.Lock()
	defer m.lock.Unlock()
	response := make([]int64, 0)
	for _, id := range m.sortedIds() {
		if int64(len(response)) >= maxItems {
			break
		}
		if m.Experiments[id].Status == StatusQueued {
			response = append(response, id)
		}
	}
	return response, nil
}

func (m *MemoryStore) ListHistory(_ context.Context, experimentId int64) ([]*HistoryEntry, error) {
	m.lock.Lock()
	defer m.lock.Unlock()
	response := make([]*HistoryEntry, 0, len(m.Entries[experimentId]))
	for _, entry := range m.Entries[experimentId] {
		e := *entry
		response = append(response, &e)
	}
	return response, nil
}

func (m *MemoryStore) sortedIds() []int64 {
	ids := make([]int64, 0, len(m.Experiments))
	for id := range m.Experiments {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

var _ ExperimentService = &MemoryStore{}
var _ HistoryService = &MemoryStore{}

var (
	Optimizers = []string{"sgd", "adam", "adadelta"}
	ModelTypes = []string{"simple", "complex"}
)

// ExperimentConfigGenerator draws configurations inside every accepted range.
func ExperimentConfigGenerator() *rapid.Generator[*ExperimentConfig] {
	return rapid.Custom(func(t *rapid.T) *ExperimentConfig {
		return &ExperimentConfig{
			Name:            rapid.StringMatching("[a-z][a-z0-9-]{0,15}").Draw(t, "name"),
			LearningRate:    rapid.Float64Range(0.0001, 1).Draw(t, "learningRate"),
			BatchSize:       rapid.Int64Range(8, 512).Draw(t, "batchSize"),
			Epochs:          rapid.Int64Range(1, 50).Draw(t, "epochs"),
			Optimizer:       rapid.SampledFrom(Optimizers).Draw(t, "optimizer"),
			ModelType:       rapid.SampledFrom(ModelTypes).Draw(t, "modelType"),
			HiddenLayers:    rapid.Int64Range(1, 5).Draw(t, "hiddenLayers"),
			NeuronsPerLayer: rapid.Int64Range(32, 512).Draw(t, "neuronsPerLayer"),
		}
	})
}

func HistoryEntryGenerator(experimentId int64, epoch int64) *rapid.Generator[*HistoryEntry] {
	return rapid.Custom(func(t *rapid.T) *HistoryEntry {
		return &HistoryEntry{
			ExperimentId: experimentId,
			Epoch:        epoch,
			TrainLoss:    rapid.Float64Range(0, 1).Draw(t, "trainLoss"),
			ValLoss:      rapid.Float64Range(0, 1).Draw(t, "valLoss"),
			TrainAcc:     rapid.Float64Range(0, 1).Draw(t, "trainAcc"),
			ValAcc:       rapid.Float64Range(0, 1).Draw(t, "valAcc"),
		}
	})
}
