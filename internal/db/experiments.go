package db

import (
	"context"
	"time"
)

type Status string

const (
	StatusNotStarted = Status("not_started")
	StatusQueued     = Status("queued")
	StatusRunning    = Status("running")
	StatusCompleted  = Status("completed")
	StatusFailed     = Status("failed")
)

// RunnableStatuses may be moved to queued.
var RunnableStatuses = []Status{StatusNotStarted, StatusCompleted, StatusFailed}

func (s Status) Runnable() bool {
	for _, status := range RunnableStatuses {
		if s == status {
			return true
		}
	}
	return false
}

func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

type SortField string

const (
	SortCreatedAt = SortField("created_at")
	SortAccuracy  = SortField("accuracy")
	SortLoss      = SortField("loss")
	SortDuration  = SortField("duration")
	SortName      = SortField("name")
)

var sortFields = map[SortField]bool{
	SortCreatedAt: true,
	SortAccuracy:  true,
	SortLoss:      true,
	SortDuration:  true,
	SortName:      true,
}

// ParseSortField falls back to created_at for anything outside the allow-list.
func ParseSortField(value string) SortField {
	if field := SortField(value); sortFields[field] {
		return field
	}
	return SortCreatedAt
}

type SortOrder string

const (
	SortAsc  = SortOrder("asc")
	SortDesc = SortOrder("desc")
)

func ParseSortOrder(value string) SortOrder {
	if order := SortOrder(value); order == SortAsc || order == SortDesc {
		return order
	}
	return SortDesc
}

// ExperimentConfig is the user supplied part of an experiment. Everything except Name takes part
// in duplicate detection.
type ExperimentConfig struct {
	Name            string
	LearningRate    float64
	BatchSize       int64
	Epochs          int64
	Optimizer       string
	ModelType       string
	HiddenLayers    int64
	NeuronsPerLayer int64
}

func (c *ExperimentConfig) SameTuple(other *ExperimentConfig) bool {
	return c.LearningRate == other.LearningRate &&
		c.BatchSize == other.BatchSize &&
		c.Epochs == other.Epochs &&
		c.Optimizer == other.Optimizer &&
		c.ModelType == other.ModelType &&
		c.HiddenLayers == other.HiddenLayers &&
		c.NeuronsPerLayer == other.NeuronsPerLayer
}

type Experiment struct {
	Id int64
	ExperimentConfig
	Status       Status
	CurrentEpoch int64
	Accuracy     *float64
	Loss         *float64
	Duration     *float64
	CreatedAt    time.Time
	StartedAt    *time.Time
	FinishedAt   *time.Time
}

// Results are written when the final epoch has been recorded.
type Results struct {
	Accuracy   float64
	Loss       float64
	Duration   float64
	FinishedAt time.Time
}

type ExperimentService interface {
	// CreateExperiment inserts a not_started experiment. A configuration tuple that already exists
	// yields a *DuplicateConfigError.
	CreateExperiment(ctx context.Context, cfg *ExperimentConfig, createdAt time.Time) (*Experiment, error)
	GetExperiment(ctx context.Context, id int64) (*Experiment, error)
	FindExperimentByConfig(ctx context.Context, cfg *ExperimentConfig) (*Experiment, error)
	ListExperiments(ctx context.Context, field SortField, order SortOrder) ([]*Experiment, error)
	// DeleteExperiment removes the experiment and its history unless it is running.
	DeleteExperiment(ctx context.Context, id int64) error

	// RequeueExperiment moves a runnable experiment to queued, clearing its progress, results and history.
	RequeueExperiment(ctx context.Context, id int64) error
	// StartExperiment moves a queued experiment to running. It reports false when the experiment
	// was not queued.
	StartExperiment(ctx context.Context, id int64, startedAt time.Time) (bool, error)
	// RecordEpoch appends the history entry and advances current_epoch of a running experiment together.
	RecordEpoch(ctx context.Context, entry *HistoryEntry) error
	CompleteExperiment(ctx context.Context, id int64, results *Results) error
	// FailExperiment marks a queued or running experiment failed.
	FailExperiment(ctx context.Context, id int64, finishedAt time.Time) error
	// FailRunningExperiments marks every running experiment failed and returns how many there were.
	FailRunningExperiments(ctx context.Context, finishedAt time.Time) (int64, error)
	ListQueuedExperimentIds(ctx context.Context, maxItems int64) ([]int64, error)
}
