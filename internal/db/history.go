package db

import "context"

type HistoryEntry struct {
	ExperimentId int64
	Epoch        int64
	TrainLoss    float64
	ValLoss      float64
	TrainAcc     float64
	ValAcc       float64
}

type HistoryService interface {
	// ListHistory returns the entries of an experiment ordered by epoch.
	ListHistory(ctx context.Context, experimentId int64) ([]*HistoryEntry, error)
}
