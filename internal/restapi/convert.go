package restapi

import (
	"time"

	"github.com/go-openapi/strfmt"
	"github.infra.cloudera.com/CAI/AmpExperimentLab/internal/db"
	"github.infra.cloudera.com/CAI/AmpExperimentLab/models"
)

func dateTimePtr(t *time.Time) *strfmt.DateTime {
	if t == nil {
		return nil
	}
	dt := strfmt.DateTime(*t)
	return &dt
}

func experimentFromDb(experiment *db.Experiment) *models.Experiment {
	return &models.Experiment{
		ID:              experiment.Id,
		Name:            experiment.Name,
		LearningRate:    experiment.LearningRate,
		BatchSize:       experiment.BatchSize,
		Epochs:          experiment.Epochs,
		Optimizer:       experiment.Optimizer,
		ModelType:       experiment.ModelType,
		HiddenLayers:    experiment.HiddenLayers,
		NeuronsPerLayer: experiment.NeuronsPerLayer,
		Status:          string(experiment.Status),
		CurrentEpoch:    experiment.CurrentEpoch,
		Accuracy:        experiment.Accuracy,
		Loss:            experiment.Loss,
		Duration:        experiment.Duration,
		CreatedAt:       strfmt.DateTime(experiment.CreatedAt),
		StartedAt:       dateTimePtr(experiment.StartedAt),
		FinishedAt:      dateTimePtr(experiment.FinishedAt),
	}
}

func summaryFromDb(experiment *db.Experiment) *models.ExperimentSummary {
	return &models.ExperimentSummary{
		ID:           experiment.Id,
		Name:         experiment.Name,
		Status:       string(experiment.Status),
		CreatedAt:    strfmt.DateTime(experiment.CreatedAt),
		Accuracy:     experiment.Accuracy,
		Loss:         experiment.Loss,
		Duration:     experiment.Duration,
		CurrentEpoch: experiment.CurrentEpoch,
	}
}

func historyFromDb(entry *db.HistoryEntry) *models.HistoryEntry {
	return &models.HistoryEntry{
		Epoch:     entry.Epoch,
		TrainLoss: entry.TrainLoss,
		ValLoss:   entry.ValLoss,
		TrainAcc:  entry.TrainAcc,
		ValAcc:    entry.ValAcc,
	}
}
