package sqlstore

import (
	"database/sql"
	"time"

	"github.infra.cloudera.com/CAI/AmpExperimentLab/internal/db"
	lsql "github.infra.cloudera.com/CAI/AmpExperimentLab/pkg/sql"
)

// ExperimentInstance scans a row selected with experimentColumns.
func ExperimentInstance(row lsql.RowScanner) (*db.Experiment, error) {
	var (
		experiment db.Experiment
		status     string
		accuracy   sql.NullFloat64
		loss       sql.NullFloat64
		duration   sql.NullFloat64
		startedAt  sql.NullTime
		finishedAt sql.NullTime
	)
	err := row.Scan(
		&experiment.Id,
		&experiment.Name,
		&experiment.LearningRate,
		&experiment.BatchSize,
		&experiment.Epochs,
		&experiment.Optimizer,
		&experiment.ModelType,
		&experiment.HiddenLayers,
		&experiment.NeuronsPerLayer,
		&status,
		&experiment.CurrentEpoch,
		&accuracy,
		&loss,
		&duration,
		&experiment.CreatedAt,
		&startedAt,
		&finishedAt,
	)
	if err != nil {
		return nil, err
	}
	experiment.Status = db.Status(status)
	experiment.Accuracy = nullFloat(accuracy)
	experiment.Loss = nullFloat(loss)
	experiment.Duration = nullFloat(duration)
	experiment.CreatedAt = experiment.CreatedAt.UTC()
	experiment.StartedAt = nullTime(startedAt)
	experiment.FinishedAt = nullTime(finishedAt)
	return &experiment, nil
}

func nullFloat(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}

func nullTime(v sql.NullTime) *time.Time {
	if !v.Valid {
		return nil
	}
	t := v.Time.UTC()
	return &t
}
