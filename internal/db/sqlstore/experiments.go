package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
	"github.infra.cloudera.com/CAI/AmpExperimentLab/internal/db"
	lsql "github.infra.cloudera.com/CAI/AmpExperimentLab/pkg/sql"
)

const experimentColumns = `id, name, learning_rate, batch_size, epochs, optimizer, model_type, hidden_layers,
	neurons_per_layer, status, current_epoch, accuracy, loss, duration, created_at, started_at, finished_at`

type Experiments struct {
	db *lsql.Instance
}

var _ db.ExperimentService = &Experiments{}

func NewExperiments(instance *lsql.Instance) db.ExperimentService {
	return &Experiments{
		db: instance,
	}
}

func (e *Experiments) CreateExperiment(ctx context.Context, cfg *db.ExperimentConfig, createdAt time.Time) (*db.Experiment, error) {
	query := `
	INSERT INTO experiments (name, learning_rate, batch_size, epochs, optimizer, model_type, hidden_layers,
		neurons_per_layer, status, current_epoch, created_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, 0, ?)
	`
	args := []interface{}{cfg.Name, cfg.LearningRate, cfg.BatchSize, cfg.Epochs, cfg.Optimizer, cfg.ModelType,
		cfg.HiddenLayers, cfg.NeuronsPerLayer, string(db.StatusNotStarted), createdAt.UTC()}
	id, err := e.db.InsertReturningId(ctx, query, args...)
	if err != nil {
		// the unique index on the configuration tuple lost a race with a concurrent create
		if existing, findErr := e.FindExperimentByConfig(ctx, cfg); findErr == nil {
			return nil, &db.DuplicateConfigError{ExistingId: existing.Id}
		}
		return nil, err
	}
	return &db.Experiment{
		Id:               id,
		ExperimentConfig: *cfg,
		Status:           db.StatusNotStarted,
		CreatedAt:        createdAt.UTC(),
	}, nil
}

func (e *Experiments) GetExperiment(ctx context.Context, id int64) (*db.Experiment, error) {
	query := fmt.Sprintf(`
	SELECT %s
	FROM experiments
	WHERE id = ?
	`, experimentColumns)
	row := e.db.QueryRowContext(ctx, query, id)

	if response, err := ExperimentInstance(row); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, db.ErrNotFound
		}
		return nil, err
	} else {
		return response, nil
	}
}

func (e *Experiments) FindExperimentByConfig(ctx context.Context, cfg *db.ExperimentConfig) (*db.Experiment, error) {
	query := fmt.Sprintf(`
	SELECT %s
	FROM experiments
	WHERE learning_rate = ? AND batch_size = ? AND epochs = ? AND optimizer = ? AND model_type = ?
		AND hidden_layers = ? AND neurons_per_layer = ?
	ORDER BY id
	LIMIT 1
	`, experimentColumns)
	args := []interface{}{cfg.LearningRate, cfg.BatchSize, cfg.Epochs, cfg.Optimizer, cfg.ModelType,
		cfg.HiddenLayers, cfg.NeuronsPerLayer}
	row := e.db.QueryRowContext(ctx, query, args...)

	if response, err := ExperimentInstance(row); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, db.ErrNotFound
		}
		return nil, err
	} else {
		return response, nil
	}
}

func (e *Experiments) ListExperiments(ctx context.Context, field db.SortField, order db.SortOrder) ([]*db.Experiment, error) {
	// both values are interpolated, so they are re-checked against the allow-lists
	field = db.ParseSortField(string(field))
	order = db.ParseSortOrder(string(order))
	query := fmt.Sprintf(`
	SELECT %s
	FROM experiments
	ORDER BY (%s IS NULL), %s %s, id %s
	`, experimentColumns, field, field, order, order)
	rows, err := e.db.QueryContext(ctx, query)

	if err != nil {
		return nil, err
	}
	defer rows.Close()
	response := make([]*db.Experiment, 0)
	for rows.Next() {
		if experiment, err := ExperimentInstance(rows); err != nil {
			return nil, err
		} else {
			response = append(response, experiment)
		}
	}

	return response, rows.Err()
}

func (e *Experiments) DeleteExperiment(ctx context.Context, id int64) error {
	return e.db.Transaction(ctx, func(ctx context.Context, tx *lsql.Tx) error {
		res, err := tx.ExecContext(ctx, `DELETE FROM experiments WHERE id = ? AND status <> ?`, id, string(db.StatusRunning))
		if err != nil {
			return err
		}
		if err := expectOneRow(ctx, tx, res, id, db.ActionDelete); err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx, `DELETE FROM experiment_history WHERE experiment_id = ?`, id)
		return err
	})
}

func (e *Experiments) RequeueExperiment(ctx context.Context, id int64) error {
	return e.db.Transaction(ctx, func(ctx context.Context, tx *lsql.Tx) error {
		query := `
		UPDATE experiments
		SET status = ?, current_epoch = 0, accuracy = NULL, loss = NULL, duration = NULL,
			started_at = NULL, finished_at = NULL
		WHERE id = ? AND status IN (?)
		`
		res, err := tx.ExecContext(ctx, query, string(db.StatusQueued), id, statusStrings(db.RunnableStatuses))
		if err != nil {
			return err
		}
		if err := expectOneRow(ctx, tx, res, id, db.ActionRun); err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx, `DELETE FROM experiment_history WHERE experiment_id = ?`, id)
		return err
	})
}

func (e *Experiments) StartExperiment(ctx context.Context, id int64, startedAt time.Time) (bool, error) {
	query := `
	UPDATE experiments
	SET status = ?, started_at = ?
	WHERE id = ? AND status = ?
	`
	res, err := e.db.ExecContext(ctx, query, string(db.StatusRunning), startedAt.UTC(), id, string(db.StatusQueued))
	if err != nil {
		return false, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected == 1, nil
}

func (e *Experiments) RecordEpoch(ctx context.Context, entry *db.HistoryEntry) error {
	return e.db.Transaction(ctx, func(ctx context.Context, tx *lsql.Tx) error {
		query := `
		UPDATE experiments
		SET current_epoch = ?
		WHERE id = ? AND status = ? AND current_epoch = ? AND epochs >= ?
		`
		res, err := tx.ExecContext(ctx, query, entry.Epoch, entry.ExperimentId, string(db.StatusRunning), entry.Epoch-1, entry.Epoch)
		if err != nil {
			return err
		}
		if err := expectOneRow(ctx, tx, res, entry.ExperimentId, db.ActionRecord); err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx, `
		INSERT INTO experiment_history (experiment_id, epoch, train_loss, val_loss, train_acc, val_acc)
		VALUES (?, ?, ?, ?, ?, ?)
		`, entry.ExperimentId, entry.Epoch, entry.TrainLoss, entry.ValLoss, entry.TrainAcc, entry.ValAcc)
		return err
	})
}

func (e *Experiments) CompleteExperiment(ctx context.Context, id int64, results *db.Results) error {
	query := `
	UPDATE experiments
	SET status = ?, accuracy = ?, loss = ?, duration = ?, finished_at = ?
	WHERE id = ? AND status = ? AND current_epoch = epochs
	`
	args := []interface{}{string(db.StatusCompleted), results.Accuracy, results.Loss, results.Duration,
		results.FinishedAt.UTC(), id, string(db.StatusRunning)}
	res, err := e.db.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	return expectOneRow(ctx, e.db, res, id, db.ActionComplete)
}

func (e *Experiments) FailExperiment(ctx context.Context, id int64, finishedAt time.Time) error {
	query := `
	UPDATE experiments
	SET status = ?, finished_at = ?
	WHERE id = ? AND status IN (?)
	`
	active := []string{string(db.StatusQueued), string(db.StatusRunning)}
	res, err := e.db.ExecContext(ctx, query, string(db.StatusFailed), finishedAt.UTC(), id, active)
	if err != nil {
		return err
	}
	return expectOneRow(ctx, e.db, res, id, db.ActionFail)
}

func (e *Experiments) FailRunningExperiments(ctx context.Context, finishedAt time.Time) (int64, error) {
	query := `
	UPDATE experiments
	SET status = ?, finished_at = ?
	WHERE status = ?
	`
	res, err := e.db.ExecContext(ctx, query, string(db.StatusFailed), finishedAt.UTC(), string(db.StatusRunning))
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (e *Experiments) ListQueuedExperimentIds(ctx context.Context, maxItems int64) ([]int64, error) {
	query := `
	SELECT id
	FROM experiments
	WHERE status = ?
	ORDER BY id
	LIMIT ?
	`
	rows, err := e.db.QueryContext(ctx, query, string(db.StatusQueued), maxItems)

	if err != nil {
		return nil, err
	}
	defer rows.Close()
	response := make([]int64, 0)
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		response = append(response, id)
	}

	return response, rows.Err()
}

type rowQuerier interface {
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *lsql.Row
}

// expectOneRow turns a compare-and-set that matched nothing into ErrNotFound or an InvalidStateError.
func expectOneRow(ctx context.Context, q rowQuerier, res sql.Result, id int64, action string) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 1 {
		return nil
	}

	var status string
	err = q.QueryRowContext(ctx, `SELECT status FROM experiments WHERE id = ?`, id).Scan(&status)
	if errors.Is(err, sql.ErrNoRows) {
		return db.ErrNotFound
	} else if err != nil {
		return err
	}
	log.Debugf("refused to %s experiment %d in status %s", action, id, status)
	return &db.InvalidStateError{Id: id, Status: db.Status(status), Action: action}
}

func statusStrings(statuses []db.Status) []string {
	response := make([]string, 0, len(statuses))
	for _, status := range statuses {
		response = append(response, string(status))
	}
	return response
}
