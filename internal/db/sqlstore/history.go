package sqlstore

import (
	"context"

	"github.infra.cloudera.com/CAI/AmpExperimentLab/internal/db"
	lsql "github.infra.cloudera.com/CAI/AmpExperimentLab/pkg/sql"
)

type History struct {
	db *lsql.Instance
}

var _ db.HistoryService = &History{}

func NewHistory(instance *lsql.Instance) db.HistoryService {
	return &History{
		db: instance,
	}
}

func (h *History) ListHistory(ctx context.Context, experimentId int64) ([]*db.HistoryEntry, error) {
	query := `
	SELECT experiment_id, epoch, train_loss, val_loss, train_acc, val_acc
	FROM experiment_history
	WHERE experiment_id = ?
	ORDER BY epoch
	`
	rows, err := h.db.QueryContext(ctx, query, experimentId)

	if err != nil {
		return nil, err
	}
	defer rows.Close()
	response := make([]*db.HistoryEntry, 0)
	for rows.Next() {
		entry := &db.HistoryEntry{}
		if err := rows.Scan(&entry.ExperimentId, &entry.Epoch, &entry.TrainLoss, &entry.ValLoss, &entry.TrainAcc, &entry.ValAcc); err != nil {
			return nil, err
		}
		response = append(response, entry)
	}

	return response, rows.Err()
}
