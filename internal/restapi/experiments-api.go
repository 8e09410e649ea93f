package restapi

import (
	"context"

	"github.infra.cloudera.com/CAI/AmpExperimentLab/internal/experiments"
	"github.infra.cloudera.com/CAI/AmpExperimentLab/models"
	lhttp "github.infra.cloudera.com/CAI/AmpExperimentLab/pkg/http"
)

type ListExperimentsParams struct {
	Sort  string `schema:"sort"`
	Order string `schema:"order"`
}

type CreateExperimentParams struct {
	Body *models.NewExperiment
}

type ExperimentParams struct {
	ID int64
}

type ExperimentAPI struct {
	service *experiments.Service
}

func NewExperimentAPI(service *experiments.Service) *ExperimentAPI {
	return &ExperimentAPI{service: service}
}

func (e *ExperimentAPI) ListExperiments(ctx context.Context, params ListExperimentsParams) ([]*models.ExperimentSummary, *lhttp.HttpError) {
	result, err := e.service.List(ctx, params.Sort, params.Order)
	if err != nil {
		return nil, errorFromService(err)
	}
	payload := make([]*models.ExperimentSummary, 0, len(result))
	for _, experiment := range result {
		payload = append(payload, summaryFromDb(experiment))
	}
	return payload, nil
}

// CreateExperiment stores the configuration and queues its first run.
func (e *ExperimentAPI) CreateExperiment(ctx context.Context, params CreateExperimentParams) (*models.Experiment, *lhttp.HttpError) {
	experiment, err := e.service.Submit(ctx, params.Body)
	if err != nil {
		return nil, errorFromService(err)
	}
	return experimentFromDb(experiment), nil
}

func (e *ExperimentAPI) GetExperiment(ctx context.Context, params ExperimentParams) (*models.ExperimentDetails, *lhttp.HttpError) {
	details, err := e.service.Get(ctx, params.ID)
	if err != nil {
		return nil, errorFromService(err)
	}
	payload := &models.ExperimentDetails{
		Experiment: *experimentFromDb(details.Experiment),
		History:    make([]*models.HistoryEntry, 0, len(details.History)),
	}
	for _, entry := range details.History {
		payload.History = append(payload.History, historyFromDb(entry))
	}
	return payload, nil
}

func (e *ExperimentAPI) DeleteExperiment(ctx context.Context, params ExperimentParams) (*models.SuccessResponse, *lhttp.HttpError) {
	if err := e.service.Delete(ctx, params.ID); err != nil {
		return nil, errorFromService(err)
	}
	return &models.SuccessResponse{Success: true}, nil
}

func (e *ExperimentAPI) RunExperiment(ctx context.Context, params ExperimentParams) (*models.SuccessResponse, *lhttp.HttpError) {
	if err := e.service.Enqueue(ctx, params.ID); err != nil {
		return nil, errorFromService(err)
	}
	return &models.SuccessResponse{Success: true}, nil
}

func (e *ExperimentAPI) Shutdown() error {
	return nil
}
