package models

import (
	"github.com/go-openapi/strfmt"
	"github.com/go-openapi/swag"
)

// Experiment an experiment and its latest results
//
// swagger:model Experiment
type Experiment struct {

	// validation accuracy of the final epoch, null until completed
	Accuracy *float64 `json:"accuracy"`

	// batch size
	BatchSize int64 `json:"batch_size"`

	// created at
	// Format: date-time
	CreatedAt strfmt.DateTime `json:"created_at"`

	// last epoch written to the history
	CurrentEpoch int64 `json:"current_epoch"`

	// run time in seconds, null until completed
	Duration *float64 `json:"duration"`

	// epochs
	Epochs int64 `json:"epochs"`

	// finished at
	// Format: date-time
	FinishedAt *strfmt.DateTime `json:"finished_at"`

	// hidden layers
	HiddenLayers int64 `json:"hidden_layers"`

	// id
	ID int64 `json:"id"`

	// learning rate
	LearningRate float64 `json:"learning_rate"`

	// validation loss of the final epoch, null until completed
	Loss *float64 `json:"loss"`

	// model type
	ModelType string `json:"model_type"`

	// name
	Name string `json:"name"`

	// neurons per layer
	NeuronsPerLayer int64 `json:"neurons_per_layer"`

	// optimizer
	Optimizer string `json:"optimizer"`

	// started at
	// Format: date-time
	StartedAt *strfmt.DateTime `json:"started_at"`

	// status
	// Enum: [not_started queued running completed failed]
	Status string `json:"status"`
}

// MarshalBinary interface implementation
func (m *Experiment) MarshalBinary() ([]byte, error) {
	if m == nil {
		return nil, nil
	}
	return swag.WriteJSON(m)
}

// UnmarshalBinary interface implementation
func (m *Experiment) UnmarshalBinary(b []byte) error {
	var res Experiment
	if err := swag.ReadJSON(b, &res); err != nil {
		return err
	}
	*m = res
	return nil
}

// ExperimentDetails an experiment together with its per-epoch history
//
// swagger:model ExperimentDetails
type ExperimentDetails struct {
	Experiment

	// history ordered by epoch
	History []*HistoryEntry `json:"history"`
}

// MarshalJSON marshals this object to a JSON structure
func (m ExperimentDetails) MarshalJSON() ([]byte, error) {
	_parts := make([][]byte, 0, 2)

	aO0, err := swag.WriteJSON(m.Experiment)
	if err != nil {
		return nil, err
	}
	_parts = append(_parts, aO0)

	var dataAO1 struct {
		History []*HistoryEntry `json:"history"`
	}
	dataAO1.History = m.History
	if dataAO1.History == nil {
		dataAO1.History = []*HistoryEntry{}
	}

	jsonDataAO1, errAO1 := swag.WriteJSON(dataAO1)
	if errAO1 != nil {
		return nil, errAO1
	}
	_parts = append(_parts, jsonDataAO1)
	return swag.ConcatJSON(_parts...), nil
}

// UnmarshalJSON unmarshals this object from a JSON structure
func (m *ExperimentDetails) UnmarshalJSON(raw []byte) error {
	var aO0 Experiment
	if err := swag.ReadJSON(raw, &aO0); err != nil {
		return err
	}
	m.Experiment = aO0

	var dataAO1 struct {
		History []*HistoryEntry `json:"history"`
	}
	if err := swag.ReadJSON(raw, &dataAO1); err != nil {
		return err
	}
	m.History = dataAO1.History

	return nil
}

// ExperimentSummary the list view of an experiment
//
// swagger:model ExperimentSummary
type ExperimentSummary struct {

	// accuracy
	Accuracy *float64 `json:"accuracy"`

	// created at
	// Format: date-time
	CreatedAt strfmt.DateTime `json:"created_at"`

	// current epoch
	CurrentEpoch int64 `json:"current_epoch"`

	// duration
	Duration *float64 `json:"duration"`

	// id
	ID int64 `json:"id"`

	// loss
	Loss *float64 `json:"loss"`

	// name
	Name string `json:"name"`

	// status
	Status string `json:"status"`
}

// HistoryEntry metrics recorded for one epoch
//
// swagger:model HistoryEntry
type HistoryEntry struct {

	// epoch
	Epoch int64 `json:"epoch"`

	// train acc
	TrainAcc float64 `json:"train_acc"`

	// train loss
	TrainLoss float64 `json:"train_loss"`

	// val acc
	ValAcc float64 `json:"val_acc"`

	// val loss
	ValLoss float64 `json:"val_loss"`
}
