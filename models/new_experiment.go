package models

import (
	"encoding/json"

	"github.com/go-openapi/errors"
	"github.com/go-openapi/strfmt"
	"github.com/go-openapi/swag"
	"github.com/go-openapi/validate"
)

// NewExperiment the configuration submitted to create an experiment
//
// swagger:model NewExperiment
type NewExperiment struct {

	// batch size
	// Required: true
	// Maximum: 512
	// Minimum: 8
	BatchSize *int64 `json:"batch_size"`

	// epochs
	// Required: true
	// Maximum: 50
	// Minimum: 1
	Epochs *int64 `json:"epochs"`

	// hidden layers
	// Required: true
	// Maximum: 5
	// Minimum: 1
	HiddenLayers *int64 `json:"hidden_layers"`

	// learning rate
	// Required: true
	// Maximum: 1
	// Minimum: 0.0001
	LearningRate *float64 `json:"learning_rate"`

	// model type
	// Required: true
	// Enum: [simple complex]
	ModelType *string `json:"model_type"`

	// name
	// Required: true
	// Min Length: 1
	Name *string `json:"name"`

	// neurons per layer
	// Required: true
	// Maximum: 512
	// Minimum: 32
	NeuronsPerLayer *int64 `json:"neurons_per_layer"`

	// optimizer
	// Required: true
	// Enum: [sgd adam adadelta]
	Optimizer *string `json:"optimizer"`
}

// Validate validates this new experiment, reporting every violation at once
func (m *NewExperiment) Validate(formats strfmt.Registry) error {
	var res []error

	if err := m.validateName(formats); err != nil {
		res = append(res, err)
	}

	if err := m.validateLearningRate(formats); err != nil {
		res = append(res, err)
	}

	if err := m.validateBatchSize(formats); err != nil {
		res = append(res, err)
	}

	if err := m.validateEpochs(formats); err != nil {
		res = append(res, err)
	}

	if err := m.validateOptimizer(formats); err != nil {
		res = append(res, err)
	}

	if err := m.validateModelType(formats); err != nil {
		res = append(res, err)
	}

	if err := m.validateHiddenLayers(formats); err != nil {
		res = append(res, err)
	}

	if err := m.validateNeuronsPerLayer(formats); err != nil {
		res = append(res, err)
	}

	if len(res) > 0 {
		return errors.CompositeValidationError(res...)
	}
	return nil
}

func (m *NewExperiment) validateName(formats strfmt.Registry) error {

	if err := validate.Required("name", "body", m.Name); err != nil {
		return err
	}

	if err := validate.MinLength("name", "body", *m.Name, 1); err != nil {
		return err
	}

	return nil
}

func (m *NewExperiment) validateLearningRate(formats strfmt.Registry) error {

	if err := validate.Required("learning_rate", "body", m.LearningRate); err != nil {
		return err
	}

	if err := validate.Minimum("learning_rate", "body", *m.LearningRate, 0.0001, false); err != nil {
		return err
	}

	if err := validate.Maximum("learning_rate", "body", *m.LearningRate, 1, false); err != nil {
		return err
	}

	return nil
}

func (m *NewExperiment) validateBatchSize(formats strfmt.Registry) error {
	return validateIntRange("batch_size", m.BatchSize, 8, 512)
}

func (m *NewExperiment) validateEpochs(formats strfmt.Registry) error {
	return validateIntRange("epochs", m.Epochs, 1, 50)
}

func (m *NewExperiment) validateHiddenLayers(formats strfmt.Registry) error {
	return validateIntRange("hidden_layers", m.HiddenLayers, 1, 5)
}

func (m *NewExperiment) validateNeuronsPerLayer(formats strfmt.Registry) error {
	return validateIntRange("neurons_per_layer", m.NeuronsPerLayer, 32, 512)
}

func validateIntRange(path string, value *int64, min, max int64) error {

	if err := validate.Required(path, "body", value); err != nil {
		return err
	}

	if err := validate.MinimumInt(path, "body", *value, min, false); err != nil {
		return err
	}

	if err := validate.MaximumInt(path, "body", *value, max, false); err != nil {
		return err
	}

	return nil
}

var newExperimentTypeOptimizerPropEnum []interface{}

var newExperimentTypeModelTypePropEnum []interface{}

func init() {
	var res []string
	if err := json.Unmarshal([]byte(`["sgd","adam","adadelta"]`), &res); err != nil {
		panic(err)
	}
	for _, v := range res {
		newExperimentTypeOptimizerPropEnum = append(newExperimentTypeOptimizerPropEnum, v)
	}

	res = nil
	if err := json.Unmarshal([]byte(`["simple","complex"]`), &res); err != nil {
		panic(err)
	}
	for _, v := range res {
		newExperimentTypeModelTypePropEnum = append(newExperimentTypeModelTypePropEnum, v)
	}
}

const (

	// NewExperimentOptimizerSgd captures enum value "sgd"
	NewExperimentOptimizerSgd string = "sgd"

	// NewExperimentOptimizerAdam captures enum value "adam"
	NewExperimentOptimizerAdam string = "adam"

	// NewExperimentOptimizerAdadelta captures enum value "adadelta"
	NewExperimentOptimizerAdadelta string = "adadelta"

	// NewExperimentModelTypeSimple captures enum value "simple"
	NewExperimentModelTypeSimple string = "simple"

	// NewExperimentModelTypeComplex captures enum value "complex"
	NewExperimentModelTypeComplex string = "complex"
)

func (m *NewExperiment) validateOptimizer(formats strfmt.Registry) error {

	if err := validate.Required("optimizer", "body", m.Optimizer); err != nil {
		return err
	}

	if err := validate.EnumCase("optimizer", "body", *m.Optimizer, newExperimentTypeOptimizerPropEnum, true); err != nil {
		return err
	}

	return nil
}

func (m *NewExperiment) validateModelType(formats strfmt.Registry) error {

	if err := validate.Required("model_type", "body", m.ModelType); err != nil {
		return err
	}

	if err := validate.EnumCase("model_type", "body", *m.ModelType, newExperimentTypeModelTypePropEnum, true); err != nil {
		return err
	}

	return nil
}

// MarshalBinary interface implementation
func (m *NewExperiment) MarshalBinary() ([]byte, error) {
	if m == nil {
		return nil, nil
	}
	return swag.WriteJSON(m)
}

// UnmarshalBinary interface implementation
func (m *NewExperiment) UnmarshalBinary(b []byte) error {
	var res NewExperiment
	if err := swag.ReadJSON(b, &res); err != nil {
		return err
	}
	*m = res
	return nil
}
