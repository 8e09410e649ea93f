package models

// ErrorResponse error response
//
// swagger:model ErrorResponse
type ErrorResponse struct {

	// error
	Error string `json:"error"`
}

// ConflictResponse returned when an experiment with the same configuration exists
//
// swagger:model ConflictResponse
type ConflictResponse struct {

	// error
	Error string `json:"error"`

	// id of the experiment holding the configuration
	ExistingID int64 `json:"existingId"`
}

// SuccessResponse success response
//
// swagger:model SuccessResponse
type SuccessResponse struct {

	// success
	Success bool `json:"success"`
}
