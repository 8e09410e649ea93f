package lhttp

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/pkg/errors"
)

const internalErrorMessage = "Internal server error"

type HttpError struct {
	Code    int
	Message string
	// Payload replaces the default {"error": Message} body when set
	Payload interface{}
	Err     error
}

type errorBody struct {
	Error string `json:"error"`
}

func FromError(err error) *HttpError {
	if err == nil {
		return nil
	}

	// Own type
	var herr *HttpError
	if errors.As(err, &herr) {
		return herr
	}

	return &HttpError{Err: err}
}

func (e *HttpError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return fmt.Sprintf("got code %d and message \"%s\"", e.Code, e.Message)
}

func (e *HttpError) Unwrap() error {
	return e.Err
}

func (e *HttpError) Clone() *HttpError {
	return &HttpError{
		Code:    e.Code,
		Message: e.Message,
		Payload: e.Payload,
		Err:     e.Err,
	}
}

// StatusCode is the code that WriteResponse will send
func (e *HttpError) StatusCode() int {
	if e.Err != nil || e.Code == 0 {
		return http.StatusInternalServerError
	}
	return e.Code
}

// WriteResponse writes a JSON error body. Wrapped errors never leak to the client.
func (e *HttpError) WriteResponse(w http.ResponseWriter) {
	var body interface{} = errorBody{Error: e.Message}
	if e.Err != nil || e.Code == 0 {
		body = errorBody{Error: internalErrorMessage}
	} else if e.Payload != nil {
		body = e.Payload
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(e.StatusCode())
	if err := json.NewEncoder(w).Encode(body); err != nil {
		panic(err) // let the recovery middleware deal with this
	}
}

func (e *HttpError) WithPayload(payload interface{}) *HttpError {
	e.Payload = payload
	return e
}

func (e *HttpError) SetMessage(message string) {
	e.Message = message
}

func NewNotFound(message string) *HttpError {
	return &HttpError{Code: http.StatusNotFound, Message: message}
}

func NewConflict(message string) *HttpError {
	return &HttpError{Code: http.StatusConflict, Message: message}
}

func NewBadRequest(message string) *HttpError {
	return &HttpError{Code: http.StatusBadRequest, Message: message}
}

func NewInternalError(err error) *HttpError {
	return &HttpError{Code: http.StatusInternalServerError, Message: internalErrorMessage, Err: err}
}

func NewRequestTooLarge() *HttpError {
	return &HttpError{Code: http.StatusRequestEntityTooLarge, Message: "Request entity too large"}
}

func NewServiceUnavailable(message string) *HttpError {
	return &HttpError{Code: http.StatusServiceUnavailable, Message: message}
}
