package sbhttp

import (
	"encoding/json"
	"net/http"

	lhttp "github.infra.cloudera.com/CAI/AmpExperimentLab/pkg/http"
)

// ReturnHttpError writes err, falling back to defaultErr when err only wraps an internal failure
func ReturnHttpError(w http.ResponseWriter, err, defaultErr *lhttp.HttpError) {
	if err.Err != nil && defaultErr != nil {
		defaultErr.WriteResponse(w)
		return
	}
	err.WriteResponse(w)
}

func ReturnError(w http.ResponseWriter, code int, message string) {
	(&lhttp.HttpError{Code: code, Message: message}).WriteResponse(w)
}

func WriteJson(w http.ResponseWriter, code int, result interface{}) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(result); err != nil {
		w.Write([]byte("error serializing response"))
		return err
	}
	return nil
}

// ReadJson decodes a request body into v. Empty bodies are reported as errors.
func ReadJson(r *http.Request, v interface{}) error {
	decoder := json.NewDecoder(r.Body)
	return decoder.Decode(v)
}
