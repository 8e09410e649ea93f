package restapi

import (
	"errors"
	"strings"

	oaerrors "github.com/go-openapi/errors"
	log "github.com/sirupsen/logrus"
	"github.infra.cloudera.com/CAI/AmpExperimentLab/internal/db"
	"github.infra.cloudera.com/CAI/AmpExperimentLab/internal/experiments"
	"github.infra.cloudera.com/CAI/AmpExperimentLab/models"
	lhttp "github.infra.cloudera.com/CAI/AmpExperimentLab/pkg/http"
)

func errorFromService(err error) *lhttp.HttpError {
	var validationErr *experiments.ValidationError
	var duplicateErr *db.DuplicateConfigError
	var stateErr *db.InvalidStateError

	switch {
	case errors.As(err, &validationErr):
		return lhttp.NewBadRequest(validationMessage(validationErr))
	case errors.As(err, &duplicateErr):
		return lhttp.NewConflict(duplicateErr.Error()).WithPayload(&models.ConflictResponse{
			Error:      duplicateErr.Error(),
			ExistingID: duplicateErr.ExistingId,
		})
	case errors.Is(err, db.ErrNotFound):
		return lhttp.NewNotFound(db.ErrNotFound.Error())
	case errors.As(err, &stateErr):
		return lhttp.NewBadRequest(stateErr.Error())
	}

	log.Printf("request failed: %s", err)
	return lhttp.NewInternalError(err)
}

// validationMessage flattens a composite validation failure into one line
func validationMessage(err *experiments.ValidationError) string {
	var composite *oaerrors.CompositeError
	if !errors.As(err.Err, &composite) {
		return err.Error()
	}
	messages := make([]string, 0, len(composite.Errors))
	for _, e := range composite.Errors {
		messages = append(messages, e.Error())
	}
	return strings.Join(messages, "; ")
}
