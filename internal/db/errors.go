package db

import (
	"errors"
	"fmt"
)

var ErrNotFound = errors.New("Experiment not found")

type DuplicateConfigError struct {
	ExistingId int64
}

func (e *DuplicateConfigError) Error() string {
	return "Similar experiment already exists"
}

// InvalidStateError reports a transition refused because of the experiment's current status.
type InvalidStateError struct {
	Id     int64
	Status Status
	Action string
}

func (e *InvalidStateError) Error() string {
	switch {
	case e.Action == ActionDelete && e.Status == StatusRunning:
		return "Cannot delete a running experiment"
	case e.Action == ActionRun && (e.Status == StatusRunning || e.Status == StatusQueued):
		return "Experiment is already running or queued"
	default:
		return fmt.Sprintf("cannot %s experiment %d while it is %s", e.Action, e.Id, e.Status)
	}
}

const (
	ActionDelete   = "delete"
	ActionRun      = "run"
	ActionStart    = "start"
	ActionRecord   = "record epoch for"
	ActionComplete = "complete"
	ActionFail     = "fail"
)

func IsInvalidState(err error) bool {
	var stateErr *InvalidStateError
	return errors.As(err, &stateErr)
}
