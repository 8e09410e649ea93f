package sbhttpserver

import (
	"context"

	sbhttpbase "github.infra.cloudera.com/CAI/AmpExperimentLab/pkg/serverbase/http/base"
)

// HandleDescription is one route. Middleware runs after the base interceptors and before the
// default tail (content type, panic recovery).
type HandleDescription struct {
	NotFound   bool
	Path       string
	Method     string
	Handler    sbhttpbase.HandleFunc
	Middleware []sbhttpbase.RegistrableMiddleware
}

// ReadinessProvider backs /_status/ready, an error answers 503
type ReadinessProvider interface {
	Ready(ctx context.Context) error
}

// LivenessProvider backs /_status/live
type LivenessProvider interface {
	Live(ctx context.Context) error
}

type ShutdownProvider interface {
	Shutdown() error
}

// Server is what an Instance registers: its routes plus the status and shutdown hooks.
type Server interface {
	ReadinessProvider
	LivenessProvider
	ShutdownProvider
	GetHandlers() []HandleDescription
}
