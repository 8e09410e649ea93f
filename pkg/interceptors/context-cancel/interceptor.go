package context_cancel

import (
	"context"
	"github.infra.cloudera.com/CAI/AmpExperimentLab/pkg/http/wrappers"
	sbhttpbase "github.infra.cloudera.com/CAI/AmpExperimentLab/pkg/serverbase/http/base"
)

// StatusClientClosedRequest replaces the status of responses written after the client went away
const StatusClientClosedRequest = 499

type Interceptor struct{}

func (interceptor Interceptor) ToHTTP() sbhttpbase.MiddlewareFunc {
	return func(request *sbhttpbase.Request, next sbhttpbase.HandleFunc) {
		wrapper := wrappers.CustomizableResponseWriter{
			Response: request.Writer,
			OnWriteHeader: func(w *wrappers.CustomizableResponseWriter, code int) {
				if err := request.Request.Context().Err(); err != nil {
					if err == context.Canceled || err == context.DeadlineExceeded {
						code = StatusClientClosedRequest
					}
				}
				request.Writer.WriteHeader(code)
			},
		}

		next(request.WithWriter(&wrapper))
	}
}
