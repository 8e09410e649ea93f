package interceptors

import (
	"fmt"
	"runtime/debug"

	log "github.com/sirupsen/logrus"
	lhttp "github.infra.cloudera.com/CAI/AmpExperimentLab/pkg/http"
	sbhttpbase "github.infra.cloudera.com/CAI/AmpExperimentLab/pkg/serverbase/http/base"
)

func HttpServerRecoverInterceptor() sbhttpbase.MiddlewareFunc {
	return func(request *sbhttpbase.Request, next sbhttpbase.HandleFunc) {
		defer func() {
			if r := recover(); r != nil {
				log.Errorf("panic serving %s %s: %v\n%s", request.Request.Method, request.Request.URL.Path, r, debug.Stack())
				lhttp.NewInternalError(fmt.Errorf("panic: %v", r)).WriteResponse(request.Writer)
			}
		}()
		next(request)
	}
}
