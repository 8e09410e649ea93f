package interceptors

import (
	"time"

	log "github.com/sirupsen/logrus"
	"github.infra.cloudera.com/CAI/AmpExperimentLab/pkg/http/wrappers"
	sbhttpbase "github.infra.cloudera.com/CAI/AmpExperimentLab/pkg/serverbase/http/base"
)

func HttpServerRequestLogInterceptor() sbhttpbase.MiddlewareFunc {
	return func(request *sbhttpbase.Request, next sbhttpbase.HandleFunc) {
		start := time.Now()
		w := &wrappers.CustomizableResponseWriter{Response: request.Writer}

		next(request.WithWriter(w))

		entry := log.WithFields(log.Fields{
			"method":  request.Request.Method,
			"path":    request.Request.URL.Path,
			"code":    w.Status(),
			"latency": time.Since(start).String(),
		})
		if w.Status() >= 500 {
			entry.Warn("request failed")
		} else {
			entry.Debug("request served")
		}
	}
}
