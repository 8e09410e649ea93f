package interceptors

import (
	"bytes"
	"io"
	"sync"

	log "github.com/sirupsen/logrus"
	"github.infra.cloudera.com/CAI/AmpExperimentLab/pkg/http/wrappers"
	sbhttpbase "github.infra.cloudera.com/CAI/AmpExperimentLab/pkg/serverbase/http/base"
)

var logIOInterceptorPool = &sync.Pool{
	New: func() interface{} {
		return &bytes.Buffer{}
	},
}

type LogIOConfig struct {
	Enabled bool `env:"SERVER_HTTP_LOG_IO" envDefault:"false"`
}

// HttpServerLogIOInterceptor logs request and response bodies at debug level
func HttpServerLogIOInterceptor(cfg *LogIOConfig) sbhttpbase.MiddlewareFunc {
	return func(request *sbhttpbase.Request, next sbhttpbase.HandleFunc) {
		if !cfg.Enabled {
			next(request)
			return
		}

		bufferRead := logIOInterceptorPool.Get().(*bytes.Buffer)
		defer logIOInterceptorPool.Put(bufferRead)
		defer bufferRead.Reset()
		bufferWrite := logIOInterceptorPool.Get().(*bytes.Buffer)
		defer logIOInterceptorPool.Put(bufferWrite)
		defer bufferWrite.Reset()

		newBody := &wrappers.Body{
			Original: request.Request.Body,
			Reader:   io.TeeReader(request.Request.Body, bufferRead),
		}
		newW := wrappers.CustomizableResponseWriter{
			Response: request.Writer,
			Writer:   io.MultiWriter(request.Writer, bufferWrite),
		}

		next(request.WithBody(newBody).WithWriter(&newW))

		log.WithFields(log.Fields{
			"method": request.Request.Method,
			"path":   request.PathPattern,
			"code":   newW.Status(),
		}).Debugf("request body %q response body %q", bufferRead.String(), bufferWrite.String())
	}
}
