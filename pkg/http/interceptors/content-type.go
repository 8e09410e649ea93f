package interceptors

import (
	"net/http"

	"github.infra.cloudera.com/CAI/AmpExperimentLab/pkg/http/wrappers"
	sbhttpbase "github.infra.cloudera.com/CAI/AmpExperimentLab/pkg/serverbase/http/base"
)

// HttpServerDefaultContentTypeInterceptor sets t on responses whose handler did not pick a
// content type. Bodiless responses are left alone.
func HttpServerDefaultContentTypeInterceptor(t string) sbhttpbase.MiddlewareFunc {
	return func(request *sbhttpbase.Request, next sbhttpbase.HandleFunc) {
		w := &wrappers.CustomizableResponseWriter{
			Response: request.Writer,
			OnWriteHeader: func(w *wrappers.CustomizableResponseWriter, code int) {
				header := w.Response.Header()
				if header.Get("Content-Type") == "" && code != http.StatusNoContent && code != http.StatusNotModified {
					header.Set("Content-Type", t)
				}
				w.Response.WriteHeader(code)
			},
		}
		next(request.WithWriter(w))
	}
}
