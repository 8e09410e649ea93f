package interceptors

import (
	"net/http"
	"strings"

	"github.infra.cloudera.com/CAI/AmpExperimentLab/pkg/http/wrappers"
	sbhttpbase "github.infra.cloudera.com/CAI/AmpExperimentLab/pkg/serverbase/http/base"
)

// InjectHeadersInterceptor sets the given headers on every response, replacing
// whatever the handler wrote for the same keys.
func InjectHeadersInterceptor(headers http.Header) sbhttpbase.MiddlewareFunc {
	normalized := make(http.Header, len(headers))
	for k, v := range headers {
		normalized[http.CanonicalHeaderKey(strings.ReplaceAll(k, "_", "-"))] = v
	}

	wrapper := wrappers.CustomizableResponseWriter{
		OnWriteHeader: func(w *wrappers.CustomizableResponseWriter, code int) {
			for k, vals := range normalized {
				w.Response.Header().Del(k)
				for _, v := range vals {
					w.Response.Header().Add(k, v)
				}
			}
			w.Response.WriteHeader(code)
		},
	}

	return wrapper.AsInterceptor()
}

// HeadersFromMap builds the header set for InjectHeadersInterceptor from a flat config map
func HeadersFromMap(values map[string]string) http.Header {
	headers := make(http.Header, len(values))
	for k, v := range values {
		headers.Set(k, v)
	}
	return headers
}
