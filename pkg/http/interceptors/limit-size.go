package interceptors

import (
	"fmt"
	"net/http"

	"k8s.io/apimachinery/pkg/api/resource"

	lhttp "github.infra.cloudera.com/CAI/AmpExperimentLab/pkg/http"
	"github.infra.cloudera.com/CAI/AmpExperimentLab/pkg/http/wrappers"
	sbhttpbase "github.infra.cloudera.com/CAI/AmpExperimentLab/pkg/serverbase/http/base"
)

// HttpServerLimitSizeInterceptor refuses bodies larger than size. A zero size disables the check.
func HttpServerLimitSizeInterceptor(size resource.Quantity) sbhttpbase.MiddlewareFunc {
	limit := size.Value()
	if limit == 0 {
		return func(request *sbhttpbase.Request, next sbhttpbase.HandleFunc) {
			next(request)
		}
	}

	return func(request *sbhttpbase.Request, next sbhttpbase.HandleFunc) {
		if request.Request.ContentLength > limit {
			herr := lhttp.NewRequestTooLarge()
			herr.SetMessage(fmt.Sprintf("Request body is bigger than %d bytes", limit))
			herr.WriteResponse(request.Writer)
			return
		}

		// chunked bodies carry no length, so the reader enforces the limit as well
		next(request.WithBody(&wrappers.Body{
			Original: request.Request.Body,
			Reader:   http.MaxBytesReader(request.Writer, request.Request.Body, limit),
		}))
	}
}
