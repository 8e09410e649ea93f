package sbhttpbase

import (
	"net/http"
)

type HandleFunc func(request *Request)

// HandleStdFunc adapts a net/http handler, e.g. the pprof endpoints
func HandleStdFunc(fn http.HandlerFunc) HandleFunc {
	return func(request *Request) {
		fn(request.Writer, request.Request)
	}
}
