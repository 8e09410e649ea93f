package sbhttpserver

import (
	"net/http"
	"strings"

	"github.com/dimfeld/httptreemux"
	log "github.com/sirupsen/logrus"
	"github.infra.cloudera.com/CAI/AmpExperimentLab/pkg/http/interceptors"
	context_cancel "github.infra.cloudera.com/CAI/AmpExperimentLab/pkg/interceptors/context-cancel"
	sbhttpbase "github.infra.cloudera.com/CAI/AmpExperimentLab/pkg/serverbase/http/base"
)

func (instance *Instance) registerHandlers(server Server) error {
	for _, handle := range server.GetHandlers() {
		if handle.NotFound {
			log.Printf("registering not found handler")
		} else {
			log.Printf("registering handler %s %s", handle.Method, handle.Path)
		}
		instance.registerHandler(handle)
	}

	return nil
}

func (instance *Instance) createTailMiddlewares(path, method string) []sbhttpbase.MiddlewareFunc {
	return []sbhttpbase.MiddlewareFunc{
		interceptors.HttpServerDefaultContentTypeInterceptor("application/json").Register(path, method),
		exhaustRequest,
		defaultOk,
		context_cancel.Interceptor{}.ToHTTP(),
		interceptors.HttpServerRecoverInterceptor().Register(path, method),
	}
}

func (instance *Instance) registerHandler(handle HandleDescription) {
	middleware := make([]sbhttpbase.MiddlewareFunc, 0)
	for _, m := range handle.Middleware {
		middleware = append(middleware, m.Register(handle.Path, handle.Method))
	}
	middleware = append(middleware, instance.createTailMiddlewares(handle.Path, handle.Method)...)

	instance.RegisterHandler(&HandleDescription{
		NotFound: handle.NotFound,
		Path:     handle.Path,
		Method:   handle.Method,
		Handler:  ComposeMiddleware(middleware, handle.Handler),
	})
}

func handleWrapper(pathPattern string, handler sbhttpbase.HandleFunc) httptreemux.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request, params map[string]string) {
		handler(&sbhttpbase.Request{
			PathPattern: pathPattern,
			Writer:      w,
			Request:     r,
			Params:      params,
		})
	}
}

// RegisterHandler adds the handler to the router as is. Paths without a trailing slash are
// also served with one.
func (b *Instance) RegisterHandler(handle *HandleDescription) {
	if handle.NotFound {
		handler := handle.Handler
		b.router.NotFoundHandler = func(w http.ResponseWriter, r *http.Request) {
			handler(&sbhttpbase.Request{
				PathPattern: "*",
				Writer:      w,
				Request:     r,
			})
		}
		return
	}

	switch handle.Method {
	case "*":
		for _, method := range []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete} {
			b.RegisterHandler(&HandleDescription{
				Path:    handle.Path,
				Method:  method,
				Handler: handle.Handler,
			})
		}
		return
	default:
		b.router.Handle(handle.Method, handle.Path, handleWrapper(handle.Path, handle.Handler))
	}

	if handle.Path[len(handle.Path)-1] != '/' && !strings.Contains(handle.Path, "*") {
		b.router.Handle(handle.Method, handle.Path+"/", handleWrapper(handle.Path, handle.Handler))
	}
}

func ComposeMiddleware(funcs []sbhttpbase.MiddlewareFunc, base sbhttpbase.HandleFunc) sbhttpbase.HandleFunc {
	for i := len(funcs) - 1; i >= 0; i-- {
		f := funcs[i]
		if f == nil {
			continue
		}
		oldBase := base
		base = func(request *sbhttpbase.Request) {
			f(request, oldBase)
		}
	}

	return base
}
