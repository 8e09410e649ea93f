package sbhttpbase

// MiddlewareFunc wraps a handler. It must call next at most once.
type MiddlewareFunc func(request *Request, next HandleFunc)

func (fn MiddlewareFunc) Register(path, method string) MiddlewareFunc {
	return fn
}

var _ RegistrableMiddleware = MiddlewareFunc(nil)

// RegistrableMiddleware is resolved once per route, so it can specialise itself by path and method.
type RegistrableMiddleware interface {
	Register(path, method string) MiddlewareFunc
}
