package sbhttpbase

import (
	"context"
	"io"
	"net/http"
)

// Request is what middlewares and handlers pass along. The With* helpers copy, so a
// middleware never changes the request seen by the ones before it.
type Request struct {
	PathPattern string
	Writer      http.ResponseWriter
	Request     *http.Request
	// Route parameters captured by the router, e.g. "id" for /experiments/:id
	Params map[string]string
}

func (r *Request) Context() context.Context {
	return r.Request.Context()
}

// Param returns the route parameter, empty when the route does not capture it
func (r *Request) Param(name string) string {
	if r.Params == nil {
		return ""
	}
	return r.Params[name]
}

func (r *Request) WithWriter(w http.ResponseWriter) *Request {
	copied := *r
	copied.Writer = w
	return &copied
}

func (r *Request) WithContext(ctx context.Context) *Request {
	copied := *r
	copied.Request = r.Request.WithContext(ctx)
	return &copied
}

// WithBody swaps the body on a shallow copy of the http request
func (r *Request) WithBody(body io.ReadCloser) *Request {
	copied := *r
	req := *r.Request
	req.Body = body
	copied.Request = &req
	return &copied
}
