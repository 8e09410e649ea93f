package wrappers

import (
	"io"
	"net/http"

	"github.com/pkg/errors"
	sbhttpbase "github.infra.cloudera.com/CAI/AmpExperimentLab/pkg/serverbase/http/base"
)

var ErrNoWriter = errors.New("no writer defined")

// Body reads through Reader, a decoder or limiter layered over Original. Closing it
// closes both layers.
type Body struct {
	Original io.ReadCloser
	Reader   io.Reader
}

func (b *Body) Read(p []byte) (int, error) {
	return b.Reader.Read(p)
}

func (b *Body) Close() error {
	var readerErr error
	if reader, ok := b.Reader.(io.ReadCloser); ok && reader != b.Original {
		readerErr = reader.Close()
	}
	if err := b.Original.Close(); err != nil {
		return err
	}
	return readerErr
}

type CustomizableResponseWriter struct {
	Response      http.ResponseWriter
	Writer        io.Writer
	Code          int
	OnHeader      func(w *CustomizableResponseWriter) http.Header
	OnWriteHeader func(w *CustomizableResponseWriter, code int)
	OnWrite       func(w *CustomizableResponseWriter, p []byte) (int, error)
}

func (w *CustomizableResponseWriter) Header() http.Header {
	if w.OnHeader != nil {
		return w.OnHeader(w)
	}
	if w.Response != nil {
		return w.Response.Header()
	}
	return nil
}

func (w *CustomizableResponseWriter) Write(p []byte) (int, error) {
	if w.OnWrite != nil {
		return w.OnWrite(w, p)
	}
	if w.Writer != nil {
		return w.Writer.Write(p)
	}
	if w.Response != nil {
		return w.Response.Write(p)
	}
	return 0, ErrNoWriter
}

func (w *CustomizableResponseWriter) WriteHeader(code int) {
	w.Code = code
	if w.OnWriteHeader != nil {
		w.OnWriteHeader(w, code)
		return
	}
	if w.Response != nil {
		w.Response.WriteHeader(code)
	}
}

// Status is the code sent so far, 200 when the handler only wrote a body
func (w *CustomizableResponseWriter) Status() int {
	if w.Code == 0 {
		return http.StatusOK
	}
	return w.Code
}

// AsInterceptor hands every request a copy of w, with unset fields pointing at the
// request's own writer.
func (w *CustomizableResponseWriter) AsInterceptor() sbhttpbase.MiddlewareFunc {
	return func(request *sbhttpbase.Request, next sbhttpbase.HandleFunc) {
		local := *w
		if local.Response == nil {
			local.Response = request.Writer
		}
		if local.Writer == nil {
			local.Writer = request.Writer
		}

		next(request.WithWriter(&local))
	}
}
