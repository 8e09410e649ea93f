package sbhttptest

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"

	lhttptest "github.infra.cloudera.com/CAI/AmpExperimentLab/pkg/http/test"
	sbhttpbase "github.infra.cloudera.com/CAI/AmpExperimentLab/pkg/serverbase/http/base"
	"pgregory.net/rapid"
)

// NewRequest wraps a plain http request the way the router would, without route params
func NewRequest(w http.ResponseWriter, r *http.Request) *sbhttpbase.Request {
	return &sbhttpbase.Request{
		PathPattern: r.URL.Path,
		Writer:      w,
		Request:     r,
		Params:      map[string]string{},
	}
}

// JsonObjectGenerator draws any JSON value, nesting arrays and objects up to maxJsonDepth.
func JsonObjectGenerator(maxJsonDepth int) *rapid.Generator[json.RawMessage] {
	return rapid.Custom(func(t *rapid.T) json.RawMessage {
		generators := []*rapid.Generator[json.RawMessage]{jsonScalarGenerator()}
		if maxJsonDepth > 0 {
			generators = append(generators,
				marshalled(rapid.SliceOfN(JsonObjectGenerator(maxJsonDepth-1), 1, 5)),
				marshalled(rapid.MapOfN(rapid.StringMatching(`[a-z]{1,10}`), JsonObjectGenerator(maxJsonDepth-1), 1, 5)),
			)
		}
		return rapid.OneOf(generators...).Draw(t, "json")
	})
}

func jsonScalarGenerator() *rapid.Generator[json.RawMessage] {
	return rapid.OneOf(
		rapid.Just(json.RawMessage("null")),
		marshalled(rapid.Bool()),
		marshalled(rapid.Float64Range(-1e6, 1e6)),
		marshalled(rapid.StringMatching(`[a-z]{1,10}`)),
	)
}

func marshalled[V any](gen *rapid.Generator[V]) *rapid.Generator[json.RawMessage] {
	return rapid.Custom(func(t *rapid.T) json.RawMessage {
		ret, err := json.Marshal(gen.Draw(t, "value"))
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		return ret
	})
}

func RequestGenerator(recorder *httptest.ResponseRecorder) *rapid.Generator[*sbhttpbase.Request] {
	return rapid.Custom(func(t *rapid.T) *sbhttpbase.Request {
		body := rapid.SliceOf(rapid.Byte()).Draw(t, "body")
		return drawRequest(t, recorder, bytes.NewReader(body))
	})
}

func RequestWithBodyGenerator(recorder *httptest.ResponseRecorder, body io.Reader) *rapid.Generator[*sbhttpbase.Request] {
	return rapid.Custom(func(t *rapid.T) *sbhttpbase.Request {
		return drawRequest(t, recorder, body)
	})
}

func drawRequest(t *rapid.T, recorder *httptest.ResponseRecorder, body io.Reader) *sbhttpbase.Request {
	request := &sbhttpbase.Request{
		PathPattern: rapid.String().Draw(t, "path"),
		Writer:      recorder,
		Request: httptest.NewRequest(
			lhttptest.MethodGenerator().Draw(t, "method"),
			lhttptest.UrlGenerator().Draw(t, "target"),
			body,
		),
		Params: rapid.MapOf(rapid.String(), rapid.String()).Draw(t, "params"),
	}
	request.Request.Header = lhttptest.HeadersGenerator().Draw(t, "header")
	return request
}

// HandlerGenerator draws a handler that drains the request and answers with a random
// status, headers and body.
func HandlerGenerator() *rapid.Generator[sbhttpbase.HandleFunc] {
	return rapid.Custom(func(t *rapid.T) sbhttpbase.HandleFunc {
		code := lhttptest.CodeGenerator().Draw(t, "code")
		headers := lhttptest.HeadersGenerator().Draw(t, "headers")
		body := rapid.SliceOf(rapid.Byte()).Draw(t, "body")

		return func(request *sbhttpbase.Request) {
			_, _ = io.Copy(io.Discard, request.Request.Body)
			_ = request.Request.Body.Close()

			writer := request.Writer
			for k, vals := range headers {
				writer.Header().Del(k)
				for _, v := range vals {
					writer.Header().Add(k, v)
				}
			}
			writer.WriteHeader(code)
			_, _ = writer.Write(body)
		}
	})
}
