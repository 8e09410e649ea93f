package interceptors

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	lhttptest "github.infra.cloudera.com/CAI/AmpExperimentLab/pkg/http/test"
	sbhttpbase "github.infra.cloudera.com/CAI/AmpExperimentLab/pkg/serverbase/http/base"
	sbhttptest "github.infra.cloudera.com/CAI/AmpExperimentLab/pkg/serverbase/http/test"
	"pgregory.net/rapid"
)

func TestInjectHeadersInterceptor(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		headers := lhttptest.CanonicalHeadersGenerator().Draw(t, "header")
		interceptor := InjectHeadersInterceptor(headers)

		recorder := httptest.NewRecorder()
		request := sbhttptest.RequestGenerator(recorder).Draw(t, "request")
		handler := sbhttptest.HandlerGenerator().Draw(t, "handler")

		interceptor(request, handler)

		lhttptest.CheckHeaders(t, headers, recorder.Header())
	})
}

func TestInjectHeadersNormalizesKeys(t *testing.T) {
	interceptor := InjectHeadersInterceptor(HeadersFromMap(map[string]string{
		"access_control_allow_origin": "*",
		"Cache-Control":               "no-store",
	}))

	recorder := httptest.NewRecorder()
	request := &sbhttpbase.Request{
		Writer:  recorder,
		Request: httptest.NewRequest(http.MethodGet, "/api/experiments", nil),
	}
	interceptor(request, func(request *sbhttpbase.Request) {
		request.Writer.Header().Set("Cache-Control", "max-age=60")
		request.Writer.WriteHeader(http.StatusOK)
	})

	assert.Equal(t, "*", recorder.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, []string{"no-store"}, recorder.Header().Values("Cache-Control"))
}
