package sbhttpserver

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.infra.cloudera.com/CAI/AmpExperimentLab/pkg/app"
	sbhttp "github.infra.cloudera.com/CAI/AmpExperimentLab/pkg/serverbase/http"
	sbhttpbase "github.infra.cloudera.com/CAI/AmpExperimentLab/pkg/serverbase/http/base"
)

type testServer struct {
	NopServer
	readyErr    error
	shutdownErr error
	handlers    []HandleDescription
}

func (s *testServer) Ready(ctx context.Context) error  { return s.readyErr }
func (s *testServer) Shutdown() error                  { return s.shutdownErr }
func (s *testServer) GetHandlers() []HandleDescription { return s.handlers }

func newTestInstance(t *testing.T, server Server) (*Instance, *app.Instance) {
	instance, err := NewInstance(&Config{Port: 0}, app.NewInstance())
	require.NoError(t, err)
	require.NoError(t, instance.Register(server))
	return instance, instance.app
}

func serve(instance *Instance, method, path string) *httptest.ResponseRecorder {
	recorder := httptest.NewRecorder()
	instance.Handler().ServeHTTP(recorder, httptest.NewRequest(method, path, nil))
	return recorder
}

func TestStatusHandlers(t *testing.T) {
	server := &testServer{}
	instance, _ := newTestInstance(t, server)

	assert.Equal(t, http.StatusOK, serve(instance, http.MethodGet, "/_status/live").Code)
	assert.Equal(t, http.StatusOK, serve(instance, http.MethodGet, "/_status/ready").Code)

	server.readyErr = errors.New("database unreachable")
	recorder := serve(instance, http.MethodGet, "/_status/ready")
	assert.Equal(t, http.StatusServiceUnavailable, recorder.Code)
	assert.JSONEq(t, `{"error":"database unreachable"}`, recorder.Body.String())
}

func TestRegisteredHandlers(t *testing.T) {
	server := &testServer{handlers: []HandleDescription{
		{
			Path:   "/api/things/:id",
			Method: http.MethodGet,
			Handler: func(request *sbhttpbase.Request) {
				sbhttp.WriteJson(request.Writer, http.StatusOK, map[string]string{"id": request.Params["id"]})
			},
		},
		{
			Path:   "/api/empty",
			Method: http.MethodPost,
			Handler: func(request *sbhttpbase.Request) {
				io.Copy(io.Discard, request.Request.Body)
			},
		},
		{
			Path:   "/api/panic",
			Method: http.MethodGet,
			Handler: func(request *sbhttpbase.Request) {
				panic("boom")
			},
		},
		{
			NotFound: true,
			Handler: func(request *sbhttpbase.Request) {
				sbhttp.ReturnError(request.Writer, http.StatusNotFound, "Not found")
			},
		},
	}}
	instance, _ := newTestInstance(t, server)

	recorder := serve(instance, http.MethodGet, "/api/things/7")
	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.JSONEq(t, `{"id":"7"}`, recorder.Body.String())

	// trailing slash is served by the same handler
	recorder = serve(instance, http.MethodGet, "/api/things/7/")
	assert.Equal(t, http.StatusOK, recorder.Code)

	recorder = serve(instance, http.MethodPost, "/api/empty")
	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, "application/json", recorder.Header().Get("Content-Type"))

	recorder = serve(instance, http.MethodGet, "/api/panic")
	assert.Equal(t, http.StatusInternalServerError, recorder.Code)
	assert.JSONEq(t, `{"error":"Internal server error"}`, recorder.Body.String())

	recorder = serve(instance, http.MethodGet, "/nowhere")
	assert.Equal(t, http.StatusNotFound, recorder.Code)

	recorder = serve(instance, http.MethodDelete, "/api/panic")
	assert.Equal(t, http.StatusMethodNotAllowed, recorder.Code)
}

func TestRegisterShutsDownWithApp(t *testing.T) {
	shutdownErr := errors.New("still busy")
	_, instanceApp := newTestInstance(t, NewMultiServer([]Server{
		&testServer{},
		&testServer{shutdownErr: shutdownErr},
	}))

	assert.ErrorIs(t, instanceApp.Close(), shutdownErr)
}

func TestMultiServerReady(t *testing.T) {
	notReady := errors.New("not ready")
	multi := NewMultiServer([]Server{&NopServer{}, &testServer{readyErr: notReady}})
	assert.ErrorIs(t, multi.Ready(context.Background()), notReady)
	assert.NoError(t, multi.Live(context.Background()))
	assert.NoError(t, NewMultiServer([]Server{&NopServer{}}).Shutdown())
}
