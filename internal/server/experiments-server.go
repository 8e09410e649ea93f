package server

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/schema"
	log "github.com/sirupsen/logrus"
	"github.infra.cloudera.com/CAI/AmpExperimentLab/internal/restapi"
	"github.infra.cloudera.com/CAI/AmpExperimentLab/models"
	lhttp "github.infra.cloudera.com/CAI/AmpExperimentLab/pkg/http"
	sbhttp "github.infra.cloudera.com/CAI/AmpExperimentLab/pkg/serverbase/http"
	sbhttpbase "github.infra.cloudera.com/CAI/AmpExperimentLab/pkg/serverbase/http/base"
	sbhttpserver "github.infra.cloudera.com/CAI/AmpExperimentLab/pkg/serverbase/http/server"
)

// Pinger reports whether the backing store is reachable
type Pinger interface {
	Ping(ctx context.Context) error
}

type ExperimentsServer struct {
	cfg          *Config
	api          *restapi.ExperimentAPI
	db           Pinger
	interceptors sbhttpserver.BaseInterceptors
	decoder      *schema.Decoder
}

var _ sbhttpserver.Server = &ExperimentsServer{}

func NewExperimentsServer(cfg *Config, api *restapi.ExperimentAPI, db Pinger, interceptors sbhttpserver.BaseInterceptors) *ExperimentsServer {
	decoder := schema.NewDecoder()
	decoder.IgnoreUnknownKeys(true)
	return &ExperimentsServer{
		cfg:          cfg,
		api:          api,
		db:           db,
		interceptors: interceptors,
		decoder:      decoder,
	}
}

func NewHttpServers(experimentsServer *ExperimentsServer) []sbhttpserver.Server {
	return []sbhttpserver.Server{experimentsServer}
}

// Ready fails if we cannot ping the database in a reasonable time
func (s *ExperimentsServer) Ready(ctx context.Context) error {
	return s.db.Ping(ctx)
}

// Live doesn't do any check. Just answering the request is enough evidence we're alive
func (s *ExperimentsServer) Live(ctx context.Context) error {
	return nil
}

func (s *ExperimentsServer) Shutdown() error {
	return s.api.Shutdown()
}

func (s *ExperimentsServer) GetHandlers() []sbhttpserver.HandleDescription {
	base := strings.TrimSuffix(s.cfg.ApiBasePath, "/")
	middleware := []sbhttpbase.RegistrableMiddleware(s.interceptors)
	return []sbhttpserver.HandleDescription{
		{Path: base + "/experiments", Method: http.MethodGet, Handler: s.listExperiments, Middleware: middleware},
		{Path: base + "/experiments", Method: http.MethodPost, Handler: s.createExperiment, Middleware: middleware},
		{Path: base + "/experiments/:id", Method: http.MethodGet, Handler: s.getExperiment, Middleware: middleware},
		{Path: base + "/experiments/:id", Method: http.MethodDelete, Handler: s.deleteExperiment, Middleware: middleware},
		{Path: base + "/experiments/:id/run", Method: http.MethodPost, Handler: s.runExperiment, Middleware: middleware},
		{NotFound: true, Handler: s.notFound, Middleware: middleware},
	}
}

func respond(request *sbhttpbase.Request, code int, payload interface{}, herr *lhttp.HttpError) {
	if herr != nil {
		sbhttp.ReturnHttpError(request.Writer, herr, nil)
		return
	}
	if err := sbhttp.WriteJson(request.Writer, code, payload); err != nil {
		log.Printf("failed to write response for %s: %s", request.PathPattern, err)
	}
}

func experimentParams(request *sbhttpbase.Request) (restapi.ExperimentParams, bool) {
	id, err := strconv.ParseInt(request.Param("id"), 10, 64)
	if err != nil {
		sbhttp.ReturnError(request.Writer, http.StatusBadRequest, "Invalid experiment id")
		return restapi.ExperimentParams{}, false
	}
	return restapi.ExperimentParams{ID: id}, true
}

func (s *ExperimentsServer) listExperiments(request *sbhttpbase.Request) {
	var params restapi.ListExperimentsParams
	if err := s.decoder.Decode(&params, request.Request.URL.Query()); err != nil {
		sbhttp.ReturnError(request.Writer, http.StatusBadRequest, "Invalid query parameters")
		return
	}
	payload, herr := s.api.ListExperiments(request.Context(), params)
	respond(request, http.StatusOK, payload, herr)
}

func (s *ExperimentsServer) createExperiment(request *sbhttpbase.Request) {
	var body models.NewExperiment
	if err := sbhttp.ReadJson(request.Request, &body); err != nil {
		sbhttp.ReturnError(request.Writer, http.StatusBadRequest, "Request body must be a JSON object")
		return
	}
	payload, herr := s.api.CreateExperiment(request.Context(), restapi.CreateExperimentParams{Body: &body})
	respond(request, http.StatusCreated, payload, herr)
}

func (s *ExperimentsServer) getExperiment(request *sbhttpbase.Request) {
	params, ok := experimentParams(request)
	if !ok {
		return
	}
	payload, herr := s.api.GetExperiment(request.Context(), params)
	respond(request, http.StatusOK, payload, herr)
}

func (s *ExperimentsServer) deleteExperiment(request *sbhttpbase.Request) {
	params, ok := experimentParams(request)
	if !ok {
		return
	}
	payload, herr := s.api.DeleteExperiment(request.Context(), params)
	respond(request, http.StatusOK, payload, herr)
}

func (s *ExperimentsServer) runExperiment(request *sbhttpbase.Request) {
	params, ok := experimentParams(request)
	if !ok {
		return
	}
	payload, herr := s.api.RunExperiment(request.Context(), params)
	respond(request, http.StatusOK, payload, herr)
}

func (s *ExperimentsServer) notFound(request *sbhttpbase.Request) {
	sbhttp.ReturnError(request.Writer, http.StatusNotFound, "Not found")
}
