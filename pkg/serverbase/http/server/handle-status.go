package sbhttpserver

import (
	"net/http"

	log "github.com/sirupsen/logrus"
	sbhttp "github.infra.cloudera.com/CAI/AmpExperimentLab/pkg/serverbase/http"
	sbhttpbase "github.infra.cloudera.com/CAI/AmpExperimentLab/pkg/serverbase/http/base"
)

func (instance *Instance) registerStatusHandlers(server Server) {
	instance.RegisterHandler(&HandleDescription{
		Path:   "/_status/live",
		Method: http.MethodGet,
		Handler: func(request *sbhttpbase.Request) {
			if err := server.Live(request.Request.Context()); err != nil {
				log.Printf("liveness request failed - %s", err)
				sbhttp.ReturnError(request.Writer, http.StatusInternalServerError, err.Error())
			} else {
				request.Writer.WriteHeader(http.StatusOK)
			}
		},
	})
	instance.RegisterHandler(&HandleDescription{
		Path:   "/_status/ready",
		Method: http.MethodGet,
		Handler: func(request *sbhttpbase.Request) {
			if err := server.Ready(request.Request.Context()); err != nil {
				log.Printf("ready request failed - %s", err)
				sbhttp.ReturnError(request.Writer, http.StatusServiceUnavailable, err.Error())
			} else {
				request.Writer.WriteHeader(http.StatusOK)
			}
		},
	})
}
