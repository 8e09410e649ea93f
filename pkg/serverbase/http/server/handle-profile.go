package sbhttpserver

import (
	"net/http"
	"net/http/pprof"

	log "github.com/sirupsen/logrus"
	sbhttpbase "github.infra.cloudera.com/CAI/AmpExperimentLab/pkg/serverbase/http/base"
)

var profileEndpoints = map[string]http.HandlerFunc{
	"":        pprof.Index,
	"cmdline": pprof.Cmdline,
	"profile": pprof.Profile,
	"symbol":  pprof.Symbol,
	"trace":   pprof.Trace,
}

var namedProfiles = []string{"allocs", "block", "goroutine", "heap", "mutex", "threadcreate"}

func (b *Instance) registerProfileHandlers() {
	if !b.config.EnableProfiling {
		return
	}
	log.Printf("registering profile handlers under /debug/pprof/")

	for name, handler := range profileEndpoints {
		b.RegisterHandler(&HandleDescription{
			Path:    "/debug/pprof/" + name,
			Method:  http.MethodGet,
			Handler: sbhttpbase.HandleStdFunc(handler),
		})
	}
	for _, name := range namedProfiles {
		b.RegisterHandler(&HandleDescription{
			Path:    "/debug/pprof/" + name,
			Method:  http.MethodGet,
			Handler: sbhttpbase.HandleStdFunc(pprof.Handler(name).ServeHTTP),
		})
	}
}
