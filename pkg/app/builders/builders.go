package builders

import (
	"github.com/google/wire"
	"github.infra.cloudera.com/CAI/AmpExperimentLab/pkg/app"
	interceptors_inflight "github.infra.cloudera.com/CAI/AmpExperimentLab/pkg/interceptors/in-flight"
	sbhttpserver "github.infra.cloudera.com/CAI/AmpExperimentLab/pkg/serverbase/http/server"
	lsql "github.infra.cloudera.com/CAI/AmpExperimentLab/pkg/sql"
	ltime "github.infra.cloudera.com/CAI/AmpExperimentLab/pkg/time"
)

var Builders = wire.NewSet(
	app.NewInstance,
	interceptors_inflight.NewConfigFromEnv,
	interceptors_inflight.NewInterceptor,
	lsql.NewConfigFromEnv,
	ltime.NewWallWatch,
	wire.Bind(new(ltime.Watch), new(ltime.WallWatch)),
	ltime.NewWallSleeper,
	wire.Bind(new(ltime.Sleeper), new(ltime.WallSleeper)),
	sbhttpserver.NewConfigFromEnv,
	sbhttpserver.NewInstance,
	sbhttpserver.NewBaseInterceptorsConfigFromEnv,
	sbhttpserver.NewBaseInterceptors,
)
