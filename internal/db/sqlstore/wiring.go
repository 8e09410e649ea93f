package sqlstore

import (
	"github.com/google/wire"
	"github.infra.cloudera.com/CAI/AmpExperimentLab/internal/db"
)

var WireSet = wire.NewSet(NewExperiments, NewHistory, db.NewDatabase)
