package simulator

import (
	"math"
	"math/rand"
	"sync"
	"time"

	"github.infra.cloudera.com/CAI/AmpExperimentLab/internal/db"
)

// Uniform yields values in [0, 1).
type Uniform interface {
	Float64() float64
}

type Metrics struct {
	TrainLoss float64
	ValLoss   float64
	TrainAcc  float64
	ValAcc    float64
}

// Epoch computes the metrics of a 1-based epoch. Each metric draws its own noise sample, in
// field order.
func Epoch(epoch int64, u Uniform) Metrics {
	e := float64(epoch)
	lossDecay := math.Exp(-0.1 * e)
	accDecay := math.Exp(-0.2 * e)
	return Metrics{
		TrainLoss: 0.5*lossDecay + 0.1*u.Float64(),
		ValLoss:   0.6*lossDecay + 0.15*u.Float64(),
		TrainAcc:  0.9 - 0.5*accDecay + 0.05*u.Float64(),
		ValAcc:    0.85 - 0.5*accDecay + 0.05*u.Float64(),
	}
}

// Simulator is safe for use by concurrent workers.
type Simulator struct {
	lock sync.Mutex
	rng  *rand.Rand
}

// New seeds the noise source; a zero seed uses the current time.
func New(seed int64) *Simulator {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Simulator{rng: rand.New(rand.NewSource(seed))}
}

func (s *Simulator) Float64() float64 {
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.rng.Float64()
}

// Simulate produces the history entry for an epoch. The hyperparameters do not influence the curve.
func (s *Simulator) Simulate(experiment *db.Experiment, epoch int64) *db.HistoryEntry {
	m := Epoch(epoch, s)
	return &db.HistoryEntry{
		ExperimentId: experiment.Id,
		Epoch:        epoch,
		TrainLoss:    m.TrainLoss,
		ValLoss:      m.ValLoss,
		TrainAcc:     m.TrainAcc,
		ValAcc:       m.ValAcc,
	}
}
