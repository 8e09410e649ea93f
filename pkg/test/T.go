package ltest

import (
	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

// T is what fixtures such as temporary databases need. *testing.T and *RapidT satisfy it.
type T interface {
	Helper()
	Fatalf(format string, args ...interface{})
	Cleanup(func())
	assert.TestingT
}

// RapidT adds Cleanup to a rapid check. Call RunCleanup when the check ends.
type RapidT struct {
	*rapid.T
	cleanups []func()
}

func NewRapidT(t *rapid.T) *RapidT {
	return &RapidT{T: t}
}

func (r *RapidT) Cleanup(f func()) {
	r.cleanups = append(r.cleanups, f)
}

// RunCleanup runs the registered functions last-in first-out, like testing.T does
func (r *RapidT) RunCleanup() {
	for i := len(r.cleanups) - 1; i >= 0; i-- {
		r.cleanups[i]()
	}
	r.cleanups = nil
}

var _ T = &RapidT{}
