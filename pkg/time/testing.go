package ltime

import (
	"time"

	"pgregory.net/rapid"
)

var testingStarts = []time.Time{
	time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
	time.Date(2024, 3, 1, 6, 0, 0, 0, time.UTC),
	time.Date(2024, 12, 31, 23, 59, 59, 0, time.UTC),
}

var testingSteps = []time.Duration{time.Millisecond, time.Second, 30 * time.Second, 10 * time.Minute}

func TestingTimeGenerator() *rapid.Generator[time.Time] {
	return rapid.SampledFrom(testingStarts)
}

// TestingWatchGenerator draws a TestingWatch at one of a few fixed instants, advancing by a
// positive step on every read.
func TestingWatchGenerator() *rapid.Generator[*TestingWatch] {
	return rapid.Custom(func(t *rapid.T) *TestingWatch {
		return &TestingWatch{
			Current: TestingTimeGenerator().Draw(t, "start"),
			Step:    rapid.SampledFrom(testingSteps).Draw(t, "step"),
		}
	})
}
