// Package clock abstracts time for deadline math and entity timestamps.
package clock

import (
	"time"

	"go.uber.org/fx"
)

var Module = fx.Module("clock",
	fx.Provide(func() Clock {
		return SystemClock{}
	}),
)

// Clock supplies the current time and elapsed-time measurement.
type Clock interface {
	Now() time.Time
	Since(t time.Time) time.Duration
}

// SystemClock is the wall-clock implementation.
type SystemClock struct{}

func (SystemClock) Now() time.Time                  { return time.Now().UTC() }
func (SystemClock) Since(t time.Time) time.Duration { return time.Since(t) }

// Fixed is a frozen clock for tests.
type Fixed struct {
	T time.Time
}

func (f Fixed) Now() time.Time                  { return f.T }
func (f Fixed) Since(t time.Time) time.Duration { return f.T.Sub(t) }
