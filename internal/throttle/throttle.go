// Package throttle provides rate gates that pace calls to external services.
//
// A [Gate] is consulted before each outbound request. [NewInterval] returns a
// token bucket with a burst of one, so consecutive calls are spaced at least
// one interval apart while an idle caller proceeds immediately.
package throttle

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/time/rate"
)

// Gate blocks until the caller may issue its next request.
type Gate interface {
	// Wait blocks until a request slot is available or ctx is done. It returns
	// a non-nil error when the slot cannot be obtained before ctx ends.
	Wait(ctx context.Context) error
}

// intervalGate spaces calls at a fixed minimum interval.
type intervalGate struct {
	every   time.Duration
	limiter *rate.Limiter
}

// NewInterval returns a [Gate] that admits at most one call per every.
// A non-positive interval yields [Unlimited].
func NewInterval(every time.Duration) Gate {
	if every <= 0 {
		return Unlimited()
	}
	return &intervalGate{
		every:   every,
		limiter: rate.NewLimiter(rate.Every(every), 1),
	}
}

// Wait implements [Gate].
func (g *intervalGate) Wait(ctx context.Context) error {
	if err := g.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("throttle: waiting for %s slot: %w", g.every, err)
	}
	return nil
}

// String returns a human-readable description used in startup logs.
func (g *intervalGate) String() string {
	return "1 per " + g.every.String()
}

type unlimited struct{}

// Unlimited returns a [Gate] that never blocks. Wait still honours an already
// cancelled context.
func Unlimited() Gate { return unlimited{} }

func (unlimited) Wait(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("throttle: %w", err)
	}
	return nil
}

func (unlimited) String() string { return "unlimited" }
