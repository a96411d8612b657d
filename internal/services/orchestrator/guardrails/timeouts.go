// Package guardrails bounds each registration stage in time
package guardrails

import (
	"context"
	"time"
)

// Timeouts is the budget bundle for one registration.
// Zero values mean no extra timeout at that stage
type Timeouts struct {
	// Upload caps fingerprinting plus both backend puts
	Upload time.Duration

	// Connect caps waiting for the wallet session
	Connect time.Duration

	// Register caps the ledger call
	Register time.Duration
}

// ForUpload returns a sub context for the upload stage
func ForUpload(parent context.Context, t Timeouts) (context.Context, context.CancelFunc) {
	return withChildTimeout(parent, t.Upload)
}

// ForConnect returns a sub context for the wallet stage
func ForConnect(parent context.Context, t Timeouts) (context.Context, context.CancelFunc) {
	return withChildTimeout(parent, t.Connect)
}

// ForRegister returns a sub context for the ledger stage
func ForRegister(parent context.Context, t Timeouts) (context.Context, context.CancelFunc) {
	return withChildTimeout(parent, t.Register)
}

// Remaining returns the time until the deadline on ctx or zero when none is set or already expired
func Remaining(ctx context.Context) time.Duration {
	if dl, ok := ctx.Deadline(); ok {
		if d := time.Until(dl); d > 0 {
			return d
		}
	}
	return 0
}

// withChildTimeout takes the tighter of d and the parent remainder, never extending the parent
func withChildTimeout(parent context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(parent)
	}
	if rem := Remaining(parent); rem > 0 && rem < d {
		return context.WithTimeout(parent, rem)
	}
	return context.WithTimeout(parent, d)
}
