package httputil

import (
	"context"
	"time"

	"github.com/matzehuels/chartpack/pkg/errors"
)

// Backoff retries temporary failures with doubling delays.
type Backoff struct {
	// Attempts is the total number of tries; values below 1 mean one.
	Attempts int
	// Delay is the wait after the first failure.
	Delay time.Duration
	// Max caps a single wait. Zero means no cap.
	Max time.Duration
}

// DefaultBackoff tries three times, waiting one then two seconds.
var DefaultBackoff = Backoff{Attempts: 3, Delay: time.Second, Max: 10 * time.Second}

// Retry calls fn until it succeeds, fails with an error that is not
// [errors.Temporary], or runs out of attempts, and returns the last error.
// Cancelling ctx during a wait returns ctx.Err().
func (b Backoff) Retry(ctx context.Context, fn func(context.Context) error) error {
	delay := b.Delay
	var err error
	for i := range max(b.Attempts, 1) {
		if i > 0 {
			t := time.NewTimer(delay)
			select {
			case <-ctx.Done():
				t.Stop()
				return ctx.Err()
			case <-t.C:
			}
			delay *= 2
			if b.Max > 0 && delay > b.Max {
				delay = b.Max
			}
		}
		if err = fn(ctx); err == nil || !errors.Temporary(err) {
			return err
		}
	}
	return err
}
