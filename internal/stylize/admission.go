package stylize

import (
	"context"
	"time"

	"stylerd/internal/style"
)

// acquire reserves a forward-pass slot, waiting at most maxWait. The returned
// release func must be called exactly once.
func (s *Service) acquire(ctx context.Context, v style.Variant) (func(), error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.slots == nil {
		return func() {}, nil
	}
	release := func() { <-s.slots }

	select {
	case s.slots <- struct{}{}:
		return release, nil
	default:
	}

	timer := time.NewTimer(s.maxWait)
	defer timer.Stop()
	select {
	case s.slots <- struct{}{}:
		return release, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-timer.C:
		s.rejected.Add(1)
		return nil, tooBusyError{model: v.String()}
	}
}
