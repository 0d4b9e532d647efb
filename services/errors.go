package services

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// Upstream error taxonomy. Handlers map these to distinct user-visible
// failure states (timeout vs. network vs. bad data) instead of one generic
// error.
var (
	ErrNotConfigured = errors.New("provider not configured")
	ErrTimeout       = errors.New("upstream request timed out")
	ErrUnavailable   = errors.New("upstream unavailable")
	ErrBadResponse   = errors.New("upstream returned unusable data")
)

// classify wraps a transport error with the matching taxonomy sentinel.
func classify(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("%w: %v", ErrTimeout, err)
	case errors.Is(err, context.Canceled):
		return err
	default:
		var netErr net.Error
		if errors.As(err, &netErr) && netErr.Timeout() {
			return fmt.Errorf("%w: %v", ErrTimeout, err)
		}
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
}
