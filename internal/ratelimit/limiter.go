package ratelimit

import (
	"context"
	"strings"

	"github.com/salinmesh/lead-intake/pkg/logging"
)

// FallbackIdentity is used when no client address could be resolved.
// All unidentified clients share this one bucket.
const FallbackIdentity = "unknown"

// Store tracks submission counts per client identity over a rolling window.
// Implementations must make the check-and-increment safe under concurrent use.
type Store interface {
	Admit(ctx context.Context, identity string) (bool, error)
}

// Limiter decides whether a submission from the given identity is admitted.
type Limiter struct {
	store  Store
	logger *logging.Logger
}

// NewLimiter creates a limiter backed by the given store.
func NewLimiter(store Store, logger *logging.Logger) *Limiter {
	if logger == nil {
		logger = logging.Default()
	}
	return &Limiter{store: store, logger: logger}
}

// Admit returns true when the identity is within its submission budget.
// A store failure admits the request rather than blocking a legitimate lead.
func (l *Limiter) Admit(ctx context.Context, identity string) bool {
	if strings.TrimSpace(identity) == "" {
		identity = FallbackIdentity
	}
	allowed, err := l.store.Admit(ctx, identity)
	if err != nil {
		l.logger.Warn("rate limit store unavailable, admitting request", "error", err, "identity", identity)
		return true
	}
	return allowed
}
