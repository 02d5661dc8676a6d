package botdefense

import (
	"context"
	"errors"
	"strings"

	"github.com/salinmesh/lead-intake/pkg/logging"
)

// ErrBotSuspected is returned for any failed bot check. Honeypot trips and
// verification failures are deliberately indistinguishable to the caller.
var ErrBotSuspected = errors.New("invalid submission")

// Verifier checks a client-supplied token against a human-verification service.
type Verifier interface {
	Verify(ctx context.Context, token string) (bool, error)
}

// Inspector runs the bot checks on a raw submission: honeypot first, then
// human verification. A nil verifier means verification is disabled and every
// token passes; that is a default-open mode intended for local and test
// environments only.
type Inspector struct {
	verifier Verifier
	logger   *logging.Logger
}

// NewInspector creates a bot-defense inspector.
func NewInspector(verifier Verifier, logger *logging.Logger) *Inspector {
	if logger == nil {
		logger = logging.Default()
	}
	if verifier == nil {
		logger.Warn("human verification disabled, all tokens pass")
	}
	return &Inspector{verifier: verifier, logger: logger}
}

// Inspect returns nil when the submission looks human. The honeypot check
// runs before any external call so obvious bots are discarded cheaply.
func (i *Inspector) Inspect(ctx context.Context, honeypot, token string) error {
	if strings.TrimSpace(honeypot) != "" {
		i.logger.Info("honeypot field populated, rejecting submission")
		return ErrBotSuspected
	}

	if i.verifier == nil {
		return nil
	}

	human, err := i.verifier.Verify(ctx, token)
	if err != nil {
		// Fail closed: a broken verification service must not admit bots.
		i.logger.Warn("verification call failed, rejecting submission", "error", err)
		return ErrBotSuspected
	}
	if !human {
		i.logger.Info("verification rejected token")
		return ErrBotSuspected
	}
	return nil
}
