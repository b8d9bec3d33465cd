package provision

import (
	"context"
	"fmt"
	"time"

	"github.com/minhlongdo/teuthology/internal/util/retry"
)

// Readiness probe budgets. SSH becoming reachable does not imply
// guest-side setup (user creation, key installation) has completed, so
// two sequential waits are needed.
const (
	// connectAttempts at connectInterval apart bound the connectivity
	// wait to roughly two minutes.
	connectAttempts = 20
	connectInterval = 6 * time.Second

	// initTimeout bounds the sentinel wait once the node is reachable.
	initTimeout = 600 * time.Second
)

// RemoteRunner is the remote shell surface the prober needs: one
// connection attempt, and one command bounded by a timeout.
type RemoteRunner interface {
	Connect(ctx context.Context) error
	Run(ctx context.Context, command string, timeout time.Duration) error
}

// Prober polls a node until it is reachable and initialized.
type Prober struct {
	runner RemoteRunner
	obs    Observer

	attempts        int
	connectInterval time.Duration
	initTimeout     time.Duration
}

// ProberOption configures a Prober.
type ProberOption func(*Prober)

// WithConnectBudget overrides the connectivity attempt budget.
func WithConnectBudget(attempts int, interval time.Duration) ProberOption {
	return func(p *Prober) {
		p.attempts = attempts
		p.connectInterval = interval
	}
}

// WithInitTimeout overrides the initialization wait budget.
func WithInitTimeout(d time.Duration) ProberOption {
	return func(p *Prober) {
		p.initTimeout = d
	}
}

// NewProber creates a prober over the given remote runner.
func NewProber(runner RemoteRunner, obs Observer, opts ...ProberOption) *Prober {
	p := &Prober{
		runner:          runner,
		obs:             obs,
		attempts:        connectAttempts,
		connectInterval: connectInterval,
		initTimeout:     initTimeout,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// WaitReady blocks until the node accepts an SSH handshake and its
// first-boot sentinel exists. Connection refusals and not-yet-ready auth
// failures are retried at a fixed interval until the attempt budget runs
// out (ErrConnectivityTimeout); the sentinel wait is bounded separately
// (ErrInitializationTimeout) so callers can tell "unreachable" apart from
// "up but never finished setup".
func (p *Prober) WaitReady(ctx context.Context) error {
	err := retry.Do(ctx, func() error {
		return p.runner.Connect(ctx)
	},
		retry.WithMaxRetries(p.attempts-1),
		retry.WithInitialDelay(p.connectInterval),
		retry.WithMaxDelay(p.connectInterval),
		retry.WithMultiplier(1.0),
	)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrConnectivityTimeout, err)
	}

	command := fmt.Sprintf("while [ ! -e '%s' ]; do sleep 5; done", SentinelPath)
	if err := p.runner.Run(ctx, command, p.initTimeout); err != nil {
		return fmt.Errorf("%w: %w", ErrInitializationTimeout, err)
	}

	p.obs.Printf("node is ready")
	return nil
}
