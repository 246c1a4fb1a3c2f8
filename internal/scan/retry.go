package scan

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/tenderwatch/tenderwatch/internal/tender"
)

// RetryConfig bounds the retry loop around one scan cycle.
type RetryConfig struct {
	// MaxAttempts is how many times a failing scan is tried in total.
	MaxAttempts int
	// Backoff is the fixed wait between failed attempts. No wait follows
	// the last attempt.
	Backoff time.Duration
	// OperatorID receives the single escalation message on exhaustion.
	OperatorID string
}

// Outcome is the typed result of a retried scan cycle. Err is nil on
// success; on exhaustion it wraps the last attempt's failure so callers
// can distinguish transient crawl trouble from programmer errors.
type Outcome struct {
	Attempts int
	Report   tender.ScanReport
	Err      error
}

// Runner wraps the orchestrator with the bounded retry policy and the
// operator escalation path. It never panics and never exits the process;
// control always returns to the outer scheduling loop.
type Runner struct {
	orch     *Orchestrator
	notifier tender.Notifier
	sleep    func(ctx context.Context, d time.Duration) error
	cfg      RetryConfig
	logger   *zap.Logger
}

// NewRunner constructs a Runner.
func NewRunner(orch *Orchestrator, notifier tender.Notifier, cfg RetryConfig, logger *zap.Logger) *Runner {
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 3
	}
	if cfg.Backoff <= 0 {
		cfg.Backoff = 60 * time.Second
	}
	return &Runner{
		orch:     orch,
		notifier: notifier,
		sleep:    sleepCtx,
		cfg:      cfg,
		logger:   logger,
	}
}

// Run executes up to MaxAttempts scan attempts, backing off between
// failures. On exhaustion it sends one best-effort escalation message to
// the operator and reports the failure in the outcome.
func (r *Runner) Run(ctx context.Context) Outcome {
	var lastErr error
	attempts := 0
	for attempt := 1; attempt <= r.cfg.MaxAttempts; attempt++ {
		attempts = attempt
		report, err := r.orch.Run(ctx)
		if err == nil {
			return Outcome{Attempts: attempt, Report: report}
		}
		lastErr = err
		r.logger.Error("scan attempt failed",
			zap.Int("attempt", attempt),
			zap.Int("max_attempts", r.cfg.MaxAttempts),
			zap.Error(err),
		)
		if ctx.Err() != nil {
			break
		}
		if attempt < r.cfg.MaxAttempts {
			if err := r.sleep(ctx, r.cfg.Backoff); err != nil {
				break
			}
		}
	}

	r.escalate(ctx, attempts, lastErr)
	return Outcome{Attempts: attempts, Err: fmt.Errorf("scan failed after %d attempts: %w", attempts, lastErr)}
}

func (r *Runner) escalate(ctx context.Context, attempts int, cause error) {
	if r.cfg.OperatorID == "" {
		return
	}
	msg := fmt.Sprintf("🔥 Scan en échec après %d tentatives : %v", attempts, cause)
	if err := r.notifier.Notify(ctx, r.cfg.OperatorID, msg); err != nil {
		r.logger.Warn("escalation notify failed", zap.Error(err))
	}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
