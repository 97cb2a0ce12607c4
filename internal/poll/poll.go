// Package poll waits for an asynchronous analysis to complete. The
// backend answers the record endpoint immediately, but the worker may
// not have written anything yet; the poller keeps asking on a bounded
// linear-backoff schedule until the record carries content.
package poll

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/detectabb/detectago/constants"
	"github.com/detectabb/detectago/internal/analysis"
	"github.com/detectabb/detectago/internal/client"
	"github.com/detectabb/detectago/internal/common"
	"github.com/detectabb/detectago/internal/retry"
)

// Poller awaits analysis completion and keeps the last complete record
// in a transient slot for the no-identifier fallback path. Single-user,
// sequential access; the slot has exactly one writer.
type Poller struct {
	api    *client.Client
	policy retry.Policy
	last   *analysis.Record
	logger *slog.Logger
}

type Option func(*Poller)

func WithMaxAttempts(n int) Option {
	return func(p *Poller) {
		if n > 0 {
			p.policy.MaxAttempts = n
		}
	}
}

func WithBackoffStep(d time.Duration) Option {
	return func(p *Poller) {
		if d > 0 {
			p.policy.Step = d
		}
	}
}

func New(api *client.Client, logger *slog.Logger, opts ...Option) *Poller {
	if logger == nil {
		logger = slog.Default()
	}
	p := &Poller{
		api:    api,
		policy: retry.Policy{MaxAttempts: 10, Step: 500 * time.Millisecond},
		logger: logger,
	}
	for _, o := range opts {
		o(p)
	}
	return p
}

// Await fetches the record for id until it has content or the attempt
// budget runs out. Individual network failures count as "not yet", not
// as fatal errors. Exhaustion maps to ErrNotReady with reload guidance.
func (p *Poller) Await(ctx context.Context, id string) (*analysis.Record, error) {
	start := time.Now()
	var rec *analysis.Record

	err := retry.Do(ctx, p.policy, p.logger, func(ctx context.Context, attempt int) (bool, error) {
		got, err := p.api.GetAnalysis(ctx, id)
		if err != nil {
			return false, err
		}
		if !got.HasContent() {
			p.logger.Info("poll.record_incomplete", "analysis_id", id, "attempt", attempt)
			return false, nil
		}
		rec = got
		return true, nil
	})
	if err != nil {
		if errors.Is(err, retry.ErrExhausted) {
			p.logger.Warn("poll.exhausted",
				"analysis_id", id,
				"attempts", p.policy.MaxAttempts,
				"elapsed_ms", time.Since(start).Milliseconds(),
			)
			return nil, common.NewAppError("NOT_READY", constants.MsgResultNotReady, common.ErrNotReady)
		}
		return nil, err
	}

	p.logger.Info("poll.complete",
		"analysis_id", id,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	p.last = rec
	return rec, nil
}

// Latest returns the cached last analysis without touching the
// network. Used only when no identifier was supplied; fails
// immediately when nothing was cached this run.
func (p *Poller) Latest() (*analysis.Record, error) {
	if p.last == nil {
		return nil, common.NewAppError("NOT_FOUND", constants.MsgResultNotFound, common.ErrNotFound)
	}
	return p.last, nil
}
