package donations

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/ihuusa2/ihu-usa-sub002/internal/domain"
	"github.com/ihuusa2/ihu-usa-sub002/internal/providers/paypal"
)

// ReconcilerOptions tunes a Reconciler.
type ReconcilerOptions struct {
	// StaleAfter is how long a PENDING donation with an order id is left
	// alone before it is checked.
	StaleAfter time.Duration
	// ExpireAfter is the age after which an unpaid order fails the donation.
	ExpireAfter time.Duration
	BatchSize   int
	Concurrency int
}

// Summary counts the outcomes of one reconciliation pass.
type Summary struct {
	Claimed   int
	Completed int
	Failed    int
	Pending   int
	Errors    int
}

type outcome int

const (
	outcomePending outcome = iota
	outcomeCompleted
	outcomeFailed
)

// Reconciler settles PENDING donations whose checkout was abandoned between
// capture and the status write, or never finished at all.
type Reconciler struct {
	repo     domain.DonationRepository
	payments PaymentProvider
	svc      *Service
	opts     ReconcilerOptions
	logger   zerolog.Logger
	now      func() time.Time
}

func NewReconciler(svc *Service, opts ReconcilerOptions) (*Reconciler, error) {
	if svc == nil || svc.payments == nil {
		return nil, errors.New("reconciler requires a configured payment provider")
	}
	if opts.StaleAfter <= 0 {
		opts.StaleAfter = 15 * time.Minute
	}
	if opts.ExpireAfter <= 0 {
		opts.ExpireAfter = 72 * time.Hour
	}
	if opts.BatchSize <= 0 {
		opts.BatchSize = 20
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = 4
	}
	return &Reconciler{
		repo:     svc.repo,
		payments: svc.payments,
		svc:      svc,
		opts:     opts,
		logger:   svc.logger.With().Str("component", "reconciler").Logger(),
		now:      time.Now,
	}, nil
}

// Run reconciles every interval until ctx is cancelled.
func (r *Reconciler) Run(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		interval = time.Minute
	}
	r.logger.Info().Dur("interval", interval).Dur("stale_after", r.opts.StaleAfter).Msg("reconciler started")
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		summary, err := r.RunOnce(ctx)
		if err != nil && !errors.Is(err, context.Canceled) {
			r.logger.Error().Err(err).Msg("reconcile pass failed")
		} else if summary.Claimed > 0 {
			r.logger.Info().Int("claimed", summary.Claimed).Int("completed", summary.Completed).
				Int("failed", summary.Failed).Int("pending", summary.Pending).Int("errors", summary.Errors).
				Msg("reconcile pass finished")
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// RunOnce claims one batch of stale donations and settles them concurrently.
// Errors on individual donations are counted, not returned; they are picked
// up again on a later pass.
func (r *Reconciler) RunOnce(ctx context.Context) (Summary, error) {
	var summary Summary
	claimed, err := r.repo.ClaimStale(ctx, r.now().Add(-r.opts.StaleAfter), r.opts.BatchSize)
	if err != nil {
		return summary, err
	}
	summary.Claimed = len(claimed)

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.opts.Concurrency)
	for i := range claimed {
		d := claimed[i]
		g.Go(func() error {
			res, err := r.settle(gctx, &d)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				summary.Errors++
				r.logger.Warn().Err(err).Str("donation_id", d.ID).Int("attempt", d.ReconcileAttempts).Msg("reconcile donation")
				return nil
			}
			switch res {
			case outcomeCompleted:
				summary.Completed++
			case outcomeFailed:
				summary.Failed++
			default:
				summary.Pending++
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return summary, err
	}
	return summary, ctx.Err()
}

func (r *Reconciler) settle(ctx context.Context, d *domain.Donation) (outcome, error) {
	if d.OrderID == nil || *d.OrderID == "" {
		return outcomePending, nil
	}
	orderID := *d.OrderID
	expired := r.now().Sub(d.CreatedAt) > r.opts.ExpireAfter

	order, err := r.payments.GetOrder(ctx, orderID)
	if err != nil {
		var apiErr *paypal.APIError
		if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound && expired {
			return r.markFailed(ctx, d, orderID)
		}
		return outcomePending, fmt.Errorf("get order %s: %w", orderID, err)
	}

	switch order.Status {
	case paypal.StatusCompleted:
		if order.CaptureStatus == paypal.StatusCompleted {
			if _, err := r.svc.complete(ctx, d.ID, order.ID, order.CaptureID); err != nil {
				return outcomePending, err
			}
			return outcomeCompleted, nil
		}
		return outcomePending, nil
	case paypal.StatusApproved:
		captured, err := r.payments.CaptureOrder(ctx, orderID, d.ID+"-capture")
		if err != nil {
			if isDeclined(err) {
				return r.markFailed(ctx, d, orderID)
			}
			return outcomePending, fmt.Errorf("capture order %s: %w", orderID, err)
		}
		if captured.CaptureStatus != paypal.StatusCompleted {
			return outcomePending, nil
		}
		if _, err := r.svc.complete(ctx, d.ID, captured.ID, captured.CaptureID); err != nil {
			return outcomePending, err
		}
		return outcomeCompleted, nil
	case paypal.StatusVoided:
		return r.markFailed(ctx, d, orderID)
	default:
		if expired {
			return r.markFailed(ctx, d, orderID)
		}
		return outcomePending, nil
	}
}

func (r *Reconciler) markFailed(ctx context.Context, d *domain.Donation, orderID string) (outcome, error) {
	if _, err := r.repo.Transition(ctx, d.ID, domain.DonationFailed, orderID, ""); err != nil {
		return outcomePending, fmt.Errorf("mark failed: %w", err)
	}
	r.logger.Info().Str("donation_id", d.ID).Str("order_id", orderID).Msg("donation failed by reconciler")
	return outcomeFailed, nil
}
