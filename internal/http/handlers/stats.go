package handlers

import (
	"net/http"

	"golang.org/x/sync/errgroup"

	"github.com/ihuusa2/ihu-usa-sub002/internal/domain"
)

func (a *App) StatsSummary(w http.ResponseWriter, r *http.Request) {
	var (
		counts *domain.DashboardCounts
		totals *domain.DonationTotals
	)
	g, ctx := errgroup.WithContext(r.Context())
	g.Go(func() error {
		var err error
		counts, err = a.Stats.DashboardCounts(ctx)
		return err
	})
	g.Go(func() error {
		var err error
		totals, err = a.Donations.Totals(ctx)
		return err
	})
	if err := g.Wait(); err != nil {
		a.fail(w, r, err)
		return
	}
	a.json(w, http.StatusOK, map[string]any{
		"volunteers_total":       counts.Volunteers,
		"volunteers_last_30d":    counts.VolunteersLast30,
		"users_total":            counts.Users,
		"donations_last_30d":     counts.DonationsLast30,
		"donations_total":        totals.Count,
		"donations_pending":      totals.PendingCount,
		"donations_completed":    totals.CompletedCount,
		"donations_failed":       totals.FailedCount,
		"donations_refunded":     totals.RefundedCount,
		"donations_raised":       domain.FormatCents(totals.CompletedCents),
		"donations_raised_cents": totals.CompletedCents,
	})
}
