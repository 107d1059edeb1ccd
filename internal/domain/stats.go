package domain

import "context"

// DashboardCounts summarizes the back-office activity shown on the admin
// dashboard. The 30 day counters use the database clock.
type DashboardCounts struct {
	Volunteers       int64
	VolunteersLast30 int64
	Users            int64
	DonationsLast30  int64
}

// StatsRepository reads dashboard counters.
type StatsRepository interface {
	DashboardCounts(ctx context.Context) (*DashboardCounts, error)
}
