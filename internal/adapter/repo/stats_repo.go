package repo

import (
	"context"

	"github.com/ihuusa2/ihu-usa-sub002/internal/domain"
	"github.com/ihuusa2/ihu-usa-sub002/internal/infra"
	"github.com/ihuusa2/ihu-usa-sub002/internal/sqlinline"
)

type StatsRepositoryPG struct {
	sql infra.SQLExecutor
}

func NewStatsRepository(sql infra.SQLExecutor) *StatsRepositoryPG {
	return &StatsRepositoryPG{sql: sql}
}

func (r *StatsRepositoryPG) DashboardCounts(ctx context.Context) (*domain.DashboardCounts, error) {
	var c domain.DashboardCounts
	if err := r.sql.QueryRow(ctx, sqlinline.QDashboardCounts).Scan(&c.Volunteers, &c.VolunteersLast30, &c.Users, &c.DonationsLast30); err != nil {
		return nil, err
	}
	return &c, nil
}
