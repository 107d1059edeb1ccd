package repo

import (
	"context"
	"fmt"
	"time"

	"github.com/ihuusa2/ihu-usa-sub002/internal/domain"
	"github.com/ihuusa2/ihu-usa-sub002/internal/infra"
	"github.com/ihuusa2/ihu-usa-sub002/internal/sqlinline"
)

// DonationRepositoryPG implements domain.DonationRepository on PostgreSQL.
type DonationRepositoryPG struct {
	sql infra.SQLExecutor
}

// NewDonationRepository creates a new donation repo.
func NewDonationRepository(sql infra.SQLExecutor) *DonationRepositoryPG {
	return &DonationRepositoryPG{sql: sql}
}

// Create inserts a PENDING donation and fills in the generated fields.
func (r *DonationRepositoryPG) Create(ctx context.Context, d *domain.Donation) error {
	props := []byte(d.Properties)
	if len(props) == 0 {
		props = []byte(`{}`)
	}
	row := r.sql.QueryRow(ctx, sqlinline.QInsertDonation,
		d.FirstName, d.LastName, d.Email, d.Phone, d.Address,
		d.AmountCents, d.Currency, string(d.Purpose), d.IsAnonymous, d.Message, props)
	var status string
	if err := row.Scan(&d.ID, &status, &d.CreatedAt, &d.UpdatedAt); err != nil {
		return fmt.Errorf("insert donation: %w", err)
	}
	d.Status = domain.DonationStatus(status)
	d.Properties = props
	return nil
}

func (r *DonationRepositoryPG) GetByID(ctx context.Context, id string) (*domain.Donation, error) {
	d, err := scanDonation(r.sql.QueryRow(ctx, sqlinline.QSelectDonationByID, id))
	if err != nil {
		if infra.IsNoRows(err) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return d, nil
}

// List returns one page of donations, newest first, and the filtered total.
func (r *DonationRepositoryPG) List(ctx context.Context, f domain.DonationFilter) ([]domain.Donation, int, error) {
	page := domain.ListParams{Limit: f.Limit, Offset: f.Offset}.Normalize()
	var total int
	if err := r.sql.QueryRow(ctx, sqlinline.QCountDonations, string(f.Status), f.Search).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count donations: %w", err)
	}
	rows, err := r.sql.Query(ctx, sqlinline.QListDonations, string(f.Status), f.Search, page.Limit, page.Offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list donations: %w", err)
	}
	defer rows.Close()

	items := make([]domain.Donation, 0)
	for rows.Next() {
		d, err := scanDonation(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, *d)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (r *DonationRepositoryPG) Transition(ctx context.Context, id string, status domain.DonationStatus, orderID, transactionID string) (*domain.Donation, error) {
	from := domain.AllowedFrom(status)
	if len(from) == 0 {
		return nil, fmt.Errorf("%w: unknown status %q", domain.ErrInvalidTransition, status)
	}
	fromText := make([]string, len(from))
	for i, s := range from {
		fromText[i] = string(s)
	}
	d, err := scanDonation(r.sql.QueryRow(ctx, sqlinline.QTransitionDonation, id, string(status), orderID, transactionID, fromText))
	if err == nil {
		return d, nil
	}
	if !infra.IsNoRows(err) {
		return nil, err
	}

	var current string
	if err := r.sql.QueryRow(ctx, sqlinline.QSelectDonationStatus, id).Scan(&current); err != nil {
		if infra.IsNoRows(err) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return nil, fmt.Errorf("%w: %s -> %s", domain.ErrInvalidTransition, current, status)
}

func (r *DonationRepositoryPG) Delete(ctx context.Context, id string) error {
	tag, err := r.sql.Exec(ctx, sqlinline.QDeleteDonation, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *DonationRepositoryPG) ClaimStale(ctx context.Context, olderThan time.Time, limit int) ([]domain.Donation, error) {
	rows, err := r.sql.Query(ctx, sqlinline.QClaimStaleDonations, olderThan, limit)
	if err != nil {
		return nil, fmt.Errorf("claim stale donations: %w", err)
	}
	defer rows.Close()

	var items []domain.Donation
	for rows.Next() {
		d, err := scanDonation(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *d)
	}
	return items, rows.Err()
}

func (r *DonationRepositoryPG) Totals(ctx context.Context) (*domain.DonationTotals, error) {
	var t domain.DonationTotals
	err := r.sql.QueryRow(ctx, sqlinline.QDonationTotals).Scan(
		&t.Count, &t.PendingCount, &t.CompletedCount, &t.FailedCount, &t.RefundedCount, &t.CompletedCents)
	if err != nil {
		return nil, fmt.Errorf("donation totals: %w", err)
	}
	return &t, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanDonation(row scanner) (*domain.Donation, error) {
	var d domain.Donation
	var purpose, status string
	var props []byte
	err := row.Scan(
		&d.ID, &d.FirstName, &d.LastName, &d.Email, &d.Phone, &d.Address,
		&d.AmountCents, &d.Currency, &purpose, &d.IsAnonymous, &d.Message, &status,
		&d.OrderID, &d.TransactionID, &props, &d.ReconcileAttempts,
		&d.CompletedAt, &d.CreatedAt, &d.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	d.Purpose = domain.DonationPurpose(purpose)
	d.Status = domain.DonationStatus(status)
	d.Properties = append([]byte(nil), props...)
	return &d, nil
}

var _ domain.DonationRepository = (*DonationRepositoryPG)(nil)
