package donations

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/ihuusa2/ihu-usa-sub002/internal/domain"
	"github.com/ihuusa2/ihu-usa-sub002/internal/providers/paypal"
)

var errDatabaseDown = errors.New("database down")

type memoryRepo struct {
	mu          sync.Mutex
	items       map[string]*domain.Donation
	seq         int
	createCalls int
	// failStatus makes Transition to that status fail with errDatabaseDown.
	failStatus domain.DonationStatus
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{items: map[string]*domain.Donation{}}
}

func (m *memoryRepo) Create(_ context.Context, d *domain.Donation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.createCalls++
	m.seq++
	d.ID = fmt.Sprintf("00000000-0000-4000-8000-%012d", m.seq)
	d.Status = domain.DonationPending
	d.CreatedAt = time.Now()
	d.UpdatedAt = d.CreatedAt
	cp := *d
	m.items[d.ID] = &cp
	return nil
}

func (m *memoryRepo) put(d domain.Donation) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := d
	m.items[d.ID] = &cp
}

func (m *memoryRepo) GetByID(_ context.Context, id string) (*domain.Donation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.items[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *d
	return &cp, nil
}

func (m *memoryRepo) List(_ context.Context, f domain.DonationFilter) ([]domain.Donation, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Donation
	for _, d := range m.items {
		if f.Status != "" && d.Status != f.Status {
			continue
		}
		out = append(out, *d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, len(out), nil
}

func (m *memoryRepo) Transition(_ context.Context, id string, status domain.DonationStatus, orderID, transactionID string) (*domain.Donation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failStatus != "" && status == m.failStatus {
		return nil, errDatabaseDown
	}
	d, ok := m.items[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if !domain.CanTransition(d.Status, status) {
		return nil, fmt.Errorf("%w: %s -> %s", domain.ErrInvalidTransition, d.Status, status)
	}
	d.Status = status
	if orderID != "" {
		d.OrderID = &orderID
	}
	if transactionID != "" {
		d.TransactionID = &transactionID
	}
	if status == domain.DonationCompleted {
		now := time.Now()
		d.CompletedAt = &now
	}
	cp := *d
	return &cp, nil
}

func (m *memoryRepo) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.items[id]; !ok {
		return domain.ErrNotFound
	}
	delete(m.items, id)
	return nil
}

func (m *memoryRepo) ClaimStale(_ context.Context, olderThan time.Time, limit int) ([]domain.Donation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Donation
	for _, d := range m.items {
		if d.Status != domain.DonationPending || d.OrderID == nil || !d.CreatedAt.Before(olderThan) {
			continue
		}
		d.ReconcileAttempts++
		out = append(out, *d)
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (m *memoryRepo) Totals(context.Context) (*domain.DonationTotals, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t := &domain.DonationTotals{}
	for _, d := range m.items {
		t.Count++
		if d.Status == domain.DonationCompleted {
			t.CompletedCount++
			t.CompletedCents += d.AmountCents
		}
	}
	return t, nil
}

func (m *memoryRepo) status(id string) domain.DonationStatus {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.items[id].Status
}

type fakePayments struct {
	mu         sync.Mutex
	orders     map[string]*paypal.Order
	seq        int
	captureErr error
	refunds    []string
}

func newFakePayments() *fakePayments {
	return &fakePayments{orders: map[string]*paypal.Order{}}
}

func (f *fakePayments) CreateOrder(_ context.Context, req paypal.OrderRequest) (*paypal.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seq++
	o := &paypal.Order{
		ID:          fmt.Sprintf("ORDER-%d", f.seq),
		Status:      paypal.StatusCreated,
		ReferenceID: req.ReferenceID,
		Amount:      req.AmountValue,
		Currency:    req.Currency,
		ApproveURL:  "https://paypal.test/approve",
	}
	f.orders[o.ID] = o
	cp := *o
	return &cp, nil
}

func (f *fakePayments) CaptureOrder(_ context.Context, orderID, _ string) (*paypal.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.captureErr != nil {
		return nil, f.captureErr
	}
	o, ok := f.orders[orderID]
	if !ok {
		return nil, &paypal.APIError{StatusCode: 404, Name: "RESOURCE_NOT_FOUND"}
	}
	o.Status = paypal.StatusCompleted
	o.CaptureID = "CAP-" + orderID
	o.CaptureStatus = paypal.StatusCompleted
	cp := *o
	return &cp, nil
}

func (f *fakePayments) GetOrder(_ context.Context, orderID string) (*paypal.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	o, ok := f.orders[orderID]
	if !ok {
		return nil, &paypal.APIError{StatusCode: 404, Name: "RESOURCE_NOT_FOUND"}
	}
	cp := *o
	return &cp, nil
}

func (f *fakePayments) RefundCapture(_ context.Context, captureID, _ string) (*paypal.Refund, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.refunds = append(f.refunds, captureID)
	return &paypal.Refund{ID: "REF-" + captureID, Status: "COMPLETED"}, nil
}

func (f *fakePayments) setOrder(o paypal.Order) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.orders[o.ID] = &o
}

func quietLogger() zerolog.Logger {
	return zerolog.New(io.Discard)
}
