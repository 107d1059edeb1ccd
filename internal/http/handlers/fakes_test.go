package handlers

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
	"github.com/ihuusa2/ihu-usa-sub002/internal/donations"
	"github.com/ihuusa2/ihu-usa-sub002/internal/providers/paypal"
	"github.com/ihuusa2/ihu-usa-sub002/internal/storage"
)

var errWriteFailed = errors.New("write failed")

func idFor(seq int) string {
	return fmt.Sprintf("00000000-0000-4000-8000-%012d", seq)
}

type donationStore struct {
	mu          sync.Mutex
	items       map[string]*domain.Donation
	seq         int
	createCalls int
	failStatus  domain.DonationStatus
}

func newDonationStore() *donationStore {
	return &donationStore{items: map[string]*domain.Donation{}}
}

func (m *donationStore) Create(_ context.Context, d *domain.Donation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.createCalls++
	m.seq++
	d.ID = idFor(m.seq)
	d.Status = domain.DonationPending
	d.CreatedAt = time.Now()
	cp := *d
	m.items[d.ID] = &cp
	return nil
}

func (m *donationStore) GetByID(_ context.Context, id string) (*domain.Donation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.items[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *d
	return &cp, nil
}

func (m *donationStore) List(_ context.Context, f domain.DonationFilter) ([]domain.Donation, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []domain.Donation{}
	for _, d := range m.items {
		if f.Status == "" || d.Status == f.Status {
			out = append(out, *d)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	total := len(out)
	if f.Offset >= total {
		return []domain.Donation{}, total, nil
	}
	out = out[f.Offset:]
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, total, nil
}

func (m *donationStore) Transition(_ context.Context, id string, status domain.DonationStatus, orderID, transactionID string) (*domain.Donation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failStatus == status {
		return nil, errWriteFailed
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
	cp := *d
	return &cp, nil
}

func (m *donationStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.items[id]; !ok {
		return domain.ErrNotFound
	}
	delete(m.items, id)
	return nil
}

func (m *donationStore) ClaimStale(context.Context, time.Time, int) ([]domain.Donation, error) {
	return nil, nil
}

func (m *donationStore) Totals(context.Context) (*domain.DonationTotals, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t := &domain.DonationTotals{}
	for _, d := range m.items {
		t.Count++
		switch d.Status {
		case domain.DonationPending:
			t.PendingCount++
		case domain.DonationCompleted:
			t.CompletedCount++
			t.CompletedCents += d.AmountCents
		}
	}
	return t, nil
}

func (m *donationStore) status(id string) domain.DonationStatus {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.items[id].Status
}

type paypalStub struct {
	mu     sync.Mutex
	orders map[string]*paypal.Order
	seq    int
}

func newPaypalStub() *paypalStub {
	return &paypalStub{orders: map[string]*paypal.Order{}}
}

func (p *paypalStub) CreateOrder(_ context.Context, req paypal.OrderRequest) (*paypal.Order, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.seq++
	o := &paypal.Order{
		ID:          fmt.Sprintf("ORDER-%d", p.seq),
		Status:      paypal.StatusCreated,
		ReferenceID: req.ReferenceID,
		Amount:      req.AmountValue,
		Currency:    req.Currency,
		ApproveURL:  "https://paypal.test/approve",
	}
	p.orders[o.ID] = o
	cp := *o
	return &cp, nil
}

func (p *paypalStub) CaptureOrder(_ context.Context, orderID, _ string) (*paypal.Order, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	o, ok := p.orders[orderID]
	if !ok {
		return nil, &paypal.APIError{StatusCode: 404, Name: "RESOURCE_NOT_FOUND"}
	}
	o.Status = paypal.StatusCompleted
	o.CaptureStatus = paypal.StatusCompleted
	o.CaptureID = "CAP-" + orderID
	cp := *o
	return &cp, nil
}

func (p *paypalStub) GetOrder(_ context.Context, orderID string) (*paypal.Order, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	o, ok := p.orders[orderID]
	if !ok {
		return nil, &paypal.APIError{StatusCode: 404, Name: "RESOURCE_NOT_FOUND"}
	}
	cp := *o
	return &cp, nil
}

func (p *paypalStub) RefundCapture(_ context.Context, captureID, _ string) (*paypal.Refund, error) {
	return &paypal.Refund{ID: "REF-" + captureID, Status: "COMPLETED"}, nil
}

type volunteerStore struct {
	mu    sync.Mutex
	items []domain.VolunteerApplication
}

func (v *volunteerStore) Create(_ context.Context, app *domain.VolunteerApplication) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	app.ID = idFor(len(v.items) + 1)
	app.CreatedAt = time.Now()
	v.items = append(v.items, *app)
	return nil
}

func (v *volunteerStore) GetByID(_ context.Context, id string) (*domain.VolunteerApplication, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	for i := range v.items {
		if v.items[i].ID == id {
			cp := v.items[i]
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (v *volunteerStore) List(_ context.Context, _ domain.ListParams) ([]domain.VolunteerApplication, int, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	out := append([]domain.VolunteerApplication(nil), v.items...)
	return out, len(out), nil
}

// userStore enforces unique emails and the last-admin rule like the
// database does.
type userStore struct {
	mu    sync.Mutex
	items map[string]*domain.User
	seq   int
}

func newUserStore() *userStore {
	return &userStore{items: map[string]*domain.User{}}
}

func (s *userStore) add(u domain.User) *domain.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	u.ID = idFor(s.seq)
	s.items[u.ID] = &u
	cp := u
	return &cp
}

func (s *userStore) admins() int {
	n := 0
	for _, u := range s.items {
		if u.Role == domain.UserRoleAdmin {
			n++
		}
	}
	return n
}

func (s *userStore) Create(_ context.Context, u *domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.items {
		if existing.Email == u.Email {
			return domain.ErrConflict
		}
	}
	s.seq++
	u.ID = idFor(s.seq)
	cp := *u
	s.items[u.ID] = &cp
	return nil
}

func (s *userStore) GetByID(_ context.Context, id string) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.items[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (s *userStore) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.items {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (s *userStore) List(context.Context, domain.ListParams) ([]domain.User, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []domain.User{}
	for _, u := range s.items {
		out = append(out, *u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, len(out), nil
}

func (s *userStore) Update(_ context.Context, u *domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.items[u.ID]
	if !ok {
		return domain.ErrNotFound
	}
	if existing.Role == domain.UserRoleAdmin && u.Role != domain.UserRoleAdmin && s.admins() == 1 {
		return domain.ErrLastAdmin
	}
	hash := existing.PasswordHash
	cp := *u
	cp.PasswordHash = hash
	s.items[u.ID] = &cp
	return nil
}

func (s *userStore) SetPassword(_ context.Context, id, hash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.items[id]
	if !ok {
		return domain.ErrNotFound
	}
	u.PasswordHash = &hash
	return nil
}

func (s *userStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.items[id]
	if !ok {
		return domain.ErrNotFound
	}
	if u.Role == domain.UserRoleAdmin && s.admins() == 1 {
		return domain.ErrLastAdmin
	}
	delete(s.items, id)
	return nil
}

func (s *userStore) ListTeamMembers(context.Context) ([]domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.User
	for _, u := range s.items {
		if u.TeamTypeID != nil {
			out = append(out, *u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// carouselStore backs every content accessor of contentStub; only the
// carousel and team type types are exercised with data.
type carouselStore struct {
	mu    sync.Mutex
	items []domain.CarouselImage
}

func (c *carouselStore) Create(_ context.Context, item *domain.CarouselImage) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	item.ID = idFor(len(c.items) + 1)
	c.items = append(c.items, *item)
	return nil
}

func (c *carouselStore) List(_ context.Context, p domain.ListParams) ([]domain.CarouselImage, int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := []domain.CarouselImage{}
	for _, item := range c.items {
		if !p.ActiveOnly || item.IsActive {
			out = append(out, item)
		}
	}
	return out, len(out), nil
}

func (c *carouselStore) Update(_ context.Context, item *domain.CarouselImage) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.items {
		if c.items[i].ID == item.ID {
			c.items[i] = *item
			return nil
		}
	}
	return domain.ErrNotFound
}

func (c *carouselStore) Delete(_ context.Context, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.items {
		if c.items[i].ID == id {
			c.items = append(c.items[:i], c.items[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}

type teamTypeStore struct {
	items []domain.TeamType
}

func (t *teamTypeStore) Create(context.Context, *domain.TeamType) error { return nil }

func (t *teamTypeStore) List(_ context.Context, p domain.ListParams) ([]domain.TeamType, int, error) {
	out := []domain.TeamType{}
	for _, item := range t.items {
		if !p.ActiveOnly || item.IsActive {
			out = append(out, item)
		}
	}
	return out, len(out), nil
}

func (t *teamTypeStore) Update(context.Context, *domain.TeamType) error { return domain.ErrNotFound }

func (t *teamTypeStore) Delete(context.Context, string) error { return domain.ErrNotFound }

type popupStore struct {
	settings domain.PopupSettings
}

func (p *popupStore) Get(context.Context) (*domain.PopupSettings, error) {
	cp := p.settings
	return &cp, nil
}

func (p *popupStore) Upsert(_ context.Context, s *domain.PopupSettings) error {
	p.settings = *s
	return nil
}

type contentStub struct {
	carousels *carouselStore
	teamTypes *teamTypeStore
	popup     *popupStore
}

func (c *contentStub) Carousels() domain.CarouselRepository { return c.carousels }
func (c *contentStub) Flyers() domain.FlyerRepository       { return nil }
func (c *contentStub) Videos() domain.VideoRepository       { return nil }
func (c *contentStub) TeamTypes() domain.TeamTypeRepository { return c.teamTypes }
func (c *contentStub) Popup() domain.PopupRepository        { return c.popup }

type statsStub struct{}

func (statsStub) DashboardCounts(context.Context) (*domain.DashboardCounts, error) {
	return &domain.DashboardCounts{Volunteers: 5, VolunteersLast30: 2, Users: 3, DonationsLast30: 1}, nil
}

type mediaStub struct {
	saved [][]byte
}

func (m *mediaStub) SaveImage(_ context.Context, data []byte) (*storage.Stored, error) {
	mime, ext, ok := storage.DetectImage(data)
	if !ok {
		return nil, storage.ErrUnsupportedMedia
	}
	m.saved = append(m.saved, data)
	key := "uploads/2025/01/test" + ext
	return &storage.Stored{Key: key, URL: "http://media.test/" + key, MIME: mime, Size: len(data)}, nil
}

type testEnv struct {
	app        *App
	donations  *donationStore
	payments   *paypalStub
	volunteers *volunteerStore
	users      *userStore
	content    *contentStub
	media      *mediaStub
}

func newTestEnv() *testEnv {
	logger := zerolog.New(io.Discard)
	env := &testEnv{
		donations:  newDonationStore(),
		payments:   newPaypalStub(),
		volunteers: &volunteerStore{},
		users:      newUserStore(),
		content: &contentStub{
			carousels: &carouselStore{},
			teamTypes: &teamTypeStore{},
			popup:     &popupStore{},
		},
		media: &mediaStub{},
	}
	env.app = &App{
		Logger:     logger,
		JWTSecret:  "test-secret",
		Donations:  donations.NewService(env.donations, env.payments, logger),
		Volunteers: env.volunteers,
		Users:      env.users,
		Content:    env.content,
		Stats:      statsStub{},
		Media:      env.media,
	}
	return env
}
