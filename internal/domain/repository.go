package domain

import (
	"context"
	"time"
)

// DonationRepository handles donation persistence.
type DonationRepository interface {
	Create(ctx context.Context, donation *Donation) error
	GetByID(ctx context.Context, id string) (*Donation, error)
	List(ctx context.Context, filter DonationFilter) ([]Donation, int, error)
	// Transition moves a donation to status when its current status is one
	// of AllowedFrom(status). Non-empty orderID/transactionID overwrite the
	// stored values. ErrInvalidTransition is returned when the donation
	// exists in another status.
	Transition(ctx context.Context, id string, status DonationStatus, orderID, transactionID string) (*Donation, error)
	Delete(ctx context.Context, id string) error
	// ClaimStale locks up to limit PENDING donations with an order id that
	// were last touched before olderThan and bumps their reconcile counter.
	ClaimStale(ctx context.Context, olderThan time.Time, limit int) ([]Donation, error)
	Totals(ctx context.Context) (*DonationTotals, error)
}

// VolunteerRepository persists volunteer applications.
type VolunteerRepository interface {
	Create(ctx context.Context, app *VolunteerApplication) error
	GetByID(ctx context.Context, id string) (*VolunteerApplication, error)
	List(ctx context.Context, params ListParams) ([]VolunteerApplication, int, error)
}

// UserRepository defines access methods for users.
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	List(ctx context.Context, params ListParams) ([]User, int, error)
	// Update overwrites the profile fields. Demoting the last Admin fails
	// with ErrLastAdmin.
	Update(ctx context.Context, user *User) error
	SetPassword(ctx context.Context, id, passwordHash string) error
	// Delete removes a user. Deleting the last Admin fails with ErrLastAdmin.
	Delete(ctx context.Context, id string) error
	ListTeamMembers(ctx context.Context) ([]User, error)
}

// CarouselRepository persists carousel images.
type CarouselRepository interface {
	Create(ctx context.Context, item *CarouselImage) error
	List(ctx context.Context, params ListParams) ([]CarouselImage, int, error)
	Update(ctx context.Context, item *CarouselImage) error
	Delete(ctx context.Context, id string) error
}

// FlyerRepository persists flyers.
type FlyerRepository interface {
	Create(ctx context.Context, item *Flyer) error
	List(ctx context.Context, params ListParams) ([]Flyer, int, error)
	Update(ctx context.Context, item *Flyer) error
	Delete(ctx context.Context, id string) error
}

// VideoRepository persists video gallery entries.
type VideoRepository interface {
	Create(ctx context.Context, item *Video) error
	List(ctx context.Context, params ListParams) ([]Video, int, error)
	Update(ctx context.Context, item *Video) error
	Delete(ctx context.Context, id string) error
}

// TeamTypeRepository persists team types.
type TeamTypeRepository interface {
	Create(ctx context.Context, item *TeamType) error
	List(ctx context.Context, params ListParams) ([]TeamType, int, error)
	Update(ctx context.Context, item *TeamType) error
	Delete(ctx context.Context, id string) error
}

// PopupRepository reads and writes the popup singleton.
type PopupRepository interface {
	Get(ctx context.Context) (*PopupSettings, error)
	Upsert(ctx context.Context, settings *PopupSettings) error
}

// TokenStore reads integration secrets persisted in the database.
type TokenStore interface {
	Token(ctx context.Context, provider string) (string, error)
}
