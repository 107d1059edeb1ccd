package domain

import (
	"strings"
	"time"
)

// ListParams pages admin listings.
type ListParams struct {
	Limit      int
	Offset     int
	ActiveOnly bool
}

const (
	DefaultPageSize = 50
	MaxPageSize     = 200
)

// Normalize clamps the paging values to the supported range.
func (p ListParams) Normalize() ListParams {
	if p.Limit <= 0 {
		p.Limit = DefaultPageSize
	}
	if p.Limit > MaxPageSize {
		p.Limit = MaxPageSize
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
	return p
}

// CarouselImage is a homepage slider entry.
type CarouselImage struct {
	ID           string    `json:"id" yaml:"-"`
	Title        string    `json:"title" yaml:"title" validate:"required,max=200"`
	Subtitle     string    `json:"subtitle" yaml:"subtitle" validate:"max=300"`
	ImageURL     string    `json:"image_url" yaml:"image_url" validate:"required,url"`
	LinkURL      string    `json:"link_url" yaml:"link_url" validate:"omitempty,url"`
	DisplayOrder int       `json:"display_order" yaml:"display_order" validate:"gte=0"`
	IsActive     bool      `json:"is_active" yaml:"is_active"`
	CreatedAt    time.Time `json:"created_at" yaml:"-"`
	UpdatedAt    time.Time `json:"updated_at" yaml:"-"`
}

// Flyer is a promotional flyer shown on the events page.
type Flyer struct {
	ID           string    `json:"id" yaml:"-"`
	Title        string    `json:"title" yaml:"title" validate:"required,max=200"`
	Description  string    `json:"description" yaml:"description" validate:"max=2000"`
	ImageURL     string    `json:"image_url" yaml:"image_url" validate:"required,url"`
	LinkURL      string    `json:"link_url" yaml:"link_url" validate:"omitempty,url"`
	DisplayOrder int       `json:"display_order" yaml:"display_order" validate:"gte=0"`
	IsActive     bool      `json:"is_active" yaml:"is_active"`
	CreatedAt    time.Time `json:"created_at" yaml:"-"`
	UpdatedAt    time.Time `json:"updated_at" yaml:"-"`
}

// Video is a video gallery entry.
type Video struct {
	ID           string    `json:"id" yaml:"-"`
	Title        string    `json:"title" yaml:"title" validate:"required,max=200"`
	Description  string    `json:"description" yaml:"description" validate:"max=2000"`
	VideoURL     string    `json:"video_url" yaml:"video_url" validate:"required,url"`
	ThumbnailURL string    `json:"thumbnail_url" yaml:"thumbnail_url" validate:"omitempty,url"`
	DisplayOrder int       `json:"display_order" yaml:"display_order" validate:"gte=0"`
	IsActive     bool      `json:"is_active" yaml:"is_active"`
	CreatedAt    time.Time `json:"created_at" yaml:"-"`
	UpdatedAt    time.Time `json:"updated_at" yaml:"-"`
}

// TeamType groups team members in the public directory.
type TeamType struct {
	ID           string    `json:"id" yaml:"-"`
	Name         string    `json:"name" yaml:"name" validate:"required,max=100"`
	Description  string    `json:"description" yaml:"description" validate:"max=1000"`
	DisplayOrder int       `json:"display_order" yaml:"display_order" validate:"gte=0"`
	IsActive     bool      `json:"is_active" yaml:"is_active"`
	CreatedAt    time.Time `json:"created_at" yaml:"-"`
	UpdatedAt    time.Time `json:"updated_at" yaml:"-"`
}

// TeamGroup is a team type with its members, as shown in the directory.
type TeamGroup struct {
	TeamType TeamType
	Members  []User
}

// PopupSettings configures the site-wide announcement popup.
type PopupSettings struct {
	Title        string    `json:"title" yaml:"title" validate:"required_if=IsActive true,max=200"`
	Content      string    `json:"content" yaml:"content" validate:"max=5000"`
	ImageURL     string    `json:"image_url" yaml:"image_url" validate:"omitempty,url"`
	ButtonText   string    `json:"button_text" yaml:"button_text" validate:"max=50"`
	ButtonLink   string    `json:"button_link" yaml:"button_link" validate:"omitempty,url"`
	DelaySeconds int       `json:"delay_seconds" yaml:"delay_seconds" validate:"gte=0,lte=600"`
	IsActive     bool      `json:"is_active" yaml:"is_active"`
	UpdatedAt    time.Time `json:"updated_at" yaml:"-"`
}

// TrimContent trims every free-text field of a content record in place.
func TrimContent(fields ...*string) {
	for _, f := range fields {
		if f != nil {
			*f = strings.TrimSpace(*f)
		}
	}
}
