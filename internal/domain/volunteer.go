package domain

import (
	"strings"
	"time"
)

// VolunteerStep identifies a page of the volunteer application wizard.
type VolunteerStep int

const (
	VolunteerStepPersonal VolunteerStep = iota + 1
	VolunteerStepInterests
	VolunteerStepMotivation
)

// VolunteerStepCount is the number of wizard pages.
const VolunteerStepCount = 3

// Valid reports whether s is a wizard page.
func (s VolunteerStep) Valid() bool {
	return s >= VolunteerStepPersonal && s <= VolunteerStepMotivation
}

// Next returns the page following s, or zero after the last page.
func (s VolunteerStep) Next() VolunteerStep {
	if !s.Valid() || s == VolunteerStepMotivation {
		return 0
	}
	return s + 1
}

// VolunteerInterests lists the selectable interest areas.
var VolunteerInterests = []string{
	"teaching",
	"mentoring",
	"events",
	"fundraising",
	"administration",
	"research",
	"technology",
	"community_outreach",
	"media",
}

// VolunteerAvailability lists the selectable availability slots.
var VolunteerAvailability = []string{
	"weekday_mornings",
	"weekday_afternoons",
	"weekday_evenings",
	"weekends",
	"remote",
}

// VolunteerPersonal holds the first wizard page.
type VolunteerPersonal struct {
	FirstName string `json:"first_name" validate:"required,max=100"`
	LastName  string `json:"last_name" validate:"required,max=100"`
	Email     string `json:"email" validate:"required,email,max=254"`
	Phone     string `json:"phone" validate:"required,phone"`
	Address   string `json:"address" validate:"max=300"`
	City      string `json:"city" validate:"max=100"`
	State     string `json:"state" validate:"max=100"`
	Zip       string `json:"zip" validate:"max=20"`
	Country   string `json:"country" validate:"max=100"`
}

// VolunteerPreferences holds the second wizard page.
type VolunteerPreferences struct {
	Interests    []string `json:"interests" validate:"min=1,dive,interest"`
	Availability []string `json:"availability" validate:"min=1,dive,availability"`
	HoursPerWeek int      `json:"hours_per_week" validate:"gte=0,lte=80"`
}

// VolunteerStatement holds the third wizard page.
type VolunteerStatement struct {
	Motivation string `json:"motivation" validate:"required,max=2000"`
	Experience string `json:"experience" validate:"max=2000"`
	Skills     string `json:"skills" validate:"max=1000"`
}

// VolunteerForm is the complete wizard payload. The embedded pages keep the
// JSON flat so the client posts one object regardless of the step.
type VolunteerForm struct {
	VolunteerPersonal
	VolunteerPreferences
	VolunteerStatement
}

// Normalize trims text fields and de-duplicates selections.
func (f *VolunteerForm) Normalize() {
	f.FirstName = strings.TrimSpace(f.FirstName)
	f.LastName = strings.TrimSpace(f.LastName)
	f.Email = strings.ToLower(strings.TrimSpace(f.Email))
	f.Phone = strings.TrimSpace(f.Phone)
	f.Address = strings.TrimSpace(f.Address)
	f.City = strings.TrimSpace(f.City)
	f.State = strings.TrimSpace(f.State)
	f.Zip = strings.TrimSpace(f.Zip)
	f.Country = strings.TrimSpace(f.Country)
	f.Interests = dedupeLower(f.Interests)
	f.Availability = dedupeLower(f.Availability)
	f.Motivation = strings.TrimSpace(f.Motivation)
	f.Experience = strings.TrimSpace(f.Experience)
	f.Skills = strings.TrimSpace(f.Skills)
}

// Page returns the struct holding the fields of step s.
func (f *VolunteerForm) Page(s VolunteerStep) any {
	switch s {
	case VolunteerStepPersonal:
		return &f.VolunteerPersonal
	case VolunteerStepInterests:
		return &f.VolunteerPreferences
	case VolunteerStepMotivation:
		return &f.VolunteerStatement
	}
	return nil
}

// VolunteerApplication is a submitted application.
type VolunteerApplication struct {
	ID        string
	Form      VolunteerForm
	CreatedAt time.Time
}

func dedupeLower(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.ToLower(strings.TrimSpace(v))
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}

// IsVolunteerInterest reports whether v is a catalogue interest.
func IsVolunteerInterest(v string) bool { return contains(VolunteerInterests, v) }

// IsVolunteerAvailability reports whether v is a catalogue availability slot.
func IsVolunteerAvailability(v string) bool { return contains(VolunteerAvailability, v) }
