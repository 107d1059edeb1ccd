package domain

import (
	"strings"
	"time"
)

// UserRole enumerates supported roles.
type UserRole string

const (
	UserRoleAdmin UserRole = "Admin"
	UserRoleStaff UserRole = "Staff"
	UserRoleUser  UserRole = "User"
)

// ParseUserRole matches s case-insensitively against the known roles.
func ParseUserRole(s string) (UserRole, bool) {
	for _, r := range []UserRole{UserRoleAdmin, UserRoleStaff, UserRoleUser} {
		if strings.EqualFold(strings.TrimSpace(s), string(r)) {
			return r, true
		}
	}
	return "", false
}

// CanManageContent reports whether the role may use the back office.
func (r UserRole) CanManageContent() bool {
	return r == UserRoleAdmin || r == UserRoleStaff
}

// User represents a person managed from the back office. Team members are
// users assigned to a team type.
type User struct {
	ID                 string
	Name               string
	Email              string
	Role               UserRole
	Phone              string
	Address            string
	ImageURL           string
	RegistrationNumber string
	TeamTypeID         *string
	PasswordHash       *string
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// IsAdmin reports whether the user holds the Admin role.
func (u User) IsAdmin() bool {
	return u.Role == UserRoleAdmin
}

// UserInput is the create/update payload for users.
type UserInput struct {
	Name               string  `json:"name" validate:"required,max=200"`
	Email              string  `json:"email" validate:"required,email,max=254"`
	Role               string  `json:"role" validate:"required,oneof=Admin Staff User"`
	Phone              string  `json:"phone" validate:"omitempty,phone"`
	Address            string  `json:"address" validate:"max=300"`
	ImageURL           string  `json:"image_url" validate:"omitempty,url"`
	RegistrationNumber string  `json:"registration_number" validate:"max=50"`
	TeamTypeID         *string `json:"team_type_id" validate:"omitempty,uuid"`
	Password           string  `json:"password" validate:"omitempty,min=8,max=72"`
}

// Normalize trims whitespace and canonicalizes the email and role.
func (in *UserInput) Normalize() {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if role, ok := ParseUserRole(in.Role); ok {
		in.Role = string(role)
	}
	in.Phone = strings.TrimSpace(in.Phone)
	in.Address = strings.TrimSpace(in.Address)
	in.ImageURL = strings.TrimSpace(in.ImageURL)
	in.RegistrationNumber = strings.TrimSpace(in.RegistrationNumber)
	if in.TeamTypeID != nil && strings.TrimSpace(*in.TeamTypeID) == "" {
		in.TeamTypeID = nil
	}
}

// ToUser maps the payload onto a User, leaving identity and password unset.
func (in UserInput) ToUser() User {
	return User{
		Name:               in.Name,
		Email:              in.Email,
		Role:               UserRole(in.Role),
		Phone:              in.Phone,
		Address:            in.Address,
		ImageURL:           in.ImageURL,
		RegistrationNumber: in.RegistrationNumber,
		TeamTypeID:         in.TeamTypeID,
	}
}
