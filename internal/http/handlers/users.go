package handlers

import (
	"net/http"
	"time"

	"github.com/ihuusa2/ihu-usa-sub002/internal/domain"
	"github.com/ihuusa2/ihu-usa-sub002/internal/middleware"
	"github.com/ihuusa2/ihu-usa-sub002/internal/validation"
)

type userDTO struct {
	ID                 string    `json:"id"`
	Name               string    `json:"name"`
	Email              string    `json:"email"`
	Role               string    `json:"role"`
	Phone              string    `json:"phone"`
	Address            string    `json:"address"`
	ImageURL           string    `json:"image_url"`
	RegistrationNumber string    `json:"registration_number"`
	TeamTypeID         *string   `json:"team_type_id"`
	HasPassword        bool      `json:"has_password"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

func toUserDTO(u *domain.User) userDTO {
	return userDTO{
		ID:                 u.ID,
		Name:               u.Name,
		Email:              u.Email,
		Role:               string(u.Role),
		Phone:              u.Phone,
		Address:            u.Address,
		ImageURL:           u.ImageURL,
		RegistrationNumber: u.RegistrationNumber,
		TeamTypeID:         u.TeamTypeID,
		HasPassword:        u.PasswordHash != nil && *u.PasswordHash != "",
		CreatedAt:          u.CreatedAt,
		UpdatedAt:          u.UpdatedAt,
	}
}

func (a *App) AdminUsersList(w http.ResponseWriter, r *http.Request) {
	items, total, err := a.Users.List(r.Context(), listParams(r))
	if err != nil {
		a.fail(w, r, err)
		return
	}
	out := make([]userDTO, 0, len(items))
	for i := range items {
		out = append(out, toUserDTO(&items[i]))
	}
	a.json(w, http.StatusOK, listResponse[userDTO]{Items: out, Total: total})
}

func (a *App) AdminUsersGet(w http.ResponseWriter, r *http.Request) {
	id, ok := a.pathID(w, r)
	if !ok {
		return
	}
	u, err := a.Users.GetByID(r.Context(), id)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.json(w, http.StatusOK, toUserDTO(u))
}

func (a *App) decodeUser(w http.ResponseWriter, r *http.Request) (*domain.UserInput, bool) {
	var in domain.UserInput
	if !a.decode(w, r, &in) {
		return nil, false
	}
	in.Normalize()
	if verr := validation.Struct(&in); !verr.Empty() {
		a.validationError(w, verr)
		return nil, false
	}
	return &in, true
}

func (a *App) AdminUsersCreate(w http.ResponseWriter, r *http.Request) {
	in, ok := a.decodeUser(w, r)
	if !ok {
		return
	}
	u := in.ToUser()
	if in.Password != "" {
		hash, err := middleware.HashPassword(in.Password)
		if err != nil {
			a.fail(w, r, err)
			return
		}
		u.PasswordHash = &hash
	}
	if err := a.Users.Create(r.Context(), &u); err != nil {
		a.fail(w, r, err)
		return
	}
	a.Logger.Info().Str("user_id", u.ID).Str("role", string(u.Role)).Msg("user created")
	a.json(w, http.StatusCreated, toUserDTO(&u))
}

// AdminUsersUpdate overwrites the profile and, when a password is given,
// replaces the stored hash.
func (a *App) AdminUsersUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := a.pathID(w, r)
	if !ok {
		return
	}
	in, ok := a.decodeUser(w, r)
	if !ok {
		return
	}
	u := in.ToUser()
	u.ID = id
	if err := a.Users.Update(r.Context(), &u); err != nil {
		a.fail(w, r, err)
		return
	}
	if in.Password != "" {
		hash, err := middleware.HashPassword(in.Password)
		if err == nil {
			err = a.Users.SetPassword(r.Context(), id, hash)
		}
		if err != nil {
			a.fail(w, r, err)
			return
		}
		u.PasswordHash = &hash
	}
	a.json(w, http.StatusOK, toUserDTO(&u))
}

func (a *App) AdminUsersDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := a.pathID(w, r)
	if !ok {
		return
	}
	if err := a.Users.Delete(r.Context(), id); err != nil {
		a.fail(w, r, err)
		return
	}
	a.Logger.Info().Str("user_id", id).Msg("user deleted")
	w.WriteHeader(http.StatusNoContent)
}
