package handlers

import (
	"net/http"

	"github.com/ihuusa2/ihu-usa-sub002/internal/domain"
)

type teamMemberDTO struct {
	ID                 string `json:"id"`
	Name               string `json:"name"`
	Email              string `json:"email"`
	ImageURL           string `json:"image_url"`
	RegistrationNumber string `json:"registration_number"`
}

type teamGroupDTO struct {
	domain.TeamType
	Members []teamMemberDTO `json:"members"`
}

// TeamDirectory lists active team types in display order with their members.
func (a *App) TeamDirectory(w http.ResponseWriter, r *http.Request) {
	types, _, err := a.Content.TeamTypes().List(r.Context(), domain.ListParams{Limit: domain.MaxPageSize, ActiveOnly: true})
	if err != nil {
		a.fail(w, r, err)
		return
	}
	members, err := a.Users.ListTeamMembers(r.Context())
	if err != nil {
		a.fail(w, r, err)
		return
	}
	byType := make(map[string][]teamMemberDTO, len(types))
	for _, m := range members {
		if m.TeamTypeID == nil {
			continue
		}
		byType[*m.TeamTypeID] = append(byType[*m.TeamTypeID], teamMemberDTO{
			ID:                 m.ID,
			Name:               m.Name,
			Email:              m.Email,
			ImageURL:           m.ImageURL,
			RegistrationNumber: m.RegistrationNumber,
		})
	}
	groups := make([]teamGroupDTO, 0, len(types))
	for _, t := range types {
		group := teamGroupDTO{TeamType: t, Members: byType[t.ID]}
		if group.Members == nil {
			group.Members = []teamMemberDTO{}
		}
		groups = append(groups, group)
	}
	a.json(w, http.StatusOK, map[string]any{"items": groups})
}
