package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/ihuusa2/ihu-usa-sub002/internal/domain"
	"github.com/ihuusa2/ihu-usa-sub002/internal/export"
	"github.com/ihuusa2/ihu-usa-sub002/internal/validation"
)

type volunteerDTO struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	domain.VolunteerForm
}

func toVolunteerDTO(app *domain.VolunteerApplication) volunteerDTO {
	return volunteerDTO{ID: app.ID, CreatedAt: app.CreatedAt, VolunteerForm: app.Form}
}

// VolunteersValidateStep checks one wizard page. The next step is only
// returned when the page is valid.
func (a *App) VolunteersValidateStep(w http.ResponseWriter, r *http.Request) {
	n, err := strconv.Atoi(chi.URLParam(r, "step"))
	step := domain.VolunteerStep(n)
	if err != nil || !step.Valid() {
		a.error(w, http.StatusNotFound, "not_found", "unknown step")
		return
	}
	var form domain.VolunteerForm
	if !a.decode(w, r, &form) {
		return
	}
	form.Normalize()
	if verr := validation.VolunteerStep(&form, step); !verr.Empty() {
		a.json(w, http.StatusUnprocessableEntity, map[string]any{
			"error":  map[string]string{"code": "validation_failed", "message": "validation failed"},
			"errors": verr.Fields,
			"step":   int(step),
		})
		return
	}
	var next any
	if s := step.Next(); s != 0 {
		next = int(s)
	}
	a.json(w, http.StatusOK, map[string]any{
		"valid":    true,
		"step":     int(step),
		"next":     next,
		"complete": step.Next() == 0,
	})
}

func (a *App) VolunteersSubmit(w http.ResponseWriter, r *http.Request) {
	var form domain.VolunteerForm
	if !a.decode(w, r, &form) {
		return
	}
	form.Normalize()
	if verr := validation.Volunteer(&form); !verr.Empty() {
		a.validationError(w, verr)
		return
	}
	app := &domain.VolunteerApplication{Form: form}
	if err := a.Volunteers.Create(r.Context(), app); err != nil {
		a.fail(w, r, err)
		return
	}
	a.Logger.Info().Str("volunteer_id", app.ID).Msg("volunteer application submitted")
	a.json(w, http.StatusCreated, map[string]any{"id": app.ID, "created_at": app.CreatedAt})
}

func (a *App) AdminVolunteersList(w http.ResponseWriter, r *http.Request) {
	items, total, err := a.Volunteers.List(r.Context(), listParams(r))
	if err != nil {
		a.fail(w, r, err)
		return
	}
	out := make([]volunteerDTO, 0, len(items))
	for i := range items {
		out = append(out, toVolunteerDTO(&items[i]))
	}
	a.json(w, http.StatusOK, listResponse[volunteerDTO]{Items: out, Total: total})
}

func (a *App) AdminVolunteersGet(w http.ResponseWriter, r *http.Request) {
	id, ok := a.pathID(w, r)
	if !ok {
		return
	}
	app, err := a.Volunteers.GetByID(r.Context(), id)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.json(w, http.StatusOK, toVolunteerDTO(app))
}

func (a *App) AdminVolunteersExport(w http.ResponseWriter, r *http.Request) {
	apps, err := a.allVolunteers(r)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="volunteers-%s.csv"`, a.now().UTC().Format("20060102")))
	if err := export.VolunteersCSV(w, apps); err != nil {
		a.Logger.Error().Err(err).Msg("write volunteers export")
	}
}

func (a *App) allVolunteers(r *http.Request) ([]domain.VolunteerApplication, error) {
	params := domain.ListParams{Limit: domain.MaxPageSize}
	var all []domain.VolunteerApplication
	for {
		page, total, err := a.Volunteers.List(r.Context(), params)
		if err != nil {
			return nil, err
		}
		all = append(all, page...)
		params.Offset += len(page)
		if len(page) == 0 || params.Offset >= total {
			return all, nil
		}
	}
}
