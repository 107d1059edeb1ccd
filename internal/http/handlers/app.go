package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/ihuusa2/ihu-usa-sub002/internal/domain"
	"github.com/ihuusa2/ihu-usa-sub002/internal/donations"
	"github.com/ihuusa2/ihu-usa-sub002/internal/infra"
	"github.com/ihuusa2/ihu-usa-sub002/internal/infra/google"
	"github.com/ihuusa2/ihu-usa-sub002/internal/middleware"
	"github.com/ihuusa2/ihu-usa-sub002/internal/storage"
)

// maxBodyBytes caps JSON request bodies.
const maxBodyBytes = 1 << 20

// ContentStore exposes the site content repositories.
type ContentStore interface {
	Carousels() domain.CarouselRepository
	Flyers() domain.FlyerRepository
	Videos() domain.VideoRepository
	TeamTypes() domain.TeamTypeRepository
	Popup() domain.PopupRepository
}

// MediaStore saves uploaded images.
type MediaStore interface {
	SaveImage(ctx context.Context, data []byte) (*storage.Stored, error)
}

// IDTokenVerifier checks Google sign-in tokens.
type IDTokenVerifier interface {
	Enabled() bool
	VerifyIDToken(ctx context.Context, token string) (*google.Claims, error)
}

type App struct {
	Logger     infra.Logger
	JWTSecret  string
	Donations  *donations.Service
	Volunteers domain.VolunteerRepository
	Users      domain.UserRepository
	Content    ContentStore
	Stats      domain.StatsRepository
	Media      MediaStore
	Google     IDTokenVerifier
	Now        func() time.Time
}

func (a *App) now() time.Time {
	if a.Now != nil {
		return a.Now()
	}
	return time.Now()
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (a *App) error(w http.ResponseWriter, code int, errCode, message string) {
	a.json(w, code, map[string]any{
		"error": map[string]string{"code": errCode, "message": message},
	})
}

func (a *App) validationError(w http.ResponseWriter, ve *domain.ValidationError) {
	a.json(w, http.StatusUnprocessableEntity, map[string]any{
		"error":  map[string]string{"code": "validation_failed", "message": "validation failed"},
		"errors": ve.Fields,
	})
}

// fail maps a service or repository error onto the API error envelope.
func (a *App) fail(w http.ResponseWriter, r *http.Request, err error) {
	if ve, ok := domain.AsValidationError(err); ok && !ve.Empty() {
		a.validationError(w, ve)
		return
	}
	switch {
	case errors.Is(err, domain.ErrNotFound):
		a.error(w, http.StatusNotFound, "not_found", "resource not found")
	case errors.Is(err, domain.ErrUnauthorized):
		a.error(w, http.StatusUnauthorized, "unauthorized", "authentication required")
	case errors.Is(err, domain.ErrForbidden):
		a.error(w, http.StatusForbidden, "forbidden", "insufficient role")
	case errors.Is(err, domain.ErrLastAdmin):
		a.error(w, http.StatusConflict, "last_admin", err.Error())
	case errors.Is(err, domain.ErrInvalidTransition):
		a.error(w, http.StatusConflict, "invalid_transition", err.Error())
	case errors.Is(err, domain.ErrConflict):
		a.error(w, http.StatusConflict, "conflict", "resource already exists")
	case errors.Is(err, domain.ErrStatusPersistFailed):
		a.error(w, http.StatusBadGateway, "payment_status_update_failed",
			"payment was received but the donation could not be updated; please contact support")
	case errors.Is(err, domain.ErrPaymentDeclined):
		a.error(w, http.StatusPaymentRequired, "payment_declined", "the payment was declined")
	case errors.Is(err, domain.ErrProviderFailure):
		a.Logger.Error().Err(err).Str("request_id", middleware.RequestIDFromContext(r.Context())).Msg("payment provider error")
		a.error(w, http.StatusBadGateway, "provider_error", "payment provider unavailable")
	default:
		a.Logger.Error().Err(err).Str("request_id", middleware.RequestIDFromContext(r.Context())).
			Str("path", r.URL.Path).Msg("request failed")
		a.error(w, http.StatusInternalServerError, "internal", "internal error")
	}
}

// decode reads a JSON body into v and writes a 400 on malformed input.
func (a *App) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return false
	}
	return true
}

// pathID returns the {id} URL parameter. Malformed ids cannot exist, so
// they are reported as not found.
func (a *App) pathID(w http.ResponseWriter, r *http.Request) (string, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		a.error(w, http.StatusNotFound, "not_found", "resource not found")
		return "", false
	}
	return id.String(), true
}

func (a *App) currentUser(r *http.Request) (middleware.Principal, bool) {
	return middleware.PrincipalFromContext(r.Context())
}

func listParams(r *http.Request) domain.ListParams {
	q := r.URL.Query()
	limit, _ := strconv.Atoi(q.Get("limit"))
	offset, _ := strconv.Atoi(q.Get("offset"))
	return domain.ListParams{Limit: limit, Offset: offset}.Normalize()
}

type listResponse[T any] struct {
	Items []T `json:"items"`
	Total int `json:"total"`
}
