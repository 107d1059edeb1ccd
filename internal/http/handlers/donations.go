package handlers

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/ihuusa2/ihu-usa-sub002/internal/domain"
	"github.com/ihuusa2/ihu-usa-sub002/internal/donations"
	"github.com/ihuusa2/ihu-usa-sub002/internal/export"
	"github.com/ihuusa2/ihu-usa-sub002/internal/middleware"
)

type donationDTO struct {
	ID            string     `json:"id"`
	FirstName     string     `json:"first_name"`
	LastName      string     `json:"last_name"`
	Email         string     `json:"email"`
	Phone         string     `json:"phone"`
	Address       string     `json:"address"`
	Amount        string     `json:"amount"`
	Currency      string     `json:"currency"`
	Purpose       string     `json:"purpose"`
	IsAnonymous   bool       `json:"is_anonymous"`
	Message       string     `json:"message"`
	Status        string     `json:"status"`
	OrderID       *string    `json:"order_id"`
	TransactionID *string    `json:"transaction_id"`
	CompletedAt   *time.Time `json:"completed_at"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

func toDonationDTO(d *domain.Donation) donationDTO {
	return donationDTO{
		ID:            d.ID,
		FirstName:     d.FirstName,
		LastName:      d.LastName,
		Email:         d.Email,
		Phone:         d.Phone,
		Address:       d.Address,
		Amount:        d.Amount(),
		Currency:      d.Currency,
		Purpose:       string(d.Purpose),
		IsAnonymous:   d.IsAnonymous,
		Message:       d.Message,
		Status:        string(d.Status),
		OrderID:       d.OrderID,
		TransactionID: d.TransactionID,
		CompletedAt:   d.CompletedAt,
		CreatedAt:     d.CreatedAt,
		UpdatedAt:     d.UpdatedAt,
	}
}

func (a *App) DonationsCreate(w http.ResponseWriter, r *http.Request) {
	var in domain.DonationInput
	if !a.decode(w, r, &in) {
		return
	}
	origin := donations.Origin{
		Country: middleware.CountryFromContext(r.Context()),
		Locale:  middleware.LocaleFromContext(r.Context()),
	}
	d, err := a.Donations.Create(r.Context(), in, origin)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.json(w, http.StatusCreated, map[string]any{
		"id":               d.ID,
		"status":           d.Status,
		"amount":           d.Amount(),
		"currency":         d.Currency,
		"payments_enabled": a.Donations.PaymentsEnabled(),
	})
}

func (a *App) DonationsCreateOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := a.pathID(w, r)
	if !ok {
		return
	}
	d, order, err := a.Donations.CreateOrder(r.Context(), id)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.json(w, http.StatusOK, map[string]any{
		"id":           d.ID,
		"status":       d.Status,
		"order_id":     order.ID,
		"order_status": order.Status,
		"approve_url":  order.ApproveURL,
	})
}

func (a *App) DonationsCapture(w http.ResponseWriter, r *http.Request) {
	id, ok := a.pathID(w, r)
	if !ok {
		return
	}
	res, err := a.Donations.Capture(r.Context(), id, middleware.LanguageFromContext(r.Context()))
	if err != nil {
		a.fail(w, r, err)
		return
	}
	code := http.StatusOK
	if res.Pending {
		code = http.StatusAccepted
	}
	a.json(w, code, map[string]any{
		"id":             res.Donation.ID,
		"status":         res.Donation.Status,
		"transaction_id": res.Donation.TransactionID,
		"message":        res.Message,
		"pending":        res.Pending,
	})
}

// DonationsUpdateStatus handles the status report posted by the checkout
// page after PayPal returns. The route is public, so donor details stay out
// of the response.
func (a *App) DonationsUpdateStatus(w http.ResponseWriter, r *http.Request) {
	var upd domain.DonationStatusUpdate
	if !a.decode(w, r, &upd) {
		return
	}
	d, err := a.Donations.UpdateStatus(r.Context(), upd)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.json(w, http.StatusOK, map[string]any{
		"success":        true,
		"id":             d.ID,
		"status":         d.Status,
		"transaction_id": d.TransactionID,
	})
}

func (a *App) AdminDonationsList(w http.ResponseWriter, r *http.Request) {
	filter, ok := a.donationFilter(w, r)
	if !ok {
		return
	}
	items, total, err := a.Donations.List(r.Context(), filter)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	out := make([]donationDTO, 0, len(items))
	for i := range items {
		out = append(out, toDonationDTO(&items[i]))
	}
	a.json(w, http.StatusOK, listResponse[donationDTO]{Items: out, Total: total})
}

func (a *App) donationFilter(w http.ResponseWriter, r *http.Request) (domain.DonationFilter, bool) {
	params := listParams(r)
	filter := domain.DonationFilter{
		Search: r.URL.Query().Get("q"),
		Limit:  params.Limit,
		Offset: params.Offset,
	}
	if raw := strings.TrimSpace(r.URL.Query().Get("status")); raw != "" {
		status, ok := domain.ParseDonationStatus(raw)
		if !ok {
			a.error(w, http.StatusBadRequest, "bad_request", "unknown status filter")
			return filter, false
		}
		filter.Status = status
	}
	return filter, true
}

func (a *App) AdminDonationsGet(w http.ResponseWriter, r *http.Request) {
	id, ok := a.pathID(w, r)
	if !ok {
		return
	}
	d, err := a.Donations.Get(r.Context(), id)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.json(w, http.StatusOK, toDonationDTO(d))
}

func (a *App) AdminDonationsDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := a.pathID(w, r)
	if !ok {
		return
	}
	if err := a.Donations.Delete(r.Context(), id); err != nil {
		a.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type completeRequest struct {
	Reference string `json:"reference"`
}

// AdminDonationsComplete records an offline payment confirmation.
func (a *App) AdminDonationsComplete(w http.ResponseWriter, r *http.Request) {
	id, ok := a.pathID(w, r)
	if !ok {
		return
	}
	var req completeRequest
	if r.ContentLength != 0 && !a.decode(w, r, &req) {
		return
	}
	d, err := a.Donations.MarkCompleted(r.Context(), id, req.Reference)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.json(w, http.StatusOK, toDonationDTO(d))
}

func (a *App) AdminDonationsRefund(w http.ResponseWriter, r *http.Request) {
	id, ok := a.pathID(w, r)
	if !ok {
		return
	}
	d, err := a.Donations.Refund(r.Context(), id)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.json(w, http.StatusOK, toDonationDTO(d))
}

// AdminDonationsExport streams donations.csv, or a zip bundle with the
// volunteer applications when format=zip.
func (a *App) AdminDonationsExport(w http.ResponseWriter, r *http.Request) {
	filter, ok := a.donationFilter(w, r)
	if !ok {
		return
	}
	items, err := a.allDonations(r, filter)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	stamp := a.now().UTC().Format("20060102")
	if r.URL.Query().Get("format") == "zip" {
		apps, err := a.allVolunteers(r)
		if err != nil {
			a.fail(w, r, err)
			return
		}
		w.Header().Set("Content-Type", "application/zip")
		w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="export-%s.zip"`, stamp))
		if err := export.Bundle(w, items, apps, a.now()); err != nil {
			a.Logger.Error().Err(err).Msg("write export bundle")
		}
		return
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="donations-%s.csv"`, stamp))
	if err := export.DonationsCSV(w, items); err != nil {
		a.Logger.Error().Err(err).Msg("write donations export")
	}
}

func (a *App) allDonations(r *http.Request, filter domain.DonationFilter) ([]domain.Donation, error) {
	filter.Limit = domain.MaxPageSize
	filter.Offset = 0
	var all []domain.Donation
	for {
		page, total, err := a.Donations.List(r.Context(), filter)
		if err != nil {
			return nil, err
		}
		all = append(all, page...)
		filter.Offset += len(page)
		if len(page) == 0 || filter.Offset >= total {
			return all, nil
		}
	}
}
