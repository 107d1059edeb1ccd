package handlers

import (
	"net/http"
)

func (a *App) Health(w http.ResponseWriter, r *http.Request) {
	payments := a.Donations != nil && a.Donations.PaymentsEnabled()
	a.json(w, http.StatusOK, map[string]any{"status": "ok", "payments_enabled": payments})
}
