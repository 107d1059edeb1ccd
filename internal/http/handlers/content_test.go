package handlers

import (
	"bytes"
	"image"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ihuusa2/ihu-usa-sub002/internal/domain"
)

func TestCarouselHandlers(t *testing.T) {
	env := newTestEnv()
	h := env.app.CarouselHandlers()

	rr, body := call(t, h.Create, http.MethodPost, map[string]any{
		"title": "  Convocation 2025 ", "image_url": "https://cdn.example.edu/a.jpg", "is_active": true,
	})
	if rr.Code != http.StatusCreated || body["title"] != "Convocation 2025" {
		t.Fatalf("create: status = %d body=%v", rr.Code, body)
	}
	activeID := body["id"].(string)

	rr, body = call(t, h.Create, http.MethodPost, map[string]any{"title": "Draft", "image_url": "https://cdn.example.edu/b.jpg"})
	if rr.Code != http.StatusCreated {
		t.Fatalf("create draft: status = %d", rr.Code)
	}

	rr, body = call(t, h.Create, http.MethodPost, map[string]any{"title": "", "image_url": "not a url"})
	if rr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("invalid create: status = %d", rr.Code)
	}
	fields := fieldErrors(t, body)
	if _, ok := fields["title"]; !ok {
		t.Fatalf("missing title error: %v", fields)
	}
	if _, ok := fields["image_url"]; !ok {
		t.Fatalf("missing image_url error: %v", fields)
	}

	_, body = call(t, h.PublicList, http.MethodGet, nil)
	if body["total"] != float64(1) {
		t.Fatalf("public total = %v, want 1", body["total"])
	}
	_, body = call(t, h.List, http.MethodGet, nil)
	if body["total"] != float64(2) {
		t.Fatalf("admin total = %v, want 2", body["total"])
	}

	rr, body = call(t, h.Update, http.MethodPut, map[string]any{
		"title": "Convocation", "image_url": "https://cdn.example.edu/a.jpg", "is_active": false,
	}, "id", activeID)
	if rr.Code != http.StatusOK || body["id"] != activeID {
		t.Fatalf("update: status = %d body=%v", rr.Code, body)
	}
	_, body = call(t, h.PublicList, http.MethodGet, nil)
	if body["total"] != float64(0) {
		t.Fatalf("public total after deactivate = %v", body["total"])
	}

	rr, _ = call(t, h.Delete, http.MethodDelete, nil, "id", activeID)
	if rr.Code != http.StatusNoContent {
		t.Fatalf("delete: status = %d", rr.Code)
	}
	rr, _ = call(t, h.Delete, http.MethodDelete, nil, "id", activeID)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("second delete: status = %d", rr.Code)
	}
}

func TestPopupSettings(t *testing.T) {
	env := newTestEnv()
	rr, body := call(t, env.app.AdminPopupPut, http.MethodPut, map[string]any{"is_active": true, "delay_seconds": 5})
	if rr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("active popup without title: status = %d", rr.Code)
	}
	if _, ok := fieldErrors(t, body)["title"]; !ok {
		t.Fatalf("missing title error: %v", body)
	}

	rr, _ = call(t, env.app.AdminPopupPut, http.MethodPut, map[string]any{"title": "Admissions open", "is_active": true})
	if rr.Code != http.StatusOK {
		t.Fatalf("upsert: status = %d", rr.Code)
	}
	_, body = call(t, env.app.PopupGet, http.MethodGet, nil)
	if body["title"] != "Admissions open" || body["is_active"] != true {
		t.Fatalf("popup = %v", body)
	}
}

func TestTeamDirectory(t *testing.T) {
	env := newTestEnv()
	board := "11111111-1111-4111-8111-111111111111"
	faculty := "22222222-2222-4222-8222-222222222222"
	env.content.teamTypes.items = []domain.TeamType{
		{ID: board, Name: "Board", IsActive: true},
		{ID: faculty, Name: "Faculty", IsActive: true},
		{ID: "33333333-3333-4333-8333-333333333333", Name: "Archived", IsActive: false},
	}
	env.users.add(domain.User{Name: "Asha", Email: "asha@example.com", Role: domain.UserRoleUser, TeamTypeID: &board})
	env.users.add(domain.User{Name: "Ben", Email: "ben@example.com", Role: domain.UserRoleUser})

	rr, body := call(t, env.app.TeamDirectory, http.MethodGet, nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	groups := body["items"].([]any)
	if len(groups) != 2 {
		t.Fatalf("groups = %d, want 2", len(groups))
	}
	first := groups[0].(map[string]any)
	if first["name"] != "Board" || len(first["members"].([]any)) != 1 {
		t.Fatalf("board group = %v", first)
	}
	if second := groups[1].(map[string]any); len(second["members"].([]any)) != 0 {
		t.Fatalf("faculty group = %v", second)
	}
}

func TestStatsSummary(t *testing.T) {
	env := newTestEnv()
	checkout(t, env)
	rr, body := call(t, env.app.StatsSummary, http.MethodGet, nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	if body["volunteers_total"] != float64(5) || body["donations_pending"] != float64(1) {
		t.Fatalf("stats = %v", body)
	}
}

func multipartUpload(t *testing.T, data []byte) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", "upload.bin")
	if err != nil {
		t.Fatalf("CreateFormFile: %v", err)
	}
	_, _ = fw.Write(data)
	_ = mw.Close()
	req := httptest.NewRequest(http.MethodPost, "/v1/admin/uploads", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestAdminUpload(t *testing.T) {
	env := newTestEnv()

	var img bytes.Buffer
	if err := png.Encode(&img, image.NewRGBA(image.Rect(0, 0, 1, 1))); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	rr := httptest.NewRecorder()
	env.app.AdminUpload(rr, multipartUpload(t, img.Bytes()))
	if rr.Code != http.StatusCreated {
		t.Fatalf("png upload: status = %d body=%s", rr.Code, rr.Body.String())
	}
	if len(env.media.saved) != 1 {
		t.Fatalf("saved %d files", len(env.media.saved))
	}

	rr = httptest.NewRecorder()
	env.app.AdminUpload(rr, multipartUpload(t, []byte("#!/bin/sh\necho hi\n")))
	if rr.Code != http.StatusUnsupportedMediaType {
		t.Fatalf("script upload: status = %d", rr.Code)
	}
}

func TestAdminUploadRejectsBadRequests(t *testing.T) {
	env := newTestEnv()

	req := httptest.NewRequest(http.MethodPost, "/v1/admin/uploads", bytes.NewBufferString(`{"file":"x"}`))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	env.app.AdminUpload(rr, req)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("non-multipart: status = %d, want 400", rr.Code)
	}

	rr = httptest.NewRecorder()
	env.app.AdminUpload(rr, multipartUpload(t, nil))
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("empty file: status = %d, want 400 body=%s", rr.Code, rr.Body.String())
	}
	if len(env.media.saved) != 0 {
		t.Fatalf("saved %d files", len(env.media.saved))
	}
}
