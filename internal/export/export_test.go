package export

import (
	"archive/zip"
	"bytes"
	"encoding/csv"
	"testing"
	"time"

	"github.com/ihuusa2/ihu-usa-sub002/internal/domain"
)

func TestDonationsCSV(t *testing.T) {
	order := "ORDER-1"
	var buf bytes.Buffer
	err := DonationsCSV(&buf, []domain.Donation{{
		ID: "d-1", FirstName: "Jane", LastName: "Doe", Email: "jane@example.com",
		AmountCents: 10050, Currency: "USD", Purpose: domain.PurposeResearch,
		Status: domain.DonationPending, OrderID: &order, Message: "hello, world",
		CreatedAt: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	}})
	if err != nil {
		t.Fatalf("DonationsCSV: %v", err)
	}
	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("read csv: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("rows = %d", len(records))
	}
	row := records[1]
	if row[8] != "100.50" || row[12] != "hello, world" || row[13] != "ORDER-1" || row[14] != "" {
		t.Fatalf("unexpected row %v", row)
	}
}

func TestBundle(t *testing.T) {
	app := domain.VolunteerApplication{ID: "v-1"}
	app.Form.Interests = []string{"teaching", "media"}
	var buf bytes.Buffer
	if err := Bundle(&buf, nil, []domain.VolunteerApplication{app}, time.Now()); err != nil {
		t.Fatalf("Bundle: %v", err)
	}
	zr, err := zip.NewReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	if err != nil {
		t.Fatalf("open zip: %v", err)
	}
	names := map[string]bool{}
	for _, f := range zr.File {
		names[f.Name] = true
	}
	if !names["donations.csv"] || !names["volunteers.csv"] {
		t.Fatalf("members = %v", names)
	}
}
