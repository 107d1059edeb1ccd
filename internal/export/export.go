// Package export renders admin data exports as CSV files and zip bundles.
package export

import (
	"bytes"
	"encoding/csv"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/ihuusa2/ihu-usa-sub002/internal/domain"
	"github.com/ihuusa2/ihu-usa-sub002/pkg/zip"
)

var donationHeader = []string{
	"id", "created_at", "status", "first_name", "last_name", "email", "phone", "address",
	"amount", "currency", "purpose", "anonymous", "message", "order_id", "transaction_id", "completed_at",
}

// DonationsCSV writes donations as CSV with a header row.
func DonationsCSV(w io.Writer, items []domain.Donation) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(donationHeader); err != nil {
		return err
	}
	for _, d := range items {
		if err := cw.Write([]string{
			d.ID,
			d.CreatedAt.UTC().Format(time.RFC3339),
			string(d.Status),
			d.FirstName,
			d.LastName,
			d.Email,
			d.Phone,
			d.Address,
			d.Amount(),
			d.Currency,
			string(d.Purpose),
			strconv.FormatBool(d.IsAnonymous),
			d.Message,
			deref(d.OrderID),
			deref(d.TransactionID),
			formatTime(d.CompletedAt),
		}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

var volunteerHeader = []string{
	"id", "created_at", "first_name", "last_name", "email", "phone", "address", "city", "state", "zip",
	"country", "interests", "availability", "hours_per_week", "motivation", "experience", "skills",
}

// VolunteersCSV writes volunteer applications as CSV with a header row.
// Multi-select answers are joined with "; ".
func VolunteersCSV(w io.Writer, items []domain.VolunteerApplication) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(volunteerHeader); err != nil {
		return err
	}
	for _, a := range items {
		f := a.Form
		if err := cw.Write([]string{
			a.ID,
			a.CreatedAt.UTC().Format(time.RFC3339),
			f.FirstName,
			f.LastName,
			f.Email,
			f.Phone,
			f.Address,
			f.City,
			f.State,
			f.Zip,
			f.Country,
			strings.Join(f.Interests, "; "),
			strings.Join(f.Availability, "; "),
			strconv.Itoa(f.HoursPerWeek),
			f.Motivation,
			f.Experience,
			f.Skills,
		}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// Bundle writes a zip with donations.csv and volunteers.csv.
func Bundle(w io.Writer, donations []domain.Donation, volunteers []domain.VolunteerApplication, now time.Time) error {
	var d, v bytes.Buffer
	if err := DonationsCSV(&d, donations); err != nil {
		return err
	}
	if err := VolunteersCSV(&v, volunteers); err != nil {
		return err
	}
	return zip.Write(w, []zip.File{
		{Name: "donations.csv", Modified: now, Data: d.Bytes()},
		{Name: "volunteers.csv", Modified: now, Data: v.Bytes()},
	})
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func formatTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
