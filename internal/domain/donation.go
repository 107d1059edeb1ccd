package domain

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// DonationStatus enumerates the donation lifecycle states.
type DonationStatus string

const (
	DonationPending   DonationStatus = "PENDING"
	DonationCompleted DonationStatus = "COMPLETED"
	DonationFailed    DonationStatus = "FAILED"
	DonationRefunded  DonationStatus = "REFUNDED"
)

// ParseDonationStatus normalizes s into a known status.
func ParseDonationStatus(s string) (DonationStatus, bool) {
	status := DonationStatus(strings.ToUpper(strings.TrimSpace(s)))
	switch status {
	case DonationPending, DonationCompleted, DonationFailed, DonationRefunded:
		return status, true
	}
	return "", false
}

// donationTransitions lists, for every target status, the statuses a
// donation may hold before moving to it. PENDING -> PENDING only attaches a
// provider order id.
var donationTransitions = map[DonationStatus][]DonationStatus{
	DonationPending:   {DonationPending},
	DonationCompleted: {DonationPending},
	DonationFailed:    {DonationPending},
	DonationRefunded:  {DonationCompleted},
}

// AllowedFrom returns the statuses from which a donation may move to target.
func AllowedFrom(target DonationStatus) []DonationStatus {
	from := donationTransitions[target]
	out := make([]DonationStatus, len(from))
	copy(out, from)
	return out
}

// CanTransition reports whether a donation in status from may move to to.
func CanTransition(from, to DonationStatus) bool {
	for _, s := range donationTransitions[to] {
		if s == from {
			return true
		}
	}
	return false
}

// DonationPurpose enumerates the designations a donor can pick.
type DonationPurpose string

const (
	PurposeGeneral        DonationPurpose = "general"
	PurposeEducation      DonationPurpose = "education"
	PurposeScholarships   DonationPurpose = "scholarships"
	PurposeInfrastructure DonationPurpose = "infrastructure"
	PurposeResearch       DonationPurpose = "research"
	PurposeCommunity      DonationPurpose = "community"
)

// DonationPurposes lists every accepted purpose in display order.
var DonationPurposes = []DonationPurpose{
	PurposeGeneral,
	PurposeEducation,
	PurposeScholarships,
	PurposeInfrastructure,
	PurposeResearch,
	PurposeCommunity,
}

// DefaultCurrency is the only currency accepted for donations.
const DefaultCurrency = "USD"

// MaxDonationCents caps a single donation at 1,000,000.00.
const MaxDonationCents int64 = 100_000_000

// Donation represents a supporter contribution record.
type Donation struct {
	ID                string
	FirstName         string
	LastName          string
	Email             string
	Phone             string
	Address           string
	AmountCents       int64
	Currency          string
	Purpose           DonationPurpose
	IsAnonymous       bool
	Message           string
	Status            DonationStatus
	OrderID           *string
	TransactionID     *string
	Properties        json.RawMessage
	ReconcileAttempts int
	CompletedAt       *time.Time
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// DonorName returns the display name, hiding anonymous donors.
func (d Donation) DonorName() string {
	if d.IsAnonymous {
		return "Anonymous"
	}
	return strings.TrimSpace(d.FirstName + " " + d.LastName)
}

// Amount returns the decimal amount as text, e.g. "100.00".
func (d Donation) Amount() string {
	return FormatCents(d.AmountCents)
}

// DonationInput is the intake form payload.
type DonationInput struct {
	FirstName   string     `json:"first_name" validate:"required,max=100"`
	LastName    string     `json:"last_name" validate:"required,max=100"`
	Email       string     `json:"email" validate:"required,email,max=254"`
	Phone       string     `json:"phone" validate:"required,phone"`
	Address     string     `json:"address" validate:"max=300"`
	Amount      AmountText `json:"amount"`
	Currency    string     `json:"currency"`
	Purpose     string     `json:"purpose" validate:"required,purpose"`
	IsAnonymous bool       `json:"is_anonymous"`
	Message     string     `json:"message" validate:"max=1000"`
}

// Normalize trims whitespace and applies defaults.
func (in *DonationInput) Normalize() {
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.Phone = strings.TrimSpace(in.Phone)
	in.Address = strings.TrimSpace(in.Address)
	in.Message = strings.TrimSpace(in.Message)
	in.Purpose = strings.ToLower(strings.TrimSpace(in.Purpose))
	if in.Purpose == "" {
		in.Purpose = string(PurposeGeneral)
	}
	in.Currency = strings.ToUpper(strings.TrimSpace(in.Currency))
	if in.Currency == "" {
		in.Currency = DefaultCurrency
	}
}

// AmountText carries a donor-entered amount exactly as submitted. It accepts
// both JSON numbers and JSON strings so malformed input reaches validation
// instead of failing payload decoding.
type AmountText string

func (a *AmountText) UnmarshalJSON(b []byte) error {
	raw := strings.TrimSpace(string(b))
	if raw == "null" {
		*a = ""
		return nil
	}
	if strings.HasPrefix(raw, `"`) {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*a = AmountText(strings.TrimSpace(s))
		return nil
	}
	*a = AmountText(raw)
	return nil
}

var amountPattern = regexp.MustCompile(`^[0-9]{1,9}(\.[0-9]{1,2})?$`)

// ParseAmountCents converts a decimal amount such as "100" or "25.5" into
// cents. Non-numeric, zero, negative and over-limit amounts are rejected.
func ParseAmountCents(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("amount is required")
	}
	if !amountPattern.MatchString(s) {
		return 0, fmt.Errorf("amount must be a positive number with at most two decimals")
	}
	whole, frac, _ := strings.Cut(s, ".")
	for len(frac) < 2 {
		frac += "0"
	}
	units, err := strconv.ParseInt(whole, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("amount must be numeric")
	}
	cents, err := strconv.ParseInt(frac, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("amount must be numeric")
	}
	total := units*100 + cents
	if total <= 0 {
		return 0, fmt.Errorf("amount must be greater than 0")
	}
	if total > MaxDonationCents {
		return 0, fmt.Errorf("amount exceeds the maximum of %s", FormatCents(MaxDonationCents))
	}
	return total, nil
}

// FormatCents renders cents as a two-decimal string.
func FormatCents(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s%d.%02d", sign, cents/100, cents%100)
}

// DonationStatusUpdate is the payload of the status reconciliation endpoint.
type DonationStatusUpdate struct {
	DonationID    string `json:"donationId"`
	Status        string `json:"status"`
	TransactionID string `json:"transactionId"`
	OrderID       string `json:"orderId"`
}

// DonationFilter narrows admin donation listings.
type DonationFilter struct {
	Status DonationStatus
	Search string
	Limit  int
	Offset int
}

// DonationTotals aggregates donation amounts for the admin dashboard.
type DonationTotals struct {
	Count          int64
	PendingCount   int64
	CompletedCount int64
	FailedCount    int64
	RefundedCount  int64
	CompletedCents int64
}
