// Package donations implements the donation lifecycle: intake, PayPal
// checkout, status reconciliation and the admin actions on donation records.
package donations

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/text/language"

	"github.com/ihuusa2/ihu-usa-sub002/internal/domain"
	"github.com/ihuusa2/ihu-usa-sub002/internal/i18n"
	"github.com/ihuusa2/ihu-usa-sub002/internal/providers/paypal"
	"github.com/ihuusa2/ihu-usa-sub002/internal/validation"
)

// PaymentProvider is the subset of the PayPal client the service uses.
type PaymentProvider interface {
	CreateOrder(ctx context.Context, req paypal.OrderRequest) (*paypal.Order, error)
	CaptureOrder(ctx context.Context, orderID, requestID string) (*paypal.Order, error)
	GetOrder(ctx context.Context, orderID string) (*paypal.Order, error)
	RefundCapture(ctx context.Context, captureID, requestID string) (*paypal.Refund, error)
}

// Service coordinates donation records with the payment provider. Payments
// may be nil when PayPal is not configured; checkout calls then fail with
// domain.ErrProviderFailure while manual status updates keep working.
type Service struct {
	repo     domain.DonationRepository
	payments PaymentProvider
	logger   zerolog.Logger
}

func NewService(repo domain.DonationRepository, payments PaymentProvider, logger zerolog.Logger) *Service {
	return &Service{repo: repo, payments: payments, logger: logger}
}

// PaymentsEnabled reports whether a payment provider is configured.
func (s *Service) PaymentsEnabled() bool {
	return s.payments != nil
}

// Origin describes where an intake request came from.
type Origin struct {
	Country string
	Locale  string
}

// CaptureResult is returned after a capture attempt.
type CaptureResult struct {
	Donation *domain.Donation
	Message  string
	// Pending is set when the provider accepted the capture but has not
	// settled the funds yet.
	Pending bool
}

// Create validates the intake form and stores a PENDING donation. Invalid
// input never reaches the repository.
func (s *Service) Create(ctx context.Context, in domain.DonationInput, origin Origin) (*domain.Donation, error) {
	in.Normalize()
	cents, verr := validation.Donation(&in)
	if !verr.Empty() {
		return nil, verr
	}

	props, err := json.Marshal(map[string]string{
		"country": strings.ToUpper(origin.Country),
		"locale":  origin.Locale,
	})
	if err != nil {
		return nil, err
	}
	d := &domain.Donation{
		FirstName:   in.FirstName,
		LastName:    in.LastName,
		Email:       in.Email,
		Phone:       in.Phone,
		Address:     in.Address,
		AmountCents: cents,
		Currency:    in.Currency,
		Purpose:     domain.DonationPurpose(in.Purpose),
		IsAnonymous: in.IsAnonymous,
		Message:     in.Message,
		Status:      domain.DonationPending,
		Properties:  props,
	}
	if err := s.repo.Create(ctx, d); err != nil {
		return nil, err
	}
	s.logger.Info().Str("donation_id", d.ID).Int64("amount_cents", d.AmountCents).
		Str("purpose", string(d.Purpose)).Msg("donation created")
	return d, nil
}

// CreateOrder opens a PayPal order for a PENDING donation and attaches the
// order id to it.
func (s *Service) CreateOrder(ctx context.Context, id string) (*domain.Donation, *paypal.Order, error) {
	if s.payments == nil {
		return nil, nil, fmt.Errorf("%w: paypal is not configured", domain.ErrProviderFailure)
	}
	d, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if d.Status != domain.DonationPending {
		return nil, nil, fmt.Errorf("%w: donation is %s", domain.ErrInvalidTransition, d.Status)
	}

	order, err := s.payments.CreateOrder(ctx, paypal.OrderRequest{
		ReferenceID: d.ID,
		Description: "Donation - " + string(d.Purpose),
		AmountValue: d.Amount(),
		Currency:    d.Currency,
		RequestID:   d.ID + "-order",
	})
	if err != nil {
		return nil, nil, fmt.Errorf("%w: create order: %v", domain.ErrProviderFailure, err)
	}

	updated, err := s.repo.Transition(ctx, d.ID, domain.DonationPending, order.ID, "")
	if err != nil {
		s.logger.Error().Err(err).Str("donation_id", d.ID).Str("order_id", order.ID).Msg("attach order failed")
		return nil, nil, err
	}
	return updated, order, nil
}

// Capture captures the donation's PayPal order and completes the donation.
// A capture that succeeds at the provider but cannot be recorded yields
// domain.ErrStatusPersistFailed.
func (s *Service) Capture(ctx context.Context, id string, lang language.Tag) (*CaptureResult, error) {
	if s.payments == nil {
		return nil, fmt.Errorf("%w: paypal is not configured", domain.ErrProviderFailure)
	}
	d, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	switch {
	case d.Status == domain.DonationCompleted:
		return &CaptureResult{Donation: d, Message: s.thankYou(d, lang)}, nil
	case d.Status != domain.DonationPending:
		return nil, fmt.Errorf("%w: donation is %s", domain.ErrInvalidTransition, d.Status)
	case d.OrderID == nil || *d.OrderID == "":
		return nil, fmt.Errorf("%w: no payment order for donation", domain.ErrInvalidTransition)
	}

	orderID := *d.OrderID
	order, err := s.payments.CaptureOrder(ctx, orderID, d.ID+"-capture")
	if paypal.HasIssue(err, paypal.IssueOrderAlreadyCaptured) {
		order, err = s.payments.GetOrder(ctx, orderID)
	}
	if err != nil {
		if isDeclined(err) {
			s.fail(ctx, d, orderID)
			return nil, fmt.Errorf("%w: %v", domain.ErrPaymentDeclined, err)
		}
		return nil, fmt.Errorf("%w: capture order: %v", domain.ErrProviderFailure, err)
	}
	return s.settleCapture(ctx, d, order, lang)
}

func (s *Service) settleCapture(ctx context.Context, d *domain.Donation, order *paypal.Order, lang language.Tag) (*CaptureResult, error) {
	switch {
	case order.Status == paypal.StatusCompleted && order.CaptureStatus == paypal.StatusCompleted:
		updated, err := s.complete(ctx, d.ID, order.ID, order.CaptureID)
		if err != nil {
			return nil, err
		}
		return &CaptureResult{Donation: updated, Message: s.thankYou(updated, lang)}, nil
	case order.CaptureStatus == "DECLINED" || order.CaptureStatus == "FAILED":
		s.fail(ctx, d, order.ID)
		return nil, fmt.Errorf("%w: capture %s", domain.ErrPaymentDeclined, strings.ToLower(order.CaptureStatus))
	default:
		s.logger.Warn().Str("donation_id", d.ID).Str("order_id", order.ID).
			Str("order_status", order.Status).Str("capture_status", order.CaptureStatus).
			Msg("capture not settled yet")
		return &CaptureResult{Donation: d, Pending: true}, nil
	}
}

// complete records a provider-confirmed payment. Write failures other than
// a lost race are reported as ErrStatusPersistFailed.
func (s *Service) complete(ctx context.Context, id, orderID, transactionID string) (*domain.Donation, error) {
	updated, err := s.repo.Transition(ctx, id, domain.DonationCompleted, orderID, transactionID)
	if err == nil {
		s.logger.Info().Str("donation_id", id).Str("order_id", orderID).Str("transaction_id", transactionID).
			Msg("donation completed")
		return updated, nil
	}
	if errors.Is(err, domain.ErrInvalidTransition) {
		if current, getErr := s.repo.GetByID(ctx, id); getErr == nil && current.Status == domain.DonationCompleted {
			return current, nil
		}
	}
	s.logger.Error().Err(err).Str("donation_id", id).Str("order_id", orderID).Str("transaction_id", transactionID).
		Msg("payment captured but donation status update failed")
	return nil, fmt.Errorf("%w: %v", domain.ErrStatusPersistFailed, err)
}

func (s *Service) fail(ctx context.Context, d *domain.Donation, orderID string) {
	if _, err := s.repo.Transition(ctx, d.ID, domain.DonationFailed, orderID, ""); err != nil {
		s.logger.Error().Err(err).Str("donation_id", d.ID).Str("order_id", orderID).Msg("mark donation failed")
		return
	}
	s.logger.Info().Str("donation_id", d.ID).Str("order_id", orderID).Msg("donation failed")
}

func (s *Service) thankYou(d *domain.Donation, lang language.Tag) string {
	return i18n.ThankYou(lang, d.DonorName(), string(d.Purpose), d.AmountCents, d.Currency)
}

// UpdateStatus applies a status report from the checkout page. PENDING
// attaches an order id, COMPLETED records the transaction id and FAILED
// closes the donation. Completed payments are confirmed with PayPal when
// the order is known and a client is configured.
func (s *Service) UpdateStatus(ctx context.Context, upd domain.DonationStatusUpdate) (*domain.Donation, error) {
	upd.DonationID = strings.TrimSpace(upd.DonationID)
	upd.OrderID = strings.TrimSpace(upd.OrderID)
	upd.TransactionID = strings.TrimSpace(upd.TransactionID)

	errs := &domain.ValidationError{}
	if _, err := uuid.Parse(upd.DonationID); err != nil {
		errs.Add("donationId", "must be a valid donation id")
	}
	status, ok := domain.ParseDonationStatus(upd.Status)
	switch {
	case !ok:
		errs.Add("status", "must be one of PENDING, COMPLETED, FAILED")
	case status == domain.DonationRefunded:
		errs.Add("status", "refunds are issued from the admin console")
	case status == domain.DonationPending && upd.OrderID == "":
		errs.Add("orderId", "is required to attach an order")
	case status == domain.DonationCompleted && upd.TransactionID == "":
		errs.Add("transactionId", "is required for completed payments")
	}
	if !errs.Empty() {
		return nil, errs
	}

	switch status {
	case domain.DonationCompleted:
		d, err := s.repo.GetByID(ctx, upd.DonationID)
		if err != nil {
			return nil, err
		}
		if d.Status == domain.DonationCompleted && d.TransactionID != nil && *d.TransactionID == upd.TransactionID {
			return d, nil
		}
		if !domain.CanTransition(d.Status, domain.DonationCompleted) {
			return nil, fmt.Errorf("%w: %s -> %s", domain.ErrInvalidTransition, d.Status, status)
		}
		orderID := upd.OrderID
		if d.OrderID != nil && *d.OrderID != "" {
			if orderID != "" && orderID != *d.OrderID {
				return nil, domain.NewValidationError("orderId", "does not match the order attached to the donation")
			}
			orderID = *d.OrderID
		}
		if err := s.verifyCompleted(ctx, d, orderID, upd.TransactionID); err != nil {
			return nil, err
		}
		return s.complete(ctx, d.ID, orderID, upd.TransactionID)
	default:
		d, err := s.repo.Transition(ctx, upd.DonationID, status, upd.OrderID, upd.TransactionID)
		if err != nil {
			return nil, err
		}
		s.logger.Info().Str("donation_id", d.ID).Str("status", string(status)).Msg("donation status updated")
		return d, nil
	}
}

// verifyCompleted confirms a reported payment with PayPal. The order must
// be completed, reference this donation and carry its exact amount and
// currency. Without a configured client the report is trusted.
func (s *Service) verifyCompleted(ctx context.Context, d *domain.Donation, orderID, transactionID string) error {
	if s.payments == nil {
		s.logger.Warn().Str("donation_id", d.ID).Str("transaction_id", transactionID).
			Msg("completing donation without provider verification")
		return nil
	}
	if orderID == "" {
		return domain.NewValidationError("orderId", "is required to verify the payment")
	}
	order, err := s.payments.GetOrder(ctx, orderID)
	if err != nil {
		return fmt.Errorf("%w: verify order: %v", domain.ErrProviderFailure, err)
	}
	if order.Status != paypal.StatusCompleted {
		return domain.NewValidationError("status", "payment is not completed with the provider")
	}
	if order.ReferenceID != d.ID {
		s.logger.Warn().Str("donation_id", d.ID).Str("order_id", orderID).Str("order_reference", order.ReferenceID).
			Msg("status report with an order of another donation")
		return domain.NewValidationError("orderId", "does not belong to this donation")
	}
	if order.Amount != d.Amount() || !strings.EqualFold(order.Currency, d.Currency) {
		s.logger.Warn().Str("donation_id", d.ID).Str("order_amount", order.Amount).Str("order_currency", order.Currency).
			Str("amount", d.Amount()).Str("currency", d.Currency).Msg("provider amount differs from donation")
		return domain.NewValidationError("orderId", "amount does not match the donation")
	}
	if order.CaptureID != transactionID {
		return domain.NewValidationError("transactionId", "does not match the provider capture")
	}
	return nil
}

// Get returns one donation.
func (s *Service) Get(ctx context.Context, id string) (*domain.Donation, error) {
	return s.repo.GetByID(ctx, id)
}

// List returns a filtered page of donations and the filtered total.
func (s *Service) List(ctx context.Context, f domain.DonationFilter) ([]domain.Donation, int, error) {
	f.Search = strings.TrimSpace(f.Search)
	return s.repo.List(ctx, f)
}

// Totals aggregates donation counts for the dashboard.
func (s *Service) Totals(ctx context.Context) (*domain.DonationTotals, error) {
	return s.repo.Totals(ctx)
}

// MarkCompleted records an offline payment confirmed by staff.
func (s *Service) MarkCompleted(ctx context.Context, id, reference string) (*domain.Donation, error) {
	reference = strings.TrimSpace(reference)
	if reference == "" {
		reference = manualReferencePrefix + time.Now().UTC().Format("20060102T150405")
	}
	d, err := s.repo.Transition(ctx, id, domain.DonationCompleted, "", reference)
	if err != nil {
		return nil, err
	}
	s.logger.Info().Str("donation_id", id).Str("transaction_id", reference).Msg("donation completed manually")
	return d, nil
}

// Refund moves a COMPLETED donation to REFUNDED, refunding the PayPal capture
// first when there is one.
func (s *Service) Refund(ctx context.Context, id string) (*domain.Donation, error) {
	d, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !domain.CanTransition(d.Status, domain.DonationRefunded) {
		return nil, fmt.Errorf("%w: %s -> %s", domain.ErrInvalidTransition, d.Status, domain.DonationRefunded)
	}
	if s.payments != nil && d.OrderID != nil && d.TransactionID != nil && isCaptureID(*d.TransactionID) {
		refund, err := s.payments.RefundCapture(ctx, *d.TransactionID, d.ID+"-refund")
		if err != nil {
			return nil, fmt.Errorf("%w: refund capture: %v", domain.ErrProviderFailure, err)
		}
		s.logger.Info().Str("donation_id", d.ID).Str("refund_id", refund.ID).Str("refund_status", refund.Status).
			Msg("capture refunded")
	}
	updated, err := s.repo.Transition(ctx, d.ID, domain.DonationRefunded, "", "")
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Delete removes a donation record.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Str("donation_id", id).Msg("donation deleted")
	return nil
}

// manualReferencePrefix marks transaction ids generated for offline payments.
const manualReferencePrefix = "manual-"

func isCaptureID(id string) bool {
	return id != "" && !strings.HasPrefix(id, manualReferencePrefix)
}

func isDeclined(err error) bool {
	var apiErr *paypal.APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	return apiErr.Issue == paypal.IssueInstrumentDeclined ||
		(apiErr.StatusCode == http.StatusUnprocessableEntity && apiErr.Issue != paypal.IssueOrderAlreadyCaptured)
}
