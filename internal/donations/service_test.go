package donations

import (
	"context"
	"errors"
	"strings"
	"testing"

	"golang.org/x/text/language"

	"github.com/ihuusa2/ihu-usa-sub002/internal/domain"
	"github.com/ihuusa2/ihu-usa-sub002/internal/providers/paypal"
)

func validInput() domain.DonationInput {
	return domain.DonationInput{
		FirstName: "Jane",
		LastName:  "Doe",
		Email:     "jane@example.com",
		Phone:     "+1 (555) 010-0100",
		Amount:    "100",
		Purpose:   "education",
	}
}

func TestCreateRejectsBadAmountBeforeRepository(t *testing.T) {
	for _, amount := range []domain.AmountText{"0", "-5", "abc", "", "10.999"} {
		t.Run(string(amount), func(t *testing.T) {
			repo := newMemoryRepo()
			svc := NewService(repo, nil, quietLogger())
			in := validInput()
			in.Amount = amount

			_, err := svc.Create(context.Background(), in, Origin{})
			ve, ok := domain.AsValidationError(err)
			if !ok {
				t.Fatalf("expected validation error, got %v", err)
			}
			if _, ok := ve.Fields["amount"]; !ok {
				t.Fatalf("expected amount field error, got %v", ve.Fields)
			}
			if repo.createCalls != 0 {
				t.Fatalf("repository called %d times", repo.createCalls)
			}
		})
	}
}

func TestCreateRejectsBadContact(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo, nil, quietLogger())
	in := validInput()
	in.Email = "not-an-email"
	in.Phone = "12"

	_, err := svc.Create(context.Background(), in, Origin{})
	ve, ok := domain.AsValidationError(err)
	if !ok {
		t.Fatalf("expected validation error, got %v", err)
	}
	for _, field := range []string{"email", "phone"} {
		if _, ok := ve.Fields[field]; !ok {
			t.Fatalf("missing %s error in %v", field, ve.Fields)
		}
	}
	if repo.createCalls != 0 {
		t.Fatalf("repository should not be called")
	}
}

func TestCheckoutCompletesDonation(t *testing.T) {
	repo := newMemoryRepo()
	payments := newFakePayments()
	svc := NewService(repo, payments, quietLogger())
	ctx := context.Background()

	d, err := svc.Create(ctx, validInput(), Origin{Country: "us", Locale: "en"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if d.Status != domain.DonationPending || d.AmountCents != 10000 {
		t.Fatalf("unexpected donation %+v", d)
	}
	if !strings.Contains(string(d.Properties), `"country":"US"`) {
		t.Fatalf("origin not recorded: %s", d.Properties)
	}

	withOrder, order, err := svc.CreateOrder(ctx, d.ID)
	if err != nil {
		t.Fatalf("CreateOrder: %v", err)
	}
	if order.Amount != "100.00" || withOrder.OrderID == nil || *withOrder.OrderID != order.ID {
		t.Fatalf("order not attached: %+v / %+v", withOrder, order)
	}

	res, err := svc.Capture(ctx, d.ID, language.English)
	if err != nil {
		t.Fatalf("Capture: %v", err)
	}
	if res.Donation.Status != domain.DonationCompleted {
		t.Fatalf("status = %s, want COMPLETED", res.Donation.Status)
	}
	if res.Donation.TransactionID == nil || *res.Donation.TransactionID != "CAP-"+order.ID {
		t.Fatalf("transaction id = %v", res.Donation.TransactionID)
	}
	if !strings.HasPrefix(res.Message, "Thank you, Jane Doe!") {
		t.Fatalf("message = %q", res.Message)
	}

	again, err := svc.Capture(ctx, d.ID, language.English)
	if err != nil || again.Donation.Status != domain.DonationCompleted {
		t.Fatalf("repeat capture should be idempotent: %+v, %v", again, err)
	}
}

func TestCaptureStatusWriteFailure(t *testing.T) {
	repo := newMemoryRepo()
	payments := newFakePayments()
	svc := NewService(repo, payments, quietLogger())
	ctx := context.Background()

	d, err := svc.Create(ctx, validInput(), Origin{})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, _, err := svc.CreateOrder(ctx, d.ID); err != nil {
		t.Fatalf("CreateOrder: %v", err)
	}
	repo.failStatus = domain.DonationCompleted

	_, err = svc.Capture(ctx, d.ID, language.English)
	if !errors.Is(err, domain.ErrStatusPersistFailed) {
		t.Fatalf("err = %v, want ErrStatusPersistFailed", err)
	}
	if got := repo.status(d.ID); got != domain.DonationPending {
		t.Fatalf("status = %s, want PENDING", got)
	}
}

func TestCaptureDeclined(t *testing.T) {
	repo := newMemoryRepo()
	payments := newFakePayments()
	svc := NewService(repo, payments, quietLogger())
	ctx := context.Background()

	d, _ := svc.Create(ctx, validInput(), Origin{})
	if _, _, err := svc.CreateOrder(ctx, d.ID); err != nil {
		t.Fatalf("CreateOrder: %v", err)
	}
	payments.captureErr = &paypal.APIError{StatusCode: 422, Name: "UNPROCESSABLE_ENTITY", Issue: paypal.IssueInstrumentDeclined}

	_, err := svc.Capture(ctx, d.ID, language.English)
	if !errors.Is(err, domain.ErrPaymentDeclined) {
		t.Fatalf("err = %v, want ErrPaymentDeclined", err)
	}
	if got := repo.status(d.ID); got != domain.DonationFailed {
		t.Fatalf("status = %s, want FAILED", got)
	}
}

func TestCheckoutWithoutProvider(t *testing.T) {
	svc := NewService(newMemoryRepo(), nil, quietLogger())
	if _, _, err := svc.CreateOrder(context.Background(), "x"); !errors.Is(err, domain.ErrProviderFailure) {
		t.Fatalf("err = %v, want ErrProviderFailure", err)
	}
}

func TestUpdateStatusTransitions(t *testing.T) {
	const id = "11111111-1111-4111-8111-111111111111"
	order := "ORDER-9"
	tx := "CAP-9"

	tests := []struct {
		name    string
		start   domain.DonationStatus
		update  domain.DonationStatusUpdate
		want    domain.DonationStatus
		wantErr error
	}{
		{
			name:   "attach order",
			start:  domain.DonationPending,
			update: domain.DonationStatusUpdate{Status: "PENDING", OrderID: order},
			want:   domain.DonationPending,
		},
		{
			name:   "complete",
			start:  domain.DonationPending,
			update: domain.DonationStatusUpdate{Status: "completed", TransactionID: tx},
			want:   domain.DonationCompleted,
		},
		{
			name:   "fail",
			start:  domain.DonationPending,
			update: domain.DonationStatusUpdate{Status: "FAILED"},
			want:   domain.DonationFailed,
		},
		{
			name:    "completed never returns to pending",
			start:   domain.DonationCompleted,
			update:  domain.DonationStatusUpdate{Status: "PENDING", OrderID: order},
			want:    domain.DonationCompleted,
			wantErr: domain.ErrInvalidTransition,
		},
		{
			name:    "failed cannot complete",
			start:   domain.DonationFailed,
			update:  domain.DonationStatusUpdate{Status: "COMPLETED", TransactionID: tx},
			want:    domain.DonationFailed,
			wantErr: domain.ErrInvalidTransition,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			repo := newMemoryRepo()
			repo.put(domain.Donation{ID: id, AmountCents: 500, Currency: "USD", Status: tc.start})
			svc := NewService(repo, nil, quietLogger())
			tc.update.DonationID = id

			_, err := svc.UpdateStatus(context.Background(), tc.update)
			if tc.wantErr != nil {
				if !errors.Is(err, tc.wantErr) {
					t.Fatalf("err = %v, want %v", err, tc.wantErr)
				}
			} else if err != nil {
				t.Fatalf("UpdateStatus: %v", err)
			}
			if got := repo.status(id); got != tc.want {
				t.Fatalf("status = %s, want %s", got, tc.want)
			}
		})
	}
}

func TestUpdateStatusValidation(t *testing.T) {
	svc := NewService(newMemoryRepo(), nil, quietLogger())
	tests := []struct {
		name   string
		update domain.DonationStatusUpdate
		field  string
	}{
		{name: "bad id", update: domain.DonationStatusUpdate{DonationID: "nope", Status: "FAILED"}, field: "donationId"},
		{name: "unknown status", update: domain.DonationStatusUpdate{DonationID: "11111111-1111-4111-8111-111111111111", Status: "DONE"}, field: "status"},
		{name: "refund not allowed", update: domain.DonationStatusUpdate{DonationID: "11111111-1111-4111-8111-111111111111", Status: "REFUNDED"}, field: "status"},
		{name: "completed needs transaction", update: domain.DonationStatusUpdate{DonationID: "11111111-1111-4111-8111-111111111111", Status: "COMPLETED"}, field: "transactionId"},
		{name: "pending needs order", update: domain.DonationStatusUpdate{DonationID: "11111111-1111-4111-8111-111111111111", Status: "PENDING"}, field: "orderId"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.UpdateStatus(context.Background(), tc.update)
			ve, ok := domain.AsValidationError(err)
			if !ok {
				t.Fatalf("expected validation error, got %v", err)
			}
			if _, ok := ve.Fields[tc.field]; !ok {
				t.Fatalf("expected %s error, got %v", tc.field, ve.Fields)
			}
		})
	}
}

func TestUpdateStatusVerifiesWithProvider(t *testing.T) {
	const id = "22222222-2222-4222-8222-222222222222"
	settled := func(o paypal.Order) paypal.Order {
		o.Status = paypal.StatusCompleted
		o.CaptureStatus = paypal.StatusCompleted
		return o
	}
	own := settled(paypal.Order{ID: "ORDER-7", ReferenceID: id, Amount: "1000.00", Currency: "USD", CaptureID: "CAP-7"})

	tests := []struct {
		name     string
		attached string
		orders   []paypal.Order
		update   domain.DonationStatusUpdate
		field    string
	}{
		{
			name:     "order not completed",
			attached: "ORDER-7",
			orders:   []paypal.Order{{ID: "ORDER-7", Status: paypal.StatusApproved, ReferenceID: id, Amount: "1000.00", Currency: "USD"}},
			update:   domain.DonationStatusUpdate{TransactionID: "CAP-7"},
			field:    "status",
		},
		{
			name:     "capture id mismatch",
			attached: "ORDER-7",
			orders:   []paypal.Order{own},
			update:   domain.DonationStatusUpdate{TransactionID: "CAP-X"},
			field:    "transactionId",
		},
		{
			name:   "order of another donation",
			orders: []paypal.Order{settled(paypal.Order{ID: "OTHER", ReferenceID: "some-other-donation", Amount: "1.00", Currency: "USD", CaptureID: "CAP-OTHER"})},
			update: domain.DonationStatusUpdate{OrderID: "OTHER", TransactionID: "CAP-OTHER"},
			field:  "orderId",
		},
		{
			name:   "amount differs",
			orders: []paypal.Order{settled(paypal.Order{ID: "CHEAP", ReferenceID: id, Amount: "1.00", Currency: "USD", CaptureID: "CAP-CHEAP"})},
			update: domain.DonationStatusUpdate{OrderID: "CHEAP", TransactionID: "CAP-CHEAP"},
			field:  "orderId",
		},
		{
			name:   "currency differs",
			orders: []paypal.Order{settled(paypal.Order{ID: "EUR", ReferenceID: id, Amount: "1000.00", Currency: "EUR", CaptureID: "CAP-EUR"})},
			update: domain.DonationStatusUpdate{OrderID: "EUR", TransactionID: "CAP-EUR"},
			field:  "orderId",
		},
		{
			name:     "order differs from attached order",
			attached: "ORDER-7",
			orders:   []paypal.Order{own, settled(paypal.Order{ID: "ORDER-8", ReferenceID: id, Amount: "1000.00", Currency: "USD", CaptureID: "CAP-8"})},
			update:   domain.DonationStatusUpdate{OrderID: "ORDER-8", TransactionID: "CAP-8"},
			field:    "orderId",
		},
		{
			name:   "no order to verify",
			update: domain.DonationStatusUpdate{TransactionID: "made-up"},
			field:  "orderId",
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			repo := newMemoryRepo()
			d := domain.Donation{ID: id, AmountCents: 100000, Currency: "USD", Status: domain.DonationPending}
			if tc.attached != "" {
				attached := tc.attached
				d.OrderID = &attached
			}
			repo.put(d)
			payments := newFakePayments()
			for _, o := range tc.orders {
				payments.setOrder(o)
			}
			svc := NewService(repo, payments, quietLogger())

			tc.update.DonationID = id
			tc.update.Status = "COMPLETED"
			_, err := svc.UpdateStatus(context.Background(), tc.update)
			ve, ok := domain.AsValidationError(err)
			if !ok {
				t.Fatalf("expected a validation error, got %v", err)
			}
			if _, ok := ve.Fields[tc.field]; !ok {
				t.Fatalf("expected %s error, got %v", tc.field, ve.Fields)
			}
			if got := repo.status(id); got != domain.DonationPending {
				t.Fatalf("status = %s, want PENDING", got)
			}
		})
	}

	t.Run("matching order completes", func(t *testing.T) {
		repo := newMemoryRepo()
		repo.put(domain.Donation{ID: id, AmountCents: 100000, Currency: "USD", Status: domain.DonationPending})
		payments := newFakePayments()
		payments.setOrder(own)
		svc := NewService(repo, payments, quietLogger())

		d, err := svc.UpdateStatus(context.Background(), domain.DonationStatusUpdate{DonationID: id, Status: "COMPLETED", OrderID: "ORDER-7", TransactionID: "CAP-7"})
		if err != nil {
			t.Fatalf("UpdateStatus: %v", err)
		}
		if d.Status != domain.DonationCompleted || d.TransactionID == nil || *d.TransactionID != "CAP-7" {
			t.Fatalf("donation = %+v", d)
		}
	})
}

func TestDeleteDecrementsTotal(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo, nil, quietLogger())
	ctx := context.Background()
	first, _ := svc.Create(ctx, validInput(), Origin{})
	if _, err := svc.Create(ctx, validInput(), Origin{}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	items, before, _ := svc.List(ctx, domain.DonationFilter{})
	if before != 2 || len(items) != 2 {
		t.Fatalf("before delete total = %d", before)
	}
	if err := svc.Delete(ctx, first.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	items, after, _ := svc.List(ctx, domain.DonationFilter{})
	if after != before-1 {
		t.Fatalf("total = %d, want %d", after, before-1)
	}
	for _, d := range items {
		if d.ID == first.ID {
			t.Fatalf("deleted donation still listed")
		}
	}
	if err := svc.Delete(ctx, first.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("second delete err = %v", err)
	}
}

func TestRefund(t *testing.T) {
	const id = "33333333-3333-4333-8333-333333333333"
	order, capture := "ORDER-3", "CAP-3"
	repo := newMemoryRepo()
	repo.put(domain.Donation{ID: id, Status: domain.DonationCompleted, OrderID: &order, TransactionID: &capture})
	payments := newFakePayments()
	svc := NewService(repo, payments, quietLogger())

	d, err := svc.Refund(context.Background(), id)
	if err != nil {
		t.Fatalf("Refund: %v", err)
	}
	if d.Status != domain.DonationRefunded {
		t.Fatalf("status = %s", d.Status)
	}
	if len(payments.refunds) != 1 || payments.refunds[0] != capture {
		t.Fatalf("refunds = %v", payments.refunds)
	}
	if _, err := svc.Refund(context.Background(), id); !errors.Is(err, domain.ErrInvalidTransition) {
		t.Fatalf("second refund err = %v", err)
	}
}

func TestMarkCompletedManually(t *testing.T) {
	const id = "44444444-4444-4444-8444-444444444444"
	repo := newMemoryRepo()
	repo.put(domain.Donation{ID: id, Status: domain.DonationPending})
	payments := newFakePayments()
	svc := NewService(repo, payments, quietLogger())

	d, err := svc.MarkCompleted(context.Background(), id, "")
	if err != nil {
		t.Fatalf("MarkCompleted: %v", err)
	}
	if d.TransactionID == nil || !strings.HasPrefix(*d.TransactionID, manualReferencePrefix) {
		t.Fatalf("manual reference missing: %v", d.TransactionID)
	}
	if _, err := svc.Refund(context.Background(), id); err != nil {
		t.Fatalf("Refund: %v", err)
	}
	if len(payments.refunds) != 0 {
		t.Fatalf("manual payments must not be refunded at the provider")
	}
}
