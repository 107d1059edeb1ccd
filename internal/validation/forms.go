package validation

import (
	"github.com/ihuusa2/ihu-usa-sub002/internal/domain"
)

// Donation validates a normalized intake payload and returns the parsed
// amount in cents.
func Donation(in *domain.DonationInput) (int64, *domain.ValidationError) {
	errs := &domain.ValidationError{}
	errs.Merge(Struct(in))
	cents, err := domain.ParseAmountCents(string(in.Amount))
	if err != nil {
		errs.Add("amount", err.Error())
	}
	if in.Currency != domain.DefaultCurrency {
		errs.Add("currency", "only "+domain.DefaultCurrency+" is supported")
	}
	if !errs.Empty() {
		return 0, errs
	}
	return cents, nil
}

// VolunteerStep validates only the fields that belong to step.
func VolunteerStep(form *domain.VolunteerForm, step domain.VolunteerStep) *domain.ValidationError {
	page := form.Page(step)
	if page == nil {
		return domain.NewValidationError("step", "unknown step")
	}
	return Struct(page)
}

// Volunteer validates every wizard page.
func Volunteer(form *domain.VolunteerForm) *domain.ValidationError {
	errs := &domain.ValidationError{}
	for step := domain.VolunteerStepPersonal; step.Valid(); step++ {
		errs.Merge(VolunteerStep(form, step))
	}
	if errs.Empty() {
		return nil
	}
	return errs
}
