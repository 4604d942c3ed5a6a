package domain

import (
	"time"

	"pipeline_backend/platform/apperr"

	"github.com/google/uuid"
)

const (
	msgSelectService      = "select at least one service"
	msgSelectSoldService  = "select at least one sold service"
	msgInvalidPayment     = "payment method is required"
	msgInvalidTotal       = "total value must be greater than zero"
	msgInvalidInstallment = "installments must be between 2 and 12"
)

// TransitionRequest carries the payload of a status change. Only the fields
// relevant to the target status are read.
type TransitionRequest struct {
	To Status

	// interesse_outros
	ServiceIDs []uuid.UUID

	// ganho
	PaymentMethod PaymentMethod
	TotalCents    int64
	SoldServices  []SoldEntry
	Installments  int
	PaymentDate   *time.Time
}

// WonDeal is the sale data written when a lead becomes ganho.
type WonDeal struct {
	TotalCents       int64
	PaymentMethod    PaymentMethod
	PaymentDate      time.Time
	InstallmentCount *int
	Installments     []Installment
	Entries          []SoldEntry
}

// TransitionPlan is the full write set of a validated transition.
type TransitionPlan struct {
	To Status

	// InterestServiceIDs replaces the tag set when To is interesse_outros.
	InterestServiceIDs []uuid.UUID

	// Won is set when To is ganho.
	Won *WonDeal
}

// ServiceIDs returns the services referenced by the plan, in request order.
func (p TransitionPlan) ServiceIDs() []uuid.UUID {
	if p.Won != nil {
		return EntryServiceIDs(p.Won.Entries)
	}
	return p.InterestServiceIDs
}

// ValidateTransition checks the payload required by the target status.
func ValidateTransition(req TransitionRequest) error {
	if !req.To.IsValid() {
		return apperr.Validation("invalid status")
	}

	switch req.To {
	case StatusInteresseOutros:
		if len(UniqueIDs(req.ServiceIDs)) == 0 {
			return apperr.Validation(msgSelectService)
		}
	case StatusGanho:
		if !req.PaymentMethod.IsValid() {
			return apperr.Validation(msgInvalidPayment)
		}
		if req.TotalCents <= 0 {
			return apperr.Validation(msgInvalidTotal)
		}
		if len(req.SoldServices) > 0 {
			if err := ValidateSoldEntries(req.TotalCents, req.SoldServices); err != nil {
				return apperr.Validation(err.Error())
			}
		} else if len(UniqueIDs(req.ServiceIDs)) == 0 {
			return apperr.Validation(msgSelectSoldService)
		}
		if req.PaymentMethod == PaymentBoletoParcelado &&
			(req.Installments < MinInstallments || req.Installments > MaxInstallments) {
			return apperr.Validation(msgInvalidInstallment)
		}
	}

	return nil
}

// PlanTransition validates req and derives everything the transition writes.
// now is used as the payment date when none is supplied.
func PlanTransition(req TransitionRequest, now time.Time) (TransitionPlan, error) {
	if err := ValidateTransition(req); err != nil {
		return TransitionPlan{}, err
	}

	plan := TransitionPlan{To: req.To}
	switch req.To {
	case StatusInteresseOutros:
		plan.InterestServiceIDs = UniqueIDs(req.ServiceIDs)
	case StatusGanho:
		paymentDate := now
		if req.PaymentDate != nil {
			paymentDate = *req.PaymentDate
		}

		entries := req.SoldServices
		if len(entries) == 0 {
			entries = SplitEvenly(req.TotalCents, req.ServiceIDs)
		}

		won := &WonDeal{
			TotalCents:    req.TotalCents,
			PaymentMethod: req.PaymentMethod,
			PaymentDate:   paymentDate,
			Entries:       entries,
		}
		if req.PaymentMethod == PaymentBoletoParcelado {
			count := req.Installments
			won.InstallmentCount = &count
			won.Installments = BuildInstallments(req.TotalCents, count, paymentDate)
		}
		plan.Won = won
	}

	return plan, nil
}
