package domain

import (
	"testing"
	"time"

	"pipeline_backend/platform/apperr"

	"github.com/google/uuid"
)

func TestValidateTransitionInterestRequiresServices(t *testing.T) {
	err := ValidateTransition(TransitionRequest{To: StatusInteresseOutros})
	if err == nil {
		t.Fatal("expected empty service set to be rejected")
	}
	if !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if err.Error() != "select at least one service" {
		t.Fatalf("unexpected message %q", err.Error())
	}
}

func TestValidateTransitionGanho(t *testing.T) {
	svc := uuid.New()

	cases := []struct {
		name    string
		req     TransitionRequest
		wantErr bool
	}{
		{
			name: "valid pix",
			req: TransitionRequest{
				To: StatusGanho, PaymentMethod: PaymentPixAvista, TotalCents: 5000,
				ServiceIDs: []uuid.UUID{svc},
			},
		},
		{
			name: "missing payment method",
			req: TransitionRequest{
				To: StatusGanho, TotalCents: 5000, ServiceIDs: []uuid.UUID{svc},
			},
			wantErr: true,
		},
		{
			name: "zero total",
			req: TransitionRequest{
				To: StatusGanho, PaymentMethod: PaymentPixAvista, ServiceIDs: []uuid.UUID{svc},
			},
			wantErr: true,
		},
		{
			name: "no services",
			req: TransitionRequest{
				To: StatusGanho, PaymentMethod: PaymentPixAvista, TotalCents: 5000,
			},
			wantErr: true,
		},
		{
			name: "installments out of range",
			req: TransitionRequest{
				To: StatusGanho, PaymentMethod: PaymentBoletoParcelado, TotalCents: 5000,
				ServiceIDs: []uuid.UUID{svc}, Installments: 13,
			},
			wantErr: true,
		},
		{
			name: "installments ignored for other methods",
			req: TransitionRequest{
				To: StatusGanho, PaymentMethod: PaymentCartaoCredito, TotalCents: 5000,
				ServiceIDs: []uuid.UUID{svc}, Installments: 40,
			},
		},
		{
			name: "explicit values must match total",
			req: TransitionRequest{
				To: StatusGanho, PaymentMethod: PaymentPixAvista, TotalCents: 5000,
				SoldServices: []SoldEntry{{ServiceID: svc, ValorCents: 4000}},
			},
			wantErr: true,
		},
	}

	for _, tc := range cases {
		err := ValidateTransition(tc.req)
		if tc.wantErr && err == nil {
			t.Fatalf("%s: expected error", tc.name)
		}
		if !tc.wantErr && err != nil {
			t.Fatalf("%s: unexpected error %v", tc.name, err)
		}
	}
}

func TestValidateTransitionPlainStatuses(t *testing.T) {
	for _, to := range []Status{StatusNovoLead, StatusEmAtendimento, StatusFinalizado} {
		if err := ValidateTransition(TransitionRequest{To: to}); err != nil {
			t.Fatalf("%s: unexpected error %v", to, err)
		}
	}
	if err := ValidateTransition(TransitionRequest{To: Status("perdido")}); err == nil {
		t.Fatal("expected unknown status to be rejected")
	}
}

func TestPlanTransitionGanhoWithInstallments(t *testing.T) {
	a, b := uuid.New(), uuid.New()
	start := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)

	plan, err := PlanTransition(TransitionRequest{
		To:            StatusGanho,
		PaymentMethod: PaymentBoletoParcelado,
		TotalCents:    99000,
		ServiceIDs:    []uuid.UUID{a, b},
		Installments:  3,
		PaymentDate:   &start,
	}, time.Now())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if plan.Won == nil {
		t.Fatal("expected won deal")
	}
	if plan.Won.InstallmentCount == nil || *plan.Won.InstallmentCount != 3 {
		t.Fatalf("expected 3 installments, got %v", plan.Won.InstallmentCount)
	}
	if len(plan.Won.Installments) != 3 || plan.Won.Installments[2].DataVencimento != "2024-03-01" {
		t.Fatalf("unexpected installment plan %+v", plan.Won.Installments)
	}
	if SumEntries(plan.Won.Entries) != 99000 {
		t.Fatalf("expected ledger to sum to the total, got %d", SumEntries(plan.Won.Entries))
	}
	if ids := plan.ServiceIDs(); len(ids) != 2 || ids[0] != a || ids[1] != b {
		t.Fatalf("unexpected service ids %v", ids)
	}
}

func TestPlanTransitionGanhoDefaultsPaymentDateToNow(t *testing.T) {
	now := time.Date(2025, time.March, 5, 10, 0, 0, 0, time.UTC)

	plan, err := PlanTransition(TransitionRequest{
		To:            StatusGanho,
		PaymentMethod: PaymentPixAvista,
		TotalCents:    1000,
		ServiceIDs:    []uuid.UUID{uuid.New()},
	}, now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !plan.Won.PaymentDate.Equal(now) {
		t.Fatalf("expected payment date %v, got %v", now, plan.Won.PaymentDate)
	}
	if plan.Won.InstallmentCount != nil || len(plan.Won.Installments) != 0 {
		t.Fatal("expected no installment plan for pix")
	}
}

func TestPlanTransitionInterestDeduplicates(t *testing.T) {
	a := uuid.New()

	plan, err := PlanTransition(TransitionRequest{
		To:         StatusInteresseOutros,
		ServiceIDs: []uuid.UUID{a, a},
	}, time.Now())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(plan.InterestServiceIDs) != 1 {
		t.Fatalf("expected 1 tag, got %d", len(plan.InterestServiceIDs))
	}
	if plan.Won != nil {
		t.Fatal("expected no won deal")
	}
}
