package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestBuildInstallmentsThreeEqualParts(t *testing.T) {
	start := time.Date(2024, time.January, 1, 15, 30, 0, 0, time.UTC)

	plan := BuildInstallments(99000, 3, start)
	want := []Installment{
		{Numero: 1, ValorCents: 33000, DataVencimento: "2024-01-01"},
		{Numero: 2, ValorCents: 33000, DataVencimento: "2024-01-31"},
		{Numero: 3, ValorCents: 33000, DataVencimento: "2024-03-01"},
	}

	if len(plan) != len(want) {
		t.Fatalf("expected %d installments, got %d", len(want), len(plan))
	}
	for i := range want {
		if plan[i] != want[i] {
			t.Fatalf("installment %d: expected %+v, got %+v", i, want[i], plan[i])
		}
		if plan[i].Pago {
			t.Fatalf("installment %d: expected pago=false", i)
		}
	}
}

func TestBuildInstallmentsRemainderGoesToFirstEntries(t *testing.T) {
	plan := BuildInstallments(100001, 3, time.Date(2024, time.June, 10, 0, 0, 0, 0, time.UTC))

	want := []int64{33334, 33334, 33333}
	var sum int64
	for i, inst := range plan {
		if inst.ValorCents != want[i] {
			t.Fatalf("installment %d: expected %d, got %d", i, want[i], inst.ValorCents)
		}
		sum += inst.ValorCents
	}
	if sum != 100001 {
		t.Fatalf("expected installments to sum to 100001, got %d", sum)
	}
}

func TestBuildInstallmentsZeroCount(t *testing.T) {
	if plan := BuildInstallments(1000, 0, time.Now()); len(plan) != 0 {
		t.Fatalf("expected no installments, got %d", len(plan))
	}
}

func TestParsePaymentMethod(t *testing.T) {
	for _, raw := range []string{"pix_avista", "cartao_credito", "boleto_avista", "boleto_30dias", "boleto_parcelado"} {
		if _, err := ParsePaymentMethod(raw); err != nil {
			t.Fatalf("expected %q to parse, got %v", raw, err)
		}
	}
	if _, err := ParsePaymentMethod("cheque"); err == nil {
		t.Fatal("expected unknown method to fail")
	}
}

func TestSplitEvenly(t *testing.T) {
	a, b, c := uuid.New(), uuid.New(), uuid.New()

	entries := SplitEvenly(1000, []uuid.UUID{a, b, a, c})
	if len(entries) != 3 {
		t.Fatalf("expected duplicates to collapse to 3 entries, got %d", len(entries))
	}
	if entries[0].ServiceID != a || entries[1].ServiceID != b || entries[2].ServiceID != c {
		t.Fatalf("expected request order to be kept, got %+v", entries)
	}
	if entries[0].ValorCents != 334 || entries[1].ValorCents != 333 || entries[2].ValorCents != 333 {
		t.Fatalf("unexpected split %+v", entries)
	}
	if SumEntries(entries) != 1000 {
		t.Fatalf("expected split to sum to total, got %d", SumEntries(entries))
	}
}

func TestValidateSoldEntries(t *testing.T) {
	a, b := uuid.New(), uuid.New()

	cases := []struct {
		name    string
		total   int64
		entries []SoldEntry
		wantErr bool
	}{
		{"matching sum", 1500, []SoldEntry{{a, 1000}, {b, 500}}, false},
		{"sum mismatch", 1500, []SoldEntry{{a, 1000}, {b, 400}}, true},
		{"empty", 1500, nil, true},
		{"duplicate service", 2000, []SoldEntry{{a, 1000}, {a, 1000}}, true},
		{"negative value", 500, []SoldEntry{{a, 1000}, {b, -500}}, true},
		{"nil service", 1000, []SoldEntry{{uuid.Nil, 1000}}, true},
	}

	for _, tc := range cases {
		err := ValidateSoldEntries(tc.total, tc.entries)
		if tc.wantErr && err == nil {
			t.Fatalf("%s: expected error", tc.name)
		}
		if !tc.wantErr && err != nil {
			t.Fatalf("%s: unexpected error %v", tc.name, err)
		}
	}
}
