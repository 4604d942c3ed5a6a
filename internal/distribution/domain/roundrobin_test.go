package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func member(priority int, active bool, created time.Time) Member {
	return Member{ID: uuid.New(), VendedorID: uuid.New(), Active: active, Priority: priority, CreatedAt: created}
}

func TestNextVendedorRotatesAndWraps(t *testing.T) {
	base := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	v1 := member(0, true, base)
	v2 := member(1, true, base)
	roster := []Member{v2, v1}

	next, ok := NextVendedor(roster, &v1.VendedorID)
	if !ok || next != v2.VendedorID {
		t.Fatalf("expected v2 after v1, got %s", next)
	}

	next, ok = NextVendedor(roster, &next)
	if !ok || next != v1.VendedorID {
		t.Fatalf("expected wrap back to v1, got %s", next)
	}
}

func TestNextVendedorStartsAtFirstWithoutPointer(t *testing.T) {
	base := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	early := member(5, true, base)
	late := member(5, true, base.Add(time.Hour))
	top := member(1, true, base.Add(2*time.Hour))

	next, ok := NextVendedor([]Member{late, early, top}, nil)
	if !ok || next != top.VendedorID {
		t.Fatalf("expected lowest priority value first, got %s", next)
	}

	stranger := uuid.New()
	next, ok = NextVendedor([]Member{late, early}, &stranger)
	if !ok || next != early.VendedorID {
		t.Fatalf("expected earliest member when pointer is unknown, got %s", next)
	}
}

func TestNextVendedorSkipsInactive(t *testing.T) {
	base := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	v1 := member(0, true, base)
	paused := member(1, false, base)
	v3 := member(2, true, base)

	next, ok := NextVendedor([]Member{v1, paused, v3}, &v1.VendedorID)
	if !ok || next != v3.VendedorID {
		t.Fatalf("expected inactive member to be skipped, got %s", next)
	}

	next, ok = NextVendedor([]Member{v1, paused, v3}, &paused.VendedorID)
	if !ok || next != v1.VendedorID {
		t.Fatalf("expected restart when pointer is inactive, got %s", next)
	}
}

func TestNextVendedorEmptyRotation(t *testing.T) {
	base := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)

	cases := []struct {
		name   string
		roster []Member
	}{
		{name: "empty", roster: nil},
		{name: "all inactive", roster: []Member{member(0, false, base), member(1, false, base)}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, ok := NextVendedor(tc.roster, nil); ok {
				t.Fatalf("expected no candidate")
			}
		})
	}
}

func TestParseMode(t *testing.T) {
	if _, ok := ParseMode("round_robin"); !ok {
		t.Fatalf("expected round_robin to parse")
	}
	if _, ok := ParseMode("weighted"); ok {
		t.Fatalf("expected unknown mode to be rejected")
	}
}
