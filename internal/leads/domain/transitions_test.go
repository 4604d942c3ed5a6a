package domain

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultTransitionTableAllowsEverything(t *testing.T) {
	table := DefaultTransitionTable()
	for _, from := range AllStatuses() {
		for _, to := range AllStatuses() {
			if !table.Allows(from, to) {
				t.Fatalf("expected %s -> %s to be allowed", from, to)
			}
		}
	}
}

func TestParseTransitionTableRestrictsEdges(t *testing.T) {
	table, err := ParseTransitionTable([]byte(`
transitions:
  novo_lead: [em_atendimento]
  em_atendimento: [finalizado, ganho]
`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !table.Allows(StatusNovoLead, StatusEmAtendimento) {
		t.Fatal("expected novo_lead -> em_atendimento to be allowed")
	}
	if table.Allows(StatusNovoLead, StatusGanho) {
		t.Fatal("expected novo_lead -> ganho to be rejected")
	}
	if table.Allows(StatusGanho, StatusNovoLead) {
		t.Fatal("expected statuses missing from the file to have no outgoing edges")
	}
	if !table.Allows(StatusGanho, StatusGanho) {
		t.Fatal("expected same-status transition to be allowed")
	}

	targets := table.Targets(StatusEmAtendimento)
	want := []Status{StatusEmAtendimento, StatusFinalizado, StatusGanho}
	if len(targets) != len(want) {
		t.Fatalf("expected %d targets, got %v", len(want), targets)
	}
	for i := range want {
		if targets[i] != want[i] {
			t.Fatalf("expected targets %v, got %v", want, targets)
		}
	}
}

func TestParseTransitionTableRejectsUnknownStatus(t *testing.T) {
	if _, err := ParseTransitionTable([]byte("transitions:\n  novo_lead: [perdido]\n")); err == nil {
		t.Fatal("expected unknown target status to fail")
	}
	if _, err := ParseTransitionTable([]byte("transitions:\n  perdido: [ganho]\n")); err == nil {
		t.Fatal("expected unknown source status to fail")
	}
	if _, err := ParseTransitionTable([]byte("other: true\n")); err == nil {
		t.Fatal("expected empty table to fail")
	}
}

func TestLoadTransitionTable(t *testing.T) {
	table, err := LoadTransitionTable("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !table.Allows(StatusFinalizado, StatusNovoLead) {
		t.Fatal("expected empty path to load the default table")
	}

	path := filepath.Join(t.TempDir(), "transitions.yaml")
	if err := os.WriteFile(path, []byte("transitions:\n  novo_lead: [ganho]\n"), 0o600); err != nil {
		t.Fatalf("write file: %v", err)
	}

	table, err = LoadTransitionTable(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !table.Allows(StatusNovoLead, StatusGanho) || table.Allows(StatusNovoLead, StatusFinalizado) {
		t.Fatal("expected table from file to be used")
	}

	if _, err := LoadTransitionTable(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("expected missing file to fail")
	}
}
