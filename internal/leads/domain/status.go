// Package domain holds the lead lifecycle rules: statuses, allowed
// transitions, payment schedules, the sale ledger split and the SLA window.
// Nothing here touches storage.
package domain

import "fmt"

// Status is the funnel position of a lead.
type Status string

const (
	StatusNovoLead        Status = "novo_lead"
	StatusEmAtendimento   Status = "em_atendimento"
	StatusFinalizado      Status = "finalizado"
	StatusInteresseOutros Status = "interesse_outros"
	StatusGanho           Status = "ganho"
)

var allStatuses = []Status{
	StatusNovoLead,
	StatusEmAtendimento,
	StatusFinalizado,
	StatusInteresseOutros,
	StatusGanho,
}

// AllStatuses returns every status in funnel order.
func AllStatuses() []Status {
	out := make([]Status, len(allStatuses))
	copy(out, allStatuses)
	return out
}

func (s Status) IsValid() bool {
	for _, known := range allStatuses {
		if s == known {
			return true
		}
	}
	return false
}

func (s Status) String() string {
	return string(s)
}

// ParseStatus converts raw input into a known status.
func ParseStatus(raw string) (Status, error) {
	status := Status(raw)
	if !status.IsValid() {
		return "", fmt.Errorf("unknown lead status %q", raw)
	}
	return status, nil
}

// RequiresAction reports whether the status is covered by the response SLA.
func (s Status) RequiresAction() bool {
	return s == StatusNovoLead || s == StatusEmAtendimento
}
