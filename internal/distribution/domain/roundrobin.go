// Package domain holds the distribution policy: which vendedor gets the next
// automatically distributed lead.
package domain

import (
	"bytes"
	"sort"
	"time"

	"github.com/google/uuid"
)

// Mode is the automatic distribution strategy.
type Mode string

const (
	// ModeRoundRobin rotates through the active roster in priority order.
	ModeRoundRobin Mode = "round_robin"
)

// ParseMode accepts the supported distribution modes.
func ParseMode(raw string) (Mode, bool) {
	switch Mode(raw) {
	case ModeRoundRobin:
		return ModeRoundRobin, true
	default:
		return "", false
	}
}

// Member is a vendedor's place in the distribution roster.
type Member struct {
	ID         uuid.UUID
	VendedorID uuid.UUID
	Active     bool
	Priority   int
	CreatedAt  time.Time
}

// ActiveRotation returns the active members ordered by priority, then
// creation time, then id.
func ActiveRotation(roster []Member) []Member {
	active := make([]Member, 0, len(roster))
	for _, m := range roster {
		if m.Active {
			active = append(active, m)
		}
	}
	sort.SliceStable(active, func(i, j int) bool {
		a, b := active[i], active[j]
		if a.Priority != b.Priority {
			return a.Priority < b.Priority
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return bytes.Compare(a.ID[:], b.ID[:]) < 0
	})
	return active
}

// NextVendedor picks the active member strictly after last in rotation
// order, wrapping to the start. When last is nil or no longer in the
// rotation the first member is chosen. ok is false for an empty rotation.
func NextVendedor(roster []Member, last *uuid.UUID) (uuid.UUID, bool) {
	rotation := ActiveRotation(roster)
	if len(rotation) == 0 {
		return uuid.Nil, false
	}
	if last == nil {
		return rotation[0].VendedorID, true
	}
	for i, m := range rotation {
		if m.VendedorID == *last {
			return rotation[(i+1)%len(rotation)].VendedorID, true
		}
	}
	return rotation[0].VendedorID, true
}
