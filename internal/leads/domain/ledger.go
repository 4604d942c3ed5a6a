package domain

import (
	"fmt"

	"github.com/google/uuid"
)

// SoldEntry is one row of the sale ledger: a service sold for an amount.
type SoldEntry struct {
	ServiceID  uuid.UUID
	ValorCents int64
}

// UniqueIDs drops repeated ids, keeping the first occurrence order.
func UniqueIDs(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// SplitEvenly spreads totalCents across the given services.
func SplitEvenly(totalCents int64, serviceIDs []uuid.UUID) []SoldEntry {
	ids := UniqueIDs(serviceIDs)
	amounts := SplitCents(totalCents, len(ids))

	out := make([]SoldEntry, len(ids))
	for i, id := range ids {
		out[i] = SoldEntry{ServiceID: id, ValorCents: amounts[i]}
	}
	return out
}

// SumEntries totals the ledger values.
func SumEntries(entries []SoldEntry) int64 {
	var sum int64
	for _, e := range entries {
		sum += e.ValorCents
	}
	return sum
}

// ValidateSoldEntries checks an explicit per-service ledger against the won total.
func ValidateSoldEntries(totalCents int64, entries []SoldEntry) error {
	if len(entries) == 0 {
		return fmt.Errorf("select at least one sold service")
	}
	seen := make(map[uuid.UUID]struct{}, len(entries))
	for _, e := range entries {
		if e.ServiceID == uuid.Nil {
			return fmt.Errorf("sold service id is required")
		}
		if _, ok := seen[e.ServiceID]; ok {
			return fmt.Errorf("service %s is listed more than once", e.ServiceID)
		}
		seen[e.ServiceID] = struct{}{}
		if e.ValorCents < 0 {
			return fmt.Errorf("sold service value cannot be negative")
		}
	}
	if sum := SumEntries(entries); sum != totalCents {
		return fmt.Errorf("sold service values sum to %d cents, expected %d", sum, totalCents)
	}
	return nil
}

// EntryServiceIDs returns the service ids of the ledger in order.
func EntryServiceIDs(entries []SoldEntry) []uuid.UUID {
	out := make([]uuid.UUID, len(entries))
	for i, e := range entries {
		out[i] = e.ServiceID
	}
	return out
}
