// Package transport defines the dashboard request and response shapes.
package transport

import "github.com/google/uuid"

// DashboardRequest is bound from the query string.
type DashboardRequest struct {
	Period     string `form:"period"`
	VendedorID string `form:"vendedorId"`
}

// Summary holds the headline numbers of the dashboard.
type Summary struct {
	TotalLeads     int            `json:"totalLeads"`
	ByStatus       map[string]int `json:"byStatus"`
	WonCount       int            `json:"wonCount"`
	WonCents       int64          `json:"wonCents"`
	ConversionRate float64        `json:"conversionRate"`
	AverageTicket  int64          `json:"averageTicketCents"`
}

type VendedorRow struct {
	VendedorID     uuid.UUID `json:"vendedorId"`
	Nome           string    `json:"nome"`
	TotalLeads     int       `json:"totalLeads"`
	WonCount       int       `json:"wonCount"`
	WonCents       int64     `json:"wonCents"`
	ConversionRate float64   `json:"conversionRate"`
	AverageTicket  int64     `json:"averageTicketCents"`
	Closers        int       `json:"closers"`
}

type DailyPoint struct {
	Date     string `json:"date"`
	Leads    int    `json:"leads"`
	Won      int    `json:"won"`
	WonCents int64  `json:"wonCents"`
}

type CloserRow struct {
	CloserID uuid.UUID `json:"closerId"`
	Nome     string    `json:"nome"`
	WonCount int       `json:"wonCount"`
	WonCents int64     `json:"wonCents"`
}

// DashboardResponse is the full dashboard payload.
type DashboardResponse struct {
	Period     string        `json:"period"`
	VendedorID *uuid.UUID    `json:"vendedorId,omitempty"`
	Summary    Summary       `json:"summary"`
	Vendedores []VendedorRow `json:"vendedores"`
	Daily      []DailyPoint  `json:"daily"`
	Closers    []CloserRow   `json:"closers"`
}
