package domain

import "math"

// ConversionRate is won over attended leads (every lead that left novo_lead),
// as a percentage rounded to one decimal. Zero attended leads yield zero.
func ConversionRate(won, attended int) float64 {
	if attended <= 0 {
		return 0
	}
	return math.Round(float64(won)/float64(attended)*1000) / 10
}

// AverageTicket is the won total divided by won leads, in whole cents.
func AverageTicket(wonCents int64, won int) int64 {
	if won <= 0 {
		return 0
	}
	return wonCents / int64(won)
}
