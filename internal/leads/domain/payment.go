package domain

import (
	"fmt"
	"time"
)

// PaymentMethod is how a won deal is paid.
type PaymentMethod string

const (
	PaymentPixAvista       PaymentMethod = "pix_avista"
	PaymentCartaoCredito   PaymentMethod = "cartao_credito"
	PaymentBoletoAvista    PaymentMethod = "boleto_avista"
	PaymentBoleto30Dias    PaymentMethod = "boleto_30dias"
	PaymentBoletoParcelado PaymentMethod = "boleto_parcelado"
)

const (
	MinInstallments = 2
	MaxInstallments = 12

	// InstallmentIntervalDays separates consecutive due dates.
	InstallmentIntervalDays = 30

	DateLayout = "2006-01-02"
)

var paymentMethods = []PaymentMethod{
	PaymentPixAvista,
	PaymentCartaoCredito,
	PaymentBoletoAvista,
	PaymentBoleto30Dias,
	PaymentBoletoParcelado,
}

func (m PaymentMethod) IsValid() bool {
	for _, known := range paymentMethods {
		if m == known {
			return true
		}
	}
	return false
}

func ParsePaymentMethod(raw string) (PaymentMethod, error) {
	method := PaymentMethod(raw)
	if !method.IsValid() {
		return "", fmt.Errorf("unknown payment method %q", raw)
	}
	return method, nil
}

// Installment is one entry of a bank-slip payment plan.
type Installment struct {
	Numero         int    `json:"numero"`
	ValorCents     int64  `json:"valor_cents"`
	DataVencimento string `json:"data_vencimento"`
	Pago           bool   `json:"pago"`
}

// BuildInstallments splits totalCents into n entries due every 30 days from
// start. Leftover cents go one each to the first entries, so the plan always
// sums to totalCents.
func BuildInstallments(totalCents int64, n int, start time.Time) []Installment {
	if n <= 0 {
		return []Installment{}
	}

	amounts := SplitCents(totalCents, n)
	first := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC)

	out := make([]Installment, n)
	for i := 0; i < n; i++ {
		out[i] = Installment{
			Numero:         i + 1,
			ValorCents:     amounts[i],
			DataVencimento: first.AddDate(0, 0, InstallmentIntervalDays*i).Format(DateLayout),
			Pago:           false,
		}
	}
	return out
}

// SplitCents divides total into n integer parts that sum to total.
func SplitCents(total int64, n int) []int64 {
	if n <= 0 {
		return []int64{}
	}
	base := total / int64(n)
	remainder := total % int64(n)

	out := make([]int64, n)
	for i := range out {
		out[i] = base
		if int64(i) < remainder {
			out[i]++
		}
	}
	return out
}
