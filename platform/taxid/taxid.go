// Package taxid validates Brazilian national tax identifiers (CPF and CNPJ).
// This is part of the platform layer and contains no business logic.
package taxid

import "pipeline_backend/platform/phone"

// Kind identifies which tax identifier a value is.
type Kind string

const (
	KindInvalid Kind = ""
	KindCPF     Kind = "cpf"
	KindCNPJ    Kind = "cnpj"
)

var (
	cnpjWeights1 = []int{5, 4, 3, 2, 9, 8, 7, 6, 5, 4, 3, 2}
	cnpjWeights2 = []int{6, 5, 4, 3, 2, 9, 8, 7, 6, 5, 4, 3, 2}
)

// Normalize strips punctuation, keeping only the digits.
func Normalize(value string) string {
	return phone.Digits(value)
}

// Classify returns the kind of a checksum-valid identifier, or KindInvalid.
func Classify(value string) Kind {
	digits := Normalize(value)
	switch {
	case len(digits) == 11 && ValidCPF(digits):
		return KindCPF
	case len(digits) == 14 && ValidCNPJ(digits):
		return KindCNPJ
	default:
		return KindInvalid
	}
}

// Valid reports whether value is a valid CPF or CNPJ.
func Valid(value string) bool {
	return Classify(value) != KindInvalid
}

// ValidCPF checks an 11-digit individual identifier.
func ValidCPF(value string) bool {
	d := toDigits(Normalize(value))
	if len(d) != 11 || allSame(d) {
		return false
	}

	sum := 0
	for i := 0; i < 9; i++ {
		sum += d[i] * (10 - i)
	}
	if cpfCheckDigit(sum) != d[9] {
		return false
	}

	sum = 0
	for i := 0; i < 10; i++ {
		sum += d[i] * (11 - i)
	}
	return cpfCheckDigit(sum) == d[10]
}

// ValidCNPJ checks a 14-digit business identifier.
func ValidCNPJ(value string) bool {
	d := toDigits(Normalize(value))
	if len(d) != 14 || allSame(d) {
		return false
	}

	if cnpjCheckDigit(d[:12], cnpjWeights1) != d[12] {
		return false
	}
	return cnpjCheckDigit(d[:13], cnpjWeights2) == d[13]
}

func cpfCheckDigit(sum int) int {
	r := (sum * 10) % 11
	if r == 10 {
		return 0
	}
	return r
}

func cnpjCheckDigit(digits, weights []int) int {
	sum := 0
	for i, w := range weights {
		sum += digits[i] * w
	}
	r := sum % 11
	if r < 2 {
		return 0
	}
	return 11 - r
}

func toDigits(s string) []int {
	out := make([]int, len(s))
	for i, r := range s {
		out[i] = int(r - '0')
	}
	return out
}

func allSame(d []int) bool {
	for _, v := range d[1:] {
		if v != d[0] {
			return false
		}
	}
	return true
}
