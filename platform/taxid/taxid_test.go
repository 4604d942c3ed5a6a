package taxid

import "testing"

func TestClassify(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  Kind
	}{
		{"valid cpf", "11144477735", KindCPF},
		{"valid cpf with punctuation", "529.982.247-25", KindCPF},
		{"repeated digit cpf", "11111111111", KindInvalid},
		{"wrong cpf check digit", "11144477734", KindInvalid},
		{"valid cnpj", "11.222.333/0001-81", KindCNPJ},
		{"wrong cnpj check digit", "11222333000182", KindInvalid},
		{"repeated digit cnpj", "00000000000000", KindInvalid},
		{"too short", "1234567", KindInvalid},
		{"empty", "", KindInvalid},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Classify(tc.input); got != tc.want {
				t.Fatalf("Classify(%q) = %q, want %q", tc.input, got, tc.want)
			}
		})
	}
}

func TestNormalizeKeepsOnlyDigits(t *testing.T) {
	if got := Normalize("11.222.333/0001-81"); got != "11222333000181" {
		t.Fatalf("expected digits only, got %q", got)
	}
}
