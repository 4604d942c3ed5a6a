package phone

import "testing"

func TestIsNationalNumber(t *testing.T) {
	cases := []struct {
		input string
		want  bool
	}{
		{"(11) 98765-4321", true},
		{"1134567890", true},
		{"98765-4321", false},
		{"+55 11 98765-4321", false},
		{"", false},
	}

	for _, tc := range cases {
		if got := IsNationalNumber(tc.input); got != tc.want {
			t.Errorf("IsNationalNumber(%q) = %v, want %v", tc.input, got, tc.want)
		}
	}
}

func TestNormalizeE164(t *testing.T) {
	if got := NormalizeE164("(11) 98765-4321"); got != "+5511987654321" {
		t.Fatalf("expected +5511987654321, got %q", got)
	}
	if got := NormalizeE164("  not a phone  "); got != "not a phone" {
		t.Fatalf("expected trimmed input back, got %q", got)
	}
}
