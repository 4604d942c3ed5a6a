package sanitize

import "testing"

func TestLine(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"  Maria   Souza ", "Maria Souza"},
		{"<b>Maria</b>\nSouza", "Maria Souza"},
		{"&lt;script&gt;alert(1)&lt;/script&gt;Ana", "alert(1)Ana"},
	}
	for _, tc := range cases {
		if got := Line(tc.in); got != tc.want {
			t.Fatalf("expected %q for %q, got %q", tc.want, tc.in, got)
		}
	}
}

func TestTextKeepsLineBreaks(t *testing.T) {
	got := Text("  Liga depois das 18h.\r\n<i>Prefere</i>   WhatsApp  ")
	if got != "Liga depois das 18h.\nPrefere WhatsApp" {
		t.Fatalf("unexpected text %q", got)
	}
}

func TestTextPtr(t *testing.T) {
	if TextPtr(nil) != nil {
		t.Fatalf("expected nil for nil input")
	}
	blank := "  <br>  "
	if TextPtr(&blank) != nil {
		t.Fatalf("expected nil for markup-only input")
	}
	note := " ok "
	if got := TextPtr(&note); got == nil || *got != "ok" {
		t.Fatalf("expected trimmed note, got %v", got)
	}
}
