package password

import (
	"errors"
	"testing"
)

func TestHashAndCompare(t *testing.T) {
	hash, err := Hash("s3nha-segura")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if hash == "s3nha-segura" {
		t.Fatalf("expected hash to differ from the plain password")
	}
	if err := Compare(hash, "s3nha-segura"); err != nil {
		t.Fatalf("expected match, got %v", err)
	}
	if err := Compare(hash, "outra"); !errors.Is(err, ErrMismatch) {
		t.Fatalf("expected ErrMismatch, got %v", err)
	}
}
