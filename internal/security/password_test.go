package security

import "testing"

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("s3cret-pass")

	if err != nil {
		t.Fatalf("hash: %v", err)
	}

	if hash == "s3cret-pass" {
		t.Fatalf("expected hash to differ from plain text")
	}

	if err := CheckPassword(hash, "s3cret-pass"); err != nil {
		t.Fatalf("expected match, got %v", err)
	}

	if err := CheckPassword(hash, "wrong"); err == nil {
		t.Fatalf("expected mismatch error")
	}
}

func TestBurnPasswordCheckDoesNotPanic(t *testing.T) {
	BurnPasswordCheck("anything")
	BurnPasswordCheck("")
}
