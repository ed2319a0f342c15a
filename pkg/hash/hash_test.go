package hash

import "testing"

func TestHashPassword(t *testing.T) {
	h, err := HashPassword("s3cret")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if h == "s3cret" {
		t.Fatalf("password stored in clear")
	}
	if !CheckPasswordHash("s3cret", h) {
		t.Fatalf("correct password rejected")
	}
	if CheckPasswordHash("wrong", h) {
		t.Fatalf("wrong password accepted")
	}
}
