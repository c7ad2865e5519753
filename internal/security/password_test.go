package security

import (
	"bytes"
	"testing"
)

func TestHashAndVerifyPassword(t *testing.T) {
	hash, salt, err := HashPassword("correct horse battery staple")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if len(hash) != 32 {
		t.Fatalf("expected 32 byte hash, got %d", len(hash))
	}
	if len(salt) != 16 {
		t.Fatalf("expected 16 byte salt, got %d", len(salt))
	}

	if !VerifyPassword("correct horse battery staple", hash, salt) {
		t.Fatal("expected password to verify")
	}
	if VerifyPassword("wrong password", hash, salt) {
		t.Fatal("expected wrong password to fail")
	}
}

func TestHashPasswordSaltsDiffer(t *testing.T) {
	hash1, salt1, err := HashPassword("same input")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	hash2, salt2, err := HashPassword("same input")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}

	if bytes.Equal(salt1, salt2) {
		t.Fatal("expected distinct salts")
	}
	if bytes.Equal(hash1, hash2) {
		t.Fatal("expected distinct hashes for distinct salts")
	}
}

func TestHashPasswordWithSaltDeterministic(t *testing.T) {
	_, salt, err := HashPassword("some password")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}

	first := HashPasswordWithSalt("some password", salt)
	second := HashPasswordWithSalt("some password", salt)
	if !bytes.Equal(first, second) {
		t.Fatal("expected same hash for same salt")
	}
}
