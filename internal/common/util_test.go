package common

import (
	"encoding/hex"
	"testing"
)

func TestMakeRandHexString_LengthAndHex(t *testing.T) {
	const n = 16
	s, err := MakeRandHexString(n)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(s) != 2*n {
		t.Fatalf("length = %d, want %d", len(s), 2*n)
	}
	if _, err := hex.DecodeString(s); err != nil {
		t.Fatalf("result is not valid hex: %v", err)
	}
}

func TestMakeRandHexString_ZeroSize(t *testing.T) {
	s, err := MakeRandHexString(0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s != "" {
		t.Fatalf("expected empty string, got %q", s)
	}
}

func TestMakeRandHexString_EntropyHint(t *testing.T) {
	const n = 32
	a, err := MakeRandHexString(n)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, err := MakeRandHexString(n)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a == b {
		t.Logf("warning: two MakeRandHexString(%d) results are identical; extremely unlikely", n)
	}
}
