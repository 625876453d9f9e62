package id

import (
	"encoding/hex"
	"regexp"
	"testing"
)

var reHex32 = regexp.MustCompile(`^[a-f0-9]{32}$`)

func TestNewID32_FormatAndDecode(t *testing.T) {
	got := NewID32()

	if !reHex32.MatchString(got) {
		t.Fatalf("not 32-char lowercase hex: %q", got)
	}
	b, err := hex.DecodeString(got)
	if err != nil {
		t.Fatalf("hex.DecodeString error: %v", err)
	}
	if len(b) != 16 {
		t.Fatalf("decoded bytes = %d, want 16", len(b))
	}
	if !Valid(got) {
		t.Fatalf("Valid(%q) = false", got)
	}
}

func TestNew_Uniqueness(t *testing.T) {
	const n = 200
	seen := make(map[string]struct{}, n)
	for i := 0; i < n; i++ {
		id := New()
		if _, ok := seen[id]; ok {
			t.Fatalf("duplicate id after %d iterations: %q", i, id)
		}
		seen[id] = struct{}{}
	}
}

func TestValid(t *testing.T) {
	if !Valid(New()) {
		t.Fatal("canonical uuid rejected")
	}
	for _, s := range []string{"", "abc", "zzzzzzzz-zzzz-zzzz-zzzz-zzzzzzzzzzzz"} {
		if Valid(s) {
			t.Fatalf("Valid(%q) = true", s)
		}
	}
}
