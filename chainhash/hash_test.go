package chainhash

import (
	"strings"
	"testing"
)

func TestSum(t *testing.T) {
	a := Sum([]byte("hello"))
	b := Sum([]byte("hello"))
	c := Sum([]byte("world"))
	if a != b {
		t.Fatalf("Sum is not deterministic: %s vs %s", a, b)
	}
	if a == c {
		t.Fatalf("Sum collided for distinct inputs")
	}
}

func TestStringParseRoundTrip(t *testing.T) {
	h := Sum([]byte("round trip"))
	s := h.String()
	if len(s) != Size*2 {
		t.Fatalf("String is %d chars, wanted %d", len(s), Size*2)
	}
	parsed, err := Parse(s)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if parsed != h {
		t.Fatalf("Parse(String) = %s, wanted %s", parsed, h)
	}
}

func TestParseRejectsBadInput(t *testing.T) {
	if _, err := Parse("zz"); err == nil {
		t.Fatalf("Parse accepted non-hex input")
	}
	if _, err := Parse("abcd"); err == nil {
		t.Fatalf("Parse accepted a short address")
	}
}

func TestShort(t *testing.T) {
	h := Sum([]byte("short"))
	if !strings.HasPrefix(h.String(), h.Short()) {
		t.Fatalf("Short %q is not a prefix of %q", h.Short(), h.String())
	}
	if len(h.Short()) != 12 {
		t.Fatalf("Short is %d chars, wanted 12", len(h.Short()))
	}
}

func TestEqual(t *testing.T) {
	a := Sum([]byte("a"))
	a2 := a
	b := Sum([]byte("b"))
	if !Equal(nil, nil) {
		t.Fatalf("Equal(nil, nil) = false")
	}
	if Equal(&a, nil) || Equal(nil, &a) {
		t.Fatalf("Equal treated nil as equal to an address")
	}
	if !Equal(&a, &a2) {
		t.Fatalf("Equal(&a, &a2) = false for identical addresses")
	}
	if Equal(&a, &b) {
		t.Fatalf("Equal(&a, &b) = true for distinct addresses")
	}
}
