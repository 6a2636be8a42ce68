package colors

import "testing"

func TestLookupKnownColor(t *testing.T) {
	c, ok := Lookup("cRed")
	if !ok || c != Red {
		t.Fatalf("Lookup(cRed) = (%#x, %v), want (%#x, true)", c, ok, Red)
	}
}

func TestLookupUnknownColor(t *testing.T) {
	if _, ok := Lookup("cNotAColor"); ok {
		t.Fatal("expected ok=false for an unknown color name")
	}
}

func TestNoneSentinelIsAllOnes(t *testing.T) {
	if None != 0xFFFFFFFF {
		t.Fatalf("None = %#x, want 0xffffffff", None)
	}
}
