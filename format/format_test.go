package format

import (
	"bytes"
	"testing"

	"bintpl/interpreter"
	"bintpl/reader"
)

func run(t *testing.T, src string, data []byte) *interpreter.Interpreter {
	t.Helper()
	i, err := interpreter.New(reader.NewBytesSource(data), &bytes.Buffer{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := i.Evaluate(src); err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	return i
}

func TestBuildOffsetsAreMonotonic(t *testing.T) {
	i := run(t, `
		uint32 a;
		uint32 b;
		uint32 c;
	`, []byte{1, 0, 0, 0, 2, 0, 0, 0, 3, 0, 0, 0})

	entries := Build(i)
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}
	var prevEnd uint64
	for idx, e := range entries {
		if e.Location.Offset < prevEnd {
			t.Fatalf("entry %d offset %d precedes previous end %d", idx, e.Location.Offset, prevEnd)
		}
		if e.Location.Size != 4 {
			t.Fatalf("entry %d size = %d, want 4", idx, e.Location.Size)
		}
		prevEnd = e.Location.Offset + e.Location.Size
	}
}

func TestBuildUnionMembersOverlap(t *testing.T) {
	i := run(t, `
		union Tag {
			uint32 asInt;
			uint8 asBytes[4];
		} u;
	`, []byte{0xAA, 0xBB, 0xCC, 0xDD})

	entries := Build(i)
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	u := entries[0]
	if len(u.Children) != 2 {
		t.Fatalf("expected 2 union members, got %d", len(u.Children))
	}
	for _, c := range u.Children {
		if c.Location.Offset != u.Location.Offset {
			t.Fatalf("union member offset %d != union offset %d", c.Location.Offset, u.Location.Offset)
		}
	}
}

func TestBuildSkipsLocalDeclarations(t *testing.T) {
	i := run(t, `
		local uint32 scratch = 5;
		uint32 onFile;
	`, []byte{7, 0, 0, 0})

	entries := Build(i)
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry (local excluded), got %d", len(entries))
	}
	if entries[0].Name != "onFile" {
		t.Fatalf("expected onFile, got %s", entries[0].Name)
	}
}

func TestBuildColorInheritance(t *testing.T) {
	i := run(t, `
		struct Header {
			uint32 magic;
			uint16 version;
		} hdr;
		SetBackColor(cRed);
	`, []byte{1, 2, 3, 4, 5, 6})

	entries := Build(i)
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	hdr := entries[0]
	if hdr.BGColor == 0xFFFFFFFF {
		t.Fatalf("expected hdr to carry an explicit color, got sentinel")
	}
	for _, m := range hdr.Children {
		if m.BGColor != hdr.BGColor {
			t.Fatalf("member %s did not inherit parent color: got %#x want %#x", m.Name, m.BGColor, hdr.BGColor)
		}
	}
}

func TestBuildReturnsEmptyOnError(t *testing.T) {
	i := run2(t)
	if err := i.Evaluate(`uint32 a; unknownFunc();`); err == nil {
		t.Fatalf("expected an evaluation error")
	}
	entries := Build(i)
	if len(entries) != 0 {
		t.Fatalf("expected empty tree on error, got %d entries", len(entries))
	}
}

func run2(t *testing.T) *interpreter.Interpreter {
	t.Helper()
	i, err := interpreter.New(reader.NewBytesSource([]byte{0, 0, 0, 0}), &bytes.Buffer{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return i
}
