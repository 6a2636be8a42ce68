package interpreter

import (
	"bytes"
	"testing"

	"bintpl/reader"
	"bintpl/value"
)

func newTestInterpreter(t *testing.T, data []byte) (*Interpreter, *bytes.Buffer) {
	t.Helper()
	var out bytes.Buffer
	i, err := New(reader.NewBytesSource(data), &out)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return i, &out
}

func mustEval(t *testing.T, i *Interpreter, src string) {
	t.Helper()
	if err := i.Evaluate(src); err != nil {
		t.Fatalf("Evaluate(%q): %v", src, err)
	}
}

func lookup(t *testing.T, i *Interpreter, name string) *value.Value {
	t.Helper()
	v, ok := i.Global.Lookup(name)
	if !ok {
		t.Fatalf("no such variable %q", name)
	}
	return v
}

// --- spec §8 scenario A: little-endian u32 triple ---

func TestScenarioALittleEndianTriple(t *testing.T) {
	i, _ := newTestInterpreter(t, []byte{1, 0, 0, 0, 2, 0, 0, 0, 3, 0, 0, 0})
	mustEval(t, i, `LittleEndian(); uint32 a; uint32 b; uint32 c;`)

	if len(i.Allocations) != 3 {
		t.Fatalf("expected 3 allocations, got %d", len(i.Allocations))
	}
	wantOffsets := []uint64{0, 4, 8}
	wantValues := []uint64{1, 2, 3}
	for idx, v := range i.Allocations {
		if v.Offset != wantOffsets[idx] {
			t.Errorf("allocation %d offset = %d, want %d", idx, v.Offset, wantOffsets[idx])
		}
		if v.Uint64() != wantValues[idx] {
			t.Errorf("allocation %d value = %d, want %d", idx, v.Uint64(), wantValues[idx])
		}
		if v.SizeOf() != 4 {
			t.Errorf("allocation %d size = %d, want 4", idx, v.SizeOf())
		}
	}
}

// --- spec §8 scenario B: big-endian nested struct ---

func TestScenarioBBigEndianNestedStruct(t *testing.T) {
	i, _ := newTestInterpreter(t, []byte{0x00, 0x01, 0x00, 0x02, 0xFF})
	mustEval(t, i, `BigEndian(); struct S { uint16 x; uint16 y; } s; uint8 t;`)

	s := lookup(t, i, "s")
	x, ok := s.Member("x")
	if !ok || x.Uint64() != 1 || x.Offset != 0 {
		t.Fatalf("s.x = %+v, want value 1 at offset 0", x)
	}
	y, ok := s.Member("y")
	if !ok || y.Uint64() != 2 || y.Offset != 2 {
		t.Fatalf("s.y = %+v, want value 2 at offset 2", y)
	}
	tv := lookup(t, i, "t")
	if tv.Uint64() != 0xFF || tv.Offset != 4 {
		t.Fatalf("t = %+v, want 0xFF at offset 4", tv)
	}
}

// --- spec §8 scenario C: union overlap ---

func TestScenarioCUnion(t *testing.T) {
	i, _ := newTestInterpreter(t, []byte{0x78, 0x56, 0x34, 0x12, 0xAA})
	mustEval(t, i, `LittleEndian(); union U { uint32 i; uint16 s[2]; } u; uint8 b;`)

	u := lookup(t, i, "u")
	iv, ok := u.Member("i")
	if !ok || iv.Uint64() != 0x12345678 || iv.Offset != 0 {
		t.Fatalf("u.i = %+v, want 0x12345678 at offset 0", iv)
	}
	sv, ok := u.Member("s")
	if !ok {
		t.Fatalf("u.s missing")
	}
	if sv.Offset != 0 {
		t.Fatalf("u.s offset = %d, want 0", sv.Offset)
	}
	if len(sv.Members) != 2 || sv.Members[0].Uint64() != 0x5678 || sv.Members[1].Uint64() != 0x1234 {
		t.Fatalf("u.s = %+v, want [0x5678, 0x1234]", sv.Members)
	}

	b := lookup(t, i, "b")
	if b.Uint64() != 0xAA || b.Offset != 4 {
		t.Fatalf("b = %+v, want 0xAA at offset 4", b)
	}
	if i.Reader.Offset() != 5 {
		t.Fatalf("cursor after template = %d, want 5", i.Reader.Offset())
	}
}

// --- spec §8 scenario D: bitfields ---

func TestScenarioDBitfields(t *testing.T) {
	i, _ := newTestInterpreter(t, []byte{0xD6, 0xAB})
	mustEval(t, i, `struct F { uint a:3; uint b:5; uint c:8; } f;`)

	f := lookup(t, i, "f")
	a, _ := f.Member("a")
	b, _ := f.Member("b")
	c, _ := f.Member("c")
	if a.Uint64() != 6 {
		t.Errorf("f.a = %d, want 6", a.Uint64())
	}
	if b.Uint64() != 26 {
		t.Errorf("f.b = %d, want 26", b.Uint64())
	}
	if c.Uint64() != 0xAB {
		t.Errorf("f.c = %#x, want 0xAB", c.Uint64())
	}
	if f.SizeOf() != 2 {
		t.Errorf("sizeof(F) = %d, want 2", f.SizeOf())
	}
}

// --- spec §8 scenario E: FSeek + ReadUInt peek ---

func TestScenarioEFSeekAndReadUIntPeek(t *testing.T) {
	data := make([]byte, 12)
	data[8], data[9], data[10], data[11] = 0x07, 0x00, 0x00, 0x00
	i, out := newTestInterpreter(t, data)
	mustEval(t, i, `FSeek(4); local uint32 v = ReadUInt(8); Printf("%u", v);`)

	if out.String() != "7" {
		t.Fatalf("Printf output = %q, want %q", out.String(), "7")
	}
	if i.Reader.Offset() != 4 {
		t.Fatalf("cursor after template = %d, want 4 (ReadUInt must not move it)", i.Reader.Offset())
	}
}

// --- spec §8 scenario F: enum auto-values ---

func TestScenarioFEnumAutoValues(t *testing.T) {
	i, _ := newTestInterpreter(t, []byte{0x0A, 0x00, 0x00, 0x00})
	mustEval(t, i, `LittleEndian(); enum <uint> E { A=1, B, C=10, D }; E e;`)

	e := lookup(t, i, "e")
	if e.EnumLabel != "C" {
		t.Fatalf("e label = %q, want C", e.EnumLabel)
	}
	wantConsts := map[string]int64{"A": 1, "B": 2, "C": 10, "D": 11}
	for name, want := range wantConsts {
		v := lookup(t, i, name)
		if v.Int64() != want {
			t.Errorf("%s = %d, want %d", name, v.Int64(), want)
		}
	}
}

// --- testable properties ---

func TestPropertyOffsetMonotonicityForStructs(t *testing.T) {
	i, _ := newTestInterpreter(t, []byte{1, 0, 0, 0, 2, 0, 3, 0})
	mustEval(t, i, `struct S { uint32 a; uint16 b; uint16 c; } s;`)
	s := lookup(t, i, "s")
	var prevEnd uint64
	for _, m := range s.Members {
		if m.Offset != prevEnd {
			t.Fatalf("member %s offset %d, want %d", m.ID, m.Offset, prevEnd)
		}
		prevEnd = m.Offset + m.SizeOf()
	}
}

func TestPropertyEndiannessIdempotence(t *testing.T) {
	le, _ := newTestInterpreter(t, []byte{0x01, 0x00, 0x00, 0x00})
	mustEval(t, le, `LittleEndian(); uint32 a;`)
	if lookup(t, le, "a").Uint64() != 1 {
		t.Fatalf("LE a = %d, want 1", lookup(t, le, "a").Uint64())
	}

	be, _ := newTestInterpreter(t, []byte{0x00, 0x00, 0x00, 0x01})
	mustEval(t, be, `BigEndian(); uint32 a;`)
	if lookup(t, be, "a").Uint64() != 1 {
		t.Fatalf("BE a = %d, want 1", lookup(t, be, "a").Uint64())
	}
}

func TestPropertyAtMostOneDeclaration(t *testing.T) {
	i, _ := newTestInterpreter(t, []byte{1, 2, 3, 4, 5, 6, 7, 8})
	err := i.Evaluate(`uint32 x; uint32 x;`)
	if err == nil {
		t.Fatal("expected redeclaration to produce an error")
	}
	if i.State != StateError {
		t.Fatalf("state = %v, want StateError", i.State)
	}
	if _, ok := err.(*DeclarationError); !ok {
		t.Fatalf("error type = %T, want *DeclarationError", err)
	}
}

func TestPropertyLocalConstDoNotAdvanceCursor(t *testing.T) {
	i, _ := newTestInterpreter(t, []byte{9, 9, 9, 9})
	mustEval(t, i, `local uint32 scratch = 42; const uint32 fixed = 7;`)
	if i.Reader.Offset() != 0 {
		t.Fatalf("cursor = %d, want 0 (local/const must not read)", i.Reader.Offset())
	}
	if lookup(t, i, "scratch").Uint64() != 42 {
		t.Fatalf("scratch = %d, want 42", lookup(t, i, "scratch").Uint64())
	}
	if lookup(t, i, "fixed").Uint64() != 7 {
		t.Fatalf("fixed = %d, want 7", lookup(t, i, "fixed").Uint64())
	}
	if len(i.Allocations) != 0 {
		t.Fatalf("local/const must not join the top-level allocation list, got %d entries", len(i.Allocations))
	}
}

func TestPropertyPeekLeavesCursorUnchanged(t *testing.T) {
	i, _ := newTestInterpreter(t, []byte{1, 2, 3, 4, 5, 6, 7, 8})
	mustEval(t, i, `uint32 a; local uint32 peeked = ReadUInt(4);`)
	if i.Reader.Offset() != 4 {
		t.Fatalf("cursor after peek = %d, want 4", i.Reader.Offset())
	}
}

// A struct, union, or enum-with-variable that is not the template's
// first declaration must still record its own file offset rather than
// keep the zero value a never-stamped Value would default to.
func TestPropertyCompoundOffsetWhenNotFirstDeclaration(t *testing.T) {
	i, _ := newTestInterpreter(t, []byte{
		0xFF,                         // lead uint8 at offset 0
		0x01, 0x00,                   // struct S.x at offset 1
		0x02, 0x00,                   // struct S.y at offset 3
		0xAA, 0xAA, 0xAA, 0xAA,       // union U.i at offset 5
		0x03, 0x00, 0x00, 0x00,       // enum E e at offset 9
	})
	mustEval(t, i, `LittleEndian();
uint8 lead;
struct S { uint16 x; uint16 y; } s;
union U { uint32 i; } u;
enum <uint> E { A=1, B=2, C=3 } e;`)

	s := lookup(t, i, "s")
	if s.Offset != 1 {
		t.Fatalf("s.Offset = %d, want 1", s.Offset)
	}
	x, ok := s.Member("x")
	if !ok || x.Offset != 1 {
		t.Fatalf("s.x offset = %+v, want 1", x)
	}

	u := lookup(t, i, "u")
	if u.Offset != 5 {
		t.Fatalf("u.Offset = %d, want 5", u.Offset)
	}

	e := lookup(t, i, "e")
	if e.Offset != 9 {
		t.Fatalf("e.Offset = %d, want 9", e.Offset)
	}
}
