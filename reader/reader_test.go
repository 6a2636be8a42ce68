package reader

import "testing"

func newReader(t *testing.T, data []byte) *BinaryReader {
	t.Helper()
	r, err := New(NewBytesSource(data))
	if err != nil {
		t.Fatal(err)
	}
	return r
}

func TestReadUintLittleEndian(t *testing.T) {
	r := newReader(t, []byte{0x01, 0x00, 0x00, 0x00})
	r.SetEndianness(LittleEndian)
	v, err := r.ReadUint(4)
	if err != nil {
		t.Fatal(err)
	}
	if v != 1 {
		t.Fatalf("got %d, want 1", v)
	}
	if r.Offset() != 4 {
		t.Fatalf("offset = %d, want 4", r.Offset())
	}
}

func TestReadUintBigEndian(t *testing.T) {
	r := newReader(t, []byte{0x00, 0x01})
	r.SetEndianness(BigEndian)
	v, err := r.ReadUint(2)
	if err != nil {
		t.Fatal(err)
	}
	if v != 1 {
		t.Fatalf("got %d, want 1", v)
	}
}

// TestEndiannessIdempotence reproduces testable property 3: the same
// logical value round-trips correctly on LE and BE encodings of the
// same width once the corresponding endianness is selected.
func TestEndiannessIdempotence(t *testing.T) {
	le := newReader(t, []byte{0x78, 0x56, 0x34, 0x12})
	le.SetEndianness(LittleEndian)
	got, err := le.ReadUint(4)
	if err != nil {
		t.Fatal(err)
	}
	if got != 0x12345678 {
		t.Fatalf("LE got %#x, want 0x12345678", got)
	}

	be := newReader(t, []byte{0x12, 0x34, 0x56, 0x78})
	be.SetEndianness(BigEndian)
	got, err = be.ReadUint(4)
	if err != nil {
		t.Fatal(err)
	}
	if got != 0x12345678 {
		t.Fatalf("BE got %#x, want 0x12345678", got)
	}
}

// TestBitfieldPacking reproduces testable property 4: N consecutive
// 1-bit members pack LSB-first within each byte.
func TestBitfieldPacking(t *testing.T) {
	r := newReader(t, []byte{0b0000_0101}) // bit0=1, bit1=0, bit2=1, rest 0
	bits := make([]uint64, 3)
	for i := range bits {
		v, err := r.ReadBits(1)
		if err != nil {
			t.Fatal(err)
		}
		bits[i] = v
	}
	if bits[0] != 1 || bits[1] != 0 || bits[2] != 1 {
		t.Fatalf("got %v, want [1 0 1]", bits)
	}
}

func TestReadBitsThenAlignToByte(t *testing.T) {
	r := newReader(t, []byte{0b0000_0111, 0xAB})
	if _, err := r.ReadBits(3); err != nil {
		t.Fatal(err)
	}
	// reading a byte-aligned value should skip the rest of the first byte
	v, err := r.ReadUint(1)
	if err != nil {
		t.Fatal(err)
	}
	if v != 0xAB {
		t.Fatalf("got %#x, want 0xab", v)
	}
}

func TestSeekFlushesBuffer(t *testing.T) {
	r := newReader(t, []byte{0, 1, 2, 3, 4, 5})
	if _, err := r.ReadUint(1); err != nil {
		t.Fatal(err)
	}
	r.Seek(4)
	v, err := r.ReadUint(1)
	if err != nil {
		t.Fatal(err)
	}
	if v != 4 {
		t.Fatalf("got %d, want 4", v)
	}
}

// TestNoSeekLeavesCursorUnchanged reproduces testable property 5.
func TestNoSeekLeavesCursorUnchanged(t *testing.T) {
	r := newReader(t, []byte{0, 1, 2, 3, 4, 5, 6, 7})
	if _, err := r.ReadUint(2); err != nil {
		t.Fatal(err)
	}
	before := r.Offset()
	v, err := r.ReadUint32At(4)
	if err != nil {
		t.Fatal(err)
	}
	if r.Offset() != before {
		t.Fatalf("offset changed across NoSeek: before=%d after=%d", before, r.Offset())
	}
	_ = v
}

func TestAtEofAfterShortRead(t *testing.T) {
	r := newReader(t, []byte{1, 2})
	if _, err := r.ReadUint(1); err != nil {
		t.Fatal(err)
	}
	if _, err := r.ReadUint(1); err != nil {
		t.Fatal(err)
	}
	if r.AtEof() {
		t.Fatal("should not be at EOF immediately after consuming the last byte without attempting another read")
	}
	if _, err := r.readBytes(1); err != nil {
		t.Fatal(err)
	}
	if !r.AtEof() {
		t.Fatal("expected AtEof after a short read past the end of the source")
	}
}

func TestReadBytesAtIsAPeek(t *testing.T) {
	r := newReader(t, []byte("hello world"))
	before := r.Offset()
	buf, err := r.ReadBytesAt(6, 5)
	if err != nil {
		t.Fatal(err)
	}
	if string(buf) != "world" {
		t.Fatalf("got %q, want %q", buf, "world")
	}
	if r.Offset() != before {
		t.Fatalf("ReadBytesAt should not move the primary cursor")
	}
}
