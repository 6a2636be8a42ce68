package reader

import (
	"bytes"
	"os"
)

// FileSource adapts an *os.File to the Source contract.
type FileSource struct {
	f *os.File
}

// NewFileSource opens path for reading.
func NewFileSource(path string) (*FileSource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	return &FileSource{f: f}, nil
}

func (s *FileSource) ReadAt(p []byte, off int64) (int, error) { return s.f.ReadAt(p, off) }

func (s *FileSource) Size() (uint64, error) {
	info, err := s.f.Stat()
	if err != nil {
		return 0, err
	}
	return uint64(info.Size()), nil
}

func (s *FileSource) Close() error { return s.f.Close() }

// BytesSource adapts an in-memory byte slice to the Source contract,
// used by tests and the REPL's inline-buffer mode.
type BytesSource struct {
	r *bytes.Reader
}

// NewBytesSource wraps data as a Source.
func NewBytesSource(data []byte) *BytesSource {
	return &BytesSource{r: bytes.NewReader(data)}
}

func (s *BytesSource) ReadAt(p []byte, off int64) (int, error) { return s.r.ReadAt(p, off) }
func (s *BytesSource) Size() (uint64, error)                   { return uint64(s.r.Len()), nil }
