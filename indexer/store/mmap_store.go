package store

import (
	"errors"
	"os"

	"github.com/edsrzf/mmap-go"
)

// MmapStore is a Mapping backed by an mmap'd file.
type MmapStore struct {
	f    *os.File
	data mmap.MMap
}

var _ Mapping = (*MmapStore)(nil)

// OpenMmap maps path read-only and hints random access, which matches the
// branch-and-bound walk over the arrays.
func OpenMmap(path string) (*MmapStore, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	st, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}
	if st.Size() == 0 {
		f.Close()
		return nil, errors.New("index file is empty")
	}
	m, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		f.Close()
		return nil, err
	}
	_ = adviseRandom(m)
	return &MmapStore{f: f, data: m}, nil
}

// Bytes returns the full mapped file.
func (s *MmapStore) Bytes() []byte {
	return s.data
}

// Close unmaps the file and closes it.
func (s *MmapStore) Close() error {
	if s.data != nil {
		if err := s.data.Unmap(); err != nil {
			return err
		}
		s.data = nil
	}
	if s.f != nil {
		err := s.f.Close()
		s.f = nil
		return err
	}
	return nil
}
