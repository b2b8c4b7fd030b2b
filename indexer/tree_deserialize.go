package indexer

import (
	"encoding/binary"
	"errors"
	"fmt"
	"hash/crc32"
	"math"
	"unsafe"

	"github.com/ic-timon/vpsearch/indexer/store"
)

var hostLittleEndian = binary.NativeEndian.Uint16([]byte{1, 0}) == 1

// arrays are the four entry arrays decoded from an index image.
type arrays struct {
	vantage []int32
	radii   []float64
	left    []int32
	right   []int32
}

// decodeIndex parses and validates an indices.vpt image. On little-endian
// hosts the arrays alias data; otherwise they are decoded copies.
func decodeIndex(data []byte) (*store.Header, arrays, error) {
	h, err := store.DecodeHeader(data)
	if err != nil {
		return nil, arrays{}, err
	}
	l, err := h.CheckLayout()
	if err != nil {
		return nil, arrays{}, err
	}
	if int64(len(data)) != l.End {
		return nil, arrays{}, fmt.Errorf("index file is %d bytes, want %d", len(data), l.End)
	}
	if crc32.ChecksumIEEE(data[store.HeaderSize:]) != h.Checksum {
		return nil, arrays{}, errors.New("checksum mismatch")
	}

	n := int(h.Count)
	a := arrays{
		vantage: int32s(data[l.Vantage : l.Vantage+4*int64(n)]),
		radii:   float64s(data[l.Radii : l.Radii+8*int64(n)]),
		left:    int32s(data[l.Left : l.Left+4*int64(n)]),
		right:   int32s(data[l.Right : l.Right+4*int64(n)]),
	}
	if err := a.validate(); err != nil {
		return nil, arrays{}, err
	}
	return h, a, nil
}

// validate checks that every reference is in range and that children come
// after their parent, which bounds any traversal.
func (a arrays) validate() error {
	n := int32(len(a.vantage))
	seen := make([]bool, n)
	for i := int32(0); i < n; i++ {
		v := a.vantage[i]
		if v < 0 || v >= n {
			return fmt.Errorf("entry %d: vantage %d out of range", i, v)
		}
		if seen[v] {
			return fmt.Errorf("entry %d: record %d is already a vantage", i, v)
		}
		seen[v] = true
		if r := a.radii[i]; math.IsNaN(r) || r < 0 {
			return fmt.Errorf("entry %d: invalid radius %v", i, r)
		}
		for _, c := range [2]int32{a.left[i], a.right[i]} {
			if c != -1 && (c <= i || c >= n) {
				return fmt.Errorf("entry %d: child %d out of range", i, c)
			}
		}
	}
	return nil
}

func int32s(b []byte) []int32 {
	n := len(b) / 4
	if n == 0 {
		return nil
	}
	if hostLittleEndian {
		return unsafe.Slice((*int32)(unsafe.Pointer(&b[0])), n)
	}
	out := make([]int32, n)
	for i := range out {
		out[i] = int32(binary.LittleEndian.Uint32(b[4*i:]))
	}
	return out
}

func float64s(b []byte) []float64 {
	n := len(b) / 8
	if n == 0 {
		return nil
	}
	if hostLittleEndian {
		return unsafe.Slice((*float64)(unsafe.Pointer(&b[0])), n)
	}
	out := make([]float64, n)
	for i := range out {
		out[i] = math.Float64frombits(binary.LittleEndian.Uint64(b[8*i:]))
	}
	return out
}
