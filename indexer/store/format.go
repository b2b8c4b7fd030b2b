package store

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
)

const (
	// HeaderSize is the fixed header size.
	HeaderSize = 64

	// Magic identifies a valid vpsearch index file.
	Magic = "VPST"

	// FormatVersion is the current file format version.
	FormatVersion uint16 = 1
)

// Header holds the persisted index metadata.
type Header struct {
	Magic         [4]byte
	Version       uint16
	Codec         uint8 // compression of the sequence file
	Flags         uint8
	Count         uint32 // records == entries
	GapOpen       int32
	GapExtend     int32
	Checksum      uint32 // CRC-32 (IEEE) of bytes [HeaderSize, end)
	VantageOffset uint64
	RadiiOffset   uint64
	LeftOffset    uint64
	RightOffset   uint64
	Reserved      [8]byte // pad to 64 bytes
}

// Layout is the array placement for n entries.
type Layout struct {
	Vantage, Radii, Left, Right, End int64
}

// LayoutFor returns the canonical array offsets for n entries.
func LayoutFor(n int) Layout {
	var l Layout
	l.Vantage = HeaderSize
	l.Radii = alignUp(l.Vantage+4*int64(n), 8)
	l.Left = l.Radii + 8*int64(n)
	l.Right = l.Left + 4*int64(n)
	l.End = l.Right + 4*int64(n)
	return l
}

func alignUp(x, align int64) int64 {
	if x%align == 0 {
		return x
	}
	return (x/align + 1) * align
}

// SetLayout records l in the header.
func (h *Header) SetLayout(l Layout) {
	h.VantageOffset = uint64(l.Vantage)
	h.RadiiOffset = uint64(l.Radii)
	h.LeftOffset = uint64(l.Left)
	h.RightOffset = uint64(l.Right)
}

// CheckLayout reports whether the header offsets match the canonical layout
// and returns it.
func (h *Header) CheckLayout() (Layout, error) {
	l := LayoutFor(int(h.Count))
	if h.VantageOffset != uint64(l.Vantage) || h.RadiiOffset != uint64(l.Radii) ||
		h.LeftOffset != uint64(l.Left) || h.RightOffset != uint64(l.Right) {
		return Layout{}, fmt.Errorf("array offsets do not match %d entries", h.Count)
	}
	return l, nil
}

// EncodeHeader writes the header to a byte slice, padded to HeaderSize.
func EncodeHeader(h *Header) ([]byte, error) {
	if h == nil {
		return nil, errors.New("header is nil")
	}
	copy(h.Magic[:], Magic)
	h.Version = FormatVersion
	var w bytes.Buffer
	if err := binary.Write(&w, binary.LittleEndian, h); err != nil {
		return nil, err
	}
	b := w.Bytes()
	if len(b) < HeaderSize {
		padded := make([]byte, HeaderSize)
		copy(padded, b)
		return padded, nil
	}
	return b, nil
}

// DecodeHeader reads the header from src. Returns error if magic/version invalid.
func DecodeHeader(src []byte) (*Header, error) {
	if len(src) < HeaderSize {
		return nil, errors.New("header too short")
	}
	var h Header
	r := bytes.NewReader(src[:HeaderSize])
	if err := binary.Read(r, binary.LittleEndian, &h); err != nil {
		return nil, err
	}
	if string(h.Magic[:]) != Magic {
		return nil, errors.New("invalid magic")
	}
	if h.Version != FormatVersion {
		return nil, fmt.Errorf("unsupported format version %d", h.Version)
	}
	return &h, nil
}
