// Package store provides the on-disk format and the mmap-backed reader for
// indices.vpt. It is used internally by indexer.Persist and indexer.Load.
//
// The file format consists of:
//   - Header (64 bytes): magic, version, sequence codec, record count, gap
//     penalties, array offsets and a CRC-32 of everything after the header
//   - vantage int32[N], padded to 8 bytes
//   - radii float64[N]
//   - left int32[N]
//   - right int32[N]
//
// All integers and floats are little-endian.
package store
