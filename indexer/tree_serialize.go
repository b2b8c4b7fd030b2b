package indexer

import (
	"bytes"
	"encoding/binary"
	"hash/crc32"

	"github.com/ic-timon/vpsearch/align"
	"github.com/ic-timon/vpsearch/indexer/store"
	"github.com/ic-timon/vpsearch/seqdb"
)

// encodeIndex returns the complete indices.vpt image for ix.
func encodeIndex(ix *LinearIndex, codec seqdb.Compression) ([]byte, error) {
	n := ix.Len()
	layout := store.LayoutFor(n)

	body := bytes.NewBuffer(make([]byte, 0, layout.End-store.HeaderSize))
	if err := binary.Write(body, binary.LittleEndian, ix.vantage); err != nil {
		return nil, err
	}
	body.Write(make([]byte, layout.Radii-(store.HeaderSize+4*int64(n))))
	for _, arr := range []any{ix.radii, ix.left, ix.right} {
		if err := binary.Write(body, binary.LittleEndian, arr); err != nil {
			return nil, err
		}
	}

	h := &store.Header{
		Codec:    uint8(codec),
		Count:    uint32(n),
		Checksum: crc32.ChecksumIEEE(body.Bytes()),
	}
	if p, ok := ix.scorer.(interface{ Params() align.Params }); ok {
		h.GapOpen = int32(p.Params().GapOpen)
		h.GapExtend = int32(p.Params().GapExtend)
	}
	h.SetLayout(layout)
	head, err := store.EncodeHeader(h)
	if err != nil {
		return nil, err
	}
	return append(head, body.Bytes()...), nil
}
