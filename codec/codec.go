// Package codec serializes semi-indexes to a versioned binary layout.
//
// Only primary state is persisted: the IB and BP words, their bit
// lengths, and the offset tables. Rank, select and RangeMin
// directories are derived and rebuilt on load, which keeps the format
// small and makes format evolution a matter of re-deriving.
//
// Layout (all integers little-endian, independent of host endianness):
//
//	magic "SXIX" | version u16 | section count u16
//	per section: id u8 | raw length u64 | compressed length u64 | s2 data
//	trailer: xxhash64 of everything before it
package codec

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/cespare/xxhash/v2"
	"github.com/klauspost/compress/s2"

	"github.com/rust-works/succinctly/json"
)

const (
	magic   = "SXIX"
	version = 1
)

// Section ids.
const (
	secMeta uint8 = iota + 1
	secIBWords
	secBPWords
	secOffsets
	secEnds
)

var (
	// ErrBadMagic is returned when the input does not start with the
	// index magic.
	ErrBadMagic = errors.New("codec: bad magic")
	// ErrBadChecksum is returned when the trailer hash does not match.
	ErrBadChecksum = errors.New("codec: checksum mismatch")
	// ErrBadVersion is returned for unknown format versions.
	ErrBadVersion = errors.New("codec: unsupported version")
)

// Encode writes idx to w.
func Encode(w io.Writer, idx *json.Index) error {
	ib := idx.IB()
	bpv := idx.BP().Bits()

	meta := make([]byte, 0, 4*8)
	meta = appendU64(meta, uint64(idx.SourceLen()))
	meta = appendU64(meta, uint64(ib.Len()))
	meta = appendU64(meta, uint64(bpv.Len()))
	meta = appendU64(meta, uint64(idx.NumNodes()))

	buf := make([]byte, 0, 64)
	buf = append(buf, magic...)
	buf = binary.LittleEndian.AppendUint16(buf, version)
	buf = binary.LittleEndian.AppendUint16(buf, 5)

	buf = appendSection(buf, secMeta, meta)
	buf = appendSection(buf, secIBWords, wordsToBytes(ib.Words()))
	buf = appendSection(buf, secBPWords, wordsToBytes(bpv.Words()))
	buf = appendSection(buf, secOffsets, u32ToBytes(idx.Offsets()))
	buf = appendSection(buf, secEnds, u32ToBytes(idx.EndOffsets()))

	buf = binary.LittleEndian.AppendUint64(buf, xxhash.Sum64(buf))
	_, err := w.Write(buf)
	return err
}

// Decode reads an index serialized by Encode and rebuilds its derived
// directories. Build options control the rebuilt directory parameters.
func Decode(r io.Reader, opts ...json.Option) (*json.Index, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	if len(data) < len(magic)+4+8 {
		return nil, ErrBadMagic
	}
	body, trailer := data[:len(data)-8], data[len(data)-8:]
	if xxhash.Sum64(body) != binary.LittleEndian.Uint64(trailer) {
		return nil, ErrBadChecksum
	}
	if string(body[:4]) != magic {
		return nil, ErrBadMagic
	}
	if v := binary.LittleEndian.Uint16(body[4:]); v != version {
		return nil, fmt.Errorf("%w: %d", ErrBadVersion, v)
	}
	count := int(binary.LittleEndian.Uint16(body[6:]))
	sections := make(map[uint8][]byte, count)
	p := body[8:]
	for s := 0; s < count; s++ {
		if len(p) < 1+16 {
			return nil, errors.New("codec: truncated section header")
		}
		id := p[0]
		rawLen := binary.LittleEndian.Uint64(p[1:])
		compLen := binary.LittleEndian.Uint64(p[9:])
		p = p[17:]
		if uint64(len(p)) < compLen {
			return nil, errors.New("codec: truncated section payload")
		}
		raw, err := s2.Decode(nil, p[:compLen])
		if err != nil {
			return nil, fmt.Errorf("codec: section %d: %w", id, err)
		}
		if uint64(len(raw)) != rawLen {
			return nil, fmt.Errorf("codec: section %d: length mismatch", id)
		}
		sections[id] = raw
		p = p[compLen:]
	}

	meta := sections[secMeta]
	if len(meta) != 4*8 {
		return nil, errors.New("codec: bad meta section")
	}
	srcLen := binary.LittleEndian.Uint64(meta)
	ibLen := binary.LittleEndian.Uint64(meta[8:])
	bpLen := binary.LittleEndian.Uint64(meta[16:])
	nodes := binary.LittleEndian.Uint64(meta[24:])

	ibWords, err := bytesToWords(sections[secIBWords], ibLen)
	if err != nil {
		return nil, err
	}
	bpWords, err := bytesToWords(sections[secBPWords], bpLen)
	if err != nil {
		return nil, err
	}
	offsets, err := bytesToU32(sections[secOffsets], nodes)
	if err != nil {
		return nil, err
	}
	ends, err := bytesToU32(sections[secEnds], nodes)
	if err != nil {
		return nil, err
	}

	return json.NewFromParts(ibWords, int(ibLen), bpWords, int(bpLen), offsets, ends, int(srcLen), opts...)
}

func appendSection(buf []byte, id uint8, raw []byte) []byte {
	comp := s2.Encode(nil, raw)
	buf = append(buf, id)
	buf = binary.LittleEndian.AppendUint64(buf, uint64(len(raw)))
	buf = binary.LittleEndian.AppendUint64(buf, uint64(len(comp)))
	return append(buf, comp...)
}

func appendU64(b []byte, v uint64) []byte {
	return binary.LittleEndian.AppendUint64(b, v)
}

func wordsToBytes(words []uint64) []byte {
	out := make([]byte, len(words)*8)
	for i, w := range words {
		binary.LittleEndian.PutUint64(out[i*8:], w)
	}
	return out
}

func bytesToWords(b []byte, lengthBits uint64) ([]uint64, error) {
	if len(b)%8 != 0 {
		return nil, errors.New("codec: word section not 8-byte aligned")
	}
	words := make([]uint64, len(b)/8)
	for i := range words {
		words[i] = binary.LittleEndian.Uint64(b[i*8:])
	}
	if need := (lengthBits + 63) / 64; uint64(len(words)) < need {
		return nil, errors.New("codec: word section shorter than bit length")
	}
	return words, nil
}

func u32ToBytes(vals []uint32) []byte {
	out := make([]byte, len(vals)*4)
	for i, v := range vals {
		binary.LittleEndian.PutUint32(out[i*4:], v)
	}
	return out
}

func bytesToU32(b []byte, count uint64) ([]uint32, error) {
	if len(b)%4 != 0 || uint64(len(b)/4) != count {
		return nil, errors.New("codec: offset table length mismatch")
	}
	vals := make([]uint32, count)
	for i := range vals {
		vals[i] = binary.LittleEndian.Uint32(b[i*4:])
	}
	return vals, nil
}
