package kimg

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

// FindMagic linearly scans haystack for the KIMG magic, returning the byte
// offset of the first match. It tolerates leading firmware-loader padding
// ahead of a well-formed image (spec §4.1, §9 "Magic scan tolerance").
func FindMagic(haystack []byte) (int, bool) {
	return bytes.Index(haystack, []byte(Magic)), bytes.Contains(haystack, []byte(Magic))
}

// ParseHeader decodes a Header from the front of buf. It returns the
// number of bytes consumed (always HeaderSize on success) along with the
// decoded header.
func ParseHeader(buf []byte) (Header, int, error) {
	var h Header
	if len(buf) < HeaderSize {
		return h, 0, NewError(ErrMalformedImage, fmt.Sprintf("header truncated: have %d bytes, need %d", len(buf), HeaderSize))
	}
	r := bytes.NewReader(buf[:HeaderSize])
	if err := binary.Read(r, binary.LittleEndian, &h); err != nil {
		return h, 0, WrapError(ErrMalformedImage, "decode header", err)
	}
	if !bytes.Equal(h.Magic[:], []byte(Magic)) {
		return h, 0, NewError(ErrMalformedImage, fmt.Sprintf("bad magic %q", h.Magic[:]))
	}
	if h.Entry64 == 0 {
		return h, 0, NewError(ErrPolicy, "entry64 is zero")
	}
	return h, HeaderSize, nil
}

// ParseSegments decodes count Segment descriptors starting at buf[0]. For
// count=0 it returns an empty, non-nil slice. The descriptors are decoded
// into a newly allocated slice; it does not share storage with buf, so
// parsed Segments stay valid after buf is released.
func ParseSegments(buf []byte, count uint32) ([]Segment, int, error) {
	if count == 0 {
		return []Segment{}, 0, nil
	}
	total := uint64(count) * uint64(SegmentSize)
	if total > uint64(len(buf)) {
		return nil, 0, NewError(ErrMalformedImage, fmt.Sprintf("segment table overflow: need %d bytes, have %d", total, len(buf)))
	}
	segs := make([]Segment, count)
	r := bytes.NewReader(buf[:total])
	for i := range segs {
		if err := binary.Read(r, binary.LittleEndian, &segs[i]); err != nil {
			return nil, 0, WrapError(ErrMalformedImage, fmt.Sprintf("decode segment %d", i), err)
		}
		if segs[i].FileSize > segs[i].MemorySize {
			return nil, 0, NewError(ErrMalformedImage, fmt.Sprintf("segment %d: file_size %d exceeds memory_size %d", i, segs[i].FileSize, segs[i].MemorySize))
		}
	}
	return segs, int(total), nil
}

// ParseHeaderAndSegments chains ParseHeader and ParseSegments and additionally
// bounds-checks every segment's file range against the image. imageBytes
// is the full image starting at the magic offset (i.e. already trimmed of
// any leading firmware padding, see FindMagic).
func ParseHeaderAndSegments(imageBytes []byte) (Header, []Segment, int, int, error) {
	h, headerLen, err := ParseHeader(imageBytes)
	if err != nil {
		return h, nil, 0, 0, err
	}
	segs, segBytes, err := ParseSegments(imageBytes[headerLen:], h.SegCount)
	if err != nil {
		return h, nil, headerLen, 0, err
	}
	wantHeaderLen := uint32(headerLen) + uint32(segBytes)
	if h.HeaderLen != wantHeaderLen {
		return h, nil, headerLen, segBytes, NewError(ErrMalformedImage, fmt.Sprintf("header_len %d does not match computed %d", h.HeaderLen, wantHeaderLen))
	}
	for i, s := range segs {
		end := s.FileOffset + s.FileSize
		if end < s.FileOffset || end > uint64(len(imageBytes)) {
			return h, nil, headerLen, segBytes, NewError(ErrMalformedImage, fmt.Sprintf("segment %d: file range [%d,%d) out of bounds (image len %d)", i, s.FileOffset, end, len(imageBytes)))
		}
	}
	return h, segs, headerLen, segBytes, nil
}
