package packer

import (
	"bytes"
	"encoding/binary"

	"rtoskimg/kimg"
)

const segmentAlign = 16

func alignTo(v, a uint64) uint64 {
	return (v + a - 1) / a * a
}

func flagsFor(s RawSegment, compress kimg.CompressionFormat) uint32 {
	var flags uint32
	if s.Exec {
		flags |= kimg.SegFlagExec
	}
	return kimg.FlagsWithCompression(flags, compress)
}

// Layout assigns 16-byte-aligned file offsets to each segment (spec §4.2
// layout algorithm), writes header + segment table + payload bytes into a
// single buffer, and patches image_crc32 in place once the buffer is
// complete. segs' Data is taken to already be in its final (possibly
// compressed) on-disk form.
func Layout(entry uint64, pageSize uint32, segs []RawSegment, compress kimg.CompressionFormat) ([]byte, error) {
	if pageSize < kimg.MinPageSize {
		pageSize = kimg.MinPageSize
	}
	headerLen := kimg.HeaderSize + len(segs)*kimg.SegmentSize

	kimgSegs := make([]kimg.Segment, len(segs))
	var payload []byte
	written := uint64(0)
	for i, s := range segs {
		cursor := alignTo(uint64(headerLen)+written, segmentAlign)
		if pad := cursor - uint64(headerLen) - written; pad > 0 {
			payload = append(payload, make([]byte, pad)...)
			written += pad
		}
		kimgSegs[i] = kimg.Segment{
			FileOffset: cursor,
			MemoryAddr: s.MemoryAddr,
			MemorySize: s.MemorySize,
			FileSize:   uint64(len(s.Data)),
			Flags:      flagsFor(s, compress),
		}
		payload = append(payload, s.Data...)
		written += uint64(len(s.Data))
	}

	h := kimg.Header{
		VerMajor:  kimg.VerMajor,
		VerMinor:  kimg.VerMinor,
		HeaderLen: uint32(headerLen),
		Entry64:   entry,
		PageSize:  pageSize,
		SegCount:  uint32(len(segs)),
	}
	copy(h.Magic[:], kimg.Magic)

	var buf bytes.Buffer
	if err := binary.Write(&buf, binary.LittleEndian, &h); err != nil {
		return nil, err
	}
	for i := range kimgSegs {
		if err := binary.Write(&buf, binary.LittleEndian, &kimgSegs[i]); err != nil {
			return nil, err
		}
	}
	buf.Write(payload)

	final := buf.Bytes()
	h.ImageCRC32 = kimg.ComputeImageCRC32(final)

	var headerBuf bytes.Buffer
	if err := binary.Write(&headerBuf, binary.LittleEndian, &h); err != nil {
		return nil, err
	}
	copy(final[:kimg.HeaderSize], headerBuf.Bytes())

	return final, nil
}
