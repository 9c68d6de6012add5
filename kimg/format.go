// Package kimg defines the RTOSK kernel image container format: a fixed
// layout header, a segment descriptor table, and the executable/
// compression flag bits carried in each segment.
package kimg

import "unsafe"

const (
	// Magic is the literal 5-byte signature at the start of a well-formed
	// image. The loader tolerates leading padding (see FindMagic) but the
	// packer always emits it at offset 0.
	Magic = "RTOSK"

	VerMajor = 1
	VerMinor = 0

	// DefaultEntryVA is used by the packer when no other entry address
	// can be determined.
	DefaultEntryVA uint64 = 0x200000

	// DefaultPageSize is the packer's default suggested paging granule.
	DefaultPageSize uint32 = 4096

	// MinPageSize is the floor every page_size value is clamped to.
	MinPageSize uint32 = 4096
)

// HeaderSize is the on-disk size of Header in bytes (5+2+2+4+8+4+4+4+4).
const HeaderSize = 37

// SegmentSize is the on-disk size of Segment in bytes.
const SegmentSize = 36

// Header is the fixed-layout KIMG header (spec §3.1). Field order and
// widths are load-bearing: Header is read and written with encoding/binary
// field-by-field, not via Go's in-memory layout, so no padding is implied
// between Magic and VerMajor.
type Header struct {
	Magic      [5]byte
	VerMajor   uint16
	VerMinor   uint16
	HeaderLen  uint32
	Entry64    uint64
	PageSize   uint32
	SegCount   uint32
	ImageCRC32 uint32
	Flags      uint32
}

// SegmentFlag bits. Bit 0 is defined by spec §3.2; bits 1-3 are an
// extension (SPEC_FULL.md §3.5) naming a per-segment compression format
// for the segment's file-backed bytes.
const (
	SegFlagExec          uint32 = 1 << 0
	segCompressShift            = 1
	segCompressMask      uint32 = 0x7 << segCompressShift
)

// Segment is the fixed-layout KIMG segment descriptor (spec §3.2).
type Segment struct {
	FileOffset uint64
	MemoryAddr uint64
	MemorySize uint64
	FileSize   uint64
	Flags      uint32
}

// Executable reports whether bit 0 of Flags is set.
func (s Segment) Executable() bool {
	return s.Flags&SegFlagExec != 0
}

// Compression extracts the per-segment compression format from bits 1-3.
func (s Segment) Compression() CompressionFormat {
	return CompressionFormat((s.Flags & segCompressMask) >> segCompressShift)
}

// FlagsWithCompression returns a copy of the flags word with bits 1-3 set to
// encode c, leaving bit 0 (and any bits above 3) untouched.
func FlagsWithCompression(flags uint32, c CompressionFormat) uint32 {
	return (flags &^ segCompressMask) | (uint32(c)<<segCompressShift)&segCompressMask
}

// FramebufferFormat enumerates the pixel layouts a graphics mode may
// report (spec §3.3).
type FramebufferFormat uint32

const (
	FramebufferBGR FramebufferFormat = iota
	FramebufferRGB
	FramebufferBLTOnly
)

func (f FramebufferFormat) String() string {
	switch f {
	case FramebufferBGR:
		return "bgr"
	case FramebufferRGB:
		return "rgb"
	case FramebufferBLTOnly:
		return "blt-only"
	default:
		return "unknown"
	}
}

// FramebufferInfo is the boot-info framebuffer descriptor (spec §3.3).
// Its size is fixed at 32 bytes; FramebufferInfoSize below is the
// compile-time assertion of that invariant.
type FramebufferInfo struct {
	Base   uint64
	Size   uint64
	Width  uint32
	Height uint32
	Stride uint32
	Format FramebufferFormat
}

const FramebufferInfoSize = 32

// compile-time assertion: FramebufferInfo's binary-wire size must be
// exactly 32 bytes. This fails to build if a field is added, removed, or
// widened without updating FramebufferInfoSize.
var _ [FramebufferInfoSize]byte = [unsafe.Sizeof(FramebufferInfo{})]byte{}
