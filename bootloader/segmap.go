package bootloader

import (
	"log"

	"rtoskimg/firmware"
	"rtoskimg/kimg"
)

// MaxTrackedPages bounds the dedup array used while mapping segments
// (spec §4.3.1: "capacity ≥ 4096 pages"). The bootloader runs before
// ExitBootServices and has no heap, so this is a fixed-capacity array
// rather than a growable set (spec §9 "Fixed-capacity page tracker").
const MaxTrackedPages = 4096

const pageSize = 4096
const pageMask = ^uint64(pageSize - 1)

// pageTracker is the bounded linear set of physical pages already
// allocated in this mapping pass.
type pageTracker struct {
	pages [MaxTrackedPages]uint64
	count int
}

func (t *pageTracker) seen(addr uint64) bool {
	for i := 0; i < t.count; i++ {
		if t.pages[i] == addr {
			return true
		}
	}
	return false
}

// mark records addr as allocated. Overflow logs a warning but does not
// abort (spec §5 "Locking discipline"): a later duplicate allocation
// attempt by firmware will then fail and be treated as fatal by the
// caller, which is the intended failure mode.
func (t *pageTracker) mark(addr uint64) {
	if t.count >= MaxTrackedPages {
		log.Printf("BL: WARNING page tracker overflow, %d pages already tracked", t.count)
		return
	}
	t.pages[t.count] = addr
	t.count++
}

// MapSegments implements spec §4.3.1: for each segment, compute its
// covering page range, allocate any pages not yet seen in this pass at
// their exact physical address, copy file-backed bytes, and zero-fill any
// BSS tail.
func MapSegments(mem Memory, pa firmware.PageAllocator, image []byte, segs []kimg.Segment) error {
	var tracker pageTracker

	for _, s := range segs {
		end := s.FileOffset + s.FileSize
		if end > uint64(len(image)) {
			return kimg.NewError(kimg.ErrMalformedImage, "segment file range exceeds image length")
		}

		startPage := s.MemoryAddr & pageMask
		endPage := (s.MemoryAddr + s.MemorySize + pageSize - 1) & pageMask

		memType := firmware.MemoryLoaderData
		if s.Executable() {
			memType = firmware.MemoryLoaderCode
		}

		for page := startPage; page < endPage; page += pageSize {
			if tracker.seen(page) {
				continue
			}
			got, err := pa.AllocatePages(firmware.AllocateAtAddress, memType, page, 1)
			if err != nil {
				return kimg.WrapError(kimg.ErrIO, "allocate page for segment", err)
			}
			if got != page {
				return kimg.NewError(kimg.ErrPolicy, "firmware returned a different physical address than requested")
			}
			tracker.mark(page)
		}

		payload, err := kimg.Decompress(s.Compression(), image[s.FileOffset:end])
		if err != nil {
			return kimg.WrapError(kimg.ErrMalformedImage, "decompress segment payload", err)
		}
		if uint64(len(payload)) > s.MemorySize {
			return kimg.NewError(kimg.ErrMalformedImage, "decompressed segment payload exceeds memory_size")
		}

		mem.Write(s.MemoryAddr, payload)
		if s.MemorySize > uint64(len(payload)) {
			mem.Zero(s.MemoryAddr+uint64(len(payload)), s.MemorySize-uint64(len(payload)))
		}
	}
	return nil
}
