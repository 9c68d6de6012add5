package fb

import (
	"sync/atomic"

	"rtoskimg/kimg"
)

// isCanonical reports whether addr is a canonical x86_64 address: bits
// 63..48 must equal the sign extension of bit 47 (spec §4.4, GLOSSARY
// "Canonical address").
func isCanonical(addr uint64) bool {
	top := addr >> 47
	return top == 0 || top == 0x1FFFF
}

// ValidateFramebufferSoft runs the boot-time sanity probe (spec §4.4
// "Soft validation"): address canonicality, non-zero dimensions, 4-byte
// pointer alignment, row-stride sanity, and a read-back probe on the first
// and last visible pixel of row 0 that restores whatever it found. Any
// mismatch returns a kimg.ErrProbeFailure error (spec §7).
func (f Framebuffer) ValidateFramebufferSoft() error {
	if !isCanonical(f.Ptr) {
		return kimg.NewError(kimg.ErrProbeFailure, "framebuffer base address is not canonical")
	}
	if f.Width == 0 || f.Height == 0 {
		return kimg.NewError(kimg.ErrProbeFailure, "framebuffer has a zero dimension")
	}
	if f.Ptr%4 != 0 {
		return kimg.NewError(kimg.ErrProbeFailure, "framebuffer pointer is not 4-byte aligned")
	}
	if f.rowPtr(1)-f.rowPtr(0) != uint64(f.Stride)*4 {
		return kimg.NewError(kimg.ErrProbeFailure, "row stride does not match reported stride")
	}
	if f.Format == kimg.FramebufferBLTOnly {
		return nil
	}

	firstAddr := f.pixelAddr(0, 0)
	lastAddr := f.pixelAddr(f.Width-1, 0)

	if err := probePixel(firstAddr, 0xA5A5A5A5); err != nil {
		return err
	}
	if err := probePixel(lastAddr, 0x5A5A5A5A); err != nil {
		return err
	}
	return nil
}

// probePixel XORs addr's current value with pattern, writes it back, reads
// it again, confirms the XOR round-tripped, then restores the original
// value. atomic.Load/Store give the sequentially-consistent fence the spec
// calls for around each half of the probe (spec §5 "Ordering").
func probePixel(addr uint64, pattern uint32) error {
	p := (*uint32)(intToPointer(addr))
	original := atomic.LoadUint32(p)
	probed := original ^ pattern
	atomic.StoreUint32(p, probed)
	readBack := atomic.LoadUint32(p)
	atomic.StoreUint32(p, original)
	if readBack != probed {
		return kimg.NewError(kimg.ErrProbeFailure, "framebuffer read-back probe mismatch")
	}
	return nil
}
