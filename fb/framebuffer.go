// Package fb implements the kernel-side framebuffer core: interpreting the
// boot-info descriptor, pixel packing for RGB/BGR/BLT-only formats,
// stride-respecting drawing primitives, alpha compositing, and a
// soft-validation probe. All writes go through sync/atomic stores rather
// than plain slice indexing: the destination is firmware-identity-mapped
// MMIO, and the kernel runs with no OS underneath to otherwise stop the
// compiler from eliding or reordering a store it thinks is dead.
package fb

import (
	"sync/atomic"

	"rtoskimg/kimg"
)

// Framebuffer is a handle to the linear pixel buffer described by the
// boot-info block (spec §4.4 "Construction"). Ptr is a raw address the
// kernel assumes firmware identity-mapped; Framebuffer never dereferences
// it through a Go pointer, only through atomic stores/loads at computed
// offsets, since the address space here is not one the Go runtime manages.
type Framebuffer struct {
	Ptr    uint64
	Width  uint32
	Height uint32
	Stride uint32
	Format kimg.FramebufferFormat
}

// FromBootInfo builds a Framebuffer from the descriptor the bootloader left
// in BootInfo (spec §3.4, §4.4).
func FromBootInfo(info kimg.FramebufferInfo) Framebuffer {
	return Framebuffer{
		Ptr:    info.Base,
		Width:  info.Width,
		Height: info.Height,
		Stride: info.Stride,
		Format: info.Format,
	}
}

// rowPtr computes the byte address of scanline y (spec §4.4 "Row
// addressing": stride is in pixels, 32 bits per pixel).
func (f Framebuffer) rowPtr(y uint32) uint64 {
	return f.Ptr + uint64(y)*uint64(f.Stride)*4
}

func (f Framebuffer) pixelAddr(x, y uint32) uint64 {
	return f.rowPtr(y) + uint64(x)*4
}

func storePixel(addr uint64, v uint32) {
	p := (*uint32)(intToPointer(addr))
	atomic.StoreUint32(p, v)
}

func loadPixel(addr uint64) uint32 {
	p := (*uint32)(intToPointer(addr))
	return atomic.LoadUint32(p)
}
