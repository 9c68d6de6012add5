package bootloader

import (
	"encoding/binary"

	"rtoskimg/firmware"
	"rtoskimg/kimg"
)

const stackPages = 8
const bootInfoPages = 1

// PrepareStackAndBootInfo implements spec §4.3 step 8: allocate 8 pages of
// stack (stack top = base + 8*page_size) and 1 zero-filled page for
// BootInfo.
func PrepareStackAndBootInfo(mem Memory, pa firmware.PageAllocator) (stackTop uint64, bootInfoAddr uint64, err error) {
	stackBase, err := pa.AllocatePages(firmware.AllocateAnyPages, firmware.MemoryLoaderData, 0, stackPages)
	if err != nil {
		return 0, 0, kimg.WrapError(kimg.ErrIO, "allocate stack pages", err)
	}
	stackTop = stackBase + stackPages*pageSize

	biAddr, err := pa.AllocatePages(firmware.AllocateAnyPages, firmware.MemoryLoaderData, 0, bootInfoPages)
	if err != nil {
		return 0, 0, kimg.WrapError(kimg.ErrIO, "allocate boot-info page", err)
	}
	mem.Zero(biAddr, bootInfoPages*pageSize)

	return stackTop, biAddr, nil
}

// WriteFramebufferInfo serializes fb into the first kimg.FramebufferInfoSize
// bytes of the BootInfo page at bootInfoAddr (spec §3.4, §6.5: "the first
// 32 bytes are the framebuffer descriptor ... remaining bytes are zero and
// reserved").
func WriteFramebufferInfo(mem Memory, bootInfoAddr uint64, fb kimg.FramebufferInfo) error {
	var buf [kimg.FramebufferInfoSize]byte
	w := sliceWriter{buf: buf[:0]}
	if err := binary.Write(&w, binary.LittleEndian, &fb); err != nil {
		return kimg.WrapError(kimg.ErrIO, "encode framebuffer info", err)
	}
	mem.Write(bootInfoAddr, w.buf)
	return nil
}

// sliceWriter is a minimal io.Writer over a fixed backing array, avoiding
// a heap-allocating bytes.Buffer for a write that happens on firmware's
// no-heap-yet side of ExitBootServices in the real target; here it is
// just a convenience for a single binary.Write call.
type sliceWriter struct {
	buf []byte
}

func (w *sliceWriter) Write(p []byte) (int, error) {
	w.buf = append(w.buf, p...)
	return len(p), nil
}
