// Package bootloader implements the firmware-resident load-and-map
// pipeline (spec §4.3): locate and read the kernel file, parse the KIMG
// header and segments, allocate and populate memory at fixed addresses,
// select a display mode, and hand off to the kernel entry point. It never
// talks to real UEFI directly — every firmware interaction goes through
// the contracts in package firmware, so the pipeline is exercised in
// tests against in-memory fakes.
package bootloader

import (
	"log"

	"rtoskimg/firmware"
	"rtoskimg/handoff"
	"rtoskimg/kimg"
)

// Config parameterizes a single Boot call.
type Config struct {
	Ratio AspectRatio
}

// Boot drives the full load-parse-map-handoff pipeline (spec §4.3). On
// success it calls tramp.Jump, which does not return. On any failure it
// returns a descriptive error instead of calling Jump; the real binding
// logs "BL: ERROR <step>" lines over serial and converts the error to a
// firmware status (spec §7).
//
// Steps 1-2 of spec §4.3 (open the loaded-image protocol, open the simple
// filesystem) are a firmware-handshake concern outside THE CORE (spec §1
// OUT-OF-SCOPE); this pipeline begins at step 3 with bs.FileSystem already
// usable.
func Boot(bs firmware.BootServices, mem Memory, cfg Config, tramp handoff.Trampoline) error {
	f, err := openKernelFile(bs)
	if err != nil {
		log.Printf("BL: ERROR open-kernel-file: %v", err)
		return err
	}
	defer f.Close()

	size, err := f.Size()
	if err != nil {
		log.Printf("BL: ERROR stat-kernel-file: %v", err)
		return kimg.WrapError(kimg.ErrIO, "stat kernel file", err)
	}
	pages := (size + pageSize - 1) / pageSize
	bufAddr, err := bs.AllocatePages(firmware.AllocateAnyPages, firmware.MemoryLoaderData, 0, pages)
	if err != nil {
		log.Printf("BL: ERROR allocate-image-buffer: %v", err)
		return kimg.WrapError(kimg.ErrIO, "allocate kernel image buffer", err)
	}

	raw, err := readWholeFile(f, size)
	if err != nil {
		log.Printf("BL: ERROR read-kernel-file: %v", err)
		return err
	}
	mem.Write(bufAddr, raw)
	image := mem.Slice(bufAddr, uint64(size))

	offset, found := kimg.FindMagic(image)
	if !found {
		log.Printf("BL: ERROR magic-not-found")
		return kimg.NewError(kimg.ErrMalformedImage, "KIMG magic not found in kernel file")
	}
	image = image[offset:]

	header, segs, _, _, err := kimg.ParseHeaderAndSegments(image)
	if err != nil {
		log.Printf("BL: ERROR parse-header-and-segments: %v", err)
		return err
	}
	// DESIGN.md "CRC verification timing": verify before any page is
	// mapped, not merely at pack time.
	if err := kimg.VerifyImageCRC32(image, header); err != nil {
		log.Printf("BL: ERROR crc-mismatch: %v", err)
		return err
	}

	stackTop, bootInfoAddr, err := PrepareStackAndBootInfo(mem, bs)
	if err != nil {
		log.Printf("BL: ERROR prepare-stack-and-bootinfo: %v", err)
		return err
	}

	if err := MapSegments(mem, bs, image, segs); err != nil {
		log.Printf("BL: ERROR map-segments: %v", err)
		return err
	}

	if err := bs.FreePages(bufAddr, pages); err != nil {
		log.Printf("BL: ERROR free-image-buffer: %v", err)
		return err
	}

	gop, err := bs.Graphics()
	if err != nil {
		log.Printf("BL: ERROR graphics-protocol: %v", err)
		return err
	}
	fbInfo, err := SelectGraphicsMode(gop, cfg.Ratio)
	if err != nil {
		log.Printf("BL: ERROR select-graphics-mode: %v", err)
		return err
	}
	if err := WriteFramebufferInfo(mem, bootInfoAddr, fbInfo); err != nil {
		log.Printf("BL: ERROR write-framebuffer-info: %v", err)
		return err
	}

	if header.Entry64 == 0 {
		log.Printf("BL: ERROR entry-zero")
		return kimg.NewError(kimg.ErrPolicy, "entry64 is zero")
	}

	if err := bs.ExitBootServices(); err != nil {
		log.Printf("BL: ERROR exit-boot-services: %v", err)
		return kimg.WrapError(kimg.ErrIO, "exit boot services", err)
	}

	tramp.Jump(header.Entry64, stackTop, bootInfoAddr)
	return nil
}
