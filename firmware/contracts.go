// Package firmware declares the UEFI boot-services surface the bootloader
// consumes, as Go interfaces only (spec §1 "external collaborators,
// contracts only"). Nothing in this package talks to real firmware; a
// concrete UEFI binding lives outside this module's scope, and tests
// supply in-memory fakes. The interface-per-service shape mirrors the
// retrieval pack's hv.VirtualMachine abstraction for virtualized boot.
package firmware

import "io"

// MemoryType mirrors the subset of UEFI EFI_MEMORY_TYPE values the loader
// cares about (spec §4.3.1).
type MemoryType int

const (
	MemoryLoaderCode MemoryType = iota
	MemoryLoaderData
)

// AllocateType selects how PageAllocator interprets its address argument.
type AllocateType int

const (
	// AllocateAnyPages lets firmware choose the physical address.
	AllocateAnyPages AllocateType = iota
	// AllocateAtAddress requests pages starting exactly at the given
	// physical address, failing if firmware cannot honor it.
	AllocateAtAddress
)

// File is the minimal read/close/size surface of an opened UEFI file,
// standing in for EFI_FILE_PROTOCOL.
type File interface {
	io.ReadCloser
	Size() (uint64, error)
}

// FileSystem stands in for EFI_SIMPLE_FILE_SYSTEM_PROTOCOL plus the root
// directory it opens.
type FileSystem interface {
	// Open tries each path in order (spec §6.4) and returns the first
	// that succeeds.
	Open(paths ...string) (File, error)
}

// PageAllocator stands in for EFI_BOOT_SERVICES.AllocatePages.
type PageAllocator interface {
	// AllocatePages requests count contiguous 4 KiB pages of memType. For
	// AllocateAtAddress, at is the required physical base address and the
	// call fails if firmware cannot honor it exactly (spec §4.3.1 "If
	// firmware refuses or returns a different address, fail").
	AllocatePages(kind AllocateType, memType MemoryType, at uint64, count uint64) (uint64, error)
	// FreePages releases pages previously returned by AllocatePages.
	FreePages(at uint64, count uint64) error
}

// Mode describes one graphics mode as enumerated by GraphicsOutputProtocol
// (spec §4.3.2).
type Mode struct {
	Width, Height uint32
	Format        PixelFormat
}

// PixelFormat enumerates UEFI's pixel-format reporting, collapsed to the
// three buckets the core distinguishes (spec §4.3.2 step 6).
type PixelFormat int

const (
	PixelFormatRGB PixelFormat = iota
	PixelFormatBGR
	PixelFormatBLTOnly
)

// FrameBufferDescriptor is what SetMode/CurrentMode report back once a
// mode is active: the linear base, its byte size, and the per-scanline
// pixel stride.
type FrameBufferDescriptor struct {
	Base   uint64
	Size   uint64
	Width  uint32
	Height uint32
	Stride uint32
	Format PixelFormat
}

// GraphicsOutputProtocol stands in for EFI_GRAPHICS_OUTPUT_PROTOCOL.
type GraphicsOutputProtocol interface {
	Modes() []Mode
	CurrentMode() (int, FrameBufferDescriptor, error)
	SetMode(index int) (FrameBufferDescriptor, error)
}

// BootServices composes the contracts the bootloader pipeline needs plus
// the one-shot handoff call.
type BootServices interface {
	FileSystem
	PageAllocator
	Graphics() (GraphicsOutputProtocol, error)
	// ExitBootServices is called exactly once, immediately before the
	// trampoline (spec §6.4).
	ExitBootServices() error
}
