package bootloader

import "unsafe"

// Memory abstracts writes to firmware-identity-mapped physical addresses
// (spec §9 "policy rationale: allocating at fixed addresses ... firmware
// identity maps what it allocates"). Factoring this out of MapSegments and
// PrepareStackAndBootInfo is what lets the rest of the pipeline be
// exercised against in-memory fakes in tests without ever dereferencing an
// arbitrary address.
type Memory interface {
	Write(addr uint64, data []byte)
	Zero(addr uint64, n uint64)
	Slice(addr uint64, n uint64) []byte
}

// DirectMemory is the real implementation used outside of tests: addr
// must be an address firmware has just handed back from AllocatePages.
var DirectMemory Memory = directMemory{}

type directMemory struct{}

func (directMemory) Write(addr uint64, data []byte) {
	copy(unsafeBytesAt(addr, uint64(len(data))), data)
}

func (directMemory) Zero(addr uint64, n uint64) {
	clear(unsafeBytesAt(addr, n))
}

func (directMemory) Slice(addr uint64, n uint64) []byte {
	return unsafeBytesAt(addr, n)
}

func unsafeBytesAt(addr uint64, size uint64) []byte {
	return unsafe.Slice((*byte)(unsafe.Pointer(uintptr(addr))), size)
}
