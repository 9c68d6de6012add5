package fb

import "unsafe"

// intToPointer converts a raw physical address into an unsafe.Pointer for
// atomic access. The kernel has no memory allocator managing this address;
// it is handed to us by firmware, identity-mapped (spec §4.4 Construction).
func intToPointer(addr uint64) unsafe.Pointer {
	return unsafe.Pointer(uintptr(addr))
}
