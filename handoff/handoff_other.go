//go:build !amd64

package handoff

// nativeTrampoline on non-amd64 hosts: the spec targets x86_64 only
// (spec §1 "UEFI x86_64 boot chain"); this stub keeps this package, and
// package bootloader which imports it, buildable on other architectures.
// Jump panics if it is called.
type nativeTrampoline struct{}

func (nativeTrampoline) Jump(entry, stackTop, bootInfoAddr uint64) {
	panic("handoff: no trampoline implementation for this architecture")
}
