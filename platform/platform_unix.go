//go:build !windows

package platform

import "golang.org/x/sys/unix"

// HostPageSize reports the running host's native page size, used by the
// host-side packer tool (cmd/packer) to pick a sane default when the
// caller does not specify one explicitly.
func HostPageSize() uint32 {
	return uint32(unix.Getpagesize())
}
