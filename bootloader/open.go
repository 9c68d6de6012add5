package bootloader

import (
	"io"

	"rtoskimg/firmware"
	"rtoskimg/kimg"
)

// kernelPaths is the ordered list from spec §4.3 step 3 / §6.4: try the
// absolute ESP path first, fall back to a bare relative name.
var kernelPaths = []string{`\EFI\BOOT\KERNEL.KIMG`, `KERNEL.KIMG`}

// openKernelFile opens the kernel image via fs, trying kernelPaths in
// order and returning the first success.
func openKernelFile(fs firmware.FileSystem) (firmware.File, error) {
	f, err := fs.Open(kernelPaths...)
	if err != nil {
		return nil, kimg.WrapError(kimg.ErrIO, "open kernel file", err)
	}
	return f, nil
}

// readWholeFile implements spec §4.3 step 5: a partial-read loop that
// terminates on EOF, treating a zero-byte read before the expected length
// as an error.
func readWholeFile(f firmware.File, size uint64) ([]byte, error) {
	buf := make([]byte, size)
	var read uint64
	for read < size {
		n, err := f.Read(buf[read:])
		read += uint64(n)
		if err != nil {
			if err == io.EOF {
				if read < size {
					return nil, kimg.NewError(kimg.ErrIO, "unexpected EOF reading kernel file")
				}
				break
			}
			return nil, kimg.WrapError(kimg.ErrIO, "read kernel file", err)
		}
		if n == 0 && read < size {
			return nil, kimg.NewError(kimg.ErrIO, "zero-byte read before expected length")
		}
	}
	return buf, nil
}
