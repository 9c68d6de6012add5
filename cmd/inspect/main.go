// Command inspect prints the header and segment table of a KIMG image and
// flags conditions the loader itself does not treat as fatal (spec §9
// "Entry VA inside segment": "The inspector flags this; the loader does
// not").
package main

import (
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/edsrzf/mmap-go"

	"rtoskimg/kimg"
)

func usage() {
	fmt.Fprintf(os.Stderr, "Usage: %s <kimg-file>\n", os.Args[0])
	os.Exit(1)
}

func main() {
	if len(os.Args) < 2 {
		usage()
	}

	fd, err := os.Open(os.Args[1])
	if err != nil {
		fmt.Fprintf(os.Stderr, "inspect: open %s: %v\n", os.Args[1], err)
		os.Exit(1)
	}
	defer fd.Close()

	raw, err := mmap.Map(fd, mmap.RDONLY, 0)
	if err != nil {
		fmt.Fprintf(os.Stderr, "inspect: mmap %s: %v\n", os.Args[1], err)
		os.Exit(1)
	}
	defer raw.Unmap()

	offset, found := kimg.FindMagic(raw)
	if !found {
		fmt.Fprintln(os.Stderr, "inspect: no KIMG magic found")
		os.Exit(1)
	}
	image := raw[offset:]
	if offset > 0 {
		fmt.Printf("magic found at offset %s\n", humanize.Bytes(uint64(offset)))
	}

	header, segs, _, _, err := kimg.ParseHeaderAndSegments(image)
	if err != nil {
		fmt.Fprintf(os.Stderr, "inspect: %v\n", err)
		os.Exit(1)
	}

	crcErr := kimg.VerifyImageCRC32(image, header)

	fmt.Printf("version:     %d.%d\n", header.VerMajor, header.VerMinor)
	fmt.Printf("entry:       %#x\n", header.Entry64)
	fmt.Printf("page_size:   %s\n", humanize.Bytes(uint64(header.PageSize)))
	fmt.Printf("segments:    %d\n", header.SegCount)
	fmt.Printf("image_crc32: %#08x", header.ImageCRC32)
	if crcErr != nil {
		fmt.Printf(" (MISMATCH: %v)", crcErr)
	} else {
		fmt.Printf(" (ok)")
	}
	fmt.Println()

	entryInSegment := false
	for i, s := range segs {
		inRange := header.Entry64 >= s.MemoryAddr && header.Entry64 < s.MemoryAddr+s.MemorySize
		if inRange {
			entryInSegment = true
		}
		fmt.Printf("  [%d] addr=%#x size=%s file_size=%s exec=%v compress=%s entry_inside=%v\n",
			i, s.MemoryAddr, humanize.Bytes(s.MemorySize), humanize.Bytes(s.FileSize),
			s.Executable(), s.Compression(), inRange)
	}
	if !entryInSegment {
		fmt.Fprintln(os.Stderr, "inspect: WARNING entry64 does not fall inside any segment (not fatal to the loader)")
	}
}
