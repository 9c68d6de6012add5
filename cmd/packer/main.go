// Command packer turns a flat binary or an ELF64 executable into a KIMG
// kernel image (spec §4.2, §6.1).
package main

import (
	"fmt"
	"os"
	"strconv"

	"rtoskimg/kimg"
	"rtoskimg/packer"
	"rtoskimg/platform"
)

func usage() {
	fmt.Fprintf(os.Stderr, `Usage: %s <input> <output> [entry_va] [page_size] [compress]

  <input>      flat binary or ELF64 executable
  <output>     path to write the packed KIMG image to
  [entry_va]   hex or decimal override for the entry address
  [page_size]  suggested paging granule, defaults to the host page size
  [compress]   one of: none, gzip, xz, lzma, lz4 (default none)
`, os.Args[0])
	os.Exit(1)
}

func main() {
	if len(os.Args) < 3 {
		usage()
	}
	inputPath, outputPath := os.Args[1], os.Args[2]

	opts := packer.Options{PageSize: platform.HostPageSize()}

	if len(os.Args) > 3 {
		v, err := strconv.ParseUint(os.Args[3], 0, 64)
		if err != nil {
			fmt.Fprintf(os.Stderr, "packer: invalid entry_va %q: %v\n", os.Args[3], err)
			os.Exit(1)
		}
		opts.EntryOverride = v
	}
	if len(os.Args) > 4 {
		v, err := strconv.ParseUint(os.Args[4], 0, 32)
		if err != nil {
			fmt.Fprintf(os.Stderr, "packer: invalid page_size %q: %v\n", os.Args[4], err)
			os.Exit(1)
		}
		opts.PageSize = uint32(v)
	}
	if len(os.Args) > 5 {
		format, err := kimg.ParseCompressionFormat(os.Args[5])
		if err != nil {
			fmt.Fprintf(os.Stderr, "packer: %v\n", err)
			os.Exit(1)
		}
		opts.Compress = format
	}

	input, err := os.ReadFile(inputPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "packer: read %s: %v\n", inputPath, err)
		os.Exit(1)
	}

	image, err := packer.Pack(input, opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "packer: %v\n", err)
		os.Exit(1)
	}

	if err := os.WriteFile(outputPath, image, 0644); err != nil {
		fmt.Fprintf(os.Stderr, "packer: write %s: %v\n", outputPath, err)
		os.Exit(1)
	}
}
