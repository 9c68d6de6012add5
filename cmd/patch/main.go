// Command patch does an in-place hex search-and-replace on a KIMG image,
// adapted from the teacher's HexPatch but operating on the packed image
// file directly rather than an Android boot image.
package main

import (
	"encoding/hex"
	"fmt"
	"log"
	"os"

	"github.com/edsrzf/mmap-go"
)

func usage() {
	fmt.Fprintf(os.Stderr, "Usage: %s <file> <hexpattern1> <hexpattern2>\n", os.Args[0])
	os.Exit(1)
}

func main() {
	if len(os.Args) < 4 {
		usage()
	}
	if !hexPatch(os.Args[1], os.Args[2], os.Args[3]) {
		os.Exit(1)
	}
}

// hexPatch searches for the byte pattern "from" in file and overwrites
// every occurrence with "to" (which must be the same length) via a
// read-write mmap, mirroring the teacher's HexPatch.
func hexPatch(file, from, to string) bool {
	fd, err := os.OpenFile(file, os.O_RDWR, 0644)
	if err != nil {
		log.Fatalln(err)
	}
	defer fd.Close()

	fromB, err := hex.DecodeString(from)
	if err != nil {
		log.Fatalln(err)
	}
	toB, err := hex.DecodeString(to)
	if err != nil {
		log.Fatalln(err)
	}
	if len(fromB) != len(toB) {
		log.Fatalln("patch: hexpattern1 and hexpattern2 must have the same byte length")
	}
	if len(fromB) == 0 {
		log.Fatalln("patch: hexpattern1 must not be empty")
	}

	m, err := mmap.Map(fd, mmap.RDWR, 0)
	if err != nil {
		log.Fatalln(err)
	}
	defer m.Unmap()

	patched := false
	for i := 0; i+len(fromB) <= len(m); i++ {
		if fromB[0] != m[i] {
			continue
		}
		match := true
		for j := range fromB {
			if fromB[j] != m[i+j] {
				match = false
				break
			}
		}
		if match {
			copy(m[i:], toB)
			fmt.Fprintf(os.Stderr, "Patch @ %#08x [%s] -> [%s]\n", i, from, to)
			patched = true
		}
	}
	if err := m.Flush(); err != nil {
		log.Fatalln(err)
	}
	return patched
}
