package packer

import (
	"bytes"
	"debug/elf"
)

// RawSegment is an in-memory segment candidate produced by ELF extraction
// or the raw-bytes fallback, before layout assigns file offsets.
type RawSegment struct {
	MemoryAddr uint64
	MemorySize uint64
	Data       []byte
	Exec       bool
}

func parseELF(data []byte) (*elf.File, bool) {
	f, err := elf.NewFile(bytes.NewReader(data))
	if err != nil {
		return nil, false
	}
	if f.Class != elf.ELFCLASS64 || f.Data != elf.ELFDATA2LSB {
		f.Close()
		return nil, false
	}
	return f, true
}

func readProgBytes(data []byte, p *elf.Prog) []byte {
	start, end := p.Off, p.Off+p.Filesz
	if start > uint64(len(data)) {
		start = uint64(len(data))
	}
	if end > uint64(len(data)) {
		end = uint64(len(data))
	}
	return data[start:end]
}

func ptLoadSegments(f *elf.File, data []byte) []RawSegment {
	var segs []RawSegment
	for _, p := range f.Progs {
		if p.Type != elf.PT_LOAD || p.Memsz == 0 {
			continue
		}
		segs = append(segs, RawSegment{
			MemoryAddr: p.Vaddr,
			MemorySize: p.Memsz,
			Data:       readProgBytes(data, p),
			Exec:       p.Flags&elf.PF_X != 0,
		})
	}
	return segs
}

func readSectionBytes(data []byte, s *elf.Section) []byte {
	start, end := s.Offset, s.Offset+s.Size
	if start > uint64(len(data)) {
		start = uint64(len(data))
	}
	if end > uint64(len(data)) {
		end = uint64(len(data))
	}
	return data[start:end]
}

// shdrSegments implements the §4.2 step-2 fallback: every allocatable
// SHT_PROGBITS section becomes a segment, in the order it appears in the
// section table.
func shdrSegments(f *elf.File, data []byte) []RawSegment {
	var segs []RawSegment
	for _, s := range f.Sections {
		if s.Type != elf.SHT_PROGBITS || s.Flags&elf.SHF_ALLOC == 0 {
			continue
		}
		segs = append(segs, RawSegment{
			MemoryAddr: s.Addr,
			MemorySize: s.Size,
			Data:       readSectionBytes(data, s),
			Exec:       s.Flags&elf.SHF_EXECINSTR != 0,
		})
	}
	return segs
}

// firstAllocSectionVA returns the address of the first allocatable
// section with a non-zero address, or 0 if none exists. Used as the third entry-address candidate
// in the priority chain (spec §4.2).
func firstAllocSectionVA(f *elf.File) uint64 {
	for _, s := range f.Sections {
		if s.Flags&elf.SHF_ALLOC != 0 && s.Addr != 0 {
			return s.Addr
		}
	}
	return 0
}

// ExtractPTLoadSegments is the direct PT_LOAD extraction path, exposed for
// the round-trip testable property in spec §8 ("for an ELF input E, every
// PT_LOAD with non-zero p_memsz appears as a segment in pack(E)"). ok is
// false if data is not a 64-bit little-endian ELF.
func ExtractPTLoadSegments(data []byte) (segs []RawSegment, entry uint64, ok bool) {
	f, ok := parseELF(data)
	if !ok {
		return nil, 0, false
	}
	defer f.Close()
	return ptLoadSegments(f, data), f.Entry, true
}

func totalBytes(segs []RawSegment) int {
	n := 0
	for _, s := range segs {
		n += len(s.Data)
	}
	return n
}
