package packer

import (
	"bytes"
	"debug/elf"
	"encoding/binary"
)

// fixtureProg describes one PT_LOAD program header for buildELF64.
type fixtureProg struct {
	vaddr   uint64
	exec    bool
	data    []byte
	memsize uint64 // if 0, defaults to len(data)
}

// buildELF64 hand-assembles a minimal valid little-endian ELF64 executable
// with one PT_LOAD program header per prog, using debug/elf's own wire
// structs (Header64/Prog64) so the byte layout is exactly what the
// standard library parser expects.
func buildELF64(entry uint64, progs []fixtureProg) []byte {
	const ehdrSize = 64
	const phdrSize = 56
	phoff := uint64(ehdrSize)
	dataStart := phoff + uint64(len(progs))*phdrSize

	var buf bytes.Buffer
	buf.Write(make([]byte, dataStart))

	offsets := make([]uint64, len(progs))
	for i, p := range progs {
		offsets[i] = uint64(buf.Len())
		buf.Write(p.data)
	}

	var ident [16]byte
	ident[0], ident[1], ident[2], ident[3] = 0x7f, 'E', 'L', 'F'
	ident[4] = 2 // ELFCLASS64
	ident[5] = 1 // ELFDATA2LSB
	ident[6] = 1 // EV_CURRENT

	hdr := elf.Header64{
		Ident:     ident,
		Type:      2, // ET_EXEC
		Machine:   62, // EM_X86_64
		Version:   1,
		Entry:     entry,
		Phoff:     phoff,
		Shoff:     0,
		Ehsize:    ehdrSize,
		Phentsize: phdrSize,
		Phnum:     uint16(len(progs)),
		Shentsize: 0,
		Shnum:     0,
		Shstrndx:  0,
	}

	out := buf.Bytes()
	var hdrBuf bytes.Buffer
	binary.Write(&hdrBuf, binary.LittleEndian, &hdr)
	copy(out[:ehdrSize], hdrBuf.Bytes())

	for i, p := range progs {
		memsz := p.memsize
		if memsz == 0 {
			memsz = uint64(len(p.data))
		}
		flags := uint32(elf.PF_R)
		if p.exec {
			flags |= uint32(elf.PF_X)
		}
		ph := elf.Prog64{
			Type:   uint32(elf.PT_LOAD),
			Flags:  flags,
			Off:    offsets[i],
			Vaddr:  p.vaddr,
			Paddr:  p.vaddr,
			Filesz: uint64(len(p.data)),
			Memsz:  memsz,
			Align:  0x1000,
		}
		var phBuf bytes.Buffer
		binary.Write(&phBuf, binary.LittleEndian, &ph)
		copy(out[phoff+uint64(i)*phdrSize:], phBuf.Bytes())
	}

	return out
}
