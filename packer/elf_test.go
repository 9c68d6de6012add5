package packer

import (
	"bytes"
	"testing"
)

func TestExtractPTLoadSegmentsRoundTrip(t *testing.T) {
	code := bytes.Repeat([]byte{0x90}, 16)
	data := []byte{1, 2, 3, 4}
	elfBytes := buildELF64(0x200000, []fixtureProg{
		{vaddr: 0x200000, exec: true, data: code},
		{vaddr: 0x201000, exec: false, data: data, memsize: 0x2000},
	})

	segs, entry, ok := ExtractPTLoadSegments(elfBytes)
	if !ok {
		t.Fatalf("ExtractPTLoadSegments: not recognized as ELF64")
	}
	if entry != 0x200000 {
		t.Fatalf("entry = %#x, want 0x200000", entry)
	}
	if len(segs) != 2 {
		t.Fatalf("got %d segments, want 2", len(segs))
	}
	if segs[0].MemoryAddr != 0x200000 || !segs[0].Exec || segs[0].MemorySize != uint64(len(code)) {
		t.Errorf("code segment mismatch: %+v", segs[0])
	}
	if segs[1].MemoryAddr != 0x201000 || segs[1].Exec || segs[1].MemorySize != 0x2000 {
		t.Errorf("data segment mismatch: %+v", segs[1])
	}
	if !bytes.Equal(segs[0].Data, code) || !bytes.Equal(segs[1].Data, data) {
		t.Errorf("segment payload bytes mismatch")
	}
}

func TestExtractPTLoadSegmentsNotELF(t *testing.T) {
	_, _, ok := ExtractPTLoadSegments([]byte{0, 1, 2, 3, 4, 5, 6, 7})
	if ok {
		t.Fatalf("expected non-ELF input to be rejected")
	}
}
