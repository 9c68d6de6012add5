package packer

import "rtoskimg/kimg"

// minShdrFallbackBytes is the "stripped/test image" heuristic from spec
// §4.2 step 2: PT_LOAD packing yielding fewer than this many total bytes
// falls back to section-header packing.
const minShdrFallbackBytes = 64

// Pack transforms input (a flat binary or ELF64 payload) into a complete
// KIMG image, following the recognition chain, entry-selection priority,
// and layout algorithm of spec §4.2.
func Pack(input []byte, opts Options) ([]byte, error) {
	pageSize := opts.PageSize
	if pageSize == 0 {
		pageSize = kimg.DefaultPageSize
	}

	var (
		segs                []RawSegment
		elfEntry            uint64
		firstAllocSectionVA uint64
	)

	if f, ok := parseELF(input); ok {
		defer f.Close()
		elfEntry = f.Entry
		firstAllocSectionVA = firstAllocSectionVA(f)

		segs = ptLoadSegments(f, input)
		if totalBytes(segs) < minShdrFallbackBytes {
			segs = shdrSegments(f, input)
		}
	}

	entry := opts.EntryOverride
	if entry == 0 {
		entry = elfEntry
	}
	if entry == 0 {
		entry = firstAllocSectionVA
	}
	if entry == 0 {
		entry = kimg.DefaultEntryVA
	}

	if len(segs) == 0 {
		// Not ELF, or ELF produced no usable segments even after the
		// SHDR fallback: pack the raw bytes as one executable segment at
		// the entry VA (spec §4.2 step 3).
		segs = []RawSegment{{
			MemoryAddr: entry,
			MemorySize: uint64(len(input)),
			Data:       input,
			Exec:       true,
		}}
	}

	compressed := make([]RawSegment, len(segs))
	for i, s := range segs {
		data, err := kimg.Compress(opts.Compress, s.Data)
		if err != nil {
			return nil, err
		}
		compressed[i] = RawSegment{MemoryAddr: s.MemoryAddr, MemorySize: s.MemorySize, Data: data, Exec: s.Exec}
	}

	return Layout(entry, pageSize, compressed, opts.Compress)
}
