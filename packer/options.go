package packer

import "rtoskimg/kimg"

// Options configures a single Pack call. The zero value packs a raw or
// ELF input with no entry/page-size override and no segment compression.
type Options struct {
	// EntryOverride, if non-zero, wins the entry-address priority chain
	// unconditionally (spec §4.2).
	EntryOverride uint64
	// PageSize is the suggested paging granule written to the header. 0
	// means kimg.DefaultPageSize.
	PageSize uint32
	// Compress names the codec applied to every generated segment's
	// payload bytes (SPEC_FULL.md §3.5). CompressNone packs uncompressed,
	// byte-identical to the base algorithm.
	Compress kimg.CompressionFormat
}
