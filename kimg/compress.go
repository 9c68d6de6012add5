package kimg

import (
	"bytes"
	"compress/bzip2"
	"compress/gzip"
	"fmt"
	"io"

	"github.com/pierrec/lz4/v4"
	"github.com/ulikunitz/xz"
	"github.com/ulikunitz/xz/lzma"
)

// CompressionFormat names the codec a segment's file-backed bytes are
// stored under (SPEC_FULL.md §3.5). It occupies bits 1-3 of Segment.Flags,
// giving eight possible values; six are defined here (none plus five
// codecs) and two are reserved for future codecs.
type CompressionFormat uint32

const (
	CompressNone CompressionFormat = iota
	CompressGzip
	CompressBzip2
	CompressXz
	CompressLzma
	CompressLz4
)

func (c CompressionFormat) String() string {
	switch c {
	case CompressNone:
		return "none"
	case CompressGzip:
		return "gzip"
	case CompressBzip2:
		return "bzip2"
	case CompressXz:
		return "xz"
	case CompressLzma:
		return "lzma"
	case CompressLz4:
		return "lz4"
	default:
		return "reserved"
	}
}

// ParseCompressionFormat maps a CLI-friendly codec name to a
// CompressionFormat, for cmd/packer's optional [compress] argument.
func ParseCompressionFormat(name string) (CompressionFormat, error) {
	switch name {
	case "", "none":
		return CompressNone, nil
	case "gzip":
		return CompressGzip, nil
	case "bzip2":
		return CompressBzip2, nil
	case "xz":
		return CompressXz, nil
	case "lzma":
		return CompressLzma, nil
	case "lz4":
		return CompressLz4, nil
	default:
		return CompressNone, NewError(ErrUnsupported, fmt.Sprintf("unknown compression format %q", name))
	}
}

// Compress encodes data with the given format. CompressNone returns data
// unchanged.
func Compress(format CompressionFormat, data []byte) ([]byte, error) {
	if format == CompressNone {
		return data, nil
	}
	var buf bytes.Buffer
	var w io.WriteCloser
	var err error
	switch format {
	case CompressGzip:
		w = gzip.NewWriter(&buf)
	case CompressXz:
		w, err = xz.NewWriter(&buf)
	case CompressLzma:
		w, err = lzma.NewWriter(&buf)
	case CompressLz4:
		w = lz4.NewWriter(&buf)
	case CompressBzip2:
		return nil, NewError(ErrUnsupported, "bzip2 encoding is not supported, only decoding (stdlib compress/bzip2 is read-only)")
	default:
		return nil, NewError(ErrUnsupported, fmt.Sprintf("compression format %s", format))
	}
	if err != nil {
		return nil, WrapError(ErrIO, "create compressor", err)
	}
	if _, err := w.Write(data); err != nil {
		return nil, WrapError(ErrIO, "compress segment", err)
	}
	if err := w.Close(); err != nil {
		return nil, WrapError(ErrIO, "finalize compressor", err)
	}
	return buf.Bytes(), nil
}

// Decompress decodes data previously produced by Compress with the same
// format. CompressNone returns data unchanged.
func Decompress(format CompressionFormat, data []byte) ([]byte, error) {
	if format == CompressNone {
		return data, nil
	}
	var r io.Reader
	var err error
	switch format {
	case CompressGzip:
		gz, gzErr := gzip.NewReader(bytes.NewReader(data))
		err = gzErr
		if gzErr == nil {
			defer gz.Close()
			r = gz
		}
	case CompressBzip2:
		r = bzip2.NewReader(bytes.NewReader(data))
	case CompressXz:
		r, err = xz.NewReader(bytes.NewReader(data))
	case CompressLzma:
		r, err = lzma.NewReader(bytes.NewReader(data))
	case CompressLz4:
		r = lz4.NewReader(bytes.NewReader(data))
	default:
		return nil, NewError(ErrUnsupported, fmt.Sprintf("compression format %s", format))
	}
	if err != nil {
		return nil, WrapError(ErrIO, "create decompressor", err)
	}
	out, err := io.ReadAll(r)
	if err != nil {
		return nil, WrapError(ErrMalformedImage, "decompress segment", err)
	}
	return out, nil
}
