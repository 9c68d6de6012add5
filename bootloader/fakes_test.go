package bootloader

import (
	"bytes"
	"errors"
	"io"

	"rtoskimg/firmware"
)

// fakeMemory backs "physical memory" with a plain byte slice indexed by
// address, so MapSegments/PrepareStackAndBootInfo/WriteFramebufferInfo can
// be exercised without ever dereferencing a real pointer.
type fakeMemory struct {
	buf []byte
}

func newFakeMemory(size uint64) *fakeMemory {
	return &fakeMemory{buf: make([]byte, size)}
}

func (m *fakeMemory) Write(addr uint64, data []byte) {
	copy(m.buf[addr:], data)
}

func (m *fakeMemory) Zero(addr uint64, n uint64) {
	clear(m.buf[addr : addr+n])
}

func (m *fakeMemory) Slice(addr uint64, n uint64) []byte {
	return m.buf[addr : addr+n]
}

// fakeFile is an in-memory firmware.File.
type fakeFile struct {
	r      *bytes.Reader
	size   uint64
	closed bool
	// shortReads, if set, caps every Read call to this many bytes
	// regardless of the caller's buffer, to exercise readWholeFile's
	// partial-read loop.
	shortReads int
}

func newFakeFile(data []byte) *fakeFile {
	return &fakeFile{r: bytes.NewReader(data), size: uint64(len(data))}
}

func (f *fakeFile) Read(p []byte) (int, error) {
	if f.shortReads > 0 && len(p) > f.shortReads {
		p = p[:f.shortReads]
	}
	return f.r.Read(p)
}

func (f *fakeFile) Close() error {
	f.closed = true
	return nil
}

func (f *fakeFile) Size() (uint64, error) {
	return f.size, nil
}

// fakeFileSystem serves a single named file under one accepted path, or
// fails with errNotFound otherwise.
type fakeFileSystem struct {
	acceptPath string
	data       []byte
	shortReads int
}

var errNotFound = errors.New("fake: file not found")

func (fs *fakeFileSystem) Open(paths ...string) (firmware.File, error) {
	for _, p := range paths {
		if p == fs.acceptPath {
			f := newFakeFile(fs.data)
			f.shortReads = fs.shortReads
			return f, nil
		}
	}
	return nil, errNotFound
}

// fakePageAllocator hands out pages from a bump pointer for AllocateAnyPages
// and simulates identity-mapped firmware for AllocateAtAddress, optionally
// rejecting a fixed set of addresses to exercise failure paths.
type fakePageAllocator struct {
	next    uint64
	denied  map[uint64]bool
	allocs  []uint64
	freed   []uint64
	failAt  bool
}

func newFakePageAllocator(base uint64) *fakePageAllocator {
	return &fakePageAllocator{next: base, denied: map[uint64]bool{}}
}

func (a *fakePageAllocator) AllocatePages(kind firmware.AllocateType, memType firmware.MemoryType, at uint64, count uint64) (uint64, error) {
	if kind == firmware.AllocateAtAddress {
		if a.failAt || a.denied[at] {
			return 0, errors.New("fake: firmware refused address")
		}
		a.allocs = append(a.allocs, at)
		return at, nil
	}
	addr := a.next
	a.next += count * pageSize
	a.allocs = append(a.allocs, addr)
	return addr, nil
}

func (a *fakePageAllocator) FreePages(at uint64, count uint64) error {
	a.freed = append(a.freed, at)
	return nil
}

// fakeGOP is an in-memory GraphicsOutputProtocol.
type fakeGOP struct {
	modes   []firmware.Mode
	current int
	descs   []firmware.FrameBufferDescriptor
}

func (g *fakeGOP) Modes() []firmware.Mode { return g.modes }

func (g *fakeGOP) CurrentMode() (int, firmware.FrameBufferDescriptor, error) {
	return g.current, g.descs[g.current], nil
}

func (g *fakeGOP) SetMode(index int) (firmware.FrameBufferDescriptor, error) {
	if index < 0 || index >= len(g.modes) {
		return firmware.FrameBufferDescriptor{}, errors.New("fake: mode index out of range")
	}
	g.current = index
	return g.descs[index], nil
}

// fakeBootServices composes the fakes above into a single
// firmware.BootServices for pipeline tests.
type fakeBootServices struct {
	*fakeFileSystem
	*fakePageAllocator
	gop         *fakeGOP
	gopErr      error
	exitErr     error
	exitCalled  bool
}

func (b *fakeBootServices) Graphics() (firmware.GraphicsOutputProtocol, error) {
	if b.gopErr != nil {
		return nil, b.gopErr
	}
	return b.gop, nil
}

func (b *fakeBootServices) ExitBootServices() error {
	b.exitCalled = true
	return b.exitErr
}

// fakeTrampoline records the Jump call instead of actually transferring
// control, so Boot's happy path can be asserted on in a hosted test.
type fakeTrampoline struct {
	called                            bool
	entry, stackTop, bootInfoAddr uint64
}

func (t *fakeTrampoline) Jump(entry, stackTop, bootInfoAddr uint64) {
	t.called = true
	t.entry, t.stackTop, t.bootInfoAddr = entry, stackTop, bootInfoAddr
}

var _ io.Closer = (*fakeFile)(nil)
