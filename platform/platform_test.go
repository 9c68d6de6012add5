package platform

import "testing"

func TestHostPageSizeIsAPowerOfTwoAtLeast4096(t *testing.T) {
	p := HostPageSize()
	if p < 4096 {
		t.Fatalf("HostPageSize = %d, want at least 4096", p)
	}
	if p&(p-1) != 0 {
		t.Fatalf("HostPageSize = %d, not a power of two", p)
	}
}
