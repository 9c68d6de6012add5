package bootloader

import (
	"testing"

	"rtoskimg/firmware"
	"rtoskimg/kimg"
)

func TestSelectGraphicsModeSetsBestMatch(t *testing.T) {
	gop := &fakeGOP{
		modes: []firmware.Mode{
			{Width: 800, Height: 600, Format: firmware.PixelFormatBGR},
			{Width: 1920, Height: 1080, Format: firmware.PixelFormatBGR},
		},
		current: 0,
		descs: []firmware.FrameBufferDescriptor{
			{Base: 0xA0000000, Size: 0x1D4C00, Width: 800, Height: 600, Stride: 800, Format: firmware.PixelFormatBGR},
			{Base: 0xB0000000, Size: 0x7E9000, Width: 1920, Height: 1080, Stride: 1920, Format: firmware.PixelFormatBGR},
		},
	}
	fb, err := SelectGraphicsMode(gop, Ratio16x9)
	if err != nil {
		t.Fatalf("SelectGraphicsMode: %v", err)
	}
	if fb.Width != 1920 || fb.Height != 1080 {
		t.Fatalf("expected the 16:9 mode to be selected, got %dx%d", fb.Width, fb.Height)
	}
	if fb.Base != 0xB0000000 {
		t.Errorf("base = %#x, want %#x", fb.Base, 0xB0000000)
	}
	if fb.Format != kimg.FramebufferBGR {
		t.Errorf("format = %v, want bgr", fb.Format)
	}
	if gop.current != 1 {
		t.Errorf("SetMode was not called with the winning index")
	}
}

func TestTranslateFormat(t *testing.T) {
	cases := map[firmware.PixelFormat]kimg.FramebufferFormat{
		firmware.PixelFormatRGB:     kimg.FramebufferRGB,
		firmware.PixelFormatBGR:     kimg.FramebufferBGR,
		firmware.PixelFormatBLTOnly: kimg.FramebufferBLTOnly,
	}
	for in, want := range cases {
		if got := translateFormat(in); got != want {
			t.Errorf("translateFormat(%v) = %v, want %v", in, got, want)
		}
	}
}
