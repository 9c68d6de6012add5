package fb

import "rtoskimg/kimg"

// Clear fills every visible pixel with (r,g,b), walking row by row and
// writing only Width pixels per row, not Stride, to avoid touching padding
// columns (spec §4.4 "clear").
func (f Framebuffer) Clear(r, g, b uint8) {
	if f.Format == kimg.FramebufferBLTOnly {
		return
	}
	color := f.pack(r, g, b)
	for y := uint32(0); y < f.Height; y++ {
		row := f.rowPtr(y)
		for x := uint32(0); x < f.Width; x++ {
			storePixel(row+uint64(x)*4, color)
		}
	}
}

// PutPixel writes one pixel, silently clipping if (x,y) is out of bounds
// (spec §4.4 "put_pixel").
func (f Framebuffer) PutPixel(x, y int, color uint32) {
	if f.Format == kimg.FramebufferBLTOnly {
		return
	}
	if x < 0 || y < 0 || uint32(x) >= f.Width || uint32(y) >= f.Height {
		return
	}
	storePixel(f.pixelAddr(uint32(x), uint32(y)), color)
}

// FillRect clips (x,y,w,h) to the framebuffer bounds and writes color to
// every pixel in the intersection (spec §4.4 "fill_rect").
func (f Framebuffer) FillRect(x, y, w, h int, color uint32) {
	if f.Format == kimg.FramebufferBLTOnly {
		return
	}
	x0, y0, x1, y1 := clipRect(x, y, w, h, int(f.Width), int(f.Height))
	for py := y0; py < y1; py++ {
		row := f.rowPtr(uint32(py))
		for px := x0; px < x1; px++ {
			storePixel(row+uint64(px)*4, color)
		}
	}
}

// clipRect intersects rectangle (x,y,w,h) with [0,boundW)x[0,boundH) and
// returns the intersection as [x0,x1)x[y0,y1), both empty if disjoint.
func clipRect(x, y, w, h, boundW, boundH int) (x0, y0, x1, y1 int) {
	x0, y0 = x, y
	x1, y1 = x+w, y+h
	if x0 < 0 {
		x0 = 0
	}
	if y0 < 0 {
		y0 = 0
	}
	if x1 > boundW {
		x1 = boundW
	}
	if y1 > boundH {
		y1 = boundH
	}
	if x1 < x0 {
		x1 = x0
	}
	if y1 < y0 {
		y1 = y0
	}
	return
}

// BlitRGBACenteredNoScale centers an RGBA source image of w*h pixels
// (4 bytes/pixel, row-major) within the destination with no scaling,
// clipping to destination bounds (spec §4.4 "blit_rgba_centered_noscale").
// If useAlpha is false the alpha byte is ignored and the source is copied
// opaque; if true, each pixel is composited via BlitRGBACenteredAlpha's
// per-pixel blend.
func (f Framebuffer) BlitRGBACenteredNoScale(rgba []byte, w, h int, useAlpha bool) {
	if f.Format == kimg.FramebufferBLTOnly {
		return
	}
	if useAlpha {
		f.BlitRGBACenteredAlpha(rgba, w, h)
		return
	}
	originX := (int(f.Width) - w) / 2
	originY := (int(f.Height) - h) / 2
	for sy := 0; sy < h; sy++ {
		dy := originY + sy
		if dy < 0 || dy >= int(f.Height) {
			continue
		}
		row := f.rowPtr(uint32(dy))
		for sx := 0; sx < w; sx++ {
			dx := originX + sx
			if dx < 0 || dx >= int(f.Width) {
				continue
			}
			i := (sy*w + sx) * 4
			r, g, b := rgba[i], rgba[i+1], rgba[i+2]
			storePixel(row+uint64(dx)*4, f.pack(r, g, b))
		}
	}
}
