package fb

import "rtoskimg/kimg"

// blendChannel8 implements the integer approximation
// out = (src*a + dst*(255-a) + 127) / 255 using ((x*257) >> 16) in place of
// the exact division (spec §4.4 "blit_rgba_centered_alpha"): 257/65536 is
// slightly below 1/255, so the result equals the exact division except when
// x is a non-zero multiple of 255, where it comes out one lower (src=128,
// dst=0, a=1 gives x=255 and yields 0 rather than 1).
func blendChannel8(src, dst, a uint8) uint8 {
	x := uint32(src)*uint32(a) + uint32(dst)*uint32(255-a) + 127
	return uint8((x * 257) >> 16)
}

// BlitRGBACenteredAlpha centers an RGBA source image of w*h pixels within
// the destination, alpha-compositing each source pixel over the existing
// destination pixel (spec §4.4). A=0 keeps the destination unchanged; A=255
// overwrites it outright; both are explicit fast paths rather than relying
// on blendChannel8 to degenerate correctly, since they are the overwhelming
// majority case for UI compositing.
func (f Framebuffer) BlitRGBACenteredAlpha(rgba []byte, w, h int) {
	if f.Format == kimg.FramebufferBLTOnly {
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
			sr, sg, sb, a := rgba[i], rgba[i+1], rgba[i+2], rgba[i+3]
			addr := row + uint64(dx)*4
			if a == 0 {
				continue
			}
			if a == 255 {
				storePixel(addr, f.pack(sr, sg, sb))
				continue
			}
			dr, dg, db := f.unpack(loadPixel(addr))
			out := f.pack(
				blendChannel8(sr, dr, a),
				blendChannel8(sg, dg, a),
				blendChannel8(sb, db, a),
			)
			storePixel(addr, out)
		}
	}
}

// BlendOver is the single-pixel form of the alpha blend used by property
// tests and by BlitRGBACenteredAlpha's inner loop (spec §8 testable
// property: blend_over(dst, fmt, r, g, b, 0) = dst; blend_over(dst, fmt,
// r, g, b, 255) = pack(fmt, r, g, b)).
func BlendOver(format kimg.FramebufferFormat, dst uint32, r, g, b, a uint8) uint32 {
	if a == 0 {
		return dst
	}
	if a == 255 {
		return PackRGB(format, r, g, b)
	}
	dr, dg, db := UnpackRGB(format, dst)
	return PackRGB(format,
		blendChannel8(r, dr, a),
		blendChannel8(g, dg, a),
		blendChannel8(b, db, a),
	)
}
