package bootloader

import (
	"rtoskimg/firmware"
	"rtoskimg/kimg"
)

func diff(w, h uint32, num, den int) int64 {
	lhs := int64(w) * int64(den)
	rhs := int64(h) * int64(num)
	d := lhs - rhs
	if d < 0 {
		d = -d
	}
	return d
}

// pickForRatio implements spec §4.3.2 steps 2-4 for a single ratio: filter
// BLT-only modes, minimize |w*td - h*tn|, tie-break on larger area. It
// returns false if no eligible mode exists at all (e.g. every mode is
// BLT-only).
func pickForRatio(modes []firmware.Mode, ratio AspectRatio) (int, bool) {
	num, den := ratio.Tuple()
	best := -1
	var bestDiff int64
	var bestArea int64
	for i, m := range modes {
		if m.Format == firmware.PixelFormatBLTOnly {
			continue
		}
		d := diff(m.Width, m.Height, num, den)
		area := int64(m.Width) * int64(m.Height)
		if best == -1 || d < bestDiff || (d == bestDiff && area > bestArea) {
			best, bestDiff, bestArea = i, d, area
		}
	}
	return best, best != -1
}

// PickMode implements the full cascade (spec §4.3.2 step 5): if no mode
// exists for ratio, substitute the next fallback and repeat. Returns false
// once the chain is exhausted without ever finding an eligible mode
// (meaning every mode is BLT-only) — the caller then retains the current
// mode (step 6).
//
// Note this is subtly different from "ratio had a bad diff": pickForRatio
// always returns the closest mode for *some* ratio as long as at least one
// non-BLT-only mode exists, so the cascade here only matters when the mode
// list itself is empty of non-BLT-only candidates.
func PickMode(modes []firmware.Mode, ratio AspectRatio) (int, bool) {
	r := ratio
	for {
		if idx, ok := pickForRatio(modes, r); ok {
			return idx, true
		}
		next, ok := r.Fallback()
		if !ok {
			return -1, false
		}
		r = next
	}
}

func translateFormat(f firmware.PixelFormat) kimg.FramebufferFormat {
	switch f {
	case firmware.PixelFormatRGB:
		return kimg.FramebufferRGB
	case firmware.PixelFormatBLTOnly:
		return kimg.FramebufferBLTOnly
	default:
		return kimg.FramebufferBGR
	}
}

// SelectGraphicsMode drives the protocol end to end (spec §4.3.2): pick a
// mode for ratio, set it, and translate the reported descriptor into a
// kimg.FramebufferInfo. If no mode can be picked, or ratio carries no
// tuple at all (RatioUnspecified has no (num, den) to score against,
// unlike an exhausted fallback chain), the current mode is kept and its
// descriptor used instead (step 6).
func SelectGraphicsMode(gop firmware.GraphicsOutputProtocol, ratio AspectRatio) (kimg.FramebufferInfo, error) {
	modes := gop.Modes()
	var fb firmware.FrameBufferDescriptor
	idx, ok := -1, false
	if ratio != RatioUnspecified {
		idx, ok = PickMode(modes, ratio)
	}
	if ok {
		set, err := gop.SetMode(idx)
		if err != nil {
			return kimg.FramebufferInfo{}, kimg.WrapError(kimg.ErrIO, "set graphics mode", err)
		}
		fb = set
	} else {
		_, cur, err := gop.CurrentMode()
		if err != nil {
			return kimg.FramebufferInfo{}, kimg.WrapError(kimg.ErrIO, "query current graphics mode", err)
		}
		fb = cur
	}
	return kimg.FramebufferInfo{
		Base:   fb.Base,
		Size:   fb.Size,
		Width:  fb.Width,
		Height: fb.Height,
		Stride: fb.Stride,
		Format: translateFormat(fb.Format),
	}, nil
}
