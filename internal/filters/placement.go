package filters

import "math"

// Placement is where and how large a sticker lands on a photo.
type Placement struct {
	BoxWidth  int `json:"boxWidth"`
	BoxHeight int `json:"boxHeight"`
	Width     int `json:"width"`
	Height    int `json:"height"`
	X         int `json:"x"`
	Y         int `json:"y"`
}

// roundHalfUp matches the rounding the placement document was tuned with.
func roundHalfUp(v float64) int {
	return int(math.Floor(v + 0.5))
}

// Box is the area the sticker may occupy: the photo dimensions times the capped scale.
func Box(d Descriptor, baseWidth, baseHeight int) (int, int) {
	scale := d.EffectiveScale()
	return roundHalfUp(float64(baseWidth) * scale), roundHalfUp(float64(baseHeight) * scale)
}

// FitSize scales a srcWidth x srcHeight asset to fit inside the box while
// keeping its aspect ratio. Assets smaller than the box are enlarged.
func FitSize(srcWidth, srcHeight, boxWidth, boxHeight int) (int, int) {
	if srcWidth <= 0 || srcHeight <= 0 || boxWidth <= 0 || boxHeight <= 0 {
		return 0, 0
	}

	ratio := math.Min(float64(boxWidth)/float64(srcWidth), float64(boxHeight)/float64(srcHeight))
	w := max(1, roundHalfUp(float64(srcWidth)*ratio))
	h := max(1, roundHalfUp(float64(srcHeight)*ratio))
	return min(w, boxWidth), min(h, boxHeight)
}

// Place centers an overlay of the measured size on the photo, applies the
// descriptor offsets and clamps the origin to the top-left corner. There is
// no clamp on the far edges; whatever sticks out is cropped.
func Place(d Descriptor, baseWidth, baseHeight, overlayWidth, overlayHeight int) Placement {
	boxW, boxH := Box(d, baseWidth, baseHeight)
	centerX := roundHalfUp(float64(baseWidth-overlayWidth) / 2)
	centerY := roundHalfUp(float64(baseHeight-overlayHeight) / 2)

	return Placement{
		BoxWidth:  boxW,
		BoxHeight: boxH,
		Width:     overlayWidth,
		Height:    overlayHeight,
		X:         max(0, centerX+d.OffsetX),
		Y:         max(0, centerY+d.OffsetY),
	}
}

// Resolve runs the full geometry for an asset of the given native size.
// The compositor measures the resized asset itself and calls Place; this
// is the same computation without touching pixels.
func Resolve(d Descriptor, baseWidth, baseHeight, assetWidth, assetHeight int) Placement {
	boxW, boxH := Box(d, baseWidth, baseHeight)
	w, h := FitSize(assetWidth, assetHeight, boxW, boxH)
	return Place(d, baseWidth, baseHeight, w, h)
}
