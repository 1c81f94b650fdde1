package domain

// PixelsPerInch maps image pixels to typeset inches.
const PixelsPerInch = 72.27

// FitInches converts a pixel size to inches and scales it down, keeping the
// aspect ratio, until it fits within maxW x maxH inches.
func FitInches(widthPx, heightPx int, maxW, maxH float64) (float64, float64) {
	w := float64(widthPx) / PixelsPerInch
	h := float64(heightPx) / PixelsPerInch

	if maxW > 0 && w > maxW {
		ratio := maxW / w
		w *= ratio
		h *= ratio
	}
	if maxH > 0 && h > maxH {
		ratio := maxH / h
		w *= ratio
		h *= ratio
	}
	return w, h
}
