package event

import "math"

// Aspect is the display bucket chosen for an event image.
type Aspect string

// Aspect buckets
const (
	AspectWide     Aspect = "wide"     // 16:9
	AspectStandard Aspect = "standard" // 4:3
	AspectTall     Aspect = "tall"     // 3:4
)

// Ratio thresholds. Both boundaries belong to the standard bucket.
const (
	WideThreshold = 1.7
	TallThreshold = 0.8
)

// ClassifyAspect buckets an image by its natural width/height ratio.
// Dimensions that do not form a usable ratio (zero, negative, NaN, Inf) fall into
// the standard bucket.
// POST: returns wide for ratio > 1.7, tall for ratio < 0.8, standard otherwise
func ClassifyAspect(width, height float64) Aspect {
	if !(width > 0) || !(height > 0) || math.IsInf(width, 0) || math.IsInf(height, 0) {
		return AspectStandard
	}
	ratio := width / height
	switch {
	case ratio > WideThreshold:
		return AspectWide
	case ratio < TallThreshold:
		return AspectTall
	default:
		return AspectStandard
	}
}

// ParseAspect maps a stored value back to an Aspect, defaulting to standard.
func ParseAspect(s string) Aspect {
	switch Aspect(s) {
	case AspectWide, AspectTall:
		return Aspect(s)
	default:
		return AspectStandard
	}
}

// CSSClass returns the class the card layout uses for this bucket.
func (a Aspect) CSSClass() string {
	return "aspect-" + string(ParseAspect(string(a)))
}
