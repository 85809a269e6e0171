package imaging

import "fmt"

// ThresholdKind selects how Threshold maps samples to the two output levels.
type ThresholdKind int

const (
	// ThresholdNone leaves the image unchanged.
	ThresholdNone ThresholdKind = iota
	// ThresholdBinary maps samples >= cutoff to 255 and the rest to 0.
	ThresholdBinary
	// ThresholdBinaryInverted maps samples >= cutoff to 0 and the rest to 255.
	ThresholdBinaryInverted
)

// thresholdKinds lists every kind in menu order, indexed by value.
var thresholdKinds = []string{"none", "binary", "binary_inverted"}

func (k ThresholdKind) String() string {
	if k >= 0 && int(k) < len(thresholdKinds) {
		return thresholdKinds[k]
	}
	return fmt.Sprintf("ThresholdKind(%d)", int(k))
}

// ParseThresholdKind maps "none", "binary" or "binary_inverted" to a kind.
// The empty string is treated as "none".
func ParseThresholdKind(s string) (ThresholdKind, error) {
	if s == "" {
		return ThresholdNone, nil
	}
	for i, name := range thresholdKinds {
		if name == s {
			return ThresholdKind(i), nil
		}
	}
	return ThresholdNone, fmt.Errorf("unknown threshold kind %q", s)
}

const (
	thresholdLow  = 0x00
	thresholdHigh = 0xff
)

// Threshold binarizes a single-channel image against cutoff.
//
// For ThresholdNone, src itself is returned and nothing is allocated. For the
// binary kinds a new image is returned in which every sample is either 0 or
// 255.
func Threshold(src *OneChannel, kind ThresholdKind, cutoff uint8) *OneChannel {
	var above, below byte
	switch kind {
	case ThresholdBinary:
		above, below = thresholdHigh, thresholdLow
	case ThresholdBinaryInverted:
		above, below = thresholdLow, thresholdHigh
	default:
		return src
	}

	pix := make([]byte, len(src.pix))
	for i, v := range src.pix {
		if v >= cutoff {
			pix[i] = above
		} else {
			pix[i] = below
		}
	}
	return &OneChannel{width: src.width, height: src.height, pix: pix}
}
