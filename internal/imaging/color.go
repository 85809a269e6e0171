package imaging

import (
	"fmt"
	"math"

	"github.com/anthonynsimon/bild/channel"
	"github.com/disintegration/imaging"
	"github.com/lucasb-eyer/go-colorful"
)

// Conversion names a color conversion that derives a new Buffer from an
// existing one.
type Conversion string

const (
	ConvGrayToRGB Conversion = "gray_to_rgb"
	ConvBGRToRGB  Conversion = "bgr_to_rgb"
	ConvRGBToGray Conversion = "rgb_to_gray"
	ConvRGBToHSV  Conversion = "rgb_to_hsv"
)

// Conversions lists every Conversion in menu order.
var Conversions = []Conversion{ConvGrayToRGB, ConvBGRToRGB, ConvRGBToGray, ConvRGBToHSV}

// ParseConversion maps a conversion name to its Conversion.
//
// Returns ErrUnknownConversion for names outside Conversions.
func ParseConversion(name string) (Conversion, error) {
	for _, c := range Conversions {
		if string(c) == name {
			return c, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownConversion, name)
}

// Apply runs conversion c on src.
//
// The boolean result is false when c is not defined for the channel count of
// src; in that case the returned Buffer is nil. An unrecognized c also
// reports false.
func Apply(c Conversion, src Buffer) (Buffer, bool) {
	switch c {
	case ConvGrayToRGB:
		if dst, ok := GrayToRGB(src); ok {
			return dst, true
		}
	case ConvBGRToRGB:
		if dst, ok := BGRToRGB(src); ok {
			return dst, true
		}
	case ConvRGBToGray:
		if dst, ok := RGBToGray(src); ok {
			return dst, true
		}
	case ConvRGBToHSV:
		if dst, ok := RGBToHSV(src); ok {
			return dst, true
		}
	}
	return nil, false
}

// Applicable returns the conversions defined for src, in menu order.
func Applicable(src Buffer) []Conversion {
	var out []Conversion
	for _, c := range Conversions {
		if accepts(c, src) {
			out = append(out, c)
		}
	}
	return out
}

func accepts(c Conversion, src Buffer) bool {
	switch src.(type) {
	case *OneChannel:
		return c == ConvGrayToRGB
	case *ThreeChannel:
		return c == ConvBGRToRGB || c == ConvRGBToGray || c == ConvRGBToHSV
	}
	return false
}

// GrayToRGB expands a single-channel image to three channels with R=G=B
// equal to the source sample.
//
// Returns false for a ThreeChannel source.
func GrayToRGB(src Buffer) (*ThreeChannel, bool) {
	gray, ok := src.(*OneChannel)
	if !ok {
		return nil, false
	}
	return fromNRGBA(imaging.Clone(gray.Gray())), true
}

// BGRToRGB swaps the first and third channel of every pixel. The middle
// channel is copied unchanged.
//
// Returns false for a OneChannel source.
func BGRToRGB(src Buffer) (*ThreeChannel, bool) {
	rgb, ok := src.(*ThreeChannel)
	if !ok {
		return nil, false
	}
	pix := make([]byte, len(rgb.pix))
	for i := 0; i < len(pix); i += 3 {
		pix[i] = rgb.pix[i+2]
		pix[i+1] = rgb.pix[i+1]
		pix[i+2] = rgb.pix[i]
	}
	return &ThreeChannel{width: rgb.width, height: rgb.height, pix: pix}, true
}

// RGBToGray reduces a three-channel image to its luma using the
// ITU-R BT.601 weights:
//
//	Y = round(0.299*R + 0.587*G + 0.114*B)
//
// Returns false for a OneChannel source.
func RGBToGray(src Buffer) (*OneChannel, bool) {
	rgb, ok := src.(*ThreeChannel)
	if !ok {
		return nil, false
	}
	luma := imaging.Grayscale(rgb.NRGBA())
	pix := make([]byte, rgb.width*rgb.height)
	for i := range pix {
		pix[i] = luma.Pix[i*4]
	}
	return &OneChannel{width: rgb.width, height: rgb.height, pix: pix}, true
}

// RGBToHSV maps a three-channel RGB image to HSV.
//
// Each pixel is converted in float64 precision and then every component is
// scaled independently back to the 0-255 range:
//   - H: 0-360 degrees -> 0-255
//   - S: 0-1 -> 0-255
//   - V: 0-1 -> 0-255
//
// Pure red maps to (0,255,255), pure green to (85,255,255) and pure blue to
// (170,255,255). Achromatic pixels have H=0 and S=0.
//
// Returns false for a OneChannel source.
func RGBToHSV(src Buffer) (*ThreeChannel, bool) {
	rgb, ok := src.(*ThreeChannel)
	if !ok {
		return nil, false
	}
	pix := make([]byte, len(rgb.pix))
	for i := 0; i < len(pix); i += 3 {
		c := colorful.Color{
			R: float64(rgb.pix[i]) / 255.0,
			G: float64(rgb.pix[i+1]) / 255.0,
			B: float64(rgb.pix[i+2]) / 255.0,
		}
		h, s, v := c.Hsv()
		pix[i] = toByte(h / 360.0 * 255.0)
		pix[i+1] = toByte(s * 255.0)
		pix[i+2] = toByte(v * 255.0)
	}
	return &ThreeChannel{width: rgb.width, height: rgb.height, pix: pix}, true
}

// ExtractChannel copies channel n (0, 1 or 2) of a three-channel image into
// a new single-channel image.
//
// Returns false for a OneChannel source or a channel index outside 0-2.
func ExtractChannel(src Buffer, n int) (*OneChannel, bool) {
	rgb, ok := src.(*ThreeChannel)
	if !ok || n < 0 || n > 2 {
		return nil, false
	}
	channels := [...]channel.Channel{channel.Red, channel.Green, channel.Blue}
	return fromGray(channel.Extract(rgb.NRGBA(), channels[n])), true
}

// toByte rounds v to the nearest integer and clamps it to 0-255.
func toByte(v float64) uint8 {
	v = math.Round(v)
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}
