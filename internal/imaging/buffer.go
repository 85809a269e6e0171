package imaging

import (
	"fmt"
	"image"
	"math"
)

// Buffer is an 8-bit pixel grid whose channel count is fixed by its concrete
// type. The only implementations are *OneChannel and *ThreeChannel, so a type
// switch over a Buffer is exhaustive once both cases are handled.
//
// Buffers are immutable after construction: every conversion in this package
// allocates a new Buffer and leaves its source untouched.
type Buffer interface {
	// Width is the number of pixels per row.
	Width() int

	// Height is the number of rows.
	Height() int

	// Channels is the number of samples per pixel (1 or 3).
	Channels() int

	// Pix returns the samples in row-major, channel-last order. The returned
	// slice aliases the buffer and must not be modified.
	Pix() []byte

	sealed()
}

// OneChannel is a single-channel (grayscale) 8-bit image.
type OneChannel struct {
	width  int
	height int
	pix    []byte
}

// ThreeChannel is a three-channel 8-bit image, RGB ordered unless it was
// produced by a conversion that documents otherwise (RGBToHSV).
type ThreeChannel struct {
	width  int
	height int
	pix    []byte
}

// NewOneChannel wraps pix as a width×height single-channel image.
//
// The buffer takes ownership of pix; callers must not modify it afterwards.
// Returns ErrInvalidBuffer if the dimensions are not positive or len(pix)
// is not width*height.
func NewOneChannel(width, height int, pix []byte) (*OneChannel, error) {
	if err := checkShape(width, height, 1, len(pix)); err != nil {
		return nil, err
	}
	return &OneChannel{width: width, height: height, pix: pix}, nil
}

// NewThreeChannel wraps pix as a width×height three-channel image.
//
// The buffer takes ownership of pix; callers must not modify it afterwards.
// Returns ErrInvalidBuffer if the dimensions are not positive or len(pix)
// is not width*height*3.
func NewThreeChannel(width, height int, pix []byte) (*ThreeChannel, error) {
	if err := checkShape(width, height, 3, len(pix)); err != nil {
		return nil, err
	}
	return &ThreeChannel{width: width, height: height, pix: pix}, nil
}

// New builds the Buffer variant matching channels.
func New(width, height, channels int, pix []byte) (Buffer, error) {
	if channels != 1 && channels != 3 {
		return nil, fmt.Errorf("%w: unsupported channel count %d", ErrInvalidBuffer, channels)
	}
	if err := checkShape(width, height, channels, len(pix)); err != nil {
		return nil, err
	}
	if channels == 1 {
		return &OneChannel{width: width, height: height, pix: pix}, nil
	}
	return &ThreeChannel{width: width, height: height, pix: pix}, nil
}

func checkShape(width, height, channels, n int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("%w: dimensions %dx%d must be positive", ErrInvalidBuffer, width, height)
	}
	if height > math.MaxInt/width/channels {
		return fmt.Errorf("%w: %dx%dx%d overflows", ErrInvalidBuffer, width, height, channels)
	}
	if want := width * height * channels; n != want {
		return fmt.Errorf("%w: %dx%dx%d needs %d samples, got %d",
			ErrInvalidBuffer, width, height, channels, want, n)
	}
	return nil
}

func (b *OneChannel) Width() int    { return b.width }
func (b *OneChannel) Height() int   { return b.height }
func (b *OneChannel) Channels() int { return 1 }
func (b *OneChannel) Pix() []byte   { return b.pix }
func (b *OneChannel) sealed()       {}

// At returns the sample at (x, y).
func (b *OneChannel) At(x, y int) uint8 {
	return b.pix[y*b.width+x]
}

func (b *ThreeChannel) Width() int    { return b.width }
func (b *ThreeChannel) Height() int   { return b.height }
func (b *ThreeChannel) Channels() int { return 3 }
func (b *ThreeChannel) Pix() []byte   { return b.pix }
func (b *ThreeChannel) sealed()       {}

// At returns the three samples of the pixel at (x, y).
func (b *ThreeChannel) At(x, y int) (c0, c1, c2 uint8) {
	i := (y*b.width + x) * 3
	return b.pix[i], b.pix[i+1], b.pix[i+2]
}

// Gray exposes the buffer as an *image.Gray sharing the same samples.
func (b *OneChannel) Gray() *image.Gray {
	return &image.Gray{
		Pix:    b.pix,
		Stride: b.width,
		Rect:   image.Rect(0, 0, b.width, b.height),
	}
}

// NRGBA returns an opaque *image.NRGBA copy of the buffer.
func (b *ThreeChannel) NRGBA() *image.NRGBA {
	dst := image.NewNRGBA(image.Rect(0, 0, b.width, b.height))
	for i, j := 0, 0; i < len(b.pix); i, j = i+3, j+4 {
		dst.Pix[j] = b.pix[i]
		dst.Pix[j+1] = b.pix[i+1]
		dst.Pix[j+2] = b.pix[i+2]
		dst.Pix[j+3] = 0xff
	}
	return dst
}

// ToImage converts any Buffer to a standard library image for encoding or
// display. OneChannel buffers share their samples with the result.
func ToImage(b Buffer) image.Image {
	switch v := b.(type) {
	case *OneChannel:
		return v.Gray()
	case *ThreeChannel:
		return v.NRGBA()
	}
	return nil
}

// fromNRGBA drops the alpha channel of a zero-origin NRGBA image.
func fromNRGBA(src *image.NRGBA) *ThreeChannel {
	w, h := src.Rect.Dx(), src.Rect.Dy()
	pix := make([]byte, w*h*3)
	for y := 0; y < h; y++ {
		row := src.Pix[y*src.Stride : y*src.Stride+w*4]
		out := pix[y*w*3 : (y+1)*w*3]
		for x := 0; x < w; x++ {
			out[x*3] = row[x*4]
			out[x*3+1] = row[x*4+1]
			out[x*3+2] = row[x*4+2]
		}
	}
	return &ThreeChannel{width: w, height: h, pix: pix}
}

// fromGray copies a zero-origin gray image into a OneChannel buffer.
func fromGray(src *image.Gray) *OneChannel {
	w, h := src.Rect.Dx(), src.Rect.Dy()
	pix := make([]byte, w*h)
	for y := 0; y < h; y++ {
		copy(pix[y*w:(y+1)*w], src.Pix[y*src.Stride:y*src.Stride+w])
	}
	return &OneChannel{width: w, height: h, pix: pix}
}
