package transfer

import (
	"fmt"

	"github.com/ironsheep/imspect/internal/imaging"
	"github.com/ironsheep/imspect/internal/npy"
)

// imageShape checks that a describes an image and returns its height, width
// and channel count. A 2-D array is a single-channel image.
func imageShape(a npy.Array) (h, w, c int, err error) {
	if !a.IsUint8() {
		return 0, 0, 0, fmt.Errorf("%w: only uint8 arrays can be accepted, got %q", ErrInvalidInput, a.Dtype)
	}
	switch len(a.Shape) {
	case 2:
		h, w, c = a.Shape[0], a.Shape[1], 1
	case 3:
		h, w, c = a.Shape[0], a.Shape[1], a.Shape[2]
	default:
		return 0, 0, 0, fmt.Errorf("%w: only arrays with 2 or 3 dimensions can be accepted, got %d",
			ErrInvalidInput, len(a.Shape))
	}
	if c != 1 && c != 3 {
		return 0, 0, 0, fmt.Errorf("%w: only images with 1 or 3 channels can be accepted, got %d", ErrInvalidInput, c)
	}
	if h <= 0 || w <= 0 {
		return 0, 0, 0, fmt.Errorf("%w: empty image %dx%d", ErrInvalidInput, w, h)
	}
	n, err := npy.Count(h, w, c)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if len(a.Data) != n {
		return 0, 0, 0, fmt.Errorf("%w: shape %v needs %d bytes, got %d", ErrInvalidInput, a.Shape, n, len(a.Data))
	}
	return h, w, c, nil
}

// normalize returns a with an explicit channel axis.
func normalize(a npy.Array) (npy.Array, error) {
	h, w, c, err := imageShape(a)
	if err != nil {
		return npy.Array{}, err
	}
	return npy.Array{Dtype: npy.DtypeUint8, Shape: []int{h, w, c}, Data: a.Data}, nil
}

// FromArray builds the Buffer variant matching the channel axis of a.
//
// The buffer shares a.Data.
func FromArray(a npy.Array) (imaging.Buffer, error) {
	h, w, c, err := imageShape(a)
	if err != nil {
		return nil, err
	}
	return imaging.New(w, h, c, a.Data)
}

// ToArray describes b as an (height, width, channels) uint8 array sharing
// its samples.
func ToArray(b imaging.Buffer) npy.Array {
	return npy.Array{
		Dtype: npy.DtypeUint8,
		Shape: []int{b.Height(), b.Width(), b.Channels()},
		Data:  b.Pix(),
	}
}
