package imaging

import (
	"fmt"
	"image"
	_ "image/gif"  // Register GIF format decoder
	_ "image/jpeg" // Register JPEG format decoder
	_ "image/png"  // Register PNG format decoder

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp" // Register WebP format decoder
)

// Load decodes a generic image file and normalizes it to a three-channel RGB
// buffer.
//
// Parameters:
//   - path: Path to the image file. Supported formats are PNG, JPEG, GIF, BMP,
//     TIFF and WebP.
//
// Returns:
//   - *ThreeChannel: The decoded pixels. Grayscale and paletted sources are
//     expanded to RGB and any alpha channel is dropped.
//   - error: Wraps ErrDecodeFailed if the file cannot be opened or decoded.
//
// EXIF orientation tags on JPEG and TIFF files are applied so that the buffer
// matches what an image viewer would show.
func Load(path string) (*ThreeChannel, error) {
	img, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrDecodeFailed, path, err)
	}
	return FromImage(img)
}

// FromImage normalizes any image.Image to a three-channel RGB buffer.
//
// Returns ErrInvalidBuffer for an empty image.
func FromImage(img image.Image) (*ThreeChannel, error) {
	if b := img.Bounds(); b.Dx() <= 0 || b.Dy() <= 0 {
		return nil, fmt.Errorf("%w: empty image %dx%d", ErrInvalidBuffer, b.Dx(), b.Dy())
	}
	return fromNRGBA(imaging.Clone(img)), nil
}
