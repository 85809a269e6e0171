package imaging

import "errors"

var (
	// ErrInvalidBuffer is returned when dimensions, channel count, or sample
	// count do not describe a valid image.
	ErrInvalidBuffer = errors.New("imaging: invalid buffer")

	// ErrUnknownConversion is returned when a conversion name is not recognized.
	ErrUnknownConversion = errors.New("imaging: unknown conversion")

	// ErrDecodeFailed is returned when a generic image file cannot be decoded.
	ErrDecodeFailed = errors.New("imaging: decode failed")
)
