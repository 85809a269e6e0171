// Package imaging provides the typed 8-bit image buffers used by the viewer and
// the conversions that derive new buffers from existing ones.
//
// # Buffer Variants
//
// A Buffer is one of exactly two concrete types:
//   - *OneChannel: one sample per pixel (grayscale, thresholded, extracted channels)
//   - *ThreeChannel: three samples per pixel, RGB ordered
//
// The channel count is part of the type, not a field, and never changes for
// the lifetime of a buffer. Samples are stored row-major and channel-last, so
// the sample for channel c of pixel (x, y) is at index (y*width+x)*channels+c.
//
// # Conversions
//
// Every conversion accepts a Buffer and returns the result together with a
// boolean. The boolean is false when the conversion is not defined for the
// source's variant:
//
//	| conversion     | accepts      | produces     |
//	|----------------|--------------|--------------|
//	| GrayToRGB      | OneChannel   | ThreeChannel |
//	| BGRToRGB       | ThreeChannel | ThreeChannel |
//	| RGBToGray      | ThreeChannel | OneChannel   |
//	| RGBToHSV       | ThreeChannel | ThreeChannel |
//	| ExtractChannel | ThreeChannel | OneChannel   |
//
// Applicable reports which named conversions a buffer accepts, so callers can
// build menus without switching on the buffer type. Conversions never modify
// their source and always preserve width and height.
//
// # Thresholding
//
// Threshold maps a OneChannel buffer to 0/255 around a cutoff. ThresholdNone
// is the identity and returns the source unchanged.
//
// # File Decoding
//
// Load decodes PNG, JPEG, GIF, BMP, TIFF and WebP files and always produces a
// ThreeChannel buffer. Numeric array files are handled by package npy.
package imaging
