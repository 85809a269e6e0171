package imaging

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image/png"

	"github.com/anthonynsimon/bild/imgio"
)

// PNGResult contains a buffer encoded as a base64 PNG for transport to a
// frontend.
type PNGResult struct {
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	Channels    int    `json:"channels"`
	ImageBase64 string `json:"image_base64"`
	MimeType    string `json:"mime_type"`
}

// EncodePNG encodes b as a PNG and wraps it in a PNGResult.
//
// OneChannel buffers are written as 8-bit grayscale PNGs and ThreeChannel
// buffers as opaque RGBA PNGs.
func EncodePNG(b Buffer) (*PNGResult, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, ToImage(b)); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}

	return &PNGResult{
		Width:       b.Width(),
		Height:      b.Height(),
		Channels:    b.Channels(),
		ImageBase64: base64.StdEncoding.EncodeToString(buf.Bytes()),
		MimeType:    "image/png",
	}, nil
}

// SavePNG writes b to path as a PNG file, replacing any existing file.
func SavePNG(b Buffer, path string) error {
	if err := imgio.Save(path, ToImage(b), imgio.PNGEncoder()); err != nil {
		return fmt.Errorf("failed to save image: %w", err)
	}
	return nil
}

// Sample returns the samples of the pixel at (x, y), one per channel.
//
// Coordinates are 0-based with origin at the top-left corner. Returns an error
// if (x, y) lies outside the buffer.
func Sample(b Buffer, x, y int) ([]uint8, error) {
	if x < 0 || x >= b.Width() || y < 0 || y >= b.Height() {
		return nil, fmt.Errorf("coordinates (%d,%d) outside image bounds", x, y)
	}
	n := b.Channels()
	i := (y*b.Width() + x) * n
	out := make([]uint8, n)
	copy(out, b.Pix()[i:i+n])
	return out, nil
}
