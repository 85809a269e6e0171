package transfer

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ironsheep/imspect/internal/imaging"
	"github.com/ironsheep/imspect/internal/npy"
)

// Load decodes every path into an image buffer, in order.
//
// Files with the .npy extension are read as uint8 arrays of shape
// (height, width) or (height, width, 1|3) and keep their channel count. Any
// other file is decoded as a regular image and always yields a ThreeChannel
// buffer.
//
// Loading is all or nothing: the first file that cannot be decoded aborts the
// load with a *DecodeError naming it, and no buffers are returned.
func Load(paths []string) ([]imaging.Buffer, error) {
	bufs := make([]imaging.Buffer, 0, len(paths))
	for _, p := range paths {
		b, err := loadOne(p)
		if err != nil {
			return nil, &DecodeError{Path: p, Err: err}
		}
		bufs = append(bufs, b)
	}
	return bufs, nil
}

func loadOne(path string) (imaging.Buffer, error) {
	if !strings.EqualFold(filepath.Ext(path), npy.Extension) {
		b, err := imaging.Load(path)
		if err != nil {
			return nil, err
		}
		return b, nil
	}
	a, err := npy.ReadFile(path)
	if err != nil {
		if errors.Is(err, npy.ErrUnsupportedDtype) {
			return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		return nil, err
	}
	return FromArray(a)
}

// Acknowledge tells the Sender that the files have been read by removing
// those that live directly in handoffDir. Paths elsewhere belong to the user
// and are left alone. An empty handoffDir makes Acknowledge a no-op.
func Acknowledge(paths []string, handoffDir string) error {
	if handoffDir == "" {
		return nil
	}
	dir, err := filepath.Abs(handoffDir)
	if err != nil {
		return err
	}

	var errs []error
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil || filepath.Dir(abs) != dir {
			continue
		}
		if err := os.Remove(abs); err != nil && !errors.Is(err, os.ErrNotExist) {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
