package npy

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/sbinet/npyio"
)

// Extension is the file extension of NPY files, including the dot.
const Extension = ".npy"

// DtypeUint8 is the descriptor written for unsigned 8-bit arrays.
const DtypeUint8 = "|u1"

var (
	// ErrInvalidHeader is returned when a file is not a well-formed NPY file.
	ErrInvalidHeader = errors.New("npy: invalid header")

	// ErrUnsupportedDtype is returned for any element type other than uint8.
	ErrUnsupportedDtype = errors.New("npy: unsupported dtype")

	// ErrShapeMismatch is returned when the data length disagrees with the shape.
	ErrShapeMismatch = errors.New("npy: data does not match shape")
)

var magic = []byte("\x93NUMPY")

// headerAlign is the alignment of the data section required by the format.
const headerAlign = 64

// preambleLen is the size of the magic, version and header length fields of
// a version 1.0 file, the smallest possible prefix before the data.
const preambleLen = 10

// Array is an n-dimensional array of uint8 samples in C (row-major) order.
type Array struct {
	// Dtype is the NumPy type descriptor, e.g. "|u1".
	Dtype string

	// Shape holds the length of every axis, outermost first.
	Shape []int

	// Data holds the samples in row-major order.
	Data []byte
}

// NewUint8 builds a uint8 Array after checking that len(data) matches shape.
func NewUint8(data []byte, shape ...int) (Array, error) {
	a := Array{Dtype: DtypeUint8, Shape: shape, Data: data}
	if err := a.check(); err != nil {
		return Array{}, err
	}
	return a, nil
}

// Len returns the number of elements described by the shape, or -1 if the
// shape is invalid or its product overflows int.
func (a Array) Len() int {
	n, err := Count(a.Shape...)
	if err != nil {
		return -1
	}
	return n
}

// Count returns the product of shape. It fails with ErrInvalidHeader for a
// negative axis or a product that does not fit in an int.
func Count(shape ...int) (int, error) {
	n := 1
	for _, d := range shape {
		if d < 0 {
			return 0, fmt.Errorf("%w: negative axis in %v", ErrInvalidHeader, shape)
		}
		if d != 0 && n > math.MaxInt/d {
			return 0, fmt.Errorf("%w: shape %v overflows", ErrInvalidHeader, shape)
		}
		n *= d
	}
	return n, nil
}

// IsUint8 reports whether the descriptor names an unsigned 8-bit type.
func (a Array) IsUint8() bool {
	return isUint8(a.Dtype)
}

func isUint8(descr string) bool {
	switch descr {
	case "|u1", "<u1", ">u1", "=u1", "u1", "uint8":
		return true
	}
	return false
}

func (a Array) check() error {
	if !a.IsUint8() {
		return fmt.Errorf("%w: %q", ErrUnsupportedDtype, a.Dtype)
	}
	n, err := Count(a.Shape...)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrShapeMismatch, err)
	}
	if n != len(a.Data) {
		return fmt.Errorf("%w: shape %v needs %d bytes, got %d",
			ErrShapeMismatch, a.Shape, n, len(a.Data))
	}
	return nil
}

// Write encodes a as a version 1.0 NPY stream.
func Write(w io.Writer, a Array) error {
	if err := a.check(); err != nil {
		return err
	}

	header := encodeHeader(a.Shape)
	total := preambleLen + len(header) + 1
	if pad := (headerAlign - total%headerAlign) % headerAlign; pad > 0 {
		header += strings.Repeat(" ", pad)
	}
	header += "\n"
	if len(header) > 0xffff {
		return fmt.Errorf("%w: header too long (%d bytes)", ErrInvalidHeader, len(header))
	}

	bw := bufio.NewWriter(w)
	bw.Write(magic)
	bw.Write([]byte{1, 0})
	binary.Write(bw, binary.LittleEndian, uint16(len(header)))
	bw.WriteString(header)
	bw.Write(a.Data)
	return bw.Flush()
}

func encodeHeader(shape []int) string {
	dims := make([]string, len(shape))
	for i, d := range shape {
		dims[i] = strconv.Itoa(d)
	}
	tuple := strings.Join(dims, ", ")
	if len(shape) == 1 {
		tuple += ","
	}
	return fmt.Sprintf("{'descr': '%s', 'fortran_order': False, 'shape': (%s), }", DtypeUint8, tuple)
}

// WriteFile writes a to path, creating or truncating it.
func WriteFile(path string, a Array) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := Write(f, a); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Read decodes an NPY stream. Format versions 1.0, 2.0 and 3.0 are accepted;
// the data must be uint8 in C order.
func Read(r io.Reader) (Array, error) {
	return read(r, -1)
}

// ReadFile decodes the NPY file at path. A header whose shape needs more
// bytes than the file holds is rejected before any data is allocated.
func ReadFile(path string) (Array, error) {
	f, err := os.Open(path)
	if err != nil {
		return Array{}, err
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		return Array{}, err
	}
	limit := fi.Size() - preambleLen
	if limit < 0 {
		limit = 0
	}
	return read(f, limit)
}

// read decodes one array. A non-negative limit caps the data size.
func read(r io.Reader, limit int64) (Array, error) {
	nr, err := npyio.NewReader(r)
	if err != nil {
		return Array{}, fmt.Errorf("%w: %v", ErrInvalidHeader, err)
	}

	descr := nr.Header.Descr
	if descr.Fortran {
		return Array{}, fmt.Errorf("%w: fortran order is not supported", ErrInvalidHeader)
	}
	if !isUint8(descr.Type) {
		return Array{}, fmt.Errorf("%w: %q", ErrUnsupportedDtype, descr.Type)
	}
	n, err := Count(descr.Shape...)
	if err != nil {
		return Array{}, err
	}
	if limit >= 0 && int64(n) > limit {
		return Array{}, fmt.Errorf("%w: shape %v needs %d bytes, file holds at most %d",
			ErrShapeMismatch, descr.Shape, n, limit)
	}

	a := Array{
		Dtype: descr.Type,
		Shape: append([]int(nil), descr.Shape...),
		Data:  make([]uint8, n),
	}
	if n > 0 {
		if err := nr.Read(&a.Data); err != nil {
			return Array{}, fmt.Errorf("%w: want %d bytes: %v", ErrShapeMismatch, n, err)
		}
	}
	if len(a.Data) != n {
		return Array{}, fmt.Errorf("%w: want %d bytes, got %d", ErrShapeMismatch, n, len(a.Data))
	}
	return a, nil
}
