// Package npy reads and writes uint8 arrays in the NumPy NPY file format.
//
// An NPY file is a 10-byte preamble (magic "\x93NUMPY", major and minor
// version, little-endian header length), an ASCII header holding a Python
// dict literal, and the raw array data:
//
//	{'descr': '|u1', 'fortran_order': False, 'shape': (480, 640, 3), }
//
// The header is padded with spaces and terminated by a newline so that the
// data starts on a 64-byte boundary. Write always produces version 1.0 files.
// Read decodes through github.com/sbinet/npyio and accepts versions 1.0 to
// 3.0, but only uint8 data in C order; any other descriptor yields
// ErrUnsupportedDtype. Shapes whose element count overflows int are rejected
// with ErrInvalidHeader before any data is allocated.
package npy
