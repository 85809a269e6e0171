package npy

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func sequence(n int) []byte {
	data := make([]byte, n)
	for i := range data {
		data[i] = byte(i * 7)
	}
	return data
}

func TestRoundTrip(t *testing.T) {
	shapes := [][]int{
		{4, 4, 1},
		{4, 4, 3},
		{3, 5},
		{7},
		{2, 3, 3},
	}

	for _, shape := range shapes {
		a, err := NewUint8(sequence(product(shape)), shape...)
		if err != nil {
			t.Fatalf("NewUint8(%v) failed: %v", shape, err)
		}

		var buf bytes.Buffer
		if err := Write(&buf, a); err != nil {
			t.Fatalf("Write(%v) failed: %v", shape, err)
		}
		got, err := Read(&buf)
		if err != nil {
			t.Fatalf("Read(%v) failed: %v", shape, err)
		}

		if !equalShape(got.Shape, shape) {
			t.Errorf("shape: got %v, want %v", got.Shape, shape)
		}
		if !bytes.Equal(got.Data, a.Data) {
			t.Errorf("shape %v: data differs after round trip", shape)
		}
		if !got.IsUint8() {
			t.Errorf("dtype: got %q", got.Dtype)
		}
	}
}

func TestWrite_HeaderLayout(t *testing.T) {
	a, _ := NewUint8(make([]byte, 12), 2, 2, 3)

	var buf bytes.Buffer
	if err := Write(&buf, a); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	raw := buf.Bytes()

	if !bytes.HasPrefix(raw, []byte("\x93NUMPY\x01\x00")) {
		t.Fatalf("bad preamble: %q", raw[:8])
	}
	headerLen := int(raw[8]) | int(raw[9])<<8
	dataStart := 10 + headerLen
	if dataStart%64 != 0 {
		t.Errorf("data offset %d is not 64-byte aligned", dataStart)
	}
	header := string(raw[10:dataStart])
	if !strings.HasSuffix(header, "\n") {
		t.Error("header should end with a newline")
	}
	if !strings.Contains(header, "'shape': (2, 2, 3)") {
		t.Errorf("header missing shape: %q", header)
	}
	if !strings.Contains(header, "'descr': '|u1'") {
		t.Errorf("header missing descr: %q", header)
	}
	if len(raw)-dataStart != 12 {
		t.Errorf("data length: got %d, want 12", len(raw)-dataStart)
	}
}

func TestRead_PythonHeaders(t *testing.T) {
	tests := []struct {
		name   string
		header string
		shape  []int
	}{
		{"numpy default", "{'descr': '|u1', 'fortran_order': False, 'shape': (2, 3), }", []int{2, 3}},
		{"one axis", "{'descr': '|u1', 'fortran_order': False, 'shape': (6,), }", []int{6}},
		{"three axes", "{'descr': '|u1', 'fortran_order': False, 'shape': (1, 2, 3), }", []int{1, 2, 3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := product(tt.shape)
			got, err := Read(bytes.NewReader(rawFile(1, tt.header, make([]byte, n))))
			if err != nil {
				t.Fatalf("Read failed: %v", err)
			}
			if !equalShape(got.Shape, tt.shape) {
				t.Errorf("shape: got %v, want %v", got.Shape, tt.shape)
			}
		})
	}
}

func TestRead_Version2(t *testing.T) {
	header := "{'descr': '|u1', 'fortran_order': False, 'shape': (2, 2), }\n"
	var buf bytes.Buffer
	buf.WriteString("\x93NUMPY\x02\x00")
	n := len(header)
	buf.Write([]byte{byte(n), byte(n >> 8), 0, 0})
	buf.WriteString(header)
	buf.Write([]byte{1, 2, 3, 4})

	got, err := Read(&buf)
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if !bytes.Equal(got.Data, []byte{1, 2, 3, 4}) {
		t.Errorf("data: got %v", got.Data)
	}
}

func TestRead_Errors(t *testing.T) {
	tests := []struct {
		name string
		raw  []byte
		want error
	}{
		{"empty", nil, ErrInvalidHeader},
		{"bad magic", []byte("NOTNUMPY\x01\x00\x00\x00"), ErrInvalidHeader},
		{"bad version", rawFile(9, "{}", nil), ErrInvalidHeader},
		{"float dtype", rawFile(1, "{'descr': '<f4', 'fortran_order': False, 'shape': (1,), }", make([]byte, 4)), ErrUnsupportedDtype},
		{"int16 dtype", rawFile(1, "{'descr': '<i2', 'fortran_order': False, 'shape': (1,), }", make([]byte, 2)), ErrUnsupportedDtype},
		{"fortran order", rawFile(1, "{'descr': '|u1', 'fortran_order': True, 'shape': (2, 2), }", make([]byte, 4)), ErrInvalidHeader},
		{"wrapping shape", rawFile(1, "{'descr': '|u1', 'fortran_order': False, 'shape': (4611686018427387904, 4), }", nil), ErrInvalidHeader},
		{"negative product", rawFile(1, "{'descr': '|u1', 'fortran_order': False, 'shape': (3037000500, 3037000500), }", nil), ErrInvalidHeader},
		{"truncated data", rawFile(1, "{'descr': '|u1', 'fortran_order': False, 'shape': (4, 4), }", make([]byte, 3)), ErrShapeMismatch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Read(bytes.NewReader(tt.raw))
			if !errors.Is(err, tt.want) {
				t.Errorf("got %v, want %v", err, tt.want)
			}
		})
	}
}

func TestWrite_Rejects(t *testing.T) {
	var buf bytes.Buffer

	err := Write(&buf, Array{Dtype: "<f8", Shape: []int{1}, Data: make([]byte, 8)})
	if !errors.Is(err, ErrUnsupportedDtype) {
		t.Errorf("float dtype: got %v, want ErrUnsupportedDtype", err)
	}

	err = Write(&buf, Array{Dtype: DtypeUint8, Shape: []int{2, 2}, Data: make([]byte, 3)})
	if !errors.Is(err, ErrShapeMismatch) {
		t.Errorf("short data: got %v, want ErrShapeMismatch", err)
	}

	if buf.Len() != 0 {
		t.Errorf("rejected arrays wrote %d bytes", buf.Len())
	}
}

func TestFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "img"+Extension)
	a, _ := NewUint8(sequence(48), 4, 4, 3)

	if err := WriteFile(path, a); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	got, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if !bytes.Equal(got.Data, a.Data) || !equalShape(got.Shape, a.Shape) {
		t.Errorf("file round trip mismatch: %v %v", got.Shape, got.Data)
	}
}

func TestReadFile_ShapeLargerThanFile(t *testing.T) {
	tests := []struct {
		name  string
		shape string
		want  error
	}{
		{"wrapping shape", "(4611686018427387904, 4)", ErrInvalidHeader},
		{"negative product", "(3037000500, 3037000500)", ErrInvalidHeader},
		{"more data than file", "(100000, 100000, 3)", ErrShapeMismatch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "big"+Extension)
			header := "{'descr': '|u1', 'fortran_order': False, 'shape': " + tt.shape + ", }"
			if err := os.WriteFile(path, rawFile(1, header, make([]byte, 16)), 0o644); err != nil {
				t.Fatal(err)
			}
			_, err := ReadFile(path)
			if !errors.Is(err, tt.want) {
				t.Errorf("got %v, want %v", err, tt.want)
			}
		})
	}
}

func TestCount(t *testing.T) {
	tests := []struct {
		shape   []int
		want    int
		wantErr bool
	}{
		{nil, 1, false},
		{[]int{4, 4, 3}, 48, false},
		{[]int{0, 1 << 62, 8}, 0, false},
		{[]int{1 << 62, 4}, 0, true},
		{[]int{3037000500, 3037000500}, 0, true},
		{[]int{2, -1}, 0, true},
	}

	for _, tt := range tests {
		got, err := Count(tt.shape...)
		if (err != nil) != tt.wantErr {
			t.Errorf("Count(%v): err %v, wantErr %v", tt.shape, err, tt.wantErr)
			continue
		}
		if err != nil && !errors.Is(err, ErrInvalidHeader) {
			t.Errorf("Count(%v): got %v, want ErrInvalidHeader", tt.shape, err)
		}
		if err == nil && got != tt.want {
			t.Errorf("Count(%v): got %d, want %d", tt.shape, got, tt.want)
		}
	}
}

// rawFile assembles an NPY stream with the given major version and header.
func rawFile(major byte, header string, data []byte) []byte {
	header += "\n"
	var buf bytes.Buffer
	buf.WriteString("\x93NUMPY")
	buf.Write([]byte{major, 0, byte(len(header)), byte(len(header) >> 8)})
	buf.WriteString(header)
	buf.Write(data)
	return buf.Bytes()
}

func product(shape []int) int {
	n := 1
	for _, d := range shape {
		n *= d
	}
	return n
}

func equalShape(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
