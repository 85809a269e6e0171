package imaging

import (
	"errors"
	"image"
	"testing"
)

func TestNew_Variants(t *testing.T) {
	one, err := New(3, 2, 1, make([]byte, 6))
	if err != nil {
		t.Fatalf("New 1 channel failed: %v", err)
	}
	if _, ok := one.(*OneChannel); !ok {
		t.Errorf("New with 1 channel returned %T", one)
	}

	three, err := New(3, 2, 3, make([]byte, 18))
	if err != nil {
		t.Fatalf("New 3 channels failed: %v", err)
	}
	if _, ok := three.(*ThreeChannel); !ok {
		t.Errorf("New with 3 channels returned %T", three)
	}
}

func TestNew_Invalid(t *testing.T) {
	tests := []struct {
		name                    string
		width, height, channels int
		n                       int
	}{
		{"zero width", 0, 2, 1, 0},
		{"zero height", 2, 0, 3, 0},
		{"negative width", -1, 2, 1, 2},
		{"short buffer", 2, 2, 1, 3},
		{"long buffer", 2, 2, 3, 13},
		{"two channels", 2, 2, 2, 8},
		{"four channels", 2, 2, 4, 16},
		{"zero channels", 2, 2, 0, 0},
		{"overflowing size", 4, 1 << 62, 1, 0},
		{"negative size", 3037000500, 3037000500, 3, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.width, tt.height, tt.channels, make([]byte, tt.n))
			if !errors.Is(err, ErrInvalidBuffer) {
				t.Errorf("got %v, want ErrInvalidBuffer", err)
			}
		})
	}
}

func TestBuffer_At(t *testing.T) {
	one, _ := NewOneChannel(2, 2, []byte{1, 2, 3, 4})
	if got := one.At(1, 1); got != 4 {
		t.Errorf("OneChannel.At(1,1): got %d, want 4", got)
	}

	three, _ := NewThreeChannel(2, 1, []byte{1, 2, 3, 4, 5, 6})
	if a, b, c := three.At(1, 0); a != 4 || b != 5 || c != 6 {
		t.Errorf("ThreeChannel.At(1,0): got (%d,%d,%d), want (4,5,6)", a, b, c)
	}
}

func TestToImage(t *testing.T) {
	one, _ := NewOneChannel(2, 1, []byte{10, 20})
	gray, ok := ToImage(one).(*image.Gray)
	if !ok {
		t.Fatalf("ToImage(OneChannel) returned %T", ToImage(one))
	}
	if gray.GrayAt(1, 0).Y != 20 {
		t.Errorf("GrayAt(1,0): got %d, want 20", gray.GrayAt(1, 0).Y)
	}

	three, _ := NewThreeChannel(1, 1, []byte{10, 20, 30})
	nrgba, ok := ToImage(three).(*image.NRGBA)
	if !ok {
		t.Fatalf("ToImage(ThreeChannel) returned %T", ToImage(three))
	}
	c := nrgba.NRGBAAt(0, 0)
	if c.R != 10 || c.G != 20 || c.B != 30 || c.A != 255 {
		t.Errorf("NRGBAAt(0,0): got %v, want {10 20 30 255}", c)
	}
}
