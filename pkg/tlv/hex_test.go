package tlv

import (
	"bytes"
	"testing"
)

func TestHex(t *testing.T) {
	tests := []struct {
		name      string
		inputs    []string
		want      []byte
		wantPanic bool
	}{
		{
			name:   "Header and AID",
			inputs: []string{"00 A4 04 00 08", "A0000000 54480001"},
			want:   []byte{0x00, 0xA4, 0x04, 0x00, 0x08, 0xA0, 0x00, 0x00, 0x00, 0x54, 0x48, 0x00, 0x01},
		},
		{
			name:   "Surrounding spaces",
			inputs: []string{" 80 B0", " 00 04 "},
			want:   []byte{0x80, 0xB0, 0x00, 0x04},
		},
		{
			name:   "Mixed Case",
			inputs: []string{"ca", "FE"},
			want:   []byte{0xCA, 0xFE},
		},
		{
			name:      "Invalid Hex",
			inputs:    []string{"ZZ"},
			wantPanic: true,
		},
		{
			name:      "Odd Length",
			inputs:    []string{"123"},
			wantPanic: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			defer func() {
				r := recover()
				if (r != nil) != tt.wantPanic {
					t.Errorf("Hex() panic = %v, wantPanic %v", r, tt.wantPanic)
				}
			}()

			got := Hex(tt.inputs...)
			if !bytes.Equal(got, tt.want) {
				t.Errorf("Hex() = %X, want %X", got, tt.want)
			}
		})
	}
}

func TestSpaced(t *testing.T) {
	tests := []struct {
		data []byte
		want string
	}{
		{nil, ""},
		{[]byte{0x3B}, "3B"},
		{[]byte{0x3B, 0x67, 0x00}, "3B 67 00"},
	}

	for _, tt := range tests {
		if got := Spaced(tt.data); got != tt.want {
			t.Errorf("Spaced(%X) = %q, want %q", tt.data, got, tt.want)
		}
	}
}

func TestMakeSafeASCII(t *testing.T) {
	tests := []struct {
		data []byte
		want string
	}{
		{Hex("A0 00 00 00 54 48 00 01"), "....TH.."},
		{[]byte("1101700203451"), "1101700203451"},
		{[]byte{0xBB, 0xC3, 0xD0, '#', '#'}, "...##"},
		{nil, ""},
	}

	for _, tt := range tests {
		if got := MakeSafeASCII(tt.data); got != tt.want {
			t.Errorf("MakeSafeASCII(%X) = %q, want %q", tt.data, got, tt.want)
		}
	}
}
