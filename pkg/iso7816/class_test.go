package iso7816

import (
	"testing"
)

func TestNewClass(t *testing.T) {
	tests := []struct {
		name    string
		cla     byte
		wantErr bool
		check   func(Class) bool
	}{
		{
			name:    "Reserved FF",
			cla:     0xFF,
			wantErr: true,
		},
		{
			name: "Interindustry SELECT / GET RESPONSE class",
			cla:  CLA_INTERINDUSTRY,
			check: func(c Class) bool {
				return !c.IsProprietary && c.Channel == 0 && c.SecureMessaging == SMNone
			},
		},
		{
			name: "First Interindustry - Ch 3, Chaining, SM Auth",
			// 0b0(Prop)_0(First)_0_1(Chain)_11(SMAuth)_11(Ch3)
			cla: 0b0_0_0_1_11_11,
			check: func(c Class) bool {
				return c.IsChained && c.Channel == 3 && c.SecureMessaging == SMHeaderAuth
			},
		},
		{
			name: "Further Interindustry - Ch 19, SM, Chaining",
			cla:  0b0_1_1_1_1111,
			check: func(c Class) bool {
				return c.IsChained && c.Channel == 19 && c.SecureMessaging == SMHeaderNoProc
			},
		},
		{
			name: "Proprietary READ BINARY class",
			cla:  CLA_PROPRIETARY,
			check: func(c Class) bool {
				return c.IsProprietary && c.Raw == 0x80
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := NewClass(tt.cla)
			if (err != nil) != tt.wantErr {
				t.Errorf("NewClass() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if !tt.wantErr && !tt.check(c) {
				t.Errorf("NewClass(%08b) failed validation: %+v", tt.cla, c)
			}
		})
	}
}

func TestClass_Encode_RoundTrip(t *testing.T) {
	testCases := []byte{
		0x00,           // First Interindustry: Ch 0
		0b0_0_0_1_11_11, // First Interindustry: Ch 3, SM Auth, Chaining
		0b0_1_0_0_0000, // Further Interindustry: Ch 4
		0b0_1_1_1_1111, // Further Interindustry: Ch 19, SM, Chaining
		0x80,           // Proprietary
	}

	for _, originalCla := range testCases {
		c, err := NewClass(originalCla)
		if err != nil {
			t.Fatalf("Failed to create class from %08b: %v", originalCla, err)
		}

		encoded, err := c.Encode()
		if err != nil {
			t.Fatalf("Failed to encode class %+v: %v", c, err)
		}

		if encoded != originalCla {
			t.Errorf("Round-trip mismatch: got %08b, want %08b", encoded, originalCla)
		}
	}
}

func TestClass_Encode_Invalid(t *testing.T) {
	c := Class{Channel: 20}
	if _, err := c.Encode(); err == nil {
		t.Error("Should have failed: channel 20 is out of range")
	}

	c = Class{Channel: 5, SecureMessaging: SMHeaderAuth}
	if _, err := c.Encode(); err == nil {
		t.Error("Should have failed: SMHeaderAuth is not supported for channels 4-19")
	}
}

func TestMustClass_Panics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("MustClass(0xFF) should panic")
		}
	}()
	MustClass(0xFF)
}
