package iso7816

import (
	"fmt"

	"github.com/gregLibert/thai-id-card/pkg/bits"
)

// Class byte (CLA) according to ISO/IEC 7816-4.
//
// Bit 8: Proprietary (1) or Interindustry (0). Proprietary classes carry no
// further structure; the Thai ID applet reads its files with CLA 0x80.
//
// First interindustry class (000x xxxx):
//   - Bit 5: Command chaining.
//   - Bits 4-3: Secure messaging.
//   - Bits 2-1: Logical channel (0-3).
//
// Further interindustry class (01xx xxxx):
//   - Bit 6: Secure messaging.
//   - Bit 5: Command chaining.
//   - Bits 4-1: Logical channel minus 4 (4-19).

// SecureMessaging defines the security level applied to the APDU.
type SecureMessaging int

const (
	SMNone         SecureMessaging = 0
	SMProprietary  SecureMessaging = 1
	SMHeaderNoProc SecureMessaging = 2
	SMHeaderAuth   SecureMessaging = 3
)

// Class bytes used by the Thai ID card.
const (
	CLA_INTERINDUSTRY byte = 0x00
	CLA_PROPRIETARY   byte = 0x80
)

// Class represents the parsed ISO 7816-4 Class byte (CLA).
type Class struct {
	Raw             byte
	IsProprietary   bool
	IsChained       bool
	SecureMessaging SecureMessaging
	Channel         uint8 // Logical channel number (0-19)
}

// NewClass creates a Class object by decoding a raw CLA byte.
func NewClass(cla byte) (Class, error) {
	if cla == 0xFF {
		return Class{}, fmt.Errorf("invalid CLA value: 0xFF is reserved")
	}

	c := Class{Raw: cla}

	if bits.IsSet(cla, 8) {
		c.IsProprietary = true
		return c, nil
	}

	c.IsChained = bits.IsSet(cla, 5)

	if !bits.IsSet(cla, 7) {
		c.SecureMessaging = SecureMessaging(bits.GetRange(cla, 4, 3))
		c.Channel = bits.GetRange(cla, 2, 1)
	} else {
		if bits.IsSet(cla, 6) {
			c.SecureMessaging = SMHeaderNoProc
		}
		c.Channel = bits.GetRange(cla, 4, 1) + 4
	}

	return c, nil
}

// MustClass is NewClass for constant class bytes. It panics on 0xFF.
func MustClass(cla byte) Class {
	c, err := NewClass(cla)
	if err != nil {
		panic(err)
	}
	return c
}

// Encode converts the Class object back to its byte representation.
func (c *Class) Encode() (byte, error) {
	if c.IsProprietary {
		return c.Raw, nil
	}
	if c.Channel > 19 {
		return 0, fmt.Errorf("channel %d out of range (max 19)", c.Channel)
	}

	var res byte

	if c.Channel <= 3 {
		if c.IsChained {
			res = bits.Set(res, 5)
		}
		res |= byte(c.SecureMessaging) << 2
		res |= c.Channel
		return res, nil
	}

	if c.SecureMessaging == SMProprietary || c.SecureMessaging == SMHeaderAuth {
		return 0, fmt.Errorf("SM indicator %d not supported for further interindustry range (ch 4-19)", c.SecureMessaging)
	}

	res = bits.Set(res, 7)
	if c.IsChained {
		res = bits.Set(res, 5)
	}
	if c.SecureMessaging != SMNone {
		res = bits.Set(res, 6)
	}
	res |= c.Channel - 4

	return res, nil
}

// Verbose returns a one line description of the CLA byte.
func (c Class) Verbose() string {
	if c.IsProprietary {
		return fmt.Sprintf("CLA: 0x%02X | Proprietary", c.Raw)
	}
	chaining := ""
	if c.IsChained {
		chaining = " | Chained"
	}
	return fmt.Sprintf("CLA: 0x%02X | Interindustry | Channel: %d | SM: %d%s", c.Raw, c.Channel, c.SecureMessaging, chaining)
}
