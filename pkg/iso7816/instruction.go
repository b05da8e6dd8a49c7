package iso7816

import (
	"fmt"

	"github.com/gregLibert/thai-id-card/pkg/bits"
)

// Instruction byte (INS) according to ISO/IEC 7816-4.
//
// Bit 1 of an interindustry INS selects the data field format: 0 for plain
// data, 1 for BER-TLV (READ BINARY 'B0' vs 'B1'). Values 6X and 9X are
// reserved for SW1 procedure bytes under T=0 and are rejected.

// InsCode is a typed representation of the instruction byte.
type InsCode byte

// Instruction codes used by the reader and its diagnostics.
const (
	INS_VERIFY          InsCode = 0x20
	INS_GET_CHALLENGE   InsCode = 0x84
	INS_SELECT          InsCode = 0xA4
	INS_READ_BINARY     InsCode = 0xB0
	INS_READ_BINARY_BER InsCode = 0xB1
	INS_READ_RECORD     InsCode = 0xB2
	INS_GET_RESPONSE    InsCode = 0xC0
	INS_GET_DATA        InsCode = 0xCA
)

var insNames = map[InsCode]string{
	INS_VERIFY:          "INS_VERIFY",
	INS_GET_CHALLENGE:   "INS_GET_CHALLENGE",
	INS_SELECT:          "INS_SELECT",
	INS_READ_BINARY:     "INS_READ_BINARY",
	INS_READ_BINARY_BER: "INS_READ_BINARY_BER",
	INS_READ_RECORD:     "INS_READ_RECORD",
	INS_GET_RESPONSE:    "INS_GET_RESPONSE",
	INS_GET_DATA:        "INS_GET_DATA",
}

func (i InsCode) String() string {
	if name, ok := insNames[i]; ok {
		return name
	}
	return fmt.Sprintf("InsCode(0x%02X)", byte(i))
}

// Instruction represents the parsed ISO 7816-4 Instruction byte (INS).
type Instruction struct {
	Raw      InsCode
	IsBERTLV bool
}

// NewInstruction creates an Instruction object with validation.
func NewInstruction(ins InsCode) (Instruction, error) {
	highNibble, _ := bits.Nibbles(byte(ins))
	if highNibble == 0x6 || highNibble == 0x9 {
		return Instruction{}, fmt.Errorf("invalid INS 0x%02X: 6X and 9X are reserved", byte(ins))
	}

	return Instruction{
		Raw:      ins,
		IsBERTLV: bits.IsSet(byte(ins), 1),
	}, nil
}

// MustInstruction is NewInstruction for the constants above. It panics on a reserved code.
func MustInstruction(ins InsCode) Instruction {
	i, err := NewInstruction(ins)
	if err != nil {
		panic(err)
	}
	return i
}

// Verbose returns a human-readable description of the instruction.
func (i Instruction) Verbose() string {
	format := "Standard"
	if i.IsBERTLV {
		format = "BER-TLV"
	}
	return fmt.Sprintf("INS: 0x%02X | Command: %s | Format: %s", byte(i.Raw), i.Raw.String(), format)
}
