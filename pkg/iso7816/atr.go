package iso7816

import (
	"fmt"
	"strings"

	"github.com/gregLibert/thai-id-card/pkg/bits"
	"github.com/gregLibert/thai-id-card/pkg/tlv"
)

// ANSWER TO RESET (ISO/IEC 7816-3):
//
//	TS  T0  [TA1 TB1 TC1 TD1] [TA2 ...] ... T1..TK [TCK]
//
// TS gives the convention (3B direct, 3F inverse). The high nibble of T0 and
// of every TDi flags which interface bytes follow; the low nibble of T0 is K,
// the number of historical bytes, and the low nibble of each TDi a protocol.
// TCK is present as soon as a protocol other than T=0 is announced.

// Convention is the bit order announced by TS.
type Convention byte

const (
	ConventionDirect  Convention = 0x3B
	ConventionInverse Convention = 0x3F
)

func (c Convention) String() string {
	switch c {
	case ConventionDirect:
		return "Direct"
	case ConventionInverse:
		return "Inverse"
	default:
		return fmt.Sprintf("Unknown (0x%02X)", byte(c))
	}
}

// ATR is a decoded Answer To Reset.
type ATR struct {
	Raw        []byte
	Convention Convention
	Protocols  []byte // T values announced by TD bytes, T=0 when none
	Historical []byte
	TCK        []byte // empty, or the single check byte
}

// ParseATR decodes the structure of an ATR.
func ParseATR(raw []byte) (*ATR, error) {
	if len(raw) < 2 {
		return nil, fmt.Errorf("ATR too short: length %d", len(raw))
	}

	atr := &ATR{Raw: raw, Convention: Convention(raw[0])}
	if atr.Convention != ConventionDirect && atr.Convention != ConventionInverse {
		return nil, fmt.Errorf("invalid TS 0x%02X", raw[0])
	}

	presence, k := bits.Nibbles(raw[1])
	pos := 2
	needTCK := false

	for {
		// TA, TB, TC
		pos += bits.Count(presence & 0x07)
		if pos > len(raw) {
			return nil, fmt.Errorf("ATR truncated in interface bytes")
		}
		if !bits.IsSet(presence, 4) {
			break
		}
		if pos >= len(raw) {
			return nil, fmt.Errorf("ATR truncated: missing TD byte")
		}

		var proto byte
		presence, proto = bits.Nibbles(raw[pos])
		pos++

		atr.Protocols = append(atr.Protocols, proto)
		if proto != 0 {
			needTCK = true
		}
	}

	if len(atr.Protocols) == 0 {
		atr.Protocols = []byte{0}
	}

	end := pos + int(k)
	if end > len(raw) {
		return nil, fmt.Errorf("ATR truncated: want %d historical bytes, have %d", k, len(raw)-pos)
	}
	atr.Historical = raw[pos:end]

	if needTCK {
		if end >= len(raw) {
			return nil, fmt.Errorf("ATR truncated: missing TCK")
		}
		atr.TCK = raw[end : end+1]
	}

	return atr, nil
}

// Describe returns a short multi-line report of the ATR.
func (a *ATR) Describe() string {
	var sb strings.Builder

	sb.WriteString("=== ANSWER TO RESET ===\n")
	fmt.Fprintf(&sb, "    + Raw:        %s\n", tlv.Spaced(a.Raw))
	fmt.Fprintf(&sb, "    + Convention: %s\n", a.Convention)

	protos := make([]string, len(a.Protocols))
	for i, p := range a.Protocols {
		protos[i] = fmt.Sprintf("T=%d", p)
	}
	fmt.Fprintf(&sb, "    + Protocols:  %s\n", strings.Join(protos, ", "))
	fmt.Fprintf(&sb, "    + Historical: %s (%q)", tlv.Spaced(a.Historical), tlv.MakeSafeASCII(a.Historical))

	if len(a.TCK) == 1 {
		fmt.Fprintf(&sb, "\n    + TCK:        %02X", a.TCK[0])
	}

	return sb.String()
}
