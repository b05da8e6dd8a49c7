package tlv

import (
	"fmt"
	"strings"

	"github.com/moov-io/bertlv"
)

// Dump decodes data as BER-TLV and renders one line per tag, nested
// templates indented below their parent.
func Dump(data []byte) (string, error) {
	packets, err := bertlv.Decode(data)
	if err != nil {
		return "", fmt.Errorf("bertlv decode failed: %w", err)
	}

	var lines []string
	writePackets(&lines, packets, 1)
	return strings.Join(lines, "\n"), nil
}

// DumpOrHex is Dump with a hex fallback for payloads that are not TLV encoded.
func DumpOrHex(data []byte) string {
	if len(data) == 0 {
		return "    - No Data."
	}
	if out, err := Dump(data); err == nil && out != "" {
		return out
	}
	return fmt.Sprintf("    - Raw: %X (%q)", data, MakeSafeASCII(data))
}

func writePackets(lines *[]string, packets []bertlv.TLV, depth int) {
	indent := strings.Repeat("    ", depth)
	for _, p := range packets {
		tag := strings.ToUpper(p.Tag)
		if len(p.TLVs) > 0 {
			*lines = append(*lines, fmt.Sprintf("%s- %s:", indent, tag))
			writePackets(lines, p.TLVs, depth+1)
			continue
		}
		*lines = append(*lines, fmt.Sprintf("%s- %s: %X (%q)", indent, tag, p.Value, MakeSafeASCII(p.Value)))
	}
}
