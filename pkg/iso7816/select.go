package iso7816

import (
	"fmt"
)

// SELECT (INS 'A4'):
//   - P1 is the selection method (by file id, by DF name/AID, by path...).
//   - P2 bits 4-3 choose the returned template (FCI, FCP, FMD, none),
//     bits 2-1 the occurrence.

// SelectionMethod defines how the file is targeted (P1).
type SelectionMethod byte

const (
	SelectByFileID   SelectionMethod = 0x00
	SelectByDFName   SelectionMethod = 0x04 // Select by AID
	SelectPathFromMF SelectionMethod = 0x08
)

func (s SelectionMethod) String() string {
	switch s {
	case SelectByFileID:
		return "Select by File ID"
	case SelectByDFName:
		return "Select by DF Name (AID)"
	case SelectPathFromMF:
		return "Select Path from MF"
	default:
		return fmt.Sprintf("Unknown Method (0x%02X)", byte(s))
	}
}

// SelectionControl defines what data to return (Bits 3-4 of P2).
type SelectionControl byte

const (
	ReturnFCI    SelectionControl = 0b0000_00_00
	ReturnFCP    SelectionControl = 0b0000_01_00
	ReturnFMD    SelectionControl = 0b0000_10_00
	ReturnNoData SelectionControl = 0b0000_11_00
)

// NewSelectCommand creates a SELECT command for the first or only occurrence.
func NewSelectCommand(cla Class, method SelectionMethod, ctrl SelectionControl, data []byte) *CommandAPDU {
	// Under T=0 a case 4 command cannot carry Le: data commands go out as
	// case 3 and the card answers 61XX.
	ne := 0
	if len(data) == 0 && ctrl != ReturnNoData {
		ne = MaxShortLe
	}

	return NewCommandAPDU(cla, MustInstruction(INS_SELECT), byte(method), byte(ctrl), data, ne)
}

// SelectByAID creates a SELECT command for an application identified by its AID.
func SelectByAID(cla Class, aid []byte) *CommandAPDU {
	return NewSelectCommand(cla, SelectByDFName, ReturnFCI, aid)
}

// GetResponse creates a GET RESPONSE command fetching le bytes.
// Cards differ in the P2 they expect; it is passed through unchanged.
func GetResponse(cla Class, p2 byte, le int) *CommandAPDU {
	cla.IsChained = false
	return NewCommandAPDU(cla, MustInstruction(INS_GET_RESPONSE), 0x00, p2, nil, le)
}
