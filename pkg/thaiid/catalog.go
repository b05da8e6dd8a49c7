package thaiid

import (
	"fmt"

	"github.com/gregLibert/thai-id-card/pkg/iso7816"
)

// The Thai ID applet exposes its data as one binary file. Each field is read
// with a proprietary READ BINARY:
//
//	80 B0 P1 P2 02 00 Le
//
// P1 P2 is the offset of the field and the two data bytes (00 Le) the number
// of bytes wanted. The card answers 61 Le and the bytes are fetched with a
// GET RESPONSE carrying the same Le.
//
// The offsets come from the card's file layout and cannot be derived. The
// photo is 20 consecutive blocks of 255 bytes starting at 0x017B; P1 P2 of
// block i is 0x017B + 255*(i-1), which is why P1 climbs while P2 falls.

// AppletAID is the application identifier of the Thai national ID applet.
var AppletAID = []byte{0xA0, 0x00, 0x00, 0x00, 0x54, 0x48, 0x00, 0x01}

// Field names, in read order.
const (
	FieldCID         = "CID"
	FieldNameTH      = "THFullName"
	FieldNameEN      = "ENFullName"
	FieldDateOfBirth = "DateOfBirth"
	FieldGender      = "Gender"
	FieldCardIssuer  = "CardIssuer"
	FieldIssueDate   = "IssueDate"
	FieldExpireDate  = "ExpireDate"
	FieldAddress     = "Address"
)

// Kind tells the extractor how to decode a field.
type Kind int

const (
	KindText Kind = iota
	KindDate
	KindCode
	KindPhoto
)

func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindDate:
		return "date"
	case KindCode:
		return "code"
	case KindPhoto:
		return "photo"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Field is one catalog entry.
type Field struct {
	Name   string
	Kind   Kind
	P1, P2 byte
	Length byte
}

var (
	readClass       = iso7816.MustClass(iso7816.CLA_PROPRIETARY)
	readInstruction = iso7816.MustInstruction(iso7816.INS_READ_BINARY)
	selectClass     = iso7816.MustClass(iso7816.CLA_INTERINDUSTRY)
)

// Command returns the READ BINARY command for the field.
func (f Field) Command() *iso7816.CommandAPDU {
	return iso7816.NewCommandAPDU(readClass, readInstruction, f.P1, f.P2, []byte{0x00, f.Length}, 0)
}

// Offset is the position of the field in the card file.
func (f Field) Offset() int {
	return int(f.P1)<<8 | int(f.P2)
}

// SelectApplet returns 00 A4 04 00 08 followed by AppletAID.
func SelectApplet() *iso7816.CommandAPDU {
	return iso7816.SelectByAID(selectClass, AppletAID)
}

var fields = [...]Field{
	{Name: FieldCID, Kind: KindText, P1: 0x00, P2: 0x04, Length: 0x0D},
	{Name: FieldNameTH, Kind: KindText, P1: 0x00, P2: 0x11, Length: 0x64},
	{Name: FieldNameEN, Kind: KindText, P1: 0x00, P2: 0x75, Length: 0x64},
	{Name: FieldDateOfBirth, Kind: KindDate, P1: 0x00, P2: 0xD9, Length: 0x08},
	{Name: FieldGender, Kind: KindCode, P1: 0x00, P2: 0xE1, Length: 0x01},
	{Name: FieldCardIssuer, Kind: KindText, P1: 0x00, P2: 0xF6, Length: 0x64},
	{Name: FieldIssueDate, Kind: KindDate, P1: 0x01, P2: 0x67, Length: 0x08},
	{Name: FieldExpireDate, Kind: KindDate, P1: 0x01, P2: 0x6F, Length: 0x08},
	{Name: FieldAddress, Kind: KindText, P1: 0x15, P2: 0x79, Length: 0x64},
}

var photoBlocks = [...]Field{
	{Name: "Photo01", Kind: KindPhoto, P1: 0x01, P2: 0x7B, Length: 0xFF},
	{Name: "Photo02", Kind: KindPhoto, P1: 0x02, P2: 0x7A, Length: 0xFF},
	{Name: "Photo03", Kind: KindPhoto, P1: 0x03, P2: 0x79, Length: 0xFF},
	{Name: "Photo04", Kind: KindPhoto, P1: 0x04, P2: 0x78, Length: 0xFF},
	{Name: "Photo05", Kind: KindPhoto, P1: 0x05, P2: 0x77, Length: 0xFF},
	{Name: "Photo06", Kind: KindPhoto, P1: 0x06, P2: 0x76, Length: 0xFF},
	{Name: "Photo07", Kind: KindPhoto, P1: 0x07, P2: 0x75, Length: 0xFF},
	{Name: "Photo08", Kind: KindPhoto, P1: 0x08, P2: 0x74, Length: 0xFF},
	{Name: "Photo09", Kind: KindPhoto, P1: 0x09, P2: 0x73, Length: 0xFF},
	{Name: "Photo10", Kind: KindPhoto, P1: 0x0A, P2: 0x72, Length: 0xFF},
	{Name: "Photo11", Kind: KindPhoto, P1: 0x0B, P2: 0x71, Length: 0xFF},
	{Name: "Photo12", Kind: KindPhoto, P1: 0x0C, P2: 0x70, Length: 0xFF},
	{Name: "Photo13", Kind: KindPhoto, P1: 0x0D, P2: 0x6F, Length: 0xFF},
	{Name: "Photo14", Kind: KindPhoto, P1: 0x0E, P2: 0x6E, Length: 0xFF},
	{Name: "Photo15", Kind: KindPhoto, P1: 0x0F, P2: 0x6D, Length: 0xFF},
	{Name: "Photo16", Kind: KindPhoto, P1: 0x10, P2: 0x6C, Length: 0xFF},
	{Name: "Photo17", Kind: KindPhoto, P1: 0x11, P2: 0x6B, Length: 0xFF},
	{Name: "Photo18", Kind: KindPhoto, P1: 0x12, P2: 0x6A, Length: 0xFF},
	{Name: "Photo19", Kind: KindPhoto, P1: 0x13, P2: 0x69, Length: 0xFF},
	{Name: "Photo20", Kind: KindPhoto, P1: 0x14, P2: 0x68, Length: 0xFF},
}

// Fields returns the scalar fields in read order.
func Fields() []Field {
	out := fields
	return out[:]
}

// PhotoBlocks returns the 20 photo blocks in read order.
func PhotoBlocks() []Field {
	out := photoBlocks
	return out[:]
}

// Catalog returns every read entry: the scalar fields then the photo blocks.
func Catalog() []Field {
	return append(Fields(), PhotoBlocks()...)
}

// PhotoSize is the number of bytes the photo blocks cover.
const PhotoSize = len(photoBlocks) * 0xFF
