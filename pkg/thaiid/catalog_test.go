package thaiid

import (
	"bytes"
	"testing"

	"github.com/gregLibert/thai-id-card/pkg/tlv"
)

func TestSelectApplet_Bytes(t *testing.T) {
	want := tlv.Hex("00 A4 04 00 08", "A0 00 00 00 54 48 00 01")
	if got := SelectApplet().MustBytes(); !bytes.Equal(got, want) {
		t.Errorf("SelectApplet() = %X, want %X", got, want)
	}
}

func TestCatalog_Bytes(t *testing.T) {
	want := map[string][]byte{
		FieldCID:         tlv.Hex("80 B0 00 04 02 00 0D"),
		FieldNameTH:      tlv.Hex("80 B0 00 11 02 00 64"),
		FieldNameEN:      tlv.Hex("80 B0 00 75 02 00 64"),
		FieldDateOfBirth: tlv.Hex("80 B0 00 D9 02 00 08"),
		FieldGender:      tlv.Hex("80 B0 00 E1 02 00 01"),
		FieldCardIssuer:  tlv.Hex("80 B0 00 F6 02 00 64"),
		FieldIssueDate:   tlv.Hex("80 B0 01 67 02 00 08"),
		FieldExpireDate:  tlv.Hex("80 B0 01 6F 02 00 08"),
		FieldAddress:     tlv.Hex("80 B0 15 79 02 00 64"),
		"Photo01":        tlv.Hex("80 B0 01 7B 02 00 FF"),
		"Photo02":        tlv.Hex("80 B0 02 7A 02 00 FF"),
		"Photo10":        tlv.Hex("80 B0 0A 72 02 00 FF"),
		"Photo19":        tlv.Hex("80 B0 13 69 02 00 FF"),
		"Photo20":        tlv.Hex("80 B0 14 68 02 00 FF"),
	}

	for _, f := range Catalog() {
		raw := f.Command().MustBytes()

		if raw[len(raw)-1] != f.Length {
			t.Errorf("%s: last byte %02X, want Le %02X", f.Name, raw[len(raw)-1], f.Length)
		}
		if exp, ok := want[f.Name]; ok && !bytes.Equal(raw, exp) {
			t.Errorf("%s: command = %X, want %X", f.Name, raw, exp)
		}
	}
}

func TestCatalog_Order(t *testing.T) {
	wantScalar := []string{
		FieldCID, FieldNameTH, FieldNameEN, FieldDateOfBirth, FieldGender,
		FieldCardIssuer, FieldIssueDate, FieldExpireDate, FieldAddress,
	}

	all := Catalog()
	if len(all) != len(wantScalar)+20 {
		t.Fatalf("catalog has %d entries, want %d", len(all), len(wantScalar)+20)
	}

	for i, name := range wantScalar {
		if all[i].Name != name {
			t.Errorf("entry %d = %s, want %s", i, all[i].Name, name)
		}
	}

	blocks := PhotoBlocks()
	for i, b := range blocks {
		if b.Kind != KindPhoto {
			t.Errorf("%s: kind %s, want photo", b.Name, b.Kind)
		}
		// blocks are contiguous 255 byte slices of the photo area
		if want := blocks[0].Offset() + i*0xFF; b.Offset() != want {
			t.Errorf("%s: offset %04X, want %04X", b.Name, b.Offset(), want)
		}
		if i > 0 && (b.P1 <= blocks[i-1].P1 || b.P2 >= blocks[i-1].P2) {
			t.Errorf("%s: P1 must rise and P2 fall (got %02X %02X after %02X %02X)",
				b.Name, b.P1, b.P2, blocks[i-1].P1, blocks[i-1].P2)
		}
	}
}

func TestCatalog_IsImmutable(t *testing.T) {
	f := Fields()
	f[0].P2 = 0xEE
	p := PhotoBlocks()
	p[0].Length = 0x01

	if Fields()[0].P2 != 0x04 || PhotoBlocks()[0].Length != 0xFF {
		t.Error("catalog was modified through a returned slice")
	}
}
