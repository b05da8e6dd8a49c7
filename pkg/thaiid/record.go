package thaiid

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Keys of the map returned by Record.Data.
const (
	KeyCID         = "cid"
	KeyNameTH      = "NameTH"
	KeyNameEN      = "NameEn"
	KeyDateOfBirth = "DateOfBirth"
	KeyGender      = "Gender"
	KeyCardIssuer  = "CardIssuer"
	KeyIssueDate   = "IssueDate"
	KeyExpireDate  = "ExpireDate"
	KeyAddress     = "Address"
	KeyError       = "Error"
)

// NoDataMessage is the value of KeyError when no card has been read.
const NoDataMessage = "No data"

// Gender codes stored on the card.
const (
	GenderMale   = "1"
	GenderFemale = "2"
)

// Record is the decoded content of a card.
type Record struct {
	CID         string
	NameTH      string
	NameEN      string
	DateOfBirth Date
	Gender      string
	CardIssuer  string
	IssueDate   Date
	ExpireDate  Date
	Address     string
	Photo       []byte // JPEG, padded to PhotoSize by the card
}

// Empty reports whether r holds no card data.
func (r *Record) Empty() bool {
	return r == nil || r.CID == ""
}

// Data returns the record as a key/value map, or the single entry
// {"Error": "No data"} when no card has been read.
func (r *Record) Data() map[string]any {
	if r.Empty() {
		return map[string]any{KeyError: NoDataMessage}
	}
	return map[string]any{
		KeyCID:         r.CID,
		KeyNameTH:      r.NameTH,
		KeyNameEN:      r.NameEN,
		KeyDateOfBirth: r.DateOfBirth,
		KeyGender:      r.Gender,
		KeyCardIssuer:  r.CardIssuer,
		KeyIssueDate:   r.IssueDate,
		KeyExpireDate:  r.ExpireDate,
		KeyAddress:     r.Address,
	}
}

// PhotoName returns the photo file name: base, or the English name with
// spaces replaced by hyphens (the CID when the name is blank), plus ".jpg".
func (r *Record) PhotoName(base string) string {
	if base == "" && r != nil {
		base = strings.ReplaceAll(r.NameEN, " ", "-")
		if base == "" {
			base = r.CID
		}
	}
	return base + ".jpg"
}

// SavePhoto writes the photo to dir and returns the path written.
func (r *Record) SavePhoto(dir, base string) (string, error) {
	if r.Empty() {
		return "", fmt.Errorf("%w: no card data", ErrIO)
	}

	path := filepath.Join(dir, r.PhotoName(base))
	if err := os.WriteFile(path, r.Photo, 0o644); err != nil {
		return "", fmt.Errorf("%w: %w", ErrIO, err)
	}
	return path, nil
}

// Assemble returns r.Data and, when r holds card data, saves the photo once.
// The sentinel map is returned without touching the filesystem.
func Assemble(r *Record, dir, base string) (map[string]any, string, error) {
	data := r.Data()
	if r.Empty() {
		return data, "", nil
	}

	path, err := r.SavePhoto(dir, base)
	if err != nil {
		return nil, "", err
	}
	return data, path, nil
}

// Describe renders the record as a text report.
func (r *Record) Describe() string {
	if r.Empty() {
		return "=== THAI NATIONAL ID CARD ===\n    - No data."
	}

	var sb strings.Builder
	sb.WriteString("=== THAI NATIONAL ID CARD ===\n")
	row := func(label string, value any) {
		fmt.Fprintf(&sb, "    + %-14s %v\n", label+":", value)
	}
	row("CID", r.CID)
	row("Name (TH)", r.NameTH)
	row("Name (EN)", r.NameEN)
	row("Date of birth", r.DateOfBirth)
	row("Gender", genderLabel(r.Gender))
	row("Card issuer", r.CardIssuer)
	row("Issue date", r.IssueDate)
	row("Expire date", r.ExpireDate)
	row("Address", r.Address)
	row("Photo", fmt.Sprintf("%d bytes", len(r.Photo)))

	return strings.TrimRight(sb.String(), "\n")
}

func genderLabel(code string) string {
	switch code {
	case GenderMale:
		return code + " (male)"
	case GenderFemale:
		return code + " (female)"
	default:
		return code
	}
}
