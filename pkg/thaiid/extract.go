package thaiid

import (
	"fmt"

	"github.com/gregLibert/thai-id-card/pkg/thaitext"
)

// recordBuilder collects decoded fields. The Record is only handed out by
// build, after every field has been set.
type recordBuilder struct {
	rec   Record
	photo []byte
}

func (b *recordBuilder) set(f Field, data []byte) error {
	if f.Kind == KindPhoto {
		b.photo = append(b.photo, data...)
		return nil
	}

	text, err := thaitext.Decode(data)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrDecoding, f.Name, err)
	}

	var date Date
	if f.Kind == KindDate {
		if date, err = ParseDate(text); err != nil {
			return fmt.Errorf("%s: %w", f.Name, err)
		}
	}

	switch f.Name {
	case FieldCID:
		b.rec.CID = text
	case FieldNameTH:
		b.rec.NameTH = text
	case FieldNameEN:
		b.rec.NameEN = text
	case FieldDateOfBirth:
		b.rec.DateOfBirth = date
	case FieldGender:
		b.rec.Gender = text
	case FieldCardIssuer:
		b.rec.CardIssuer = text
	case FieldIssueDate:
		b.rec.IssueDate = date
	case FieldExpireDate:
		b.rec.ExpireDate = date
	case FieldAddress:
		b.rec.Address = text
	default:
		return fmt.Errorf("unknown field %q", f.Name)
	}
	return nil
}

func (b *recordBuilder) build() *Record {
	rec := b.rec
	rec.Photo = b.photo
	return &rec
}

// Extract selects the applet and reads every catalog entry in order. The
// first failing read or decode aborts the extraction; nothing further is
// sent to the card and no record is returned.
func Extract(s *Session) (*Record, error) {
	if _, err := s.SelectApplication(); err != nil {
		return nil, err
	}

	b := recordBuilder{photo: make([]byte, 0, PhotoSize)}
	for _, f := range Catalog() {
		resp, err := s.ReadField(f)
		if err != nil {
			return nil, err
		}
		if err := b.set(f, resp.Data); err != nil {
			return nil, err
		}
	}

	rec := b.build()
	s.logger.Debug("card read", "cid", rec.CID, "photo_bytes", len(rec.Photo), "exchanges", len(s.Trace()))
	return rec, nil
}

// Read opens the card in reader (the first one when empty), extracts it and
// closes the connection.
func Read(svc ReaderService, reader string, opts ...Option) (*Record, error) {
	s, err := Open(svc, reader, opts...)
	if err != nil {
		return nil, err
	}

	rec, err := Extract(s)
	if cerr := s.Close(); cerr != nil && err == nil {
		s.logger.Warn("failed to release card", "err", cerr)
	}
	return rec, err
}
