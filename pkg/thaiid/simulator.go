package thaiid

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/gregLibert/thai-id-card/pkg/iso7816"
	"github.com/gregLibert/thai-id-card/pkg/thaitext"
)

// SimulatorReader is the only reader name a Simulator lists.
const SimulatorReader = "Thai ID Simulator 0"

// ErrCardRemoved is returned by a Simulator transmit selected with FailAt.
var ErrCardRemoved = errors.New("simulated card removal")

// Default ATRs of the two card generations.
var (
	ATRLegacy  = []byte{0x3B, 0x67, 0x00, 0x00, 0xA9, 0x44, 0x00, 0x00, 0x20, 0x00, 0x00}
	ATRCurrent = []byte{0x3B, 0x68, 0x00, 0x00, 0x00, 0x73, 0xC8, 0x40, 0x12, 0x00, 0x90, 0x00}
)

// Simulator is an in-memory Thai ID card. It answers the applet SELECT,
// the proprietary READ BINARY and GET RESPONSE like a real card, and also
// acts as a ReaderService with a single reader. The SELECT answer holds the
// applet name in a DF name (84) object.
type Simulator struct {
	// FailAt makes the n-th transmit (1-based) fail with ErrCardRemoved.
	FailAt int

	mu        sync.Mutex
	atr       []byte
	memory    []byte
	selected  bool
	pending   []byte
	transmits int
	closed    bool
}

// NewSimulator lays rec out in card memory. Text is stored in TIS-620 with
// spaces written as '#' fill.
func NewSimulator(rec *Record, atr []byte) (*Simulator, error) {
	last := fields[len(fields)-1]
	s := &Simulator{
		atr:    atr,
		memory: bytes.Repeat([]byte{' '}, last.Offset()+int(last.Length)),
	}

	values := map[string]string{
		FieldCID:         rec.CID,
		FieldNameTH:      rec.NameTH,
		FieldNameEN:      rec.NameEN,
		FieldDateOfBirth: compactDate(rec.DateOfBirth),
		FieldGender:      rec.Gender,
		FieldCardIssuer:  rec.CardIssuer,
		FieldIssueDate:   compactDate(rec.IssueDate),
		FieldExpireDate:  compactDate(rec.ExpireDate),
		FieldAddress:     rec.Address,
	}

	for _, f := range fields {
		raw, err := thaitext.Encode(strings.ReplaceAll(values[f.Name], " ", "#"))
		if err != nil {
			return nil, fmt.Errorf("%s: %w", f.Name, err)
		}
		if len(raw) > int(f.Length) {
			return nil, fmt.Errorf("%s: %d bytes do not fit in %d", f.Name, len(raw), f.Length)
		}
		copy(s.memory[f.Offset():], raw)
	}

	if len(rec.Photo) > PhotoSize {
		return nil, fmt.Errorf("photo: %d bytes do not fit in %d", len(rec.Photo), PhotoSize)
	}
	photo := s.memory[photoBlocks[0].Offset() : photoBlocks[0].Offset()+PhotoSize]
	for i := range photo {
		photo[i] = 0
	}
	copy(photo, rec.Photo)

	return s, nil
}

func compactDate(d Date) string {
	return fmt.Sprintf("%04d%02d%02d", d.Year, d.Month, d.Day)
}

// Transmits returns the number of APDUs received.
func (s *Simulator) Transmits() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.transmits
}

// Closed reports whether Close was called since the last Connect.
func (s *Simulator) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// ATR implements iso7816.Card.
func (s *Simulator) ATR() ([]byte, error) {
	return s.atr, nil
}

// Transmit implements iso7816.Transmitter.
func (s *Simulator) Transmit(cmd []byte) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.transmits++
	if s.FailAt > 0 && s.transmits == s.FailAt {
		return nil, ErrCardRemoved
	}
	if len(cmd) < 4 {
		return sw(iso7816.SW_ERR_WRONG_LENGTH), nil
	}

	cla, ins, p1, p2 := cmd[0], iso7816.InsCode(cmd[1]), cmd[2], cmd[3]

	switch {
	case cla == iso7816.CLA_INTERINDUSTRY && ins == iso7816.INS_SELECT:
		if len(cmd) < 5 || !bytes.Equal(cmd[5:], AppletAID) {
			s.selected = false
			return sw(iso7816.SW_ERR_FILE_NOT_FOUND), nil
		}
		s.selected = true
		s.pending = append([]byte{0x84, byte(len(AppletAID))}, AppletAID...)
		return []byte{0x61, byte(len(s.pending))}, nil

	case cla == iso7816.CLA_PROPRIETARY && ins == iso7816.INS_READ_BINARY:
		if !s.selected {
			return sw(iso7816.SW_ERR_CMD_NOT_ALLOWED_NO_EF), nil
		}
		if len(cmd) != 7 || cmd[4] != 0x02 {
			return sw(iso7816.SW_ERR_WRONG_LENGTH), nil
		}
		off, n := int(p1)<<8|int(p2), int(cmd[6])
		if off+n > len(s.memory) {
			return sw(iso7816.SW_ERR_WRONG_P1P2), nil
		}
		s.pending = s.memory[off : off+n]
		return []byte{0x61, byte(n)}, nil

	case cla == iso7816.CLA_INTERINDUSTRY && ins == iso7816.INS_GET_RESPONSE:
		if p2 != s.getResponseP2() || p1 != 0x00 {
			return sw(iso7816.SW_ERR_INCORRECT_PARAMS_P1P2), nil
		}
		if s.pending == nil || len(cmd) != 5 {
			return sw(iso7816.SW_ERR_COND_OF_USE_NOT_SAT), nil
		}
		n := min(int(cmd[4]), len(s.pending))
		out := append(append([]byte{}, s.pending[:n]...), 0x90, 0x00)
		s.pending = nil
		return out, nil
	}

	return sw(iso7816.SW_ERR_INS_INVALID), nil
}

func (s *Simulator) getResponseP2() byte {
	if len(s.atr) >= 2 && s.atr[0] == legacyATRPrefix[0] && s.atr[1] == legacyATRPrefix[1] {
		return 0x01
	}
	return 0x00
}

// Close implements io.Closer.
func (s *Simulator) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

// ListReaders implements ReaderService.
func (s *Simulator) ListReaders() ([]string, error) {
	return []string{SimulatorReader}, nil
}

// Connect implements ReaderService. It resets the card as a power cycle would.
func (s *Simulator) Connect(reader string) (iso7816.Card, error) {
	if reader != SimulatorReader {
		return nil, fmt.Errorf("unknown reader %q", reader)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selected = false
	s.pending = nil
	s.closed = false
	return s, nil
}

func sw(status iso7816.StatusWord) []byte {
	return []byte{status.SW1(), status.SW2()}
}
