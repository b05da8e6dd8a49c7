package thaiid

import (
	"bytes"
	"errors"
	"testing"

	"github.com/gregLibert/thai-id-card/pkg/iso7816"
	"github.com/gregLibert/thai-id-card/pkg/tlv"
)

// mockCard answers every command with reply and records what it was sent.
type mockCard struct {
	atr    []byte
	atrErr error
	reply  func(cmd []byte) []byte
	failAt int // 1-based transmit that fails, 0 for never
	sent   [][]byte
	closed bool
}

var errIO = errors.New("reader I/O error")

func (m *mockCard) ATR() ([]byte, error) {
	return m.atr, m.atrErr
}

func (m *mockCard) Transmit(cmd []byte) ([]byte, error) {
	m.sent = append(m.sent, cmd)
	if m.failAt > 0 && len(m.sent) == m.failAt {
		return nil, errIO
	}
	if m.reply != nil {
		return m.reply(cmd), nil
	}
	return []byte{0x90, 0x00}, nil
}

func (m *mockCard) Close() error {
	m.closed = true
	return nil
}

// blockReply answers GET RESPONSE with n bytes valued after the command
// count, and everything else with 61 n.
func blockReply(n int) func([]byte) []byte {
	calls := 0
	return func(cmd []byte) []byte {
		calls++
		if cmd[1] != byte(iso7816.INS_GET_RESPONSE) {
			return []byte{0x61, byte(n)}
		}
		return append(bytes.Repeat([]byte{byte(calls)}, n), 0x90, 0x00)
	}
}

func TestConnect_GetResponseTemplate(t *testing.T) {
	tests := []struct {
		name string
		atr  []byte
		want []byte
	}{
		{"Legacy 3B 67", tlv.Hex("3B 67 00 00 A9 44 00 00 20 00 00"), tlv.Hex("00 C0 00 01")},
		{"Current 3B 68", tlv.Hex("3B 68 00 00 00 73 C8 40 12 00 90 00"), tlv.Hex("00 C0 00 00")},
		{"Other 3B 7F", tlv.Hex("3B 7F 96 00 00 80 31"), tlv.Hex("00 C0 00 00")},
		{"67 not in second byte", tlv.Hex("3B 00 67"), tlv.Hex("00 C0 00 00")},
		{"Short ATR", tlv.Hex("3B"), tlv.Hex("00 C0 00 00")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			card := &mockCard{atr: tt.atr, reply: blockReply(1)}
			s, err := Connect(card)
			if err != nil {
				t.Fatalf("Connect failed: %v", err)
			}

			if got := s.GetResponseTemplate(); !bytes.Equal(got, tt.want) {
				t.Errorf("template = %X, want %X", got, tt.want)
			}

			if _, err := s.ReadField(Fields()[0]); err != nil {
				t.Fatalf("ReadField failed: %v", err)
			}
			wantGetResp := append(append([]byte{}, tt.want...), 0x0D)
			if !bytes.Equal(card.sent[1], wantGetResp) {
				t.Errorf("GET RESPONSE = %X, want %X", card.sent[1], wantGetResp)
			}
		})
	}
}

func TestConnect_ATRFailure(t *testing.T) {
	_, err := Connect(&mockCard{atrErr: errors.New("no card")})
	if !errors.Is(err, ErrConnection) {
		t.Errorf("error = %v, want ErrConnection", err)
	}
}

func TestSession_SelectApplication(t *testing.T) {
	card := &mockCard{atr: ATRCurrent, reply: func([]byte) []byte { return []byte{0x6A, 0x82} }}
	s, _ := Connect(card)

	resp, err := s.SelectApplication()
	if err != nil {
		t.Fatalf("SelectApplication failed: %v", err)
	}
	if resp.Status != iso7816.SW_ERR_FILE_NOT_FOUND {
		t.Errorf("status = %04X, want 6A82 passed through", uint16(resp.Status))
	}
	if !bytes.Equal(card.sent[0], tlv.Hex("00 A4 04 00 08 A0 00 00 00 54 48 00 01")) {
		t.Errorf("SELECT = %X", card.sent[0])
	}

	strict, _ := Connect(card, WithStrictStatus())
	if _, err := strict.SelectApplication(); !errors.Is(err, ErrStatus) {
		t.Errorf("strict error = %v, want ErrStatus", err)
	}
}

func TestSession_ReadField(t *testing.T) {
	card := &mockCard{atr: ATRCurrent, reply: blockReply(13)}
	s, _ := Connect(card)

	resp, err := s.ReadField(Fields()[0])
	if err != nil {
		t.Fatalf("ReadField failed: %v", err)
	}

	if len(card.sent) != 2 {
		t.Fatalf("sent %d APDUs, want 2", len(card.sent))
	}
	if !bytes.Equal(card.sent[0], tlv.Hex("80 B0 00 04 02 00 0D")) {
		t.Errorf("READ BINARY = %X", card.sent[0])
	}
	if !bytes.Equal(card.sent[1], tlv.Hex("00 C0 00 00 0D")) {
		t.Errorf("GET RESPONSE = %X", card.sent[1])
	}
	if len(resp.Data) != 13 || resp.Status != iso7816.SW_NO_ERROR {
		t.Errorf("response = %s", resp)
	}
	if len(s.Trace()) != 2 {
		t.Errorf("trace has %d transactions, want 2", len(s.Trace()))
	}
}

func TestSession_ReadField_Errors(t *testing.T) {
	t.Run("Failure on read command", func(t *testing.T) {
		card := &mockCard{atr: ATRCurrent, failAt: 1}
		s, _ := Connect(card)
		if _, err := s.ReadField(Fields()[0]); !errors.Is(err, ErrTransmission) || !errors.Is(err, errIO) {
			t.Errorf("error = %v, want ErrTransmission wrapping the I/O error", err)
		}
		if len(card.sent) != 1 {
			t.Errorf("sent %d APDUs, want 1", len(card.sent))
		}
	})

	t.Run("Failure on get response", func(t *testing.T) {
		card := &mockCard{atr: ATRCurrent, failAt: 2}
		s, _ := Connect(card)
		if _, err := s.ReadField(Fields()[0]); !errors.Is(err, ErrTransmission) {
			t.Errorf("error = %v, want ErrTransmission", err)
		}
	})

	t.Run("Truncated response", func(t *testing.T) {
		card := &mockCard{atr: ATRCurrent, reply: func([]byte) []byte { return []byte{0x61} }}
		s, _ := Connect(card)
		if _, err := s.ReadField(Fields()[0]); !errors.Is(err, ErrTransmission) {
			t.Errorf("error = %v, want ErrTransmission", err)
		}
	})

	t.Run("Error status ignored by default", func(t *testing.T) {
		card := &mockCard{atr: ATRCurrent, reply: func([]byte) []byte { return []byte{0x6B, 0x00} }}
		s, _ := Connect(card)
		resp, err := s.ReadField(Fields()[0])
		if err != nil {
			t.Fatalf("ReadField failed: %v", err)
		}
		if resp.Status != iso7816.SW_ERR_WRONG_P1P2 {
			t.Errorf("status = %04X, want 6B00", uint16(resp.Status))
		}
	})

	t.Run("Error status in strict mode", func(t *testing.T) {
		card := &mockCard{atr: ATRCurrent, reply: func([]byte) []byte { return []byte{0x6B, 0x00} }}
		s, _ := Connect(card, WithStrictStatus())
		if _, err := s.ReadField(Fields()[0]); !errors.Is(err, ErrStatus) {
			t.Errorf("error = %v, want ErrStatus", err)
		}
		if len(card.sent) != 1 {
			t.Errorf("sent %d APDUs, want 1", len(card.sent))
		}
	})
}

// readers is a ReaderService over a fixed list.
type readers struct {
	names   []string
	listErr error
	card    iso7816.Card
	connErr error
	asked   string
}

func (r *readers) ListReaders() ([]string, error) { return r.names, r.listErr }

func (r *readers) Connect(name string) (iso7816.Card, error) {
	r.asked = name
	if r.connErr != nil {
		return nil, r.connErr
	}
	return r.card, nil
}

func TestOpen(t *testing.T) {
	t.Run("First reader by default", func(t *testing.T) {
		svc := &readers{names: []string{"ACS ACR39U 00", "Other 01"}, card: &mockCard{atr: ATRLegacy}}
		s, err := Open(svc, "")
		if err != nil {
			t.Fatalf("Open failed: %v", err)
		}
		if svc.asked != "ACS ACR39U 00" {
			t.Errorf("connected to %q, want first reader", svc.asked)
		}
		if !bytes.Equal(s.ATR(), ATRLegacy) {
			t.Errorf("ATR = %X", s.ATR())
		}
	})

	t.Run("Named reader", func(t *testing.T) {
		svc := &readers{names: []string{"A", "B"}, card: &mockCard{atr: ATRLegacy}}
		if _, err := Open(svc, "B"); err != nil {
			t.Fatalf("Open failed: %v", err)
		}
		if svc.asked != "B" {
			t.Errorf("connected to %q, want B", svc.asked)
		}
	})

	t.Run("No readers", func(t *testing.T) {
		if _, err := Open(&readers{}, ""); !errors.Is(err, ErrNoReader) {
			t.Errorf("error = %v, want ErrNoReader", err)
		}
	})

	t.Run("Enumeration failure", func(t *testing.T) {
		if _, err := Open(&readers{listErr: errors.New("service down")}, ""); !errors.Is(err, ErrNoReader) {
			t.Errorf("error = %v, want ErrNoReader", err)
		}
	})

	t.Run("Unknown reader", func(t *testing.T) {
		if _, err := Open(&readers{names: []string{"A"}}, "Z"); !errors.Is(err, ErrNoReader) {
			t.Errorf("error = %v, want ErrNoReader", err)
		}
	})

	t.Run("No card", func(t *testing.T) {
		svc := &readers{names: []string{"A"}, connErr: errors.New("no smart card inserted")}
		if _, err := Open(svc, ""); !errors.Is(err, ErrConnection) {
			t.Errorf("error = %v, want ErrConnection", err)
		}
	})

	t.Run("ATR failure releases the card", func(t *testing.T) {
		card := &mockCard{atrErr: errors.New("reset failed")}
		svc := &readers{names: []string{"A"}, card: card}
		if _, err := Open(svc, ""); !errors.Is(err, ErrConnection) {
			t.Errorf("error = %v, want ErrConnection", err)
		}
		if !card.closed {
			t.Error("card should be closed after a failed connect")
		}
	})
}

func TestSession_Send(t *testing.T) {
	sim, err := NewSimulator(sampleRecord(), ATRLegacy)
	if err != nil {
		t.Fatalf("NewSimulator failed: %v", err)
	}
	s, _ := Connect(sim)

	trace, err := s.Send(SelectApplet())
	if err != nil {
		t.Fatalf("Send failed: %v", err)
	}

	if len(trace) != 2 {
		t.Fatalf("trace has %d transactions, want 2", len(trace))
	}
	if got := trace[1].Command.MustBytes(); !bytes.Equal(got, tlv.Hex("00 C0 00 01 0A")) {
		t.Errorf("GET RESPONSE = %X, want 00C000010A", got)
	}
	if !trace.IsSuccess() {
		t.Errorf("trace failed: %s", trace.Last().Response)
	}
	if want := tlv.Hex("84 08 A0 00 00 00 54 48 00 01"); !bytes.Equal(trace.Last().Response.Data, want) {
		t.Errorf("SELECT data = %X, want %X", trace.Last().Response.Data, want)
	}
}
