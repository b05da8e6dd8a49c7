package thaiid

import (
	"fmt"
	"io"
	"log/slog"
	"slices"

	"github.com/gregLibert/thai-id-card/pkg/iso7816"
	"github.com/gregLibert/thai-id-card/pkg/tlv"
)

// Cards whose ATR starts with 3B 67 expect GET RESPONSE with P2 = 01,
// every other card P2 = 00.
var legacyATRPrefix = [2]byte{0x3B, 0x67}

// ReaderService lists the readers attached to the host and opens a card in one of them.
type ReaderService interface {
	ListReaders() ([]string, error)
	Connect(reader string) (iso7816.Card, error)
}

// Session drives one card. It is not safe for concurrent use: the card
// protocol is half duplex and each read is two dependent exchanges.
type Session struct {
	card   iso7816.Card
	client *iso7816.Client
	atr    []byte
	p2     byte
	strict bool
	logger *slog.Logger
}

// Option configures a Session.
type Option func(*Session)

// WithStrictStatus makes every exchange check the status word: SELECT and
// READ BINARY must answer 9000 or 61XX, GET RESPONSE must answer 9000.
// Failures are reported as ErrStatus.
func WithStrictStatus() Option {
	return func(s *Session) {
		s.strict = true
	}
}

// WithLogger sets the logger APDU exchanges are traced to at debug level.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Session) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// Connect starts a session on a card that is already powered. It reads the
// ATR to choose the GET RESPONSE template.
func Connect(card iso7816.Card, opts ...Option) (*Session, error) {
	s := &Session{
		card:   card,
		client: iso7816.NewClient(card),
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(s)
	}

	atr, err := card.ATR()
	if err != nil {
		return nil, fmt.Errorf("%w: read ATR: %w", ErrConnection, err)
	}
	s.atr = atr

	if len(atr) >= 2 && atr[0] == legacyATRPrefix[0] && atr[1] == legacyATRPrefix[1] {
		s.p2 = 0x01
	} else if len(atr) < 2 {
		s.logger.Warn("ATR too short, using default GET RESPONSE", "atr", tlv.Spaced(atr))
	}

	s.client.GetResponseP2 = s.p2

	s.logger.Debug("card connected", "atr", tlv.Spaced(atr), "get_response", tlv.Spaced(s.GetResponseTemplate()))
	return s, nil
}

// Open connects to a card through svc. An empty reader name picks the first
// reader listed.
func Open(svc ReaderService, reader string, opts ...Option) (*Session, error) {
	readers, err := svc.ListReaders()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNoReader, err)
	}
	if len(readers) == 0 {
		return nil, ErrNoReader
	}

	if reader == "" {
		reader = readers[0]
	} else if !slices.Contains(readers, reader) {
		return nil, fmt.Errorf("%w: %q not found", ErrNoReader, reader)
	}

	card, err := svc.Connect(reader)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrConnection, reader, err)
	}

	s, err := Connect(card, opts...)
	if err != nil {
		closeCard(card)
		return nil, err
	}
	return s, nil
}

// ATR returns the Answer To Reset captured on connect.
func (s *Session) ATR() []byte {
	return s.atr
}

// GetResponseTemplate returns the 4 byte GET RESPONSE header chosen from the ATR.
func (s *Session) GetResponseTemplate() []byte {
	return []byte{0x00, byte(iso7816.INS_GET_RESPONSE), 0x00, s.p2}
}

// Trace returns every exchange made in the session.
func (s *Session) Trace() iso7816.Trace {
	return s.client.History()
}

// SelectApplication selects the Thai ID applet. The status word is returned
// for the caller to inspect and only checked in strict mode.
func (s *Session) SelectApplication() (*iso7816.ResponseAPDU, error) {
	resp, err := s.exchange(SelectApplet())
	if err != nil {
		return nil, fmt.Errorf("%w: select applet: %w", ErrTransmission, err)
	}
	if s.strict && !resp.Status.IsSuccess() {
		return resp, fmt.Errorf("%w: select applet: %s", ErrStatus, resp.Status.Verbose())
	}
	return resp, nil
}

// ReadField reads one catalog entry: the READ BINARY, then a GET RESPONSE
// for the Le carried in the last byte of the command.
func (s *Session) ReadField(f Field) (*iso7816.ResponseAPDU, error) {
	cmd := f.Command()

	resp, err := s.exchange(cmd)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrTransmission, f.Name, err)
	}
	if s.strict && !resp.Status.IsSuccess() {
		return nil, fmt.Errorf("%w: %s: %s", ErrStatus, f.Name, resp.Status.Verbose())
	}

	raw := cmd.MustBytes()
	le := raw[len(raw)-1]

	resp, err = s.exchange(iso7816.GetResponse(selectClass, s.p2, int(le)))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: get response: %w", ErrTransmission, f.Name, err)
	}
	if s.strict && resp.Status != iso7816.SW_NO_ERROR {
		return nil, fmt.Errorf("%w: %s: get response: %s", ErrStatus, f.Name, resp.Status.Verbose())
	}
	return resp, nil
}

// Send transmits cmd and follows the 61XX and 6CXX procedures with the
// session's GET RESPONSE template. It is meant for diagnostics: nothing is
// decoded and status words are never checked.
func (s *Session) Send(cmd *iso7816.CommandAPDU) (iso7816.Trace, error) {
	trace, err := s.client.Send(cmd)
	if err != nil {
		return trace, fmt.Errorf("%w: %w", ErrTransmission, err)
	}
	return trace, nil
}

// Close releases the card when the connection supports it.
func (s *Session) Close() error {
	if c, ok := s.card.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

func (s *Session) exchange(cmd *iso7816.CommandAPDU) (*iso7816.ResponseAPDU, error) {
	resp, err := s.client.Exchange(cmd)
	if err != nil {
		s.logger.Debug("apdu failed", "ins", cmd.Instruction.Raw, "err", err)
		return nil, err
	}
	s.logger.Debug("apdu",
		"ins", cmd.Instruction.Raw,
		"p1p2", fmt.Sprintf("%02X%02X", cmd.P1, cmd.P2),
		"len", len(resp.Data),
		"sw", fmt.Sprintf("%04X", uint16(resp.Status)),
	)
	return resp, nil
}

func closeCard(card iso7816.Card) {
	if c, ok := card.(io.Closer); ok {
		_ = c.Close()
	}
}
