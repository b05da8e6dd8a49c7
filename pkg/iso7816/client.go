package iso7816

import (
	"fmt"
)

// Transmitter abstracts the physical card connection.
type Transmitter interface {
	Transmit(cmd []byte) ([]byte, error)
}

// Card is a connected card: a Transmitter that also exposes the ATR it
// answered with when it was powered.
type Card interface {
	Transmitter
	ATR() ([]byte, error)
}

// Client records every exchange made with the card.
//
// Exchange performs exactly one transaction. Send additionally follows the
// T=0 procedures a card may ask for:
//   - 61XX: XX bytes are waiting, a GET RESPONSE is issued.
//   - 6CXX: wrong Le, the command is re-sent with Le = XX.
type Client struct {
	Card Transmitter

	// GetResponseP2 is the P2 of the GET RESPONSE issued on 61XX. ISO 7816-4
	// wants 00, some cards expect 01.
	GetResponseP2 byte

	history Trace
}

// NewClient creates a new Client instance.
func NewClient(card Transmitter) *Client {
	return &Client{Card: card}
}

// History returns every transaction made through the client, oldest first.
func (c *Client) History() Trace {
	return c.history
}

// Exchange encodes cmd, transmits it and parses the answer.
func (c *Client) Exchange(cmd *CommandAPDU) (*ResponseAPDU, error) {
	rawCmd, err := cmd.Bytes()
	if err != nil {
		return nil, fmt.Errorf("encoding error: %w", err)
	}

	rawResp, err := c.Card.Transmit(rawCmd)
	if err != nil {
		return nil, fmt.Errorf("transmission error: %w", err)
	}

	resp, err := ParseResponseAPDU(rawResp)
	if err != nil {
		return nil, err
	}

	c.history = append(c.history, Transaction{Command: cmd, Response: resp})
	return resp, nil
}

// Send transmits a command and handles protocol logic (61xx, 6Cxx).
// The returned trace holds the transactions of this call only.
func (c *Client) Send(cmd *CommandAPDU) (Trace, error) {
	start := len(c.history)
	err := c.send(cmd)
	return c.history[start:], err
}

func (c *Client) send(cmd *CommandAPDU) error {
	resp, err := c.Exchange(cmd)
	if err != nil {
		return err
	}

	switch resp.Status.SW1() {
	case 0x61:
		// GET RESPONSE goes out on the same logical channel as the command.
		return c.send(GetResponse(cmd.Class, c.GetResponseP2, int(resp.Status.SW2())))
	case 0x6C:
		retry := *cmd
		retry.Ne = int(resp.Status.SW2())
		return c.send(&retry)
	}
	return nil
}
