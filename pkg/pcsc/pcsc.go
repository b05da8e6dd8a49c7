// Package pcsc connects to cards through the platform PC/SC service
// (pcsc-lite, WinSCard) using github.com/ebfe/scard.
package pcsc

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ebfe/scard"

	"github.com/gregLibert/thai-id-card/pkg/iso7816"
)

// pollInterval bounds each blocking GetStatusChange so a wait can be cancelled.
const pollInterval = 500 * time.Millisecond

// Context is an established PC/SC context.
type Context struct {
	ctx *scard.Context
}

// Establish opens a PC/SC context. Release it when done.
func Establish() (*Context, error) {
	ctx, err := scard.EstablishContext()
	if err != nil {
		return nil, fmt.Errorf("failed to establish PC/SC context: %w", err)
	}
	return &Context{ctx: ctx}, nil
}

// Release frees the context.
func (c *Context) Release() error {
	return c.ctx.Release()
}

// ListReaders returns the readers attached to the host. No reader is an
// empty list, not an error.
func (c *Context) ListReaders() ([]string, error) {
	return readerList(c.ctx.ListReaders())
}

func readerList(readers []string, err error) ([]string, error) {
	if errors.Is(err, scard.ErrNoReadersAvailable) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list readers: %w", err)
	}
	return readers, nil
}

// Connect powers the card in reader. T=0 and T=1 are both offered, the
// reader picks the one the card announces in its ATR.
func (c *Context) Connect(reader string) (iso7816.Card, error) {
	card, err := c.ctx.Connect(reader, scard.ShareShared, scard.ProtocolT0|scard.ProtocolT1)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", reader, err)
	}
	return &Conn{card: card, reader: reader}, nil
}

// WaitForCard blocks until a card is present in reader or ctx is done.
func (c *Context) WaitForCard(ctx context.Context, reader string) error {
	states := []scard.ReaderState{{Reader: reader, CurrentState: scard.StateUnaware}}

	for {
		err := c.ctx.GetStatusChange(states, pollInterval)
		switch {
		case err == nil:
			if cardPresent(states[0].EventState) {
				return nil
			}
			states[0].CurrentState = states[0].EventState &^ scard.StateChanged
		case !errors.Is(err, scard.ErrTimeout):
			return fmt.Errorf("failed to watch %s: %w", reader, err)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
	}
}

func cardPresent(state scard.StateFlag) bool {
	return state&scard.StatePresent != 0 && state&scard.StateMute == 0
}

// Conn is a card connected through PC/SC.
type Conn struct {
	card   *scard.Card
	reader string
}

// Reader returns the name of the reader the card sits in.
func (c *Conn) Reader() string {
	return c.reader
}

// Transmit implements iso7816.Transmitter.
func (c *Conn) Transmit(cmd []byte) ([]byte, error) {
	return c.card.Transmit(cmd)
}

// ATR returns the Answer To Reset reported by the reader.
func (c *Conn) ATR() ([]byte, error) {
	status, err := c.card.Status()
	if err != nil {
		return nil, fmt.Errorf("card status: %w", err)
	}
	return status.Atr, nil
}

// Close disconnects, leaving the card powered for the next connection.
func (c *Conn) Close() error {
	return c.card.Disconnect(scard.LeaveCard)
}
