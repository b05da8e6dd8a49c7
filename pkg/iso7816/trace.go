package iso7816

import (
	"fmt"
	"strings"

	"github.com/gregLibert/thai-id-card/pkg/tlv"
)

// A Transaction is one C-APDU and the R-APDU the card returned for it.
// A Trace is the chronological list of transactions of a logical operation.
// Reading one Thai ID field is always two transactions: the READ BINARY and
// the GET RESPONSE that carries the data.

// Transaction represents a completed Command-Response pair.
type Transaction struct {
	Command  *CommandAPDU
	Response *ResponseAPDU
}

// IsSuccess checks if the transaction ended with a successful status.
// It returns false if the response is missing.
func (t *Transaction) IsSuccess() bool {
	if t.Response == nil {
		return false
	}
	return t.Response.Status.IsSuccess()
}

// Trace is a sequence of transactions (Command-Response pairs).
type Trace []Transaction

// Last returns the final transaction of the trace.
// Returns nil if the trace is empty.
func (t Trace) Last() *Transaction {
	if len(t) == 0 {
		return nil
	}
	return &t[len(t)-1]
}

// IsSuccess checks if the final transaction in the trace was successful.
func (t Trace) IsSuccess() bool {
	last := t.Last()
	if last == nil {
		return false
	}
	return last.IsSuccess()
}

// Describe renders the trace as a numbered report, one block per transaction.
func (t Trace) Describe() string {
	var sb strings.Builder

	sb.WriteString("=== APDU TRACE ===\n")
	if len(t) == 0 {
		sb.WriteString("    - Empty.")
		return sb.String()
	}

	for i, tx := range t {
		fmt.Fprintf(&sb, "[%d] %s\n", i+1, tx.Command.Instruction.Raw)
		if raw, err := tx.Command.Bytes(); err == nil {
			fmt.Fprintf(&sb, "    > %s\n", tlv.Spaced(raw))
		}
		if tx.Response == nil {
			sb.WriteString("    < (no response)\n")
			continue
		}
		marker := "[OK]"
		if !tx.Response.Status.IsSuccess() {
			marker = "[!!]"
		}
		fmt.Fprintf(&sb, "    < %d bytes | %s %s\n", len(tx.Response.Data), marker, tx.Response.Status.Verbose())
	}

	return strings.TrimRight(sb.String(), "\n")
}
