/*
Package iso7816 implements the parts of ISO/IEC 7816-3 and 7816-4 needed to drive a
contact smart card: command and response APDUs, status words, class and instruction
bytes, ATR decoding and a recording client.

# Fundamentals

The communication with a smart card is strictly synchronous:
 1. The Host sends a Command APDU (Header + Optional Body).
 2. The Card processes it and returns a Response APDU (Optional Body + Trailer SW1/SW2).

Every exchange made through a Client is kept as a Transaction in its History, so a
complete card session can be printed with Trace.Describe.

# Usage Example

	client := iso7816.NewClient(card)
	cls := iso7816.MustClass(iso7816.CLA_INTERINDUSTRY)

	// Send follows 61XX with a GET RESPONSE automatically.
	trace, err := client.Send(iso7816.SelectByAID(cls, aid))
	if err != nil {
	    log.Fatal(err)
	}

	if trace.IsSuccess() {
	    fmt.Printf("Selected, %d bytes of FCI\n", len(trace.Last().Response.Data))
	}

	fmt.Println(client.History().Describe())
*/
package iso7816
