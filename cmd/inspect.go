package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gregLibert/thai-id-card/pkg/iso7816"
	"github.com/gregLibert/thai-id-card/pkg/thaiid"
	"github.com/gregLibert/thai-id-card/pkg/tlv"
)

func newInspectCmd() *cobra.Command {
	var (
		reader string
		full   bool
	)

	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Show the ATR and the raw APDU exchange with the card",
		Long: `Prints the decoded Answer To Reset, the GET RESPONSE template it selects and
the trace of the applet SELECT. With --full every catalog entry is read and the
whole trace is printed, without decoding any field.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, release, err := openService(cmd)
			if err != nil {
				return err
			}
			defer release()

			s, err := thaiid.Open(svc, reader, sessionOptions(false)...)
			if err != nil {
				return err
			}
			defer s.Close()

			out := cmd.OutOrStdout()
			if atr, err := iso7816.ParseATR(s.ATR()); err != nil {
				fmt.Fprintf(out, "=== ANSWER TO RESET ===\n    - %s: %v\n", tlv.Spaced(s.ATR()), err)
			} else {
				fmt.Fprintln(out, atr.Describe())
			}
			fmt.Fprintf(out, "    + GET RESPONSE: %s\n\n", tlv.Spaced(s.GetResponseTemplate()))

			trace, err := s.Send(thaiid.SelectApplet())
			if err != nil {
				return err
			}
			fmt.Fprintln(out, trace.Describe())
			fmt.Fprintln(out, "=== SELECT RESPONSE ===")
			fmt.Fprintln(out, tlv.DumpOrHex(trace.Last().Response.Data))

			if !full {
				return nil
			}

			for _, f := range thaiid.Catalog() {
				if _, err := s.ReadField(f); err != nil {
					return err
				}
			}
			fmt.Fprintln(out)
			fmt.Fprintln(out, s.Trace().Describe())
			return nil
		},
	}

	cmd.Flags().StringVarP(&reader, "reader", "r", "", "Reader name (default: first reader listed)")
	cmd.Flags().BoolVar(&full, "full", false, "Read every catalog entry and print the complete trace")
	bindEnv(cmd, "reader", "THAIID_READER")

	return cmd
}
