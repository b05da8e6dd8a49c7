package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newReadersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "readers",
		Short: "List the smart card readers attached to this host",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, release, err := openService(cmd)
			if err != nil {
				return err
			}
			defer release()

			readers, err := svc.ListReaders()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(readers) == 0 {
				fmt.Fprintln(out, "No smart card reader found.")
				return nil
			}
			fmt.Fprintln(out, "Available readers:")
			for i, r := range readers {
				fmt.Fprintf(out, "  [%d] %s\n", i, r)
			}
			return nil
		},
	}
}
