package cmd

import (
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/gregLibert/thai-id-card/pkg/thaiid"
)

func newReadCmd() *cobra.Command {
	var (
		reader string
		outDir string
		photo  string
		format string
		strict bool
		wait   time.Duration
	)

	cmd := &cobra.Command{
		Use:   "read",
		Short: "Read the card and save the holder's photo",
		Long: `Reads every field of the card in the first reader (or --reader), prints the
record and writes the photo as <name>.jpg in the output directory.

Dates are printed as stored on the card, with Buddhist Era years.`,
		Example: `  # Read the card in the first reader
  thaiid read

  # YAML output, photo saved as ./photos/holder.jpg
  thaiid read --format yaml --out photos --photo holder

  # Wait up to 30 seconds for a card to be inserted
  thaiid read --wait 30s`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validFormat(format); err != nil {
				return err
			}

			svc, release, err := openService(cmd)
			if err != nil {
				return err
			}
			defer release()

			if err := waitForCard(cmd.Context(), svc, reader, wait); err != nil {
				return err
			}

			rec, err := thaiid.Read(svc, reader, sessionOptions(strict)...)
			if err != nil {
				return err
			}

			data, err := assemble(rec, outDir, photo)
			if err != nil {
				return err
			}

			return render(cmd.OutOrStdout(), format, rec, data)
		},
	}

	cmd.Flags().StringVarP(&reader, "reader", "r", "", "Reader name (default: first reader listed)")
	cmd.Flags().StringVarP(&outDir, "out", "o", ".", "Directory the photo is written to")
	cmd.Flags().StringVar(&photo, "photo", "", "Photo file name without extension (default: English name)")
	cmd.Flags().StringVarP(&format, "format", "f", FormatJSON, "Output format: json, yaml or text")
	cmd.Flags().BoolVar(&strict, "strict", false, "Fail on any error status word from the card")
	cmd.Flags().DurationVar(&wait, "wait", 0, "Wait this long for a card to be inserted")

	bindEnv(cmd, "reader", "THAIID_READER")
	bindEnv(cmd, "out", "THAIID_OUTPUT_DIR")
	bindEnv(cmd, "format", "THAIID_FORMAT")
	bindEnv(cmd, "strict", "THAIID_STRICT")

	return cmd
}

// assemble builds the output map and saves the photo. A card with a blank CID
// yields the "No data" map and writes nothing.
func assemble(rec *thaiid.Record, dir, base string) (map[string]any, error) {
	data, path, err := thaiid.Assemble(rec, dir, base)
	if err != nil {
		return nil, err
	}
	if path != "" {
		slog.Info("Photo saved", "path", path, "bytes", len(rec.Photo))
	}
	return data, nil
}
