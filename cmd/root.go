package cmd

import (
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// envAnnotation marks a flag whose default comes from an environment variable.
const envAnnotation = "thaiid_env"

func NewRootCmd() *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:   "thaiid",
		Short: "Read Thai national ID cards through a PC/SC reader",
		Long: `thaiid reads the identity data stored on a Thai national ID card: citizen id,
Thai and English names, dates, address and the holder's photo.

It talks to the card through any PC/SC contact reader. Flags can also be set
from the environment or a .env file (THAIID_READER, THAIID_OUTPUT_DIR,
THAIID_FORMAT, THAIID_STRICT, THAIID_ADDR).`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Load .env file if present (ignore errors)
			_ = godotenv.Load()

			level := slog.LevelInfo
			if verbose {
				level = slog.LevelDebug
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level})))

			return applyEnv(cmd)
		},
	}

	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log every APDU exchanged with the card")
	cmd.PersistentFlags().Bool("simulate", false, "Use a built-in simulated card instead of PC/SC")

	// Add subcommands
	cmd.AddCommand(newReadCmd())
	cmd.AddCommand(newReadersCmd())
	cmd.AddCommand(newInspectCmd())
	cmd.AddCommand(newServeCmd())

	return cmd
}

// bindEnv lets the environment variable key provide the value of flag name
// when it is not given on the command line.
func bindEnv(cmd *cobra.Command, name, key string) {
	if err := cmd.Flags().SetAnnotation(name, envAnnotation, []string{key}); err != nil {
		panic(err)
	}
}

func applyEnv(cmd *cobra.Command) error {
	var err error
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		keys := f.Annotations[envAnnotation]
		if err != nil || f.Changed || len(keys) == 0 {
			return
		}
		if v, ok := os.LookupEnv(keys[0]); ok {
			if serr := f.Value.Set(v); serr != nil {
				err = serr
			}
		}
	})
	return err
}
