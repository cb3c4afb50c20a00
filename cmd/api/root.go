package main

import (
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "artisan-market",
		Short: "Handcrafted goods catalog API",
		Long: `artisan-market serves a small catalog of handcrafted listings.

Sellers compose a draft, attach a picture and submit it; the picture is stored
inline as a data URI next to the listing.`,
		SilenceUsage: true,
	}
	cmd.AddCommand(newServeCmd(), newEncodeCmd(), newSeedCmd())
	return cmd
}

// configureLogging sets the global zerolog level and, outside production, a console writer.
func configureLogging(level string, production bool) {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)
	if !production {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}
}
