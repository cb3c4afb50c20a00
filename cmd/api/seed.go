package main

import (
	"artisan-market/internal/application/catalog"
	"artisan-market/internal/domain"

	"github.com/spf13/cobra"
)

func newSeedCmd() *cobra.Command {
	var from string

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Print the seeded catalog as YAML",
		Long: `Prints the sample listings in the CATALOG_SEED_FILE format, ready to edit and
load back. With --from, an existing seed file is validated and printed instead.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			var listings []domain.Listing
			if from != "" {
				var err error
				if listings, err = catalog.LoadSeedFile(from); err != nil {
					return err
				}
			} else {
				listings = catalog.DefaultSeed()
			}
			out, err := catalog.MarshalSeed(listings)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(out)
			return err
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "Seed file to validate and print")
	return cmd
}
