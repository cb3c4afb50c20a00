package main

import (
	"fmt"
	"os"

	"artisan-market/internal/application/images"

	"github.com/spf13/cobra"
)

func newEncodeCmd() *cobra.Command {
	var mediaType string

	cmd := &cobra.Command{
		Use:   "encode <file>",
		Short: "Validate and encode a local image as a data URI",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			f, err := os.Open(path)
			if err != nil {
				return err
			}
			defer f.Close()
			info, err := f.Stat()
			if err != nil {
				return err
			}
			if mediaType == "" {
				mediaType = images.MediaTypeForFile(path)
			}

			enc, err := images.ValidateAndEncode(cmd.Context(), images.RawFile{
				Name:      info.Name(),
				MediaType: mediaType,
				Size:      info.Size(),
				Body:      f,
			})
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), enc.DataURI)
			return err
		},
	}

	cmd.Flags().StringVar(&mediaType, "type", "", "Media type (default: from the file extension)")
	return cmd
}
