package main

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/stwalsh4118/evpulse/internal/export"
)

func newExportCmd(opts *rootOptions) *cobra.Command {
	var (
		out string
		bom bool
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the filtered view as CSV in table order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := opts.open(cmd)
			if err != nil {
				return err
			}

			var buf bytes.Buffer
			n, err := svc.Export(&buf, export.Options{BOM: bom})
			if err != nil {
				return err
			}

			if out == "-" {
				_, err := io.Copy(cmd.OutOrStdout(), &buf)
				return err
			}
			if out == "" {
				out = export.Filename(time.Now())
			}
			if err := os.WriteFile(out, buf.Bytes(), 0o644); err != nil {
				return fmt.Errorf("write export: %w", err)
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "wrote %d vehicles to %s\n", n, out)
			return nil
		},
	}

	cmd.Flags().StringVar(&out, "out", "", "destination file, - for stdout (default ev-data-export-<timestamp>.csv)")
	cmd.Flags().BoolVar(&bom, "bom", true, "prefix the file with a UTF-8 byte order mark")
	return cmd
}
