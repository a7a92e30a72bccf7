package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/stwalsh4118/evpulse/internal/preset"
	"github.com/stwalsh4118/evpulse/internal/services"
)

func newPresetCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "preset",
		Short: "Manage filter presets",
	}
	cmd.AddCommand(newPresetSaveCmd(opts))
	return cmd
}

func newPresetSaveCmd(opts *rootOptions) *cobra.Command {
	var (
		name        string
		description string
	)

	cmd := &cobra.Command{
		Use:   "save <path>",
		Short: "Save the current filters and sort order as a preset",
		Long: `Save resolves the preset and filter flags against the loaded dataset and
writes the complete selection, so the preset reproduces the same view later.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := opts.open(cmd)
			if err != nil {
				return err
			}
			state, err := svc.Filters()
			if err != nil {
				return err
			}
			page, err := svc.Table(services.TableQuery{})
			if err != nil {
				return err
			}

			path := args[0]
			if name == "" {
				name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
			}
			p := preset.FromSpec(name, state.Filters, page.Sort)
			p.Description = description
			if err := preset.Save(p, path); err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "saved preset %q (%d of %d vehicles) to %s\n",
				name, state.FilteredCount, state.TotalCount, path)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "preset name (default: file name)")
	cmd.Flags().StringVar(&description, "description", "", "free-text description")
	return cmd
}
