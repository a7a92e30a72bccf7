package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/stwalsh4118/evpulse/internal/config"
	"github.com/stwalsh4118/evpulse/internal/database"
	"github.com/stwalsh4118/evpulse/internal/loader"
	"github.com/stwalsh4118/evpulse/internal/repository"
)

func newSeedCmd(opts *rootOptions) *cobra.Command {
	var tableName string

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Replace the PostgreSQL vehicle table with the rows of --file",
		Long: `Seed parses --file and replaces every row of the vehicle table with the
accepted vehicles. Filter flags are ignored. Connection settings come from the
DB_* environment variables used by the server.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := opts.datasetPath()
			if err != nil {
				return err
			}
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if err := cfg.Database.Validate(); err != nil {
				return err
			}
			if tableName == "" {
				tableName = cfg.Dataset.Table
			}

			ctx := cmd.Context()
			log := opts.logger(cmd).WithComponent("seed")

			result, err := loader.NewFileSource(path).Load(ctx)
			if err != nil {
				return err
			}

			db, err := database.NewPostgresPool(ctx, cfg.Database)
			if err != nil {
				return err
			}
			defer db.Close()

			repo := repository.NewVehicleRepository(db, tableName)
			if err := repo.EnsureSchema(ctx); err != nil {
				return err
			}
			n, err := repo.ReplaceAll(ctx, result.Vehicles)
			if err != nil {
				return err
			}

			log.Info("Vehicle table seeded", map[string]interface{}{
				"table":   tableName,
				"rows":    n,
				"skipped": result.Meta.InvalidRows,
			})
			fmt.Fprintf(cmd.OutOrStdout(), "seeded %d vehicles into %s (%d row issues)\n", n, tableName, len(result.Errors))
			return nil
		},
	}

	cmd.Flags().StringVar(&tableName, "table", "", "destination table (default DB_TABLE)")
	return cmd
}
