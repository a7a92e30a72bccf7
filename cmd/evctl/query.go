package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/stwalsh4118/evpulse/internal/config"
	"github.com/stwalsh4118/evpulse/internal/models"
	"github.com/stwalsh4118/evpulse/internal/services"
	"github.com/stwalsh4118/evpulse/internal/table"
)

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func newSummaryCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Print headline statistics for the filtered view",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := opts.open(cmd)
			if err != nil {
				return err
			}
			summary, err := svc.Summary()
			if err != nil {
				return err
			}
			if opts.output == outputJSON {
				return writeJSON(cmd.OutOrStdout(), summary)
			}
			return printSummary(cmd.OutOrStdout(), summary)
		},
	}
}

func printSummary(w io.Writer, s services.Summary) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Vehicles\t%d of %d\n", s.TotalVehicles, s.DatasetTotal)
	fmt.Fprintf(tw, "BEV / PHEV\t%d / %d\n", s.BEVCount, s.PHEVCount)
	fmt.Fprintf(tw, "Average range\t%d mi\n", s.AvgRange)
	fmt.Fprintf(tw, "Average MSRP\t$%d\n", s.AvgMSRP)
	fmt.Fprintf(tw, "Makes / Models\t%d / %d\n", s.UniqueMakes, s.UniqueModels)
	if s.TotalVehicles > 0 {
		fmt.Fprintf(tw, "Model years\t%d-%d\n", s.YearRange.Min, s.YearRange.Max)
	}
	fmt.Fprintf(tw, "Counties / Cities\t%d / %d\n", s.Counties, s.Cities)
	return tw.Flush()
}

func newTableCmd(opts *rootOptions) *cobra.Command {
	var (
		page      int
		pageSize  int
		sortYear  string
		sortRange string
	)

	cmd := &cobra.Command{
		Use:   "table",
		Short: "Print one page of the sorted, filtered vehicle table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if pageSize < 0 || pageSize > config.MaxPageSize {
				return fmt.Errorf("--page-size must be between 1 and %d", config.MaxPageSize)
			}
			svc, err := opts.open(cmd)
			if err != nil {
				return err
			}
			result, err := svc.Table(services.TableQuery{
				SortYear:  models.SortDirection(sortYear),
				SortRange: models.SortDirection(sortRange),
				Page:      page,
				PageSize:  pageSize,
			})
			if err != nil {
				return err
			}
			if opts.output == outputJSON {
				return writeJSON(cmd.OutOrStdout(), result)
			}
			return printTable(cmd.OutOrStdout(), result)
		},
	}

	cmd.Flags().IntVar(&page, "page", 1, "page number, starting at 1")
	cmd.Flags().IntVar(&pageSize, "page-size", 0, "rows per page (default 20)")
	cmd.Flags().StringVar(&sortYear, "sort-year", "", "model year direction: asc or desc")
	cmd.Flags().StringVar(&sortRange, "sort-range", "", "electric range direction: asc or desc")
	return cmd
}

func printTable(w io.Writer, p table.Page) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "VIN\tYEAR\tMAKE\tMODEL\tTYPE\tRANGE\tCOUNTY\tCITY")
	for _, v := range p.Rows {
		year, rng := "-", "-"
		if v.HasKnownYear() {
			year = strconv.Itoa(v.ModelYear)
		}
		if v.HasKnownRange() {
			rng = strconv.Itoa(v.ElectricRange)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			v.VIN, year, v.Make, v.Model, v.EVType, rng, v.County, v.City)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "page %d of %d (%d vehicles, sorted year %s, range %s)\n",
		p.Page, p.TotalPages, p.TotalItems, p.Sort.ModelYear, p.Sort.ElectricRange)
	return err
}

func newOptionsCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "options <dimension>",
		Short: "List the distinct values of a dimension across the whole dataset",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dim, err := models.ParseDimension(args[0])
			if err != nil {
				return fmt.Errorf("%w (supported: %v)", err, models.Dimensions())
			}
			svc, err := opts.open(cmd)
			if err != nil {
				return err
			}
			values, err := svc.Options(dim)
			if err != nil {
				return err
			}
			if opts.output == outputJSON {
				return writeJSON(cmd.OutOrStdout(), values)
			}
			for _, value := range values {
				fmt.Fprintln(cmd.OutOrStdout(), value)
			}
			return nil
		},
	}
}
