package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/stwalsh4118/evpulse/internal/loader"
	"github.com/stwalsh4118/evpulse/internal/logger"
	"github.com/stwalsh4118/evpulse/internal/preset"
	"github.com/stwalsh4118/evpulse/internal/services"
	"github.com/stwalsh4118/evpulse/internal/store"
)

const (
	outputText = "text"
	outputJSON = "json"
)

// rootOptions is shared by every subcommand.
type rootOptions struct {
	v       *viper.Viper
	output  string
	filters filterFlags
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{v: viper.New()}

	cmd := &cobra.Command{
		Use:   "evctl",
		Short: "Query an EV registration dataset",
		Long: `evctl loads an EV registration CSV, narrows it with the same filters as the
dashboard API and prints summaries, table pages, filter options or CSV exports.

Flags can also be set through the environment: EVCTL_FILE, EVCTL_PRESET, EVCTL_LOG_LEVEL.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if opts.output != outputText && opts.output != outputJSON {
				return fmt.Errorf("--output must be %s or %s", outputText, outputJSON)
			}
			return nil
		},
	}

	pf := cmd.PersistentFlags()
	pf.String("file", "", "registration CSV to load")
	pf.String("preset", "", "preset YAML applied before the filter flags")
	pf.String("log-level", "warn", "log level for load diagnostics")
	pf.StringVarP(&opts.output, "output", "o", outputText, "output format: text or json")
	opts.filters.register(cmd)

	opts.v.SetEnvPrefix("EVCTL")
	opts.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	opts.v.AutomaticEnv()
	for _, name := range []string{"file", "preset", "log-level"} {
		_ = opts.v.BindPFlag(name, pf.Lookup(name))
	}

	cmd.AddCommand(
		newSummaryCmd(opts),
		newTableCmd(opts),
		newOptionsCmd(opts),
		newExportCmd(opts),
		newPresetCmd(opts),
		newSeedCmd(opts),
	)
	return cmd
}

func (o *rootOptions) logger(cmd *cobra.Command) *logger.Logger {
	return logger.NewWithWriter(cmd.ErrOrStderr(), "development", o.v.GetString("log-level"))
}

func (o *rootOptions) datasetPath() (string, error) {
	path := o.v.GetString("file")
	if path == "" {
		return "", errors.New("--file (or EVCTL_FILE) is required")
	}
	return path, nil
}

// open loads the dataset and applies the preset and then the filter flags.
func (o *rootOptions) open(cmd *cobra.Command) (services.DashboardService, error) {
	path, err := o.datasetPath()
	if err != nil {
		return nil, err
	}

	var p *preset.Preset
	if name := o.v.GetString("preset"); name != "" {
		if p, err = preset.Load(name); err != nil {
			return nil, err
		}
	}

	svc := services.NewDashboardService(
		loader.NewFileSource(path),
		store.New(store.DefaultPageSize),
		o.logger(cmd),
		services.Options{Preset: p},
	)

	status, err := svc.Load(cmd.Context())
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	if status.ErrorCount > 0 {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: %d row issue(s) in %s\n", status.ErrorCount, path)
	}

	state, err := svc.Filters()
	if err != nil {
		return nil, err
	}
	if update := o.filters.update(cmd, state.Filters); !update.IsEmpty() {
		if _, err := svc.UpdateFilters(update); err != nil {
			return nil, describeFilterError(err)
		}
	}
	return svc, nil
}

func describeFilterError(err error) error {
	var invalid *services.InvalidFilterError
	if !errors.As(err, &invalid) {
		return err
	}
	problems := make([]string, 0, len(invalid.Issues))
	for _, issue := range invalid.Issues {
		problems = append(problems, issue.Field+": "+issue.Message)
	}
	return fmt.Errorf("%w: %s", services.ErrInvalidFilter, strings.Join(problems, "; "))
}
