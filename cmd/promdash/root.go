package main

import (
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/unionj-cloud/go-doudou/v2/toolkit/zlogger"
	"github.com/wubin1989/promdash/config"
	"github.com/wubin1989/promdash/grafana"
	"golang.org/x/exp/slices"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	ConfigFile string
	Format     string
	Verbose    bool
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{string(grafana.JSONFormat), string(grafana.YAMLFormat)}

// NewRootCommand creates the root command of the promdash CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "promdash",
		Short: "Generate Grafana dashboards and PromQL expressions",
		Long: `Generate Grafana dashboards, rows and single PromQL expressions.

Defaults come from an optional YAML config file and PROMDASH_* environment variables.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains(ValidFormats, opts.Format) {
				return errors.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			return nil
		},
	}

	cmd.PersistentFlags().StringVarP(&opts.ConfigFile, "config", "c", "", "YAML config file")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", string(grafana.JSONFormat), "output format (json|yaml)")
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")

	cmd.AddCommand(NewGRPCCommand(opts))
	cmd.AddCommand(NewRowCommand(opts))
	cmd.AddCommand(NewExprCommand(opts))

	return cmd
}

// builder loads the config and returns a dashboard builder for it.
func (opts *RootOptions) builder() (*grafana.Builder, error) {
	cfg, err := config.Load(opts.ConfigFile)
	if err != nil {
		return nil, err
	}
	opts.logf("config loaded: lookback window %s, rate function %s", cfg.LookbackWindow, cfg.RateFunction)
	return grafana.NewBuilder(cfg)
}

func (opts *RootOptions) logf(format string, v ...interface{}) {
	if opts.Verbose {
		zlogger.Info().Msgf(format, v...)
	}
}

func (opts *RootOptions) write(cmd *cobra.Command, v interface{}) error {
	data, err := grafana.Marshal(v, grafana.Format(opts.Format))
	if err != nil {
		return err
	}
	_, err = cmd.OutOrStdout().Write(data)
	return errors.Wrap(err, "write output")
}
