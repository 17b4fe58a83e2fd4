package main

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/wubin1989/promdash/grafana"
)

// NewRowCommand creates the row command.
func NewRowCommand(rootOpts *RootOptions) *cobra.Command {
	types := make([]string, 0)
	for _, t := range grafana.RowFactoryRegistry.Types() {
		types = append(types, string(t))
	}

	cmd := &cobra.Command{
		Use:   "row <type> <target>",
		Short: "Print a single dashboard row",
		Long: fmt.Sprintf(`Print a single dashboard row.

Types: %s. The target is a deployment name, or a gRPC service for grpc-client.`, strings.Join(types, ", ")),
		Args:      cobra.ExactArgs(2),
		ValidArgs: types,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRow(rootOpts, grafana.RowType(args[0]), args[1], cmd)
		},
	}

	return cmd
}

func runRow(rootOpts *RootOptions, rowType grafana.RowType, target string, cmd *cobra.Command) error {
	factory, ok := grafana.RowFactoryRegistry.Factory(rowType)
	if !ok {
		return errors.Errorf("unknown row type %q: must be one of %v", rowType, grafana.RowFactoryRegistry.Types())
	}
	b, err := rootOpts.builder()
	if err != nil {
		return err
	}
	row, err := factory.Build(b, target)
	if err != nil {
		return errors.Wrapf(err, "build %s row", rowType)
	}
	rootOpts.logf("row %q generated with %d panels", row.Title, len(row.Panels))
	return rootOpts.write(cmd, row)
}
