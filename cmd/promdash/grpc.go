package main

import (
	"github.com/spf13/cobra"
	"github.com/wubin1989/promdash/grafana"
)

// NewGRPCCommand creates the grpc command.
func NewGRPCCommand(rootOpts *RootOptions) *cobra.Command {
	var opts grafana.GRPCDashboardOpts

	cmd := &cobra.Command{
		Use:   "grpc <server-deployment> <grpc-service>",
		Short: "Print a gRPC dashboard",
		Long: `Print a dashboard with the server side metrics of a gRPC deployment, the client
side metrics of its gRPC service and the deployment resource usage.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.ServerDeploymentName = args[0]
			opts.GRPCService = args[1]
			if opts.Title == "" {
				opts.Title = args[0]
			}
			return runGRPC(rootOpts, opts, cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Title, "title", "t", "", "dashboard title, defaults to the server deployment")
	cmd.Flags().StringVar(&opts.Description, "description", "", "dashboard description")
	cmd.Flags().StringSliceVar(&opts.Tags, "tags", nil, "dashboard tags")

	return cmd
}

func runGRPC(rootOpts *RootOptions, opts grafana.GRPCDashboardOpts, cmd *cobra.Command) error {
	b, err := rootOpts.builder()
	if err != nil {
		return err
	}
	d, err := b.GRPCDashboard(opts)
	if err != nil {
		return err
	}
	rootOpts.logf("dashboard %s generated with %d rows", d.UID, len(d.Rows))
	return rootOpts.write(cmd, d)
}
