package grafana

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/wubin1989/promdash/query"
)

const (
	grpcServerHandledTotal   = "grpc_server_handled_total"
	grpcServerStartedTotal   = "grpc_server_started_total"
	grpcServerHandlingBucket = "grpc_server_handling_seconds_bucket"
	grpcClientHandledTotal   = "grpc_client_handled_total"
	grpcClientHandlingBucket = "grpc_client_handling_seconds_bucket"
	grpcMethodVariable       = "~$grpc_method"
	grpcClientVariable       = "~$grpc_client"
)

// ServerRowTemplate returns the grpc_method template ServerRow relies on.
func (b *Builder) ServerRowTemplate(serverDeploymentName string) Template {
	return b.Template(TemplateOpts{
		Metric:      grpcServerHandledTotal,
		DisplayName: "grpc_method",
		MetricLabel: "grpc_method",
		Params:      query.Params{query.P("kubernetes_name", serverDeploymentName)},
		AllValue:    ".*",
		IncludeAll:  true,
	})
}

// ClientRowTemplate returns the grpc_client template ClientRow relies on.
func (b *Builder) ClientRowTemplate(grpcService string) Template {
	return b.Template(TemplateOpts{
		Metric:      grpcClientHandledTotal,
		DisplayName: "grpc_client",
		MetricLabel: "kubernetes_name",
		Params: query.Params{
			query.P("grpc_service", grpcService),
			query.P("grpc_method", grpcMethodVariable),
		},
		AllValue:   ".*",
		IncludeAll: true,
	})
}

// percentileTargets draws one histogram_quantile target per configured percentile.
func (b *Builder) percentileTargets(buckets query.Vector) ([]Target, error) {
	targets := make([]Target, 0, len(b.Cfg.Percentiles))
	for _, percentile := range b.Cfg.Percentiles {
		hq, err := query.NewHistogramQuantile(percentile, buckets)
		if err != nil {
			return nil, err
		}
		targets = append(targets, Target{
			Expr:         hq.String(),
			LegendFormat: fmt.Sprintf("%.1f%%ile", percentile*100),
		})
	}
	return targets, nil
}

// ServerRow returns the request rate, processing time and error percentage panels
// of a gRPC server as seen by the server.
func (b *Builder) ServerRow(serverDeploymentName string) (Row, error) {
	window := b.Cfg.LookbackWindow
	params := query.Params{
		query.P("kubernetes_name", serverDeploymentName),
		query.P("grpc_method", grpcMethodVariable),
	}
	errorParams := append(append(query.Params{}, params...), query.P("grpc_code", "!OK"))

	rps, err := b.sumRate(grpcServerHandledTotal, params, "grpc_method")
	if err != nil {
		return Row{}, errors.Wrap(err, "server requests per second")
	}
	processingTime, err := b.sumRate(grpcServerHandlingBucket, params, "le")
	if err != nil {
		return Row{}, errors.Wrap(err, "server processing time")
	}
	processingTargets, err := b.percentileTargets(processingTime)
	if err != nil {
		return Row{}, errors.Wrap(err, "server processing time")
	}

	handled, err := b.rate(grpcServerHandledTotal, errorParams)
	if err != nil {
		return Row{}, errors.Wrap(err, "server errors")
	}
	started, err := b.rate(grpcServerStartedTotal, params)
	if err != nil {
		return Row{}, errors.Wrap(err, "server started requests")
	}
	handledByMethod, err := query.NewSum(handled, query.By("grpc_method"))
	if err != nil {
		return Row{}, err
	}
	startedByMethod, err := query.NewSum(started, query.By("grpc_method"))
	if err != nil {
		return Row{}, err
	}
	handledByMethodAndCode, err := query.NewSum(handled, query.By("grpc_method", "grpc_code"))
	if err != nil {
		return Row{}, err
	}

	legend := Legend{Show: true, HideZero: true}
	return Row{
		Title: fmt.Sprintf("gRPC Server (%s)", serverDeploymentName),
		Panels: []Panel{
			Graph(
				fmt.Sprintf("RPS [%s]", window),
				"Requests/s as perceived by the server.",
				[]Target{{Expr: rps.String(), LegendFormat: "{{grpc_method}}"}},
				LeftYAxes(NewYAxis("requests/s", "short")),
				WithSpan(6),
				WithLegend(legend),
			),
			Graph(
				fmt.Sprintf("Processing time [%s]", window),
				"Quantile distribution of RPC processing time as perceived by the server.",
				processingTargets,
				LeftYAxes(NewYAxis("duration", "s")),
				WithSpan(6),
				WithLegend(Legend{Show: false, HideZero: true}),
			),
			Graph(
				fmt.Sprintf("Request error percentage by method [%s]", window),
				"Error percentage breakdown by method as perceived by the server. "+
					"i.e. 30% for method A means method A failed 30% of all requests during that window.",
				[]Target{{
					Expr:         fmt.Sprintf("%s/%s*100", handledByMethod, startedByMethod),
					LegendFormat: "{{grpc_method}}",
				}},
				LeftYAxes(NewYAxis("% of requests", "percent")),
				WithSpan(6),
				WithLegend(legend),
			),
			Graph(
				fmt.Sprintf("Request error percentage breakdown by (method, code) [%s]", window),
				"Error percentage breakdown by method and code as perceived by the server. "+
					"i.e. 30% for method A and code NotFound means method A failed 30% of all "+
					"requests with error code NotFound during that window.",
				[]Target{{
					Expr:         fmt.Sprintf("%s/ignoring(grpc_code)group_left %s*100", handledByMethodAndCode, startedByMethod),
					LegendFormat: "{{grpc_method}}[{{grpc_code}}]",
				}},
				LeftYAxes(NewYAxis("% of requests", "percent")),
				WithSpan(6),
				WithLegend(legend),
			),
		},
	}, nil
}

// ClientRow returns the request rate and processing time panels of a gRPC service
// as seen by its clients.
func (b *Builder) ClientRow(grpcService string) (Row, error) {
	window := b.Cfg.LookbackWindow
	params := query.Params{
		query.P("grpc_service", grpcService),
		query.P("grpc_method", grpcMethodVariable),
		query.P("kubernetes_name", grpcClientVariable),
	}
	rps, err := b.sumRate(grpcClientHandledTotal, params, "grpc_method")
	if err != nil {
		return Row{}, errors.Wrap(err, "client requests per second")
	}
	processingTime, err := b.sumRate(grpcClientHandlingBucket, params, "le")
	if err != nil {
		return Row{}, errors.Wrap(err, "client processing time")
	}
	processingTargets, err := b.percentileTargets(processingTime)
	if err != nil {
		return Row{}, errors.Wrap(err, "client processing time")
	}
	return Row{
		Title: "Client Side Metrics",
		Panels: []Panel{
			Graph(
				fmt.Sprintf("RPS [%s]", window),
				"Requests/s as perceived by client(s).",
				[]Target{{Expr: rps.String(), LegendFormat: "{{grpc_method}}"}},
				LeftYAxes(NewYAxis("requests/s", "short")),
				WithSpan(6),
				WithLegend(Legend{Show: true, HideZero: true}),
			),
			Graph(
				fmt.Sprintf("Processing time [%s]", window),
				"Quantile distribution of RPC processing time as perceived by the client(s).",
				processingTargets,
				LeftYAxes(NewYAxis("duration", "s")),
				WithSpan(6),
				WithLegend(Legend{Show: false, HideZero: true}),
			),
		},
	}, nil
}

// GRPCDashboardOpts describes a dashboard for one gRPC server deployment and its clients.
type GRPCDashboardOpts struct {
	Title                string
	ServerDeploymentName string
	GRPCService          string
	Description          string
	Tags                 []string
	AdditionalTemplates  []Template
	AdditionalRows       []Row
}

// GRPCDashboard returns a dashboard with the gRPC server, gRPC client and deployment
// information rows followed by opts.AdditionalRows. Panel IDs are assigned.
func (b *Builder) GRPCDashboard(opts GRPCDashboardOpts) (Dashboard, error) {
	templating, err := b.Templating(TemplatingOpts{
		Metric: grpcServerHandledTotal,
		AdditionalTemplates: append([]Template{
			b.ServerRowTemplate(opts.ServerDeploymentName),
			b.ClientRowTemplate(opts.GRPCService),
		}, opts.AdditionalTemplates...),
	})
	if err != nil {
		return Dashboard{}, err
	}
	server, err := b.ServerRow(opts.ServerDeploymentName)
	if err != nil {
		return Dashboard{}, err
	}
	client, err := b.ClientRow(opts.GRPCService)
	if err != nil {
		return Dashboard{}, err
	}
	information, err := b.InformationRow(InformationRowOpts{DeploymentName: opts.ServerDeploymentName})
	if err != nil {
		return Dashboard{}, err
	}
	tags := opts.Tags
	if tags == nil {
		tags = []string{}
	}
	graphTooltip := 0
	if b.Cfg.SharedCrosshair {
		graphTooltip = sharedCrosshairTooltip
	}
	d := Dashboard{
		UID:           DashboardUID(opts.Title),
		Title:         opts.Title,
		Description:   opts.Description,
		Tags:          tags,
		GraphTooltip:  graphTooltip,
		Refresh:       b.Cfg.Refresh,
		SchemaVersion: schemaVersion,
		Templating:    templating,
		Rows:          []Row{server, client, information},
	}
	for _, row := range opts.AdditionalRows {
		row.Panels = append([]Panel(nil), row.Panels...)
		d.Rows = append(d.Rows, row)
	}
	d.AutoPanelIDs()
	return d, nil
}
