package grafana

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/unionj-cloud/go-doudou/v2/toolkit/stringutils"
	"github.com/wubin1989/promdash/query"
)

const defaultInformationRowTitle = "Deployment Information"

// InformationRowOpts selects the deployment shown by InformationRow.
type InformationRowOpts struct {
	// DeploymentName defaults to DeploymentVariable.
	DeploymentName string
	// Title defaults to "Deployment Information".
	Title string
}

func resourceOverrides() []SeriesOverride {
	return []SeriesOverride{
		{Alias: "request", Dashes: true, LineWidth: 2, Color: Green},
		{Alias: "limit", Dashes: true, LineWidth: 2, Color: Red},
	}
}

// resourceTargets returns the min of the container requests and limits of one resource.
func (b *Builder) resourceTargets(podParams query.Params, resource string) ([]Target, error) {
	params := append(append(query.Params{}, podParams...), query.P("resource", resource))
	requests, err := query.NewMin(query.NewInstantVector("kube_pod_container_resource_requests", b.Selector(params)))
	if err != nil {
		return nil, err
	}
	limits, err := query.NewMin(query.NewInstantVector("kube_pod_container_resource_limits", b.Selector(params)))
	if err != nil {
		return nil, err
	}
	return []Target{
		{Expr: requests.String(), LegendFormat: "request"},
		{Expr: limits.String(), LegendFormat: "limit"},
	}, nil
}

// InformationRow returns the CPU, memory and pod status panels of a deployment.
func (b *Builder) InformationRow(opts InformationRowOpts) (Row, error) {
	deployment := opts.DeploymentName
	if stringutils.IsEmpty(deployment) {
		deployment = DeploymentVariable
	}
	title := opts.Title
	if stringutils.IsEmpty(title) {
		title = defaultInformationRowTitle
	}
	podParams := query.Params{
		query.P("pod", fmt.Sprintf("~%s-[a-z0-9]+[-]?[a-z0-9]*$", deployment)),
		query.P("container", "!"),
	}

	cpuUsage, err := b.sumRate("container_cpu_usage_seconds_total", podParams, "pod")
	if err != nil {
		return Row{}, errors.Wrap(err, "cpu usage")
	}
	cpuTargets, err := b.resourceTargets(podParams, "cpu")
	if err != nil {
		return Row{}, errors.Wrap(err, "cpu requests")
	}
	memoryUsage, err := query.NewSum(
		query.NewInstantVector("container_memory_working_set_bytes", b.Selector(podParams)),
		query.By("pod"),
	)
	if err != nil {
		return Row{}, errors.Wrap(err, "memory usage")
	}
	memoryTargets, err := b.resourceTargets(podParams, "memory")
	if err != nil {
		return Row{}, errors.Wrap(err, "memory requests")
	}
	podStatus, err := query.NewSum(
		query.NewInstantVector("kube_pod_status_phase", b.Selector(query.Params{query.P("pod", "~"+deployment+".*")})),
		query.By("phase"),
	)
	if err != nil {
		return Row{}, errors.Wrap(err, "pod status")
	}

	tooltip := DefaultTooltip()
	tooltip.Sort = 2
	return Row{
		Title: title,
		Panels: []Panel{
			Graph(
				fmt.Sprintf("CPU Usage [%s]", b.Cfg.LookbackWindow),
				"CPU usage of the deployment.",
				append([]Target{{Expr: cpuUsage.String(), LegendFormat: "{{pod}}"}}, cpuTargets...),
				LeftYAxes(NewYAxis("CPU cores", "short")),
				WithSeriesOverrides(resourceOverrides()...),
				WithTooltip(tooltip),
			),
			Graph(
				"Memory Usage",
				"Memory usage of the deployment.",
				append([]Target{{Expr: memoryUsage.String(), LegendFormat: "{{pod}}"}}, memoryTargets...),
				LeftYAxes(NewYAxis("RAM", "bytes")),
				WithSeriesOverrides(resourceOverrides()...),
				WithTooltip(tooltip),
			),
			Graph(
				"Pod Status",
				"Shows the status of the various replicas of this deployment.",
				[]Target{{Expr: podStatus.String(), LegendFormat: "{{phase}}"}},
				LeftYAxes(NewYAxis("pods", "short").WithDecimals(0)),
			),
		},
	}, nil
}
