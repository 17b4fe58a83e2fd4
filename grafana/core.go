package grafana

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/unionj-cloud/go-doudou/v2/toolkit/stringutils"
	"github.com/wubin1989/promdash/config"
	"github.com/wubin1989/promdash/query"
)

const (
	// DeploymentVariable references the deployment template variable.
	DeploymentVariable = "[[deployment]]"
	namespaceVariable  = "[[namespace]]"
	lookbackWindowName = "lookback_window"
	podNameRegex       = `^(.*)-(?:[a-z0-9]+-[a-z0-9]+$|[0-9]?$)`
)

// ErrDeploymentAndPod is returned by Templating when both the deployment and the pod template are asked for.
var ErrDeploymentAndPod = errors.New("cannot include both deployment and pod")

// Builder generates templates, rows and dashboards with the lookback window, rate
// function, percentiles and default labels of a config.Config.
type Builder struct {
	_   [0]int
	Cfg config.Config
}

func NewBuilder(cfg config.Config) (*Builder, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}
	return &Builder{Cfg: cfg}, nil
}

// Selector formats params followed by the configured cluster and namespace labels.
func (b *Builder) Selector(params query.Params) query.Selector {
	return query.FormatParams(params, query.WithDefaultLabels(b.Cfg.DefaultLabels()))
}

func (b *Builder) rangeVector(metric string, params query.Params) query.RangeVector {
	return query.NewRangeVector(metric, b.Selector(params)).WithWindow(b.Cfg.LookbackWindow)
}

func (b *Builder) rate(metric string, params query.Params) (*query.Rate, error) {
	return query.NewRate(b.rangeVector(metric, params), query.RateFunction(b.Cfg.RateFunction))
}

// sumRate renders sum(rate(metric{params}[window])) by (by...).
func (b *Builder) sumRate(metric string, params query.Params, by ...string) (*query.Aggregation, error) {
	rate, err := b.rate(metric, params)
	if err != nil {
		return nil, errors.Wrapf(err, "rate of %s", metric)
	}
	return query.NewSum(rate, query.By(by...))
}

// TemplateOpts describes a query template variable listing the values of MetricLabel on Metric.
type TemplateOpts struct {
	Metric      string
	DisplayName string
	MetricLabel string
	// Params constrain the listed values, which allows chaining templates.
	Params     query.Params
	Multi      bool
	Default    string
	IncludeAll bool
	AllValue   string
	// Regex filters or captures parts of the returned values.
	Regex string
	Hide  bool
	// Sort defaults to SortAlphaIgnoreCaseAsc.
	Sort int
}

// Template returns a query template variable `label_values(metric{params}, label)`.
// The selector is omitted when there are no params.
func (b *Builder) Template(opts TemplateOpts) Template {
	var selector query.Selector
	if len(opts.Params) > 0 {
		selector = b.Selector(opts.Params)
	}
	hide := Show
	if opts.Hide {
		hide = HideLabel
	}
	sort := opts.Sort
	if sort == 0 {
		sort = SortAlphaIgnoreCaseAsc
	}
	t := Template{
		Name:       opts.DisplayName,
		Label:      opts.DisplayName,
		Type:       queryTemplateType,
		Query:      fmt.Sprintf("label_values(%s, %s)", query.NewInstantVector(opts.Metric, selector), opts.MetricLabel),
		IncludeAll: opts.IncludeAll,
		AllValue:   opts.AllValue,
		Multi:      opts.Multi,
		Regex:      opts.Regex,
		Hide:       hide,
		Sort:       sort,
		Refresh:    1,
	}
	if stringutils.IsNotEmpty(opts.Default) {
		t.Current = &TemplateCurrent{Text: opts.Default, Value: opts.Default}
	}
	return t
}

// TemplatingOpts selects the default templates. The lookback window template is
// always present unless the configured lookback window values are empty.
type TemplatingOpts struct {
	// Metric is used to list namespaces, deployments and pods.
	Metric            string
	IncludeNamespace  bool
	IncludeDeployment bool
	IncludePod        bool
	// NamespaceLabel defaults to the configured namespace label.
	NamespaceLabel      string
	AdditionalTemplates []Template
}

// Templating returns the default templates followed by opts.AdditionalTemplates.
func (b *Builder) Templating(opts TemplatingOpts) (Templating, error) {
	if opts.IncludeDeployment && opts.IncludePod {
		return Templating{}, ErrDeploymentAndPod
	}
	namespaceLabel := opts.NamespaceLabel
	if stringutils.IsEmpty(namespaceLabel) {
		namespaceLabel = b.Cfg.Labels.Namespace
	}
	var list []Template
	if values := b.Cfg.Templating.LookbackWindowValues; len(values) > 0 {
		def := b.Cfg.Templating.LookbackWindowDefault
		list = append(list, Template{
			Name:    lookbackWindowName,
			Label:   "Lookback Window",
			Type:    customTemplateType,
			Query:   strings.Join(values, ","),
			Current: &TemplateCurrent{Text: def, Value: def},
			Sort:    SortAlphaIgnoreCaseAsc,
		})
	}
	if opts.IncludeNamespace {
		list = append(list, Template{
			Name:    "namespace",
			Label:   "Namespace",
			Type:    queryTemplateType,
			Query:   fmt.Sprintf("label_values(%s{},%s)", opts.Metric, namespaceLabel),
			Current: &TemplateCurrent{Text: "default", Value: "default"},
			Sort:    SortAlphaIgnoreCaseAsc,
			Refresh: 1,
		})
	}
	var params query.Params
	if opts.IncludeNamespace {
		params = query.Params{query.P(namespaceLabel, "~"+namespaceVariable)}
	}
	if opts.IncludeDeployment {
		list = append(list, b.Template(TemplateOpts{
			Metric:      opts.Metric,
			DisplayName: "deployment",
			MetricLabel: "kubernetes_name",
			Params:      params,
			Multi:       true,
			IncludeAll:  true,
			AllValue:    ".*",
		}))
	}
	if opts.IncludePod {
		list = append(list, b.Template(TemplateOpts{
			Metric:      opts.Metric,
			DisplayName: "deployment",
			MetricLabel: "pod",
			Regex:       podNameRegex,
			Params:      params,
		}))
	}
	list = append(list, opts.AdditionalTemplates...)
	return Templating{List: list}, nil
}

// DashboardUID derives a stable dashboard UID from its title.
func DashboardUID(title string) string {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(title)).String()
}
