package config

import (
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
	"github.com/pkg/errors"
	"github.com/prometheus/common/model"
	"github.com/unionj-cloud/go-doudou/v2/toolkit/stringutils"
	"github.com/wubin1989/promdash/query"
)

const (
	DefaultLookbackWindow        = "$lookback_window"
	DefaultRefresh               = "2m"
	DefaultLookbackWindowDefault = "2m"
	// EnvPrefix prefixes every environment variable read by Load.
	// Nested keys are separated by a double underscore, e.g. PROMDASH_LABELS__CLUSTER.
	EnvPrefix    = "PROMDASH_"
	delimiter    = "."
	envDelimiter = "__"
)

// DefaultPercentiles are the quantiles drawn on processing time panels.
var DefaultPercentiles = []float64{0.5, 0.90, 0.95, 0.99, 1.00}

// DefaultLookbackWindowValues are the choices of the lookback window template variable.
var DefaultLookbackWindowValues = []string{"2m", "5m", "10m", "30m", "1h", "3h", "6h", "1d", "1w"}

// Config holds the dashboard wide defaults used when generating rows and panels.
type Config struct {
	// LookbackWindow is the range of every range vector, usually a template variable.
	LookbackWindow string `yaml:"lookback_window"`
	// RateFunction is rate or irate.
	RateFunction string    `yaml:"rate_function"`
	Percentiles  []float64 `yaml:"percentiles"`
	// Refresh is the auto refresh interval of the dashboard.
	Refresh         string     `yaml:"refresh"`
	SharedCrosshair bool       `yaml:"shared_crosshair"`
	Labels          Labels     `yaml:"labels"`
	Templating      Templating `yaml:"templating"`
}

// Labels configures the labels every selector is scoped with.
type Labels struct {
	Cluster           string `yaml:"cluster"`
	ClusterVariable   string `yaml:"cluster_variable"`
	Namespace         string `yaml:"namespace"`
	NamespaceVariable string `yaml:"namespace_variable"`
}

type Templating struct {
	LookbackWindowValues  []string `yaml:"lookback_window_values"`
	LookbackWindowDefault string   `yaml:"lookback_window_default"`
}

func NewConfig() Config {
	return Config{
		LookbackWindow: DefaultLookbackWindow,
		RateFunction:   string(query.RateFn),
		Percentiles:    append([]float64(nil), DefaultPercentiles...),
		Refresh:        DefaultRefresh,
		Labels: Labels{
			Cluster:           query.DefaultClusterLabel,
			ClusterVariable:   query.DefaultClusterValue,
			Namespace:         query.DefaultNamespaceLabel,
			NamespaceVariable: query.DefaultNamespaceValue,
		},
		Templating: Templating{
			LookbackWindowValues:  append([]string(nil), DefaultLookbackWindowValues...),
			LookbackWindowDefault: DefaultLookbackWindowDefault,
		},
	}
}

// Load reads the defaults, then the YAML file at path if path is not empty,
// then PROMDASH_* environment variables. Later sources win.
func Load(path string) (Config, error) {
	k := koanf.New(delimiter)
	if err := k.Load(structs.Provider(NewConfig(), "yaml"), nil); err != nil {
		return Config{}, errors.Wrap(err, "load defaults")
	}
	if stringutils.IsNotEmpty(path) {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return Config{}, errors.Wrapf(err, "load config file %s", path)
		}
	}
	err := k.Load(env.Provider(EnvPrefix, delimiter, func(s string) string {
		return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, EnvPrefix)), envDelimiter, delimiter)
	}), nil)
	if err != nil {
		return Config{}, errors.Wrap(err, "load environment")
	}
	var cfg Config
	if err = k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "yaml"}); err != nil {
		return Config{}, errors.Wrap(err, "decode config")
	}
	if err = cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the values the query builder would reject later on.
func (c Config) Validate() error {
	if !query.ValidRateFunction(query.RateFunction(c.RateFunction)) {
		return errors.Wrapf(query.ErrInvalidValue, "unknown rate function %q", c.RateFunction)
	}
	for _, p := range c.Percentiles {
		if p < 0 || p > 1 {
			return errors.Wrapf(query.ErrInvalidValue, "percentile %v should be between 0 and 1", p)
		}
	}
	if stringutils.IsEmpty(c.LookbackWindow) {
		return errors.Wrap(query.ErrInvalidValue, "lookback window is empty")
	}
	for _, w := range c.Templating.LookbackWindowValues {
		if _, err := model.ParseDuration(w); err != nil {
			return errors.Wrapf(query.ErrInvalidValue, "lookback window value %q: %s", w, err)
		}
	}
	if len(c.Templating.LookbackWindowValues) > 0 {
		if _, err := model.ParseDuration(c.Templating.LookbackWindowDefault); err != nil {
			return errors.Wrapf(query.ErrInvalidValue, "lookback window default %q: %s", c.Templating.LookbackWindowDefault, err)
		}
	}
	return nil
}

// DefaultLabels returns the cluster and namespace labels appended to every selector.
func (c Config) DefaultLabels() query.Params {
	var params query.Params
	if stringutils.IsNotEmpty(c.Labels.Cluster) {
		params = append(params, query.P(c.Labels.Cluster, c.Labels.ClusterVariable))
	}
	if stringutils.IsNotEmpty(c.Labels.Namespace) {
		params = append(params, query.P(c.Labels.Namespace, c.Labels.NamespaceVariable))
	}
	return params
}
