package query

import (
	"strings"

	"github.com/prometheus/prometheus/model/labels"
)

const (
	DefaultClusterLabel   = "kubernetes_cluster"
	DefaultClusterValue   = "$cluster"
	DefaultNamespaceLabel = "kubernetes_namespace"
	DefaultNamespaceValue = "$namespace"
	regexPrefix           = "~"
	notRegexPrefix        = "!~"
	notEqualPrefix        = "!"
)

// Selector is the braces part of a metric selector, e.g. `{job="api", code!="200"}`.
type Selector string

// EmptySelector renders nothing after the metric name.
const EmptySelector Selector = ""

// Param is one label constraint. Value may be prefixed with `~` (regex match),
// `!~` (negative regex match) or `!` (not equal). Anything else is an exact match.
type Param struct {
	Label string
	Value string
}

// P is a shorthand for Param{Label: label, Value: value}.
func P(label, value string) Param {
	return Param{Label: label, Value: value}
}

// Params keeps label constraints in the order they are rendered.
type Params []Param

// Has reports whether a constraint on label is present.
func (ps Params) Has(label string) bool {
	for _, p := range ps {
		if p.Label == label {
			return true
		}
	}
	return false
}

// Matcher splits the prefix off the value and returns the matching operator with the bare value.
func (p Param) Matcher() (labels.MatchType, string) {
	switch {
	case strings.HasPrefix(p.Value, regexPrefix):
		return labels.MatchRegexp, p.Value[len(regexPrefix):]
	case strings.HasPrefix(p.Value, notRegexPrefix):
		return labels.MatchNotRegexp, p.Value[len(notRegexPrefix):]
	case strings.HasPrefix(p.Value, notEqualPrefix):
		return labels.MatchNotEqual, p.Value[len(notEqualPrefix):]
	default:
		return labels.MatchEqual, p.Value
	}
}

func (p Param) String() string {
	matchType, value := p.Matcher()
	return p.Label + matchType.String() + `"` + value + `"`
}

// DefaultLabels scope every selector to the dashboard's cluster and namespace template variables.
func DefaultLabels() Params {
	return Params{
		P(DefaultClusterLabel, DefaultClusterValue),
		P(DefaultNamespaceLabel, DefaultNamespaceValue),
	}
}

type formatOptions struct {
	defaults        Params
	includeDefaults bool
}

type FormatOption func(*formatOptions)

// WithoutDefaultLabels renders only the caller's labels.
func WithoutDefaultLabels() FormatOption {
	return func(o *formatOptions) {
		o.includeDefaults = false
	}
}

// WithDefaultLabels replaces the built-in cluster and namespace labels.
func WithDefaultLabels(defaults Params) FormatOption {
	return func(o *formatOptions) {
		o.defaults = defaults
	}
}

// FormatParams turns label constraints into a selector, i.e. {a: "1", b: "~2"} becomes
// `{a="1", b=~"2"}`. Default labels are appended after the caller's labels unless
// WithoutDefaultLabels is given. A caller label overrides the default of the same name.
// Values are not escaped.
func FormatParams(params Params, opts ...FormatOption) Selector {
	o := formatOptions{
		defaults:        DefaultLabels(),
		includeDefaults: true,
	}
	for _, opt := range opts {
		opt(&o)
	}
	all := params
	if o.includeDefaults && len(o.defaults) > 0 {
		all = make(Params, 0, len(params)+len(o.defaults))
		all = append(all, params...)
		for _, d := range o.defaults {
			if !params.Has(d.Label) {
				all = append(all, d)
			}
		}
	}
	clauses := make([]string, 0, len(all))
	for _, p := range all {
		clauses = append(clauses, p.String())
	}
	return Selector("{" + strings.Join(clauses, ", ") + "}")
}
