package query

import (
	"testing"

	"github.com/prometheus/prometheus/model/labels"
	"github.com/wubin1989/promdash/query/testinghelper"
)

func TestFormatParams(t *testing.T) {
	type args struct {
		params Params
		opts   []FormatOption
	}
	tests := []struct {
		name string
		args args
		want Selector
	}{
		{
			name: "empty params including default",
			args: args{},
			want: `{kubernetes_cluster="$cluster", kubernetes_namespace="$namespace"}`,
		},
		{
			name: "empty params excluding default",
			args: args{opts: []FormatOption{WithoutDefaultLabels()}},
			want: `{}`,
		},
		{
			name: "single param including default",
			args: args{params: Params{P("a", "b")}},
			want: `{a="b", kubernetes_cluster="$cluster", kubernetes_namespace="$namespace"}`,
		},
		{
			name: "single param excluding default",
			args: args{params: Params{P("a", "b")}, opts: []FormatOption{WithoutDefaultLabels()}},
			want: `{a="b"}`,
		},
		{
			name: "two params excluding default",
			args: args{params: Params{P("a", "b"), P("c", "d")}, opts: []FormatOption{WithoutDefaultLabels()}},
			want: `{a="b", c="d"}`,
		},
		{
			name: "two params keep input order",
			args: args{params: Params{P("c", "d"), P("a", "b")}, opts: []FormatOption{WithoutDefaultLabels()}},
			want: `{c="d", a="b"}`,
		},
		{
			name: "regex",
			args: args{params: Params{P("a", "~b")}, opts: []FormatOption{WithoutDefaultLabels()}},
			want: `{a=~"b"}`,
		},
		{
			name: "not equal",
			args: args{params: Params{P("a", "!b")}, opts: []FormatOption{WithoutDefaultLabels()}},
			want: `{a!="b"}`,
		},
		{
			name: "not equal regex",
			args: args{params: Params{P("a", "!~b")}, opts: []FormatOption{WithoutDefaultLabels()}},
			want: `{a!~"b"}`,
		},
		{
			name: "not equal empty",
			args: args{params: Params{P("container", "!")}, opts: []FormatOption{WithoutDefaultLabels()}},
			want: `{container!=""}`,
		},
		{
			name: "mix regex and non regex",
			args: args{params: Params{P("a", "~b"), P("c", "d")}, opts: []FormatOption{WithoutDefaultLabels()}},
			want: `{a=~"b", c="d"}`,
		},
		{
			name: "custom default labels",
			args: args{
				params: Params{P("a", "b")},
				opts:   []FormatOption{WithDefaultLabels(Params{P("cluster", "$k8s")})},
			},
			want: `{a="b", cluster="$k8s"}`,
		},
		{
			name: "caller overrides default label",
			args: args{params: Params{P("a", "b"), P(DefaultClusterLabel, "prod")}},
			want: `{a="b", kubernetes_cluster="prod", kubernetes_namespace="$namespace"}`,
		},
		{
			name: "caller overrides custom default label",
			args: args{
				params: Params{P("cluster", "!dev")},
				opts:   []FormatOption{WithDefaultLabels(Params{P("cluster", "$k8s"), P("ns", "$ns")})},
			},
			want: `{cluster!="dev", ns="$ns"}`,
		},
		{
			name: "quotes are not escaped",
			args: args{params: Params{P("a", `b\"c`)}, opts: []FormatOption{WithoutDefaultLabels()}},
			want: `{a="b\"c"}`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatParams(tt.args.params, tt.args.opts...); got != tt.want {
				t.Errorf("FormatParams() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFormatParams_IsValidPromQL(t *testing.T) {
	selector := FormatParams(Params{
		P("a", "~b.*"),
		P("c", "!d"),
		P("e", "!~f|g"),
		P("h", "i"),
	})
	vs := testinghelper.VectorSelector(NewInstantVector("test_total", selector))
	want := map[string]*labels.Matcher{
		"a":                   labels.MustNewMatcher(labels.MatchRegexp, "a", "b.*"),
		"c":                   labels.MustNewMatcher(labels.MatchNotEqual, "c", "d"),
		"e":                   labels.MustNewMatcher(labels.MatchNotRegexp, "e", "f|g"),
		"h":                   labels.MustNewMatcher(labels.MatchEqual, "h", "i"),
		DefaultClusterLabel:   labels.MustNewMatcher(labels.MatchEqual, DefaultClusterLabel, DefaultClusterValue),
		DefaultNamespaceLabel: labels.MustNewMatcher(labels.MatchEqual, DefaultNamespaceLabel, DefaultNamespaceValue),
		labels.MetricName:     labels.MustNewMatcher(labels.MatchEqual, labels.MetricName, "test_total"),
	}
	if len(vs.LabelMatchers) != len(want) {
		t.Fatalf("got %d matchers, want %d", len(vs.LabelMatchers), len(want))
	}
	for _, m := range vs.LabelMatchers {
		w, ok := want[m.Name]
		if !ok {
			t.Errorf("unexpected matcher %s", m)
			continue
		}
		if m.Type != w.Type || m.Value != w.Value {
			t.Errorf("matcher %s, want %s", m, w)
		}
	}
}

func TestParam_Matcher(t *testing.T) {
	tests := []struct {
		value     string
		wantType  labels.MatchType
		wantValue string
	}{
		{value: "b", wantType: labels.MatchEqual, wantValue: "b"},
		{value: "", wantType: labels.MatchEqual, wantValue: ""},
		{value: "~b", wantType: labels.MatchRegexp, wantValue: "b"},
		{value: "!b", wantType: labels.MatchNotEqual, wantValue: "b"},
		{value: "!~b", wantType: labels.MatchNotRegexp, wantValue: "b"},
		{value: "~!b", wantType: labels.MatchRegexp, wantValue: "!b"},
	}
	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			gotType, gotValue := P("a", tt.value).Matcher()
			if gotType != tt.wantType || gotValue != tt.wantValue {
				t.Errorf("Matcher() = %v %q, want %v %q", gotType, gotValue, tt.wantType, tt.wantValue)
			}
		})
	}
}

func TestParams_Has(t *testing.T) {
	params := Params{P("a", "b"), P("c", "~d")}
	if !params.Has("a") || !params.Has("c") {
		t.Errorf("Has() = false for a present label")
	}
	if params.Has("b") || Params(nil).Has("a") {
		t.Errorf("Has() = true for a missing label")
	}
}
