package query

import (
	"strings"

	"github.com/prometheus/prometheus/promql/parser"
	"golang.org/x/exp/slices"
)

// AggregateOp is a PromQL aggregation operator.
// https://prometheus.io/docs/prometheus/latest/querying/operators/#aggregation-operators
type AggregateOp string

const (
	Sum   AggregateOp = "sum"
	Min   AggregateOp = "min"
	Max   AggregateOp = "max"
	Avg   AggregateOp = "avg"
	Count AggregateOp = "count"
)

var validAggregateOps = []AggregateOp{Sum, Min, Max, Avg, Count}

var aggregateOps = map[AggregateOp]parser.ItemType{
	Sum:   parser.SUM,
	Min:   parser.MIN,
	Max:   parser.MAX,
	Avg:   parser.AVG,
	Count: parser.COUNT,
}

// ItemType returns the PromQL parser token of op and false if op is not supported.
func (op AggregateOp) ItemType() (parser.ItemType, bool) {
	it, ok := aggregateOps[op]
	return it, ok
}

type grouping struct {
	by      []string
	without []string
}

// GroupingOption sets the by or without clause of an aggregation.
type GroupingOption func(*grouping)

// By keeps only the given labels in the result.
func By(labels ...string) GroupingOption {
	return func(g *grouping) {
		g.by = append(g.by, labels...)
	}
}

// Without drops the given labels from the result.
func Without(labels ...string) GroupingOption {
	return func(g *grouping) {
		g.without = append(g.without, labels...)
	}
}

// Aggregation renders as `op(vector)` followed by an optional grouping clause.
type Aggregation struct {
	op      AggregateOp
	vector  Vector
	by      []string
	without []string
}

// NewAggregation validates op against the supported operators. Prefer NewSum, NewMin,
// NewMax, NewAvg and NewCount.
func NewAggregation(op AggregateOp, v Vector, opts ...GroupingOption) (*Aggregation, error) {
	if err := requireKind(InstantKind, v); err != nil {
		return nil, err
	}
	var g grouping
	for _, opt := range opts {
		opt(&g)
	}
	if len(g.by) > 0 && len(g.without) > 0 {
		return nil, invalidValue("clause should be by or without, not both")
	}
	if !slices.Contains(validAggregateOps, op) {
		return nil, invalidValue("operator should be one of: %v", validAggregateOps)
	}
	return &Aggregation{
		op:      op,
		vector:  v,
		by:      slices.Clone(g.by),
		without: slices.Clone(g.without),
	}, nil
}

func NewSum(v Vector, opts ...GroupingOption) (*Aggregation, error) {
	return NewAggregation(Sum, v, opts...)
}

func NewMin(v Vector, opts ...GroupingOption) (*Aggregation, error) {
	return NewAggregation(Min, v, opts...)
}

func NewMax(v Vector, opts ...GroupingOption) (*Aggregation, error) {
	return NewAggregation(Max, v, opts...)
}

func NewAvg(v Vector, opts ...GroupingOption) (*Aggregation, error) {
	return NewAggregation(Avg, v, opts...)
}

func NewCount(v Vector, opts ...GroupingOption) (*Aggregation, error) {
	return NewAggregation(Count, v, opts...)
}

func (a *Aggregation) Kind() Kind {
	if a == nil {
		return 0
	}
	return InstantKind
}

func (a *Aggregation) Op() AggregateOp {
	return a.op
}

// By returns a copy of the by clause labels.
func (a *Aggregation) By() []string {
	return slices.Clone(a.by)
}

// Without returns a copy of the without clause labels.
func (a *Aggregation) Without() []string {
	return slices.Clone(a.without)
}

func (a *Aggregation) dimension() string {
	switch {
	case len(a.by) > 0:
		return " by (" + strings.Join(a.by, ", ") + ")"
	case len(a.without) > 0:
		return " without (" + strings.Join(a.without, ", ") + ")"
	default:
		return ""
	}
}

func (a *Aggregation) String() string {
	return string(a.op) + "(" + a.vector.String() + ")" + a.dimension()
}
