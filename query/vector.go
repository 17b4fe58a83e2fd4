// Package query builds PromQL expressions from typed vector nodes. Nodes are validated
// when constructed and rendered to PromQL text with String.
package query

import "fmt"

// DefaultLookbackWindow is the range of a RangeVector built without an explicit window.
const DefaultLookbackWindow = "2m"

// Kind tells which PromQL value type a Vector evaluates to.
type Kind int

const (
	InstantKind Kind = iota + 1
	RangeKind
)

func (k Kind) String() string {
	switch k {
	case InstantKind:
		return "instant vector"
	case RangeKind:
		return "range vector"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Vector is a node of an expression tree. String renders the PromQL fragment
// of the node and everything below it.
type Vector interface {
	fmt.Stringer
	Kind() Kind
}

var (
	_ Vector = InstantVector{}
	_ Vector = RangeVector{}
)

// InstantVector selects one sample per series at the evaluation instant.
// https://prometheus.io/docs/prometheus/latest/querying/basics/#instant-vector-selectors
type InstantVector struct {
	Metric   string
	Selector Selector
}

func NewInstantVector(metric string, selector Selector) InstantVector {
	return InstantVector{Metric: metric, Selector: selector}
}

func (v InstantVector) Kind() Kind {
	return InstantKind
}

func (v InstantVector) String() string {
	return v.Metric + string(v.Selector)
}

// RangeVector selects the samples of each series over a trailing window.
// Window is rendered verbatim so template variables like $lookback_window are allowed.
// https://prometheus.io/docs/prometheus/latest/querying/basics/#range-vector-selectors
type RangeVector struct {
	Metric   string
	Selector Selector
	Window   string
}

// NewRangeVector returns a RangeVector looking back DefaultLookbackWindow.
func NewRangeVector(metric string, selector Selector) RangeVector {
	return RangeVector{Metric: metric, Selector: selector, Window: DefaultLookbackWindow}
}

// WithWindow returns a copy of v with another lookback window.
func (v RangeVector) WithWindow(window string) RangeVector {
	v.Window = window
	return v
}

func (v RangeVector) Kind() Kind {
	return RangeKind
}

func (v RangeVector) String() string {
	window := v.Window
	if window == "" {
		window = DefaultLookbackWindow
	}
	return v.Metric + string(v.Selector) + "[" + window + "]"
}
