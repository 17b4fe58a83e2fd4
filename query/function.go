package query

import (
	"math"
	"strconv"

	"golang.org/x/exp/slices"
)

// RateFunction picks the per-second rate function applied by Rate.
type RateFunction string

const (
	RateFn  RateFunction = "rate"
	IRateFn RateFunction = "irate"
)

var validRateFunctions = []RateFunction{RateFn, IRateFn}

// ValidRateFunction reports whether fn is accepted by NewRate. Empty means RateFn.
func ValidRateFunction(fn RateFunction) bool {
	return fn == "" || slices.Contains(validRateFunctions, fn)
}

// requireKind rejects nil vectors, including typed nil wrappers whose Kind is 0.
func requireKind(want Kind, v Vector) error {
	if v == nil || v.Kind() != want {
		return invalidInputKind(want, v)
	}
	return nil
}

// Must panics if err is not nil. It is meant for dashboards assembled from constants.
func Must[T Vector](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}

// Rate https://prometheus.io/docs/prometheus/latest/querying/functions/#rate
type Rate struct {
	function RateFunction
	vector   Vector
}

// NewRate wraps a range vector into rate() or irate(). An empty fn means RateFn.
func NewRate(v Vector, fn RateFunction) (*Rate, error) {
	if err := requireKind(RangeKind, v); err != nil {
		return nil, err
	}
	if fn == "" {
		fn = RateFn
	}
	if !slices.Contains(validRateFunctions, fn) {
		return nil, invalidValue("rate function should be one of: %v", validRateFunctions)
	}
	return &Rate{function: fn, vector: v}, nil
}

// Function returns rate or irate.
func (r *Rate) Function() RateFunction {
	return r.function
}

func (r *Rate) Kind() Kind {
	if r == nil {
		return 0
	}
	return InstantKind
}

func (r *Rate) String() string {
	return string(r.function) + "(" + r.vector.String() + ")"
}

// Increase https://prometheus.io/docs/prometheus/latest/querying/functions/#increase
type Increase struct {
	vector Vector
}

func NewIncrease(v Vector) (*Increase, error) {
	if err := requireKind(RangeKind, v); err != nil {
		return nil, err
	}
	return &Increase{vector: v}, nil
}

func (i *Increase) Kind() Kind {
	if i == nil {
		return 0
	}
	return InstantKind
}

func (i *Increase) String() string {
	return "increase(" + i.vector.String() + ")"
}

// Delta https://prometheus.io/docs/prometheus/latest/querying/functions/#delta
// Delta should only be used with gauges. The metric type is not checked.
type Delta struct {
	vector Vector
}

func NewDelta(v Vector) (*Delta, error) {
	if err := requireKind(RangeKind, v); err != nil {
		return nil, err
	}
	return &Delta{vector: v}, nil
}

func (d *Delta) Kind() Kind {
	if d == nil {
		return 0
	}
	return InstantKind
}

func (d *Delta) String() string {
	return "delta(" + d.vector.String() + ")"
}

// Scalar https://prometheus.io/docs/prometheus/latest/querying/functions/#scalar
// PromQL evaluates it to a scalar, it is still accepted wherever an instant vector is.
type Scalar struct {
	vector Vector
}

func NewScalar(v Vector) (*Scalar, error) {
	if err := requireKind(InstantKind, v); err != nil {
		return nil, err
	}
	return &Scalar{vector: v}, nil
}

func (s *Scalar) Kind() Kind {
	if s == nil {
		return 0
	}
	return InstantKind
}

func (s *Scalar) String() string {
	return "scalar(" + s.vector.String() + ")"
}

// HistogramQuantile https://prometheus.io/docs/prometheus/latest/querying/functions/#histogram_quantile
type HistogramQuantile struct {
	quantile float64
	vector   Vector
}

// NewHistogramQuantile requires 0 <= quantile <= 1 and an instant vector, usually
// a sum of bucket rates grouped by le.
func NewHistogramQuantile(quantile float64, v Vector) (*HistogramQuantile, error) {
	if math.IsNaN(quantile) || quantile < 0 || quantile > 1 {
		return nil, invalidValue("quantile should be between 0 and 1")
	}
	if err := requireKind(InstantKind, v); err != nil {
		return nil, err
	}
	return &HistogramQuantile{quantile: quantile, vector: v}, nil
}

func (h *HistogramQuantile) Quantile() float64 {
	return h.quantile
}

func (h *HistogramQuantile) Kind() Kind {
	if h == nil {
		return 0
	}
	return InstantKind
}

func (h *HistogramQuantile) String() string {
	return "histogram_quantile(" + strconv.FormatFloat(h.quantile, 'f', -1, 64) + ", " + h.vector.String() + ")"
}
