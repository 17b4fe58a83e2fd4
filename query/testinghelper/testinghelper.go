// Package testinghelper only for testing purpose
package testinghelper

import (
	"fmt"

	"github.com/prometheus/prometheus/promql/parser"
)

// MustParse parses the rendered form of v with the Prometheus PromQL parser.
func MustParse(v fmt.Stringer) parser.Expr {
	expr, err := parser.ParseExpr(v.String())
	if err != nil {
		panic(fmt.Sprintf("%q is not valid PromQL: %s", v.String(), err))
	}
	return expr
}

func AggregateExpr(v fmt.Stringer) *parser.AggregateExpr {
	expr, ok := MustParse(v).(*parser.AggregateExpr)
	if !ok {
		panic(fmt.Sprintf("%q is not an aggregation", v.String()))
	}
	return expr
}

func CallExpr(v fmt.Stringer) *parser.Call {
	expr, ok := MustParse(v).(*parser.Call)
	if !ok {
		panic(fmt.Sprintf("%q is not a function call", v.String()))
	}
	return expr
}

func VectorSelector(v fmt.Stringer) *parser.VectorSelector {
	expr, ok := MustParse(v).(*parser.VectorSelector)
	if !ok {
		panic(fmt.Sprintf("%q is not an instant vector selector", v.String()))
	}
	return expr
}

func MatrixSelector(v fmt.Stringer) *parser.MatrixSelector {
	expr, ok := MustParse(v).(*parser.MatrixSelector)
	if !ok {
		panic(fmt.Sprintf("%q is not a range vector selector", v.String()))
	}
	return expr
}

// String adapts a plain PromQL string to the helpers above.
type String string

func (s String) String() string {
	return string(s)
}
