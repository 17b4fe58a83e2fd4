package main

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/wubin1989/promdash/query"
)

// ExprOptions describes one expression, built from the inside out:
// selector, range function, aggregation, histogram_quantile, scalar.
type ExprOptions struct {
	Metric          string
	Params          []string
	NoDefaultLabels bool
	Function        string
	Window          string
	Aggregation     string
	By              []string
	Without         []string
	Quantile        float64
	HasQuantile     bool
	Scalar          bool
}

// NewExprCommand creates the expr command.
func NewExprCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ExprOptions{}

	cmd := &cobra.Command{
		Use:   "expr",
		Short: "Print a single PromQL expression",
		Long: `Print a single PromQL expression. The output is plain text whatever the format.

Label values may be prefixed with ~ (regex), !~ (negative regex) or ! (not equal).`,
		Example: `  promdash expr --metric grpc_server_handled_total --param grpc_method='~$grpc_method' --func rate --agg sum --by grpc_method`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.HasQuantile = cmd.Flags().Changed("quantile")
			return runExpr(rootOpts, opts, cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Metric, "metric", "m", "", "metric name")
	cmd.Flags().StringArrayVarP(&opts.Params, "param", "p", nil, "label constraint label=value, repeatable")
	cmd.Flags().BoolVar(&opts.NoDefaultLabels, "no-default-labels", false, "omit the cluster and namespace labels")
	cmd.Flags().StringVarP(&opts.Function, "func", "f", "", "range function (rate|irate|increase|delta)")
	cmd.Flags().StringVarP(&opts.Window, "window", "w", "", "range of the range function, defaults to the configured lookback window")
	cmd.Flags().StringVarP(&opts.Aggregation, "agg", "a", "", "aggregation operator (sum|min|max|avg|count)")
	cmd.Flags().StringSliceVar(&opts.By, "by", nil, "labels kept by the aggregation")
	cmd.Flags().StringSliceVar(&opts.Without, "without", nil, "labels dropped by the aggregation")
	cmd.Flags().Float64VarP(&opts.Quantile, "quantile", "q", 0, "wrap into histogram_quantile")
	cmd.Flags().BoolVar(&opts.Scalar, "scalar", false, "wrap into scalar")
	_ = cmd.MarkFlagRequired("metric")

	return cmd
}

func parseParams(raw []string) (query.Params, error) {
	params := make(query.Params, 0, len(raw))
	for _, item := range raw {
		label, value, ok := strings.Cut(item, "=")
		if !ok || label == "" {
			return nil, errors.Wrapf(query.ErrInvalidValue, "param %q should be label=value", item)
		}
		params = append(params, query.P(label, value))
	}
	return params, nil
}

func runExpr(rootOpts *RootOptions, opts *ExprOptions, cmd *cobra.Command) error {
	b, err := rootOpts.builder()
	if err != nil {
		return err
	}
	v, err := buildExpr(opts, b.Selector, b.Cfg.LookbackWindow)
	if err != nil {
		return err
	}
	rootOpts.logf("expression of kind %s", v.Kind())
	_, err = fmt.Fprintln(cmd.OutOrStdout(), v.String())
	return errors.Wrap(err, "write output")
}

func buildExpr(opts *ExprOptions, selector func(query.Params) query.Selector, defaultWindow string) (query.Vector, error) {
	params, err := parseParams(opts.Params)
	if err != nil {
		return nil, err
	}
	sel := query.FormatParams(params, query.WithoutDefaultLabels())
	if !opts.NoDefaultLabels {
		sel = selector(params)
	}

	var v query.Vector = query.NewInstantVector(opts.Metric, sel)
	if opts.Function != "" {
		window := opts.Window
		if window == "" {
			window = defaultWindow
		}
		rv := query.NewRangeVector(opts.Metric, sel).WithWindow(window)
		switch opts.Function {
		case "rate", "irate":
			v, err = query.NewRate(rv, query.RateFunction(opts.Function))
		case "increase":
			v, err = query.NewIncrease(rv)
		case "delta":
			v, err = query.NewDelta(rv)
		default:
			err = errors.Wrapf(query.ErrInvalidValue, "unknown function %q", opts.Function)
		}
		if err != nil {
			return nil, err
		}
	}
	if opts.Aggregation != "" {
		if v, err = query.NewAggregation(query.AggregateOp(opts.Aggregation), v, query.By(opts.By...), query.Without(opts.Without...)); err != nil {
			return nil, err
		}
	}
	if opts.HasQuantile {
		if v, err = query.NewHistogramQuantile(opts.Quantile, v); err != nil {
			return nil, err
		}
	}
	if opts.Scalar {
		if v, err = query.NewScalar(v); err != nil {
			return nil, err
		}
	}
	return v, nil
}
