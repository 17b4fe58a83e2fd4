package main

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wubin1989/promdash/grafana"
	"github.com/wubin1989/promdash/query"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand()
	require.NotNil(t, cmd)
	assert.Equal(t, "promdash", cmd.Use)
	assert.Contains(t, cmd.Long, "PROMDASH_")
}

func TestCommandPresence(t *testing.T) {
	cmd := NewRootCommand()
	for _, cmdName := range []string{"grpc", "row", "expr"} {
		t.Run(cmdName, func(t *testing.T) {
			subCmd, _, err := cmd.Find([]string{cmdName})
			require.NoError(t, err)
			require.NotNil(t, subCmd)
			assert.Equal(t, cmdName, subCmd.Name())
		})
	}
}

func TestGlobalFlags(t *testing.T) {
	cmd := NewRootCommand()

	verboseFlag := cmd.PersistentFlags().Lookup("verbose")
	require.NotNil(t, verboseFlag)
	assert.Equal(t, "v", verboseFlag.Shorthand)
	assert.Equal(t, "false", verboseFlag.DefValue)

	formatFlag := cmd.PersistentFlags().Lookup("format")
	require.NotNil(t, formatFlag)
	assert.Equal(t, "json", formatFlag.DefValue)

	configFlag := cmd.PersistentFlags().Lookup("config")
	require.NotNil(t, configFlag)
	assert.Equal(t, "c", configFlag.Shorthand)
}

func TestInvalidFormat(t *testing.T) {
	_, err := execute(t, "--format", "toml", "row", "deployment", "api")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `invalid format "toml"`)
}

func TestGRPCCommand(t *testing.T) {
	t.Setenv("PROMDASH_LOOKBACK_WINDOW", "5m")
	out, err := execute(t, "grpc", "api", "helloworld.Greeter", "--tags", "grpc,api")
	require.NoError(t, err)

	var d grafana.Dashboard
	require.NoError(t, json.Unmarshal([]byte(out), &d))
	assert.Equal(t, "api", d.Title)
	assert.Equal(t, grafana.DashboardUID("api"), d.UID)
	assert.Equal(t, []string{"grpc", "api"}, d.Tags)
	require.Len(t, d.Rows, 3)
	assert.Equal(t, "RPS [5m]", d.Rows[0].Panels[0].Title)
}

func TestRowCommand(t *testing.T) {
	out, err := execute(t, "row", "deployment", "api", "--format", "yaml")
	require.NoError(t, err)
	assert.Contains(t, out, "title: Deployment Information")

	_, err = execute(t, "row", "unknown", "api")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown row type "unknown"`)

	_, err = execute(t, "row", "deployment")
	require.Error(t, err)
}

func TestExprCommand(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		want    string
		wantErr error
	}{
		{
			name: "sum of rate by method",
			args: []string{"--metric", "grpc_server_handled_total", "--param", "grpc_method=~$grpc_method", "--func", "rate", "--window", "5m", "--agg", "sum", "--by", "grpc_method"},
			want: `sum(rate(grpc_server_handled_total{grpc_method=~"$grpc_method", kubernetes_cluster="$cluster", kubernetes_namespace="$namespace"}[5m])) by (grpc_method)` + "\n",
		},
		{
			name: "histogram quantile",
			args: []string{"-m", "latency_bucket", "--no-default-labels", "-f", "irate", "-w", "1m", "-a", "sum", "--by", "le", "-q", "0.9"},
			want: "histogram_quantile(0.9, sum(irate(latency_bucket{}[1m])) by (le))\n",
		},
		{
			name: "configured window",
			args: []string{"--metric", "up", "--no-default-labels", "--func", "increase"},
			want: "increase(up{}[$lookback_window])\n",
		},
		{
			name: "scalar of count without",
			args: []string{"--metric", "up", "--no-default-labels", "--param", "job=!api", "--agg", "count", "--without", "instance", "--scalar"},
			want: `scalar(count(up{job!="api"}) without (instance))` + "\n",
		},
		{
			name:    "by and without",
			args:    []string{"--metric", "up", "--agg", "sum", "--by", "a", "--without", "b"},
			wantErr: query.ErrInvalidValue,
		},
		{
			name:    "unknown operator",
			args:    []string{"--metric", "up", "--agg", "median"},
			wantErr: query.ErrInvalidValue,
		},
		{
			name:    "unknown function",
			args:    []string{"--metric", "up", "--func", "deriv"},
			wantErr: query.ErrInvalidValue,
		},
		{
			name:    "quantile out of range",
			args:    []string{"--metric", "up", "--quantile", "-0.5"},
			wantErr: query.ErrInvalidValue,
		},
		{
			name:    "malformed param",
			args:    []string{"--metric", "up", "--param", "job"},
			wantErr: query.ErrInvalidValue,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := execute(t, append([]string{"expr"}, tt.args...)...)
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.True(t, errors.Is(err, tt.wantErr), err.Error())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, out)
		})
	}
}

func Test_parseParams(t *testing.T) {
	params, err := parseParams([]string{"a=1", "b=~x=y", "c="})
	require.NoError(t, err)
	assert.Equal(t, query.Params{query.P("a", "1"), query.P("b", "~x=y"), query.P("c", "")}, params)

	_, err = parseParams([]string{"=1"})
	require.Error(t, err)
}
