package grafana

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRowFactoryRegistry(t *testing.T) {
	require.Equal(t, []RowType{DEPLOYMENT_ROW, GRPC_CLIENT_ROW, GRPC_SERVER_ROW}, RowFactoryRegistry.Types())

	b := testBuilder(t)
	tests := []struct {
		rowType RowType
		target  string
		title   string
	}{
		{GRPC_SERVER_ROW, "api", "gRPC Server (api)"},
		{GRPC_CLIENT_ROW, "helloworld.Greeter", "Client Side Metrics"},
		{DEPLOYMENT_ROW, "api", "Deployment Information"},
	}
	for _, tt := range tests {
		t.Run(string(tt.rowType), func(t *testing.T) {
			factory, ok := RowFactoryRegistry.Factory(tt.rowType)
			require.True(t, ok)
			row, err := factory.Build(b, tt.target)
			require.NoError(t, err)
			require.Equal(t, tt.title, row.Title)
		})
	}

	_, ok := RowFactoryRegistry.Factory("unknown")
	require.False(t, ok)
}

func TestRowFactoryRegistry_Register(t *testing.T) {
	registry := &rowFactoryRegistry{factories: make(map[RowType]IRowFactory)}
	registry.Register("empty", RowFactoryFunc(func(b *Builder, target string) (Row, error) {
		return Row{Title: target}, nil
	}))
	factory, ok := registry.Factory("empty")
	require.True(t, ok)
	row, err := factory.Build(nil, "x")
	require.NoError(t, err)
	require.Equal(t, "x", row.Title)
	require.Equal(t, []RowType{"empty"}, registry.Types())
}
