package grafana

import (
	"sort"
	"sync"
)

// RowType names a row that can be generated on its own, e.g. from the command line.
type RowType string

const (
	GRPC_SERVER_ROW RowType = "grpc-server"
	GRPC_CLIENT_ROW RowType = "grpc-client"
	DEPLOYMENT_ROW  RowType = "deployment"
)

// IRowFactory builds a row for a target, which is a deployment name or a gRPC service
// depending on the row.
type IRowFactory interface {
	Build(b *Builder, target string) (Row, error)
}

// RowFactoryFunc adapts a function to IRowFactory.
type RowFactoryFunc func(b *Builder, target string) (Row, error)

func (f RowFactoryFunc) Build(b *Builder, target string) (Row, error) {
	return f(b, target)
}

// RowFactoryRegistry is the global row factory registry
var RowFactoryRegistry *rowFactoryRegistry

func init() {
	RowFactoryRegistry = &rowFactoryRegistry{
		factories: make(map[RowType]IRowFactory),
	}
	RowFactoryRegistry.Register(GRPC_SERVER_ROW, RowFactoryFunc(func(b *Builder, target string) (Row, error) {
		return b.ServerRow(target)
	}))
	RowFactoryRegistry.Register(GRPC_CLIENT_ROW, RowFactoryFunc(func(b *Builder, target string) (Row, error) {
		return b.ClientRow(target)
	}))
	RowFactoryRegistry.Register(DEPLOYMENT_ROW, RowFactoryFunc(func(b *Builder, target string) (Row, error) {
		return b.InformationRow(InformationRowOpts{DeploymentName: target})
	}))
}

type rowFactoryRegistry struct {
	mu        sync.RWMutex
	factories map[RowType]IRowFactory
}

// Register registers a row factory, replacing any factory of the same type
func (receiver *rowFactoryRegistry) Register(rowType RowType, factory IRowFactory) {
	receiver.mu.Lock()
	defer receiver.mu.Unlock()
	receiver.factories[rowType] = factory
}

// Factory returns a row factory from registry
func (receiver *rowFactoryRegistry) Factory(rowType RowType) (factory IRowFactory, ok bool) {
	receiver.mu.RLock()
	defer receiver.mu.RUnlock()
	factory, ok = receiver.factories[rowType]
	return
}

// Types returns the registered row types sorted by name
func (receiver *rowFactoryRegistry) Types() []RowType {
	receiver.mu.RLock()
	defer receiver.mu.RUnlock()
	types := make([]RowType, 0, len(receiver.factories))
	for t := range receiver.factories {
		types = append(types, t)
	}
	sort.Slice(types, func(i, j int) bool {
		return types[i] < types[j]
	})
	return types
}
