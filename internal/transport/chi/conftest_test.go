package chi

import (
	"context"
	"net/http"
	"testing"

	"go.uber.org/zap"
)

// mockRegistry implements the registry consumer interface for tests.
type mockRegistry struct {
	saveFn   func(ctx context.Context, name string, doc []byte) error
	getFn    func(ctx context.Context, name string) ([]byte, error)
	listFn   func(ctx context.Context) ([]string, error)
	deleteFn func(ctx context.Context, name string) error
}

func (m *mockRegistry) Save(ctx context.Context, name string, doc []byte) error {
	if m.saveFn != nil {
		return m.saveFn(ctx, name, doc)
	}
	return nil
}

func (m *mockRegistry) Get(ctx context.Context, name string) ([]byte, error) {
	if m.getFn != nil {
		return m.getFn(ctx, name)
	}
	return nil, nil
}

func (m *mockRegistry) List(ctx context.Context) ([]string, error) {
	if m.listFn != nil {
		return m.listFn(ctx)
	}
	return nil, nil
}

func (m *mockRegistry) Delete(ctx context.Context, name string) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, name)
	}
	return nil
}

// mockPinger implements the pinger consumer interface for tests.
type mockPinger struct {
	pingFn func(ctx context.Context) error
}

func (m *mockPinger) Ping(ctx context.Context) error {
	if m.pingFn != nil {
		return m.pingFn(ctx)
	}
	return nil
}

func newTestServer(t *testing.T) (http.Handler, *mockRegistry, *mockPinger) {
	t.Helper()
	reg := &mockRegistry{}
	ping := &mockPinger{}
	srv := NewServer(reg, ping, zap.NewNop())
	return srv.Routes(), reg, ping
}
