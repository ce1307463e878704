package application

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/mediateam/core"
	"github.com/trezcool/mediateam/core/query"
	"github.com/trezcool/mediateam/core/session"
	cachesvc "github.com/trezcool/mediateam/services/cache"
)

type gatewayMock struct {
	listFn func(ctx context.Context) ([]Application, error)
	calls  int
}

func (m *gatewayMock) ListApplications(ctx context.Context) ([]Application, error) {
	m.calls++
	return m.listFn(ctx)
}

func TestService(t *testing.T) {
	ctx := session.NewContext(context.Background(), session.NewMemoryHolder("abc"))
	gw := &gatewayMock{listFn: func(context.Context) ([]Application, error) {
		return []Application{
			{ID: "a1", FullName: "سارة أحمد", Status: StatusPending},
			{ID: "a2", FullName: "علي حسن", Status: StatusRejected},
		}, nil
	}}
	svc := NewService(gw, query.NewClient(cachesvc.NewLRUCache(16, time.Minute)))

	apps, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, apps, 2)

	app, err := svc.Select(ctx, "a2")
	require.NoError(t, err)
	assert.Equal(t, "علي حسن", app.FullName)
	assert.Equal(t, 1, gw.calls, "selecting must not refetch")

	_, err = svc.Select(ctx, "nope")
	assert.Equal(t, ErrNotFound, err)

	_, err = svc.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, gw.calls, "listing always refetches")
}

func TestService_empty(t *testing.T) {
	ctx := session.NewContext(context.Background(), session.NewMemoryHolder("abc"))
	gw := &gatewayMock{listFn: func(context.Context) ([]Application, error) { return nil, nil }}
	svc := NewService(gw, query.NewClient(cachesvc.NewLRUCache(16, time.Minute)))

	apps, err := svc.List(ctx)
	require.NoError(t, err)
	assert.NotNil(t, apps)
	assert.Empty(t, apps)
}

func TestService_error(t *testing.T) {
	ctx := session.NewContext(context.Background(), session.NewMemoryHolder("abc"))
	gw := &gatewayMock{listFn: func(context.Context) ([]Application, error) {
		return nil, core.NewAPIError(core.KindNetwork, 0, "", nil)
	}}
	svc := NewService(gw, query.NewClient(cachesvc.NewLRUCache(16, time.Minute)))

	_, err := svc.List(ctx)
	require.Error(t, err)
	assert.Equal(t, "لم نتمكن من جلب البيانات. حاول مرة أخرى.", core.ErrorMessage(err, "لم نتمكن من جلب البيانات. حاول مرة أخرى."))
}
