package cachemanager

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/zjrosen/creatureai/internal/mocks"
)

func loadRow(_ context.Context, entry uint32) (templateRow, error) {
	return templateRow{Entry: entry, Name: "loaded"}, nil
}

func TestReadThroughCache_Bypass(t *testing.T) {
	managerMock := mocks.NewMockCacheManager[string, templateRow](t)
	cache := NewReadThroughCache[string, templateRow, uint32](managerMock, loadRow, true)

	got, err := cache.Get(context.Background(), "template:68", 68, time.Minute)
	require.NoError(t, err)
	require.Equal(t, templateRow{Entry: 68, Name: "loaded"}, got)

	got, err = cache.GetWithRefresh(context.Background(), "template:68", 68, time.Minute)
	require.NoError(t, err)
	require.Equal(t, uint32(68), got.Entry)
}

func TestReadThroughCache_Get_Hit(t *testing.T) {
	managerMock := mocks.NewMockCacheManager[string, templateRow](t)
	managerMock.EXPECT().Get(mock.Anything, "template:68").Return(templateRow{Entry: 68, Name: "cached"}, true)

	cache := NewReadThroughCache[string, templateRow, uint32](managerMock, loadRow, false)

	got, err := cache.Get(context.Background(), "template:68", 68, time.Minute)
	require.NoError(t, err)
	require.Equal(t, "cached", got.Name)
}

func TestReadThroughCache_Get_MissStores(t *testing.T) {
	managerMock := mocks.NewMockCacheManager[string, templateRow](t)
	managerMock.EXPECT().Get(mock.Anything, "template:68").Return(templateRow{}, false)
	managerMock.EXPECT().Set(mock.Anything, "template:68", templateRow{Entry: 68, Name: "loaded"}, time.Minute).Return()

	cache := NewReadThroughCache[string, templateRow, uint32](managerMock, loadRow, false)

	got, err := cache.Get(context.Background(), "template:68", 68, time.Minute)
	require.NoError(t, err)
	require.Equal(t, "loaded", got.Name)
}

func TestReadThroughCache_Get_LoadErrorNotCached(t *testing.T) {
	managerMock := mocks.NewMockCacheManager[string, templateRow](t)
	managerMock.EXPECT().Get(mock.Anything, "template:1").Return(templateRow{}, false)

	errLoad := errors.New("database is locked")
	cache := NewReadThroughCache[string, templateRow, uint32](managerMock,
		func(context.Context, uint32) (templateRow, error) { return templateRow{}, errLoad },
		false,
	)

	_, err := cache.Get(context.Background(), "template:1", 1, time.Minute)
	require.ErrorIs(t, err, errLoad)
}

func TestReadThroughCache_GetWithRefresh_Hit(t *testing.T) {
	managerMock := mocks.NewMockCacheManager[string, templateRow](t)
	managerMock.EXPECT().GetWithRefresh(mock.Anything, "template:68", time.Minute).Return(templateRow{Entry: 68, Name: "cached"}, true)

	cache := NewReadThroughCache[string, templateRow, uint32](managerMock, loadRow, false)

	got, err := cache.GetWithRefresh(context.Background(), "template:68", 68, time.Minute)
	require.NoError(t, err)
	require.Equal(t, "cached", got.Name)
}

func TestReadThroughCache_Invalidate(t *testing.T) {
	managerMock := mocks.NewMockCacheManager[string, templateRow](t)
	managerMock.EXPECT().Delete(mock.Anything, "template:68").Return(nil)

	cache := NewReadThroughCache[string, templateRow, uint32](managerMock, loadRow, false)

	require.NoError(t, cache.Invalidate(context.Background(), "template:68"))
}

func TestReadThroughCache_InMemory(t *testing.T) {
	calls := 0
	cache := NewReadThroughCache[string, templateRow, uint32](
		newTemplateCache(),
		func(ctx context.Context, entry uint32) (templateRow, error) {
			calls++
			return loadRow(ctx, entry)
		},
		false,
	)

	for i := 0; i < 3; i++ {
		_, err := cache.Get(context.Background(), "template:68", 68, time.Minute)
		require.NoError(t, err)
	}
	require.Equal(t, 1, calls)
}
