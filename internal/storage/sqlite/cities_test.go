package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avoronov/skyfare/internal/cities"
	"github.com/avoronov/skyfare/pkg/logger"
)

func newTestStorage(t *testing.T) *CityStorage {
	t.Helper()

	db, err := Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	storage, err := NewCityStorage(db, logger.Nop())
	require.NoError(t, err)
	return storage
}

func TestCityStorageRoundTrip(t *testing.T) {
	storage := newTestStorage(t)
	ctx := context.Background()

	entries, err := storage.LoadDiscovered(ctx)
	require.NoError(t, err)
	assert.Empty(t, entries)

	require.NoError(t, storage.SaveDiscovered(ctx, cities.Entry{
		City: "faketownburgh", AirportCode: "FKT", Source: cities.SourceDiscovered,
	}))
	require.NoError(t, storage.SaveDiscovered(ctx, cities.Entry{
		City: "elsewhere", AirportCode: "ELS", Source: cities.SourceDiscovered,
	}))

	entries, err = storage.LoadDiscovered(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	// Ordered by city.
	assert.Equal(t, "elsewhere", entries[0].City)
	assert.Equal(t, "ELS", entries[0].AirportCode)
	assert.Equal(t, cities.SourceDiscovered, entries[0].Source)
	assert.Equal(t, "faketownburgh", entries[1].City)
}

func TestCityStorageUpsert(t *testing.T) {
	storage := newTestStorage(t)
	ctx := context.Background()

	entry := cities.Entry{City: "faketownburgh", AirportCode: "FKT"}
	require.NoError(t, storage.SaveDiscovered(ctx, entry))

	entry.AirportCode = "FK2"
	require.NoError(t, storage.SaveDiscovered(ctx, entry))

	entries, err := storage.LoadDiscovered(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "FK2", entries[0].AirportCode)
}
