package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSQLiteStorageRoundTrip(t *testing.T) {
	ctx := context.Background()
	ss, err := NewSQLiteStorage(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	defer ss.Close()

	key := "guild-war-data"

	got, err := ss.Get(ctx, key)
	require.NoError(t, err)
	assert.Nil(t, got)

	envelope := testEnvelope()
	require.NoError(t, ss.Set(ctx, key, envelope))

	got, err = ss.Get(ctx, key)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, envelope.Attacks, got.Attacks)
	assert.Equal(t, envelope.LastUpdated, got.LastUpdated)

	// Set again overwrites rather than duplicating
	envelope.LastUpdated = "2024-01-02T12:00:00Z"
	require.NoError(t, ss.Set(ctx, key, envelope))

	got, err = ss.Get(ctx, key)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "2024-01-02T12:00:00Z", got.LastUpdated)

	require.NoError(t, ss.Delete(ctx, key))

	got, err = ss.Get(ctx, key)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestSQLiteStorageDeleteAbsentKey(t *testing.T) {
	ss, err := NewSQLiteStorage(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	defer ss.Close()

	assert.NoError(t, ss.Delete(context.Background(), "never-written"))
}
