package storage

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"roadmap/backend/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// adapterContract runs the behaviour every adapter must share.
func adapterContract(t *testing.T, a Adapter) {
	t.Helper()
	ctx := context.Background()

	_, err := a.Load(ctx)
	require.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, a.Save(ctx, []byte(`{"1":[1,3]}`)))
	blob, err := a.Load(ctx)
	require.NoError(t, err)
	assert.JSONEq(t, `{"1":[1,3]}`, string(blob))

	require.NoError(t, a.Save(ctx, []byte(`{}`)))
	blob, err = a.Load(ctx)
	require.NoError(t, err)
	assert.JSONEq(t, `{}`, string(blob))
}

func TestMemoryAdapter(t *testing.T) {
	m := NewMemoryAdapter()
	adapterContract(t, m)
	assert.Equal(t, 2, m.Saves())

	boom := errors.New("disk full")
	m.FailSaves(boom)
	assert.ErrorIs(t, m.Save(context.Background(), []byte(`{}`)), boom)
	assert.Equal(t, 2, m.Saves())

	m.Clear()
	_, err := m.Load(context.Background())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFileAdapter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "progress.json")
	adapterContract(t, NewFileAdapter(path, config.DefaultStorageKey, zap.NewNop()))
}

func TestFileAdapterKeepsOtherKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "progress.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"theme":"dark"}`), 0o600))

	core, logs := observer.New(zapcore.WarnLevel)
	f := NewFileAdapter(path, "mlops-progress", zap.New(core))
	require.NoError(t, f.Save(context.Background(), []byte(`{"2":[4]}`)))
	assert.Zero(t, logs.Len())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var entries map[string]string
	require.NoError(t, json.Unmarshal(data, &entries))
	assert.Equal(t, "dark", entries["theme"])
	assert.Equal(t, `{"2":[4]}`, entries["mlops-progress"])
}

func TestFileAdapterCorruptDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "progress.json")
	require.NoError(t, os.WriteFile(path, []byte(`{{{`), 0o600))

	core, logs := observer.New(zapcore.WarnLevel)
	f := NewFileAdapter(path, "mlops-progress", zap.New(core))
	_, err := f.Load(context.Background())
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)

	// a save replaces the unreadable document
	require.NoError(t, f.Save(context.Background(), []byte(`{"1":[2]}`)))
	entries := logs.FilterMessage("Storage file is unreadable, replacing it and any other keys it held").All()
	require.Len(t, entries, 1)
	assert.Equal(t, path, entries[0].ContextMap()["path"])
	blob, err := f.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, `{"1":[2]}`, string(blob))
}

func TestSQLiteAdapter(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "progress.db")

	a, err := NewSQLiteAdapter(ctx, path, "mlops-progress")
	require.NoError(t, err)
	adapterContract(t, a)
	require.NoError(t, a.Save(ctx, []byte(`{"5":[13,14]}`)))
	require.NoError(t, a.Close())

	// state survives reopening the database
	reopened, err := NewSQLiteAdapter(ctx, path, "mlops-progress")
	require.NoError(t, err)
	defer reopened.Close()
	blob, err := reopened.Load(ctx)
	require.NoError(t, err)
	assert.JSONEq(t, `{"5":[13,14]}`, string(blob))

	// keys are independent
	other, err := NewSQLiteAdapter(ctx, path, "other")
	require.NoError(t, err)
	defer other.Close()
	_, err = other.Load(ctx)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGormAdapter(t *testing.T) {
	dsn := os.Getenv("ROADMAP_TEST_DATABASE_DSN")
	if dsn == "" {
		t.Skip("ROADMAP_TEST_DATABASE_DSN not set")
	}

	const key = "mlops-progress-test"
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	a, err := NewGormAdapter(context.Background(), db, key)
	require.NoError(t, err)
	defer a.Close()
	require.NoError(t, db.Unscoped().Where("key = ?", key).Delete(&KeyValue{}).Error)

	adapterContract(t, a)
}

func TestOpen(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	for _, driver := range []string{"memory", "file", "sqlite"} {
		t.Run(driver, func(t *testing.T) {
			cfg := &config.Config{
				StorageDriver: driver,
				StoragePath:   filepath.Join(dir, driver+".store"),
				StorageKey:    config.DefaultStorageKey,
			}
			a, err := Open(ctx, cfg, zap.NewNop())
			require.NoError(t, err)
			defer a.Close()
			adapterContract(t, a)
		})
	}

	_, err := Open(ctx, &config.Config{StorageDriver: "redis"}, zap.NewNop())
	assert.Error(t, err)
}
