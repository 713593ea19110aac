package main

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	if args == nil {
		// nil makes cobra fall back to os.Args
		args = []string{}
	}
	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	err := cmd.Execute()
	return out.String(), err
}

func useTempStorage(t *testing.T, driver string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "progress."+driver)
	t.Setenv("ROADMAP_CONFIG", "")
	t.Setenv("STORAGE_DRIVER", driver)
	t.Setenv("STORAGE_PATH", path)
	t.Setenv("STORAGE_KEY", "mlops-progress")
	return path
}

func TestToggleCommand(t *testing.T) {
	for _, driver := range []string{"file", "sqlite"} {
		t.Run(driver, func(t *testing.T) {
			useTempStorage(t, driver)

			out, err := run(t, "toggle", "1", "1")
			require.NoError(t, err)
			assert.Equal(t, "Completed phase 1 step 1. 1 / 15 steps, 7% complete\n", out)

			out, err = run(t, "toggle", "1", "2")
			require.NoError(t, err)
			assert.Contains(t, out, "2 / 15 steps, 13% complete")

			out, err = run(t, "toggle", "1", "1")
			require.NoError(t, err)
			assert.Equal(t, "Reopened phase 1 step 1. 1 / 15 steps, 7% complete\n", out)
		})
	}
}

func TestToggleCommandRejectsBadArgs(t *testing.T) {
	useTempStorage(t, "file")

	_, err := run(t, "toggle", "one", "1")
	assert.Error(t, err)

	_, err = run(t, "toggle", "1")
	assert.Error(t, err)
}

func TestShowCommand(t *testing.T) {
	path := useTempStorage(t, "file")
	require.NoError(t, os.WriteFile(path, []byte(`{"mlops-progress":"{\"1\":[1,3]}"}`), 0o600))

	out, err := run(t, "show")
	require.NoError(t, err)
	assert.Contains(t, out, "MLOps Mastery Roadmap")
	assert.Contains(t, out, "2 / 15 steps")
	assert.NotContains(t, out, "Docker Basics")

	out, err = run(t, "show", "--all")
	require.NoError(t, err)
	assert.Contains(t, out, "Docker Basics")
}

func TestShowCommandCorruptStorage(t *testing.T) {
	path := useTempStorage(t, "file")
	require.NoError(t, os.WriteFile(path, []byte(`not json`), 0o600))

	out, err := run(t)
	require.NoError(t, err)
	assert.Contains(t, out, "0 / 15 steps")
}

func TestServeReloadsExternalChanges(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	path := useTempStorage(t, "file")
	t.Setenv("WATCH_STORAGE", "true")
	t.Setenv("SERVER_PORT", "0")
	require.NoError(t, os.WriteFile(path, []byte(`{"mlops-progress":"{\"1\":[1,2]}"}`), 0o600))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sess, err := openSession(ctx, &globalFlags{}, io.Discard)
	require.NoError(t, err)
	defer sess.Close()
	require.Equal(t, 2, sess.store.Overview().Done)

	done := make(chan error, 1)
	go func() { done <- serve(ctx, sess) }()

	// keep rewriting until the watcher is up and the reload lands
	assert.Eventually(t, func() bool {
		_ = os.WriteFile(path, []byte(`{"mlops-progress":"{\"2\":[4]}"}`), 0o600)
		return sess.store.Overview().Done == 1
	}, 5*time.Second, 300*time.Millisecond)
	assert.Equal(t, []int{4}, sess.store.CompletedSteps(2))
	assert.Empty(t, sess.store.CompletedSteps(1))

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("serve did not return after cancel")
	}
}

func TestServeStopsBeforeFirstRequest(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	useTempStorage(t, "memory")
	t.Setenv("SERVER_PORT", "0")

	ctx, cancel := context.WithCancel(context.Background())
	sess, err := openSession(ctx, &globalFlags{}, io.Discard)
	require.NoError(t, err)
	defer sess.Close()

	cancel()
	require.NoError(t, serve(ctx, sess))
}
