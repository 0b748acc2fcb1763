package main

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatchLoopRechecksOnChange(t *testing.T) {
	watchDebounce = 20 * time.Millisecond
	dir := t.TempDir()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var calls atomic.Int32
	done := make(chan error, 1)
	go func() {
		done <- watchLoop(ctx, []string{dir}, log, func() { calls.Add(1) })
	}()

	require.Eventually(t, func() bool { return calls.Load() == 1 }, 2*time.Second, 10*time.Millisecond)

	// irrelevant files do not trigger
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "p.yaml"), []byte("types: []\n"), 0o644))
	require.Eventually(t, func() bool { return calls.Load() >= 2 }, 2*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("watch loop did not stop")
	}
}

func TestWatchLoopArchiveWatchesOnlyItsDirectory(t *testing.T) {
	watchDebounce = 20 * time.Millisecond
	dir := t.TempDir()
	sibling := filepath.Join(dir, "classes")
	require.NoError(t, os.MkdirAll(sibling, 0o755))
	jar := filepath.Join(dir, "app.jar")
	require.NoError(t, os.WriteFile(jar, []byte("v1"), 0o644))
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var calls atomic.Int32
	done := make(chan error, 1)
	go func() {
		done <- watchLoop(ctx, []string{jar}, log, func() { calls.Add(1) })
	}()
	require.Eventually(t, func() bool { return calls.Load() == 1 }, 2*time.Second, 10*time.Millisecond)

	// descriptors in sibling directories are not inputs of the archive
	require.NoError(t, os.WriteFile(filepath.Join(sibling, "p.yaml"), []byte("types: []\n"), 0o644))
	time.Sleep(5 * watchDebounce)
	assert.Equal(t, int32(1), calls.Load())

	require.NoError(t, os.WriteFile(jar, []byte("v2"), 0o644))
	require.Eventually(t, func() bool { return calls.Load() == 2 }, 2*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("watch loop did not stop")
	}
}

func TestWithin(t *testing.T) {
	root := t.TempDir()
	assert.True(t, within(filepath.Join(root, "a", "b"), []string{root}))
	assert.True(t, within(root, []string{root}))
	assert.False(t, within(filepath.Dir(root), []string{root}))
	assert.False(t, within(filepath.Join(root+"x", "a"), []string{root}))
}

func TestRelevant(t *testing.T) {
	jar, _ := filepath.Abs("app.jar")
	archives := map[string]bool{jar: true}
	assert.True(t, relevant("x/p.YML", archives))
	assert.True(t, relevant("app.jar", archives))
	assert.False(t, relevant("other.jar", archives))
	assert.False(t, relevant("README.md", archives))
}
