package main

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// watchDebounce coalesces bursts of file events into one re-check.
var watchDebounce = 200 * time.Millisecond

// watchLoop calls check once, then again after every relevant change under
// paths, until ctx is done.
func watchLoop(ctx context.Context, paths []string, log *slog.Logger, check func()) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return failErr("watch: %w", err)
	}
	defer w.Close()

	archives := map[string]bool{}
	var trees []string
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			log.Warn("watch: path does not exist", "path", p)
			continue
		}
		if !info.IsDir() {
			abs, _ := filepath.Abs(p)
			archives[abs] = true
			// only the archive's own directory; its siblings are not inputs
			if err := w.Add(filepath.Dir(p)); err != nil {
				return failErr("watch %s: %w", p, err)
			}
			continue
		}
		if err := addTree(w, p); err != nil {
			return failErr("watch %s: %w", p, err)
		}
		abs, _ := filepath.Abs(p)
		trees = append(trees, abs)
	}

	check()
	log.Info("watching for descriptor changes", "paths", paths)

	var (
		timer *time.Timer
		fire  <-chan time.Time
	)
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if ev.Has(fsnotify.Create) && within(ev.Name, trees) {
				if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
					_ = addTree(w, ev.Name)
				}
			}
			if !relevant(ev.Name, archives) {
				continue
			}
			log.Debug("descriptor changed", "path", ev.Name, "op", ev.Op.String())
			if timer == nil {
				timer = time.NewTimer(watchDebounce)
			} else {
				timer.Reset(watchDebounce)
			}
			fire = timer.C
		case <-fire:
			fire = nil
			check()
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			log.Warn("watch error", "err", err)
		}
	}
}

func addTree(w *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return w.Add(p)
		}
		return nil
	})
}

func relevant(name string, archives map[string]bool) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml", ".json":
		return true
	}
	abs, _ := filepath.Abs(name)
	return archives[abs]
}

// within reports whether name lies under one of the recursively watched roots.
func within(name string, roots []string) bool {
	abs, err := filepath.Abs(name)
	if err != nil {
		return false
	}
	for _, r := range roots {
		if rel, err := filepath.Rel(r, abs); err == nil && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			return true
		}
	}
	return false
}
