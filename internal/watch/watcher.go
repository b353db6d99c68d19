package watch

import (
	"context"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/Basit1478/Hackathon-0-Personal-AI-Employee/internal/config"
	"github.com/Basit1478/Hackathon-0-Personal-AI-Employee/internal/errors"
	"github.com/Basit1478/Hackathon-0-Personal-AI-Employee/internal/ops"
)

// scanInterval bounds how stale the fallback inbox scan can be. OS events
// arrive much faster; the scan catches anything an event missed.
const scanInterval = 5 * time.Second

// Watcher monitors the inbox folder and files a review task for every new
// file it sees. Files present at startup are treated as already handled,
// so a restart never duplicates tasks.
type Watcher struct {
	cfg       *config.Config
	dir       string
	fsw       *fsnotify.Watcher
	processed map[string]bool
}

// New creates a Watcher for the workspace at dir, creating the inbox and
// needs-action folders if missing and marking existing inbox files as
// already processed.
func New(cfg *config.Config, dir string) (*Watcher, error) {
	for _, folder := range []string{cfg.InboxPath(dir), cfg.NeedsActionPath(dir)} {
		if err := os.MkdirAll(folder, 0755); err != nil {
			return nil, errors.NewInternal(err)
		}
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	if err := fsw.Add(cfg.InboxPath(dir)); err != nil {
		fsw.Close()
		return nil, errors.NewInternal(err)
	}

	w := &Watcher{
		cfg:       cfg,
		dir:       dir,
		fsw:       fsw,
		processed: make(map[string]bool),
	}

	entries, err := os.ReadDir(cfg.InboxPath(dir))
	if err != nil {
		fsw.Close()
		return nil, errors.NewInternal(err)
	}
	for _, entry := range entries {
		if entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		w.processed[entry.Name()] = true
	}

	return w, nil
}

// Processed returns how many inbox files the watcher has handled or skipped.
func (w *Watcher) Processed() int {
	return len(w.processed)
}

// Run watches the inbox until the context is cancelled. New files produce a
// task and a live log entry; failures are logged and never stop the watcher.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.fsw.Close()

	log.Printf("watching %s (%d existing files skipped)", w.cfg.InboxPath(w.dir), len(w.processed))

	ticker := time.NewTicker(scanInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Printf("watcher stopped, %d files processed", len(w.processed))
			return ctx.Err()
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			if ev.Op&fsnotify.Create != 0 {
				w.handleFile(filepath.Base(ev.Name))
			}
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			log.Printf("watcher error: %v", err)
		case <-ticker.C:
			w.scan()
		}
	}
}

// scan sweeps the inbox for files that arrived without an event.
func (w *Watcher) scan() {
	entries, err := os.ReadDir(w.cfg.InboxPath(w.dir))
	if err != nil {
		log.Printf("inbox scan failed: %v", err)
		return
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		w.handleFile(entry.Name())
	}
}

// handleFile files a task for one inbox file. The file is marked processed
// even when task creation fails, so a broken file is not retried forever.
func (w *Watcher) handleFile(name string) {
	if name == "" || strings.HasPrefix(name, ".") || w.processed[name] {
		return
	}

	info, err := os.Stat(filepath.Join(w.cfg.InboxPath(w.dir), name))
	if err != nil || info.IsDir() {
		return
	}

	w.processed[name] = true
	log.Printf("new file detected: %s (%s)", name, HumanSize(info.Size()))

	taskPath, err := CreateTask(w.cfg, w.dir, name, info.Size(), time.Now())
	if err != nil {
		if errors.Is(err, errors.ErrConflict) {
			log.Printf("task already exists for %s, skipping", name)
		} else {
			log.Printf("task creation failed for %s: %v", name, err)
		}
		return
	}
	log.Printf("created task: %s", filepath.Base(taskPath))

	_, err = ops.Append(w.cfg, w.dir, ops.AppendInput{
		Summary: "New file detected: " + name,
		Details: []string{
			"task: " + filepath.Base(taskPath),
			"size: " + HumanSize(info.Size()),
		},
	})
	if err != nil {
		log.Printf("could not record %s in the live log: %v", name, err)
	}
}
