package main

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/gdamore/tcell/v2"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/lixenwraith/starfolio/core"
	"github.com/lixenwraith/starfolio/roster"
)

// reloadSettle coalesces the burst of events an editor save produces
const reloadSettle = 150 * time.Millisecond

// eventPoster is the part of tcell.Screen the watcher needs
type eventPoster interface {
	PostEvent(ev tcell.Event) error
}

// rosterWatcher reparses the roster file on change and posts the result to the
// view loop as an interrupt event. Invalid rosters are logged and skipped; the
// running world is kept.
type rosterWatcher struct {
	watcher *fsnotify.Watcher
	path    string
	post    eventPoster
	log     *zap.SugaredLogger
}

// watchRoster watches the directory holding path, so atomic-rename saves are seen
func watchRoster(ctx context.Context, path string, post eventPoster, log *zap.SugaredLogger) (*rosterWatcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, errors.Wrap(err, "resolve roster path")
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, "create watcher")
	}
	if err := w.Add(filepath.Dir(abs)); err != nil {
		_ = w.Close()
		return nil, errors.Wrapf(err, "watch %s", filepath.Dir(abs))
	}

	rw := &rosterWatcher{watcher: w, path: abs, post: post, log: log}
	core.Go(func() { rw.loop(ctx) })
	return rw, nil
}

func (rw *rosterWatcher) loop(ctx context.Context) {
	var settle *time.Timer
	defer func() {
		if settle != nil {
			settle.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return

		case ev, ok := <-rw.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != rw.path || !ev.Has(fsnotify.Write|fsnotify.Create|fsnotify.Rename) {
				continue
			}
			if settle != nil {
				settle.Stop()
			}
			settle = time.AfterFunc(reloadSettle, rw.reload)

		case err, ok := <-rw.watcher.Errors:
			if !ok {
				return
			}
			rw.log.Warnw("watch error", "error", err)
		}
	}
}

// reload parses the file and hands a valid roster to the loop
func (rw *rosterWatcher) reload() {
	r, err := roster.Load(rw.path)
	if err != nil {
		rw.log.Warnw("roster reload rejected, keeping current world", "error", err)
		return
	}
	if err := rw.post.PostEvent(tcell.NewEventInterrupt(r)); err != nil {
		rw.log.Warnw("roster reload dropped", "error", err)
		return
	}
	rw.log.Infow("roster reloaded", "members", len(r.Members))
}

// Close stops watching
func (rw *rosterWatcher) Close() error {
	return rw.watcher.Close()
}
