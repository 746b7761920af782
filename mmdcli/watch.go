package mmdcli

import (
	"context"
	"path/filepath"
	"sort"
	"time"

	"github.com/fsnotify/fsnotify"

	"oss.terrastruct.com/mmdgen/lib/log"
	"oss.terrastruct.com/mmdgen/lib/xmain"
	"oss.terrastruct.com/mmdgen/mmdbuild"
)

// Editors tend to emit several events per save. Changes are collected for this long
// before rendering.
const watchDebounce = time.Millisecond * 100

// watcher re-renders diagram sources as they change. Renders happen on the goroutine
// calling run, one at a time.
type watcher struct {
	ctx context.Context
	ms  *xmain.State
	d   *mmdbuild.Driver

	fw *fsnotify.Watcher

	// pending is the set of sources to render on the next tick.
	pending   map[string]struct{}
	renderAll bool
}

func newWatcher(ctx context.Context, ms *xmain.State, d *mmdbuild.Driver) (*watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	w := &watcher{
		ctx:     log.Named(ctx, "watch"),
		ms:      ms,
		d:       d,
		fw:      fw,
		pending: make(map[string]struct{}),
	}

	dirs := []string{d.Layout.DiagramsDir}
	if configDir := filepath.Dir(d.Layout.ConfigPath); configDir != d.Layout.DiagramsDir {
		dirs = append(dirs, configDir)
	}
	for _, dir := range dirs {
		err = fw.Add(dir)
		if err != nil {
			fw.Close()
			return nil, err
		}
	}
	return w, nil
}

func (w *watcher) close() error {
	return w.fw.Close()
}

func (w *watcher) run() error {
	w.ms.Log.Info.Printf("watching %s for changes...", w.ms.HumanPath(w.d.Layout.DiagramsDir))

	t := time.NewTimer(time.Hour)
	t.Stop()
	defer t.Stop()

	for {
		select {
		case <-w.ctx.Done():
			return nil
		case ev, ok := <-w.fw.Events:
			if !ok {
				return nil
			}
			if w.handle(ev) {
				t.Reset(watchDebounce)
			}
		case err, ok := <-w.fw.Errors:
			if !ok {
				return nil
			}
			w.ms.Log.Error.Printf("watch error: %v", err)
		case <-t.C:
			w.flush()
		}
	}
}

// handle records ev and reports whether anything needs rendering.
func (w *watcher) handle(ev fsnotify.Event) bool {
	w.ms.Log.Debug.Printf("watch event: %v", ev)

	if ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
		if ev.Op&(fsnotify.Remove|fsnotify.Rename) != 0 {
			delete(w.pending, ev.Name)
		}
		return false
	}

	if filepath.Clean(ev.Name) == filepath.Clean(w.d.Layout.ConfigPath) {
		w.renderAll = true
		return true
	}
	if filepath.Dir(ev.Name) != filepath.Clean(w.d.Layout.DiagramsDir) || !mmdbuild.IsSource(ev.Name) {
		return false
	}
	w.pending[ev.Name] = struct{}{}
	return true
}

func (w *watcher) flush() {
	var jobs []mmdbuild.Job
	if w.renderAll {
		w.ms.Log.Info.Printf("%s changed, rendering all diagrams", w.ms.HumanPath(w.d.Layout.ConfigPath))
		var err error
		jobs, err = mmdbuild.DiscoverJobs(w.d.Layout)
		if err != nil {
			w.ms.Log.Error.Printf("%v", err)
			return
		}
	} else {
		for p := range w.pending {
			jobs = append(jobs, mmdbuild.NewJob(w.d.Layout, p))
		}
		sort.Slice(jobs, func(i, j int) bool {
			return jobs[i].Input < jobs[j].Input
		})
	}
	w.pending = make(map[string]struct{})
	w.renderAll = false

	if len(jobs) == 0 {
		return
	}
	s := w.d.RunJobs(w.ctx, jobs)
	if s.Failed() > 0 {
		w.ms.Log.Warn.Printf("%s", s)
	}
}
