package mmdcli

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"oss.terrastruct.com/cmdlog"
	"oss.terrastruct.com/xos"

	"oss.terrastruct.com/mmdgen/lib/log"
	"oss.terrastruct.com/mmdgen/lib/simplelog"
	"oss.terrastruct.com/mmdgen/lib/xmain"
	"oss.terrastruct.com/mmdgen/mmdbuild"
	"oss.terrastruct.com/mmdgen/mmdrender"
)

type renderCounter struct {
	mu     sync.Mutex
	inputs map[string]int
}

func (rc *renderCounter) count(name string) int {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	return rc.inputs[name]
}

func (rc *renderCounter) render(_ context.Context, req mmdrender.Request) error {
	rc.mu.Lock()
	rc.inputs[filepath.Base(req.Input)]++
	rc.mu.Unlock()
	return os.WriteFile(req.Output, []byte("<svg/>"), 0644)
}

func TestWatch(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(log.WithTB(context.Background(), t, nil))
	defer cancel()

	dir := t.TempDir()
	layout := mmdbuild.DefaultLayout(dir)
	_, err := mmdbuild.Setup(layout)
	require.NoError(t, err)

	env := xos.NewEnv(nil)
	ms := &xmain.State{
		Name: "mmdgen",
		Env:  env,
		Log:  cmdlog.Log(env, discard{}),
		PWD:  dir,
	}
	rc := &renderCounter{inputs: make(map[string]int)}
	d := &mmdbuild.Driver{
		Layout:   layout,
		Renderer: mmdrender.Func(rc.render),
		Log:      simplelog.Discard(),
	}

	w, err := newWatcher(ctx, ms, d)
	require.NoError(t, err)
	defer w.close()

	done := make(chan error, 1)
	go func() {
		done <- w.run()
	}()

	require.NoError(t, os.WriteFile(filepath.Join(layout.DiagramsDir, "flow.mmd"), []byte("graph TD"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(layout.DiagramsDir, "notes.txt"), []byte("ignored"), 0644))

	assert.Eventually(t, func() bool {
		_, err := os.Stat(filepath.Join(layout.ImagesDir, "flow.svg"))
		return err == nil
	}, time.Second*10, time.Millisecond*20)
	assert.Equal(t, 0, rc.count("notes.txt"))

	// Touching the config re-renders everything.
	require.NoError(t, os.WriteFile(filepath.Join(layout.DiagramsDir, "seq.mmd"), []byte("sequenceDiagram"), 0644))
	assert.Eventually(t, func() bool {
		return rc.count("seq.mmd") >= 1
	}, time.Second*10, time.Millisecond*20)
	before := rc.count("flow.mmd")
	require.NoError(t, os.WriteFile(layout.ConfigPath, []byte(`{"theme": "dark"}`), 0644))
	assert.Eventually(t, func() bool {
		return rc.count("flow.mmd") > before
	}, time.Second*10, time.Millisecond*20)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second * 10):
		t.Fatal("watcher did not stop")
	}
}

func TestWatchHandle(t *testing.T) {
	t.Parallel()

	env := xos.NewEnv(nil)
	layout := mmdbuild.DefaultLayout("/work")
	w := &watcher{
		ms:      &xmain.State{Env: env, Log: cmdlog.Log(env, discard{})},
		d:       &mmdbuild.Driver{Layout: layout},
		pending: make(map[string]struct{}),
	}

	flow := filepath.Join(layout.DiagramsDir, "flow.mmd")
	assert.True(t, w.handle(fsnotify.Event{Name: flow, Op: fsnotify.Write}))
	assert.Contains(t, w.pending, flow)

	assert.False(t, w.handle(fsnotify.Event{Name: filepath.Join(layout.DiagramsDir, "a.txt"), Op: fsnotify.Write}))
	assert.False(t, w.handle(fsnotify.Event{Name: filepath.Join(layout.DiagramsDir, "sub", "b.mmd"), Op: fsnotify.Create}))

	assert.False(t, w.handle(fsnotify.Event{Name: flow, Op: fsnotify.Remove}))
	assert.NotContains(t, w.pending, flow)

	assert.True(t, w.handle(fsnotify.Event{Name: layout.ConfigPath, Op: fsnotify.Write}))
	assert.True(t, w.renderAll)
}

type discard struct{}

func (discard) Write(p []byte) (int, error) {
	return len(p), nil
}
