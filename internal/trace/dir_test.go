package trace

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/BioTurboNick/rr/internal/assert"
)

func TestMakeTraceDirAvoidsCollisions(t *testing.T) {
	root := t.TempDir()
	t.Setenv("_RR_TRACE_DIR", root)
	rootOnce = sync.Once{}

	first, err := makeTraceDir("app")
	assert.OK(t, err)
	second, err := makeTraceDir("app")
	assert.OK(t, err)

	if first == second {
		t.Fatalf("expected distinct trace directories, got %s twice", first)
	}
}

func TestUpdateLatestSymlinkRace(t *testing.T) {
	root := t.TempDir()

	dirA := filepath.Join(root, "app-0")
	dirB := filepath.Join(root, "app-1")
	assert.OK(t, os.Mkdir(dirA, 0700))
	assert.OK(t, os.Mkdir(dirB, 0700))

	var wg sync.WaitGroup
	errs := make(chan error, 2)
	for _, dir := range []string{dirA, dirB} {
		dir := dir
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- updateLatestSymlink(dir)
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		assert.OK(t, err)
	}

	resolved, err := filepath.EvalSymlinks(filepath.Join(root, latestSymlinkName))
	assert.OK(t, err)
	if resolved != dirA && resolved != dirB {
		t.Fatalf("expected latest to resolve to one of the two traces, got %s", resolved)
	}
}

func TestResolveTraceDirExplicitPath(t *testing.T) {
	got, err := ResolveTraceDir("/some/explicit/path")
	assert.OK(t, err)
	assert.Equal(t, got, "/some/explicit/path")
}

func TestResolveTraceDirFollowsLatest(t *testing.T) {
	root := t.TempDir()
	t.Setenv("_RR_TRACE_DIR", root)
	rootOnce = sync.Once{}

	dir, err := makeTraceDir("app")
	assert.OK(t, err)
	assert.OK(t, updateLatestSymlink(dir))

	resolved, err := ResolveTraceDir("")
	assert.OK(t, err)
	assert.Equal(t, resolved, dir)
}
