package trace

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
)

// This file implements component C, the trace directory: locating and
// creating the root under which traces live, allocating a fresh,
// collision-free directory for a new trace, and maintaining the
// best-effort "latest" symlink.

const latestSymlinkName = "latest"

var (
	rootOnce   sync.Once
	cachedRoot string
	cachedErr  error
)

// resolveRoot computes the trace root directory following the precedence
// in spec.md §4.C, caching the result for the lifetime of the process.
func resolveRoot() (string, error) {
	rootOnce.Do(func() {
		cachedRoot, cachedErr = computeRoot()
	})
	return cachedRoot, cachedErr
}

func computeRoot() (string, error) {
	if dir := os.Getenv("_RR_TRACE_DIR"); dir != "" {
		return dir, nil
	}

	xdg, xdgErr := xdgDataHomeTraceDir()

	if xdg != "" {
		if _, err := os.Stat(xdg); err == nil {
			return xdg, nil
		}
	}

	if home, ok := os.LookupEnv("HOME"); ok && home != "" {
		legacy := filepath.Join(home, ".rr")
		if _, err := os.Stat(legacy); err == nil {
			return legacy, nil
		}
	}

	if xdg != "" {
		return xdg, nil
	}
	if xdgErr != nil {
		return "/tmp/rr", nil
	}
	return "/tmp/rr", nil
}

func xdgDataHomeTraceDir() (string, error) {
	if dataHome := os.Getenv("XDG_DATA_HOME"); dataHome != "" {
		return filepath.Join(dataHome, "rr"), nil
	}
	home, ok := os.LookupEnv("HOME")
	if !ok || home == "" {
		return "", errors.New("HOME is not set")
	}
	return filepath.Join(home, ".local", "share", "rr"), nil
}

// makeTraceDir ensures the trace root exists and creates a fresh,
// collision-free trace directory named "<exeBasename>-<nonce>" under it,
// returning the resulting path.
func makeTraceDir(exeBasename string) (string, error) {
	root, err := resolveRoot()
	if err != nil {
		return "", fmt.Errorf("resolving trace root: %w", err)
	}
	if err := os.MkdirAll(root, 0700); err != nil {
		return "", fmt.Errorf("creating trace root %s: %w", root, err)
	}

	base := filepath.Join(root, exeBasename)
	for nonce := 0; ; nonce++ {
		dir := fmt.Sprintf("%s-%d", base, nonce)
		err := os.Mkdir(dir, 0700)
		switch {
		case err == nil:
			return dir, nil
		case errors.Is(err, fs.ErrExist):
			continue
		default:
			return "", fmt.Errorf("creating trace directory %s: %w", dir, err)
		}
	}
}

// updateLatestSymlink makes <root>/latest point at dir, best-effort. The
// new link is staged under a temporary name of its own and renamed into
// place, so concurrent callers each report success and whichever rename
// lands last decides which trace is latest.
func updateLatestSymlink(dir string) error {
	root := filepath.Dir(dir)
	link := filepath.Join(root, latestSymlinkName)
	tmp := link + "." + filepath.Base(dir) + ".tmp"

	_ = os.Remove(tmp)
	if err := os.Symlink(dir, tmp); err != nil {
		return fmt.Errorf("creating temporary latest symlink: %w", err)
	}
	if err := os.Rename(tmp, link); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("installing latest symlink: %w", err)
	}
	return nil
}

// ResolveTraceDir turns an explicit path, or the empty string for "use the
// latest trace", into a concrete trace directory path.
func ResolveTraceDir(path string) (string, error) {
	if path != "" {
		return path, nil
	}
	root, err := resolveRoot()
	if err != nil {
		return "", err
	}
	link := filepath.Join(root, latestSymlinkName)
	resolved, err := filepath.EvalSymlinks(link)
	if err != nil {
		return "", fmt.Errorf("resolving latest trace in %s: %w", root, err)
	}
	return resolved, nil
}

// versionFilePath returns the path of the version file inside a trace
// directory.
func versionFilePath(dir string) string {
	return filepath.Join(dir, "version")
}
