//go:build !linux

package trace

import "fmt"

// reflinkClone is unsupported outside Linux; callers fall back to a
// hardlink or, failing that, the original file path.
func reflinkClone(src, dst string) error {
	return fmt.Errorf("reflink cloning is not supported on this platform")
}
