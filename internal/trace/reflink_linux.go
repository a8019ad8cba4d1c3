package trace

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// reflinkClone makes dst a copy-on-write clone of src via the FICLONE
// ioctl, when the underlying filesystem supports it.
func reflinkClone(src, dst string) error {
	srcFd, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("opening reflink source: %w", err)
	}
	defer srcFd.Close()

	dstFd, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("creating reflink destination: %w", err)
	}
	defer dstFd.Close()

	if err := unix.IoctlFileClone(int(dstFd.Fd()), int(srcFd.Fd())); err != nil {
		return fmt.Errorf("FICLONE %s -> %s: %w", src, dst, err)
	}
	return nil
}
