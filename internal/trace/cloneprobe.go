package trace

import (
	"os"
	"path/filepath"
)

// cloneProbe determines, once per trace, whether fast filesystem clones
// (FICLONE) are available in the trace directory, caching the result for
// the rest of the trace's lifetime (spec.md §4.G "Fast-copy support
// probe"). The probe runs eagerly during Writer construction by
// cloning the version file (a whole-file FICLONE), the first file known to exist in
// the trace directory, rather than waiting for the first mmap to classify.
type cloneProbe struct {
	supported bool
	traceDir  string
}

// newCloneProbe runs the probe immediately against versionFile and
// caches the result.
func newCloneProbe(traceDir, versionFile string) *cloneProbe {
	return &cloneProbe{
		traceDir:  traceDir,
		supported: probeFileDataCloning(traceDir, versionFile),
	}
}

// supportsFileDataCloning returns the probe's cached result.
func (p *cloneProbe) supportsFileDataCloning() bool {
	return p.supported
}

// probeFileDataCloning attempts to clone versionFile into a throwaway
// destination within dir, removing the destination regardless of outcome.
func probeFileDataCloning(dir, versionFile string) bool {
	dst := filepath.Join(dir, ".clone_probe_dst")
	defer os.Remove(dst)

	_ = os.Remove(dst)
	return reflinkClone(versionFile, dst) == nil
}
