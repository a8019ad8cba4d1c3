package trace

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/BioTurboNick/rr/format/tracefmt"
)

// inode identifies a file by device and inode number, the key under which
// filesAssumedImmutable remembers which files have already fallen back to
// a hardlink/original-path reference once.
type inode struct {
	dev, ino uint64
}

// MappingOrigin tags why a recorder observed a particular memory mapping,
// distinguishing mappings the recorder manufactures itself for its own
// bookkeeping from an ordinary mmap(2) call made by the traced process.
type MappingOrigin int8

const (
	// OriginSyscall is an ordinary mmap(2) call made by the traced process.
	OriginSyscall MappingOrigin = iota
	// OriginRemap is a mapping the recorder re-creates itself (following
	// an mremap or similar) rather than one freshly observed; its bytes
	// are never captured.
	OriginRemap
	// OriginPatch is the recorder's own syscall-patching trampoline page.
	OriginPatch
	// OriginRRBuffer is the recorder's own scratch/syscall-buffer page.
	OriginRRBuffer
)

// mappingClassifier decides, for each mmap(2) region a recorder observes,
// how its bytes should be represented in the trace: as an all-zero region,
// a copy embedded in the trace's own data stream, or a reference to a
// separate file (spec.md §4.F "Mapping classification").
//
// A file is marked immutable once the classifier has fallen back to
// referencing it by hardlink or original path rather than copying its
// bytes into the trace; a successful fast clone never marks it. The mark only gates the copy-eligible rule: it
// stops a later mapping of the same (dev, ino) from being re-copied into
// the trace once something else is already relying on the file's
// on-disk bytes staying put. It never short-circuits the MAP_PRIVATE fast
// clone, and it never makes the fallback rule reuse a previous name —
// every fallback mints its own freshly numbered clone/hardlink file.
type mappingClassifier struct {
	mu                    sync.Mutex
	filesAssumedImmutable map[inode]bool
	mmapCount             int

	probe *cloneProbe
}

func newMappingClassifier(probe *cloneProbe) *mappingClassifier {
	return &mappingClassifier{
		filesAssumedImmutable: make(map[inode]bool),
		probe:                 probe,
	}
}

// ClassifyInput describes one mapping a recorder is about to record.
type ClassifyInput struct {
	// Origin distinguishes an ordinary mmap(2) call from one of the
	// recorder's own internal mappings.
	Origin MappingOrigin
	// Zero, when the caller already knows a mapping is zero-fill
	// (anonymous or /dev/zero), short-circuits classification without
	// consulting Origin/Fsname/Ino.
	Zero bool

	Dev, Ino uint64
	// Fsname is the mapped file's path as the kernel reports it, used to
	// recognize SysV shared-memory segments.
	Fsname string

	// Private is true for a MAP_PRIVATE mapping (copy-on-write from the
	// process's point of view); false for MAP_SHARED.
	Private bool
	// Writable is true if the mapping permits writes, which can diverge
	// the mapped bytes from the file's on-disk contents over the
	// mapping's lifetime.
	Writable bool

	// OriginalPath is the absolute path of the file being mapped, used
	// as the BackingFileName fallback when no fast-copy mechanism is
	// available.
	OriginalPath string
	// TraceDir is the directory the trace's segment files live in.
	TraceDir string
}

// classify applies the classifier's rules in order and returns the
// BackingSource to record along with the BackingFileName (empty for
// BackingSourceZero).
//
// Rules, most specific first:
//  1. A REMAP- or PATCH-origin mapping is the recorder's own bookkeeping,
//     never the traced process's memory, so it is always BackingSourceZero.
//  2. A SysV shared-memory segment (fsname starting "/SYSV") is captured
//     into the trace: it has no stable backing file to clone or link.
//  3. An ordinary mmap(2) of an anonymous region (inode 0) or a deleted
//     /dev/zero mapping is BackingSourceZero.
//  4. The recorder's own scratch/syscall-buffer page is BackingSourceZero.
//  5. A MAP_PRIVATE mapping always gets a fresh fast-clone attempt; on
//     success it is BackingSourceFile, never marking the file immutable.
//  6. A mapping that is copy-eligible (private and writable, so its bytes
//     are about to diverge from the file under copy-on-write semantics)
//     and not already marked immutable is captured into the trace.
//  7. Anything else — typically a shared mapping, or a private mapping
//     whose fast clone failed and isn't copy-eligible — tries a fast
//     clone again and, failing that, falls back to a hardlink or the
//     original path, always minting a freshly numbered name, and marks
//     the file immutable so later copy-eligible mappings of the same
//     (dev, ino) stop diverting to rule 6.
func (c *mappingClassifier) classify(in ClassifyInput) (tracefmt.BackingSource, string, error) {
	switch {
	case in.Zero:
		return tracefmt.BackingSourceZero, "", nil
	case in.Origin == OriginRemap || in.Origin == OriginPatch:
		return tracefmt.BackingSourceZero, "", nil
	case strings.HasPrefix(in.Fsname, "/SYSV"):
		return tracefmt.BackingSourceTrace, "", nil
	case in.Origin == OriginSyscall && (in.Ino == 0 || in.Fsname == "/dev/zero (deleted)"):
		return tracefmt.BackingSourceZero, "", nil
	case in.Origin == OriginRRBuffer:
		return tracefmt.BackingSourceZero, "", nil
	}

	if in.Private {
		if name, err := c.tryFastClone(in); err == nil {
			return tracefmt.BackingSourceFile, name, nil
		}
	}

	key := inode{dev: in.Dev, ino: in.Ino}
	c.mu.Lock()
	immutable := c.filesAssumedImmutable[key]
	c.mu.Unlock()

	if shouldCopyMmapRegion(in) && !immutable {
		return tracefmt.BackingSourceTrace, "", nil
	}

	name, err := c.captureAsFile(in)
	if err != nil {
		return 0, "", err
	}
	return tracefmt.BackingSourceFile, name, nil
}

// shouldCopyMmapRegion is the heuristic behind rule 6: a private, writable
// mapping diverges from its backing file as soon as the process touches
// it, so capturing its initial bytes into the trace is cheaper than
// tracking a file that is about to go stale.
func shouldCopyMmapRegion(in ClassifyInput) bool {
	return in.Private && in.Writable
}

// doReflinkClone is an indirection over reflinkClone so tests can exercise
// the classifier's clone-success paths without depending on the test
// filesystem actually supporting FICLONE.
var doReflinkClone = reflinkClone

// tryFastClone attempts a single filesystem-level clone of the mapped
// file into a fresh, numbered clone segment. It does not mark the file
// immutable; callers decide whether that applies to their rule.
func (c *mappingClassifier) tryFastClone(in ClassifyInput) (string, error) {
	if c.probe == nil || !c.probe.supportsFileDataCloning() {
		return "", fmt.Errorf("fast clone unavailable")
	}
	c.mu.Lock()
	c.mmapCount++
	count := c.mmapCount
	c.mu.Unlock()

	dst := mmapCloneFileName(count)
	dstPath := fmt.Sprintf("%s/%s", in.TraceDir, dst)
	if err := doReflinkClone(in.OriginalPath, dstPath); err != nil {
		_ = os.Remove(dstPath)
		return "", err
	}
	return dst, nil
}

// captureAsFile attempts, in order, a filesystem-level fast clone, a
// hardlink, and finally falls back to referencing the original path
// directly when neither fast-copy mechanism is available (rule 7). Only
// the hardlink/original-path fallback marks the file immutable: a
// successful clone here needs no further tracking, same as rule 5.
func (c *mappingClassifier) captureAsFile(in ClassifyInput) (string, error) {
	if name, err := c.tryFastClone(in); err == nil {
		return name, nil
	}

	c.mu.Lock()
	c.mmapCount++
	count := c.mmapCount
	c.mu.Unlock()

	dst := mmapHardlinkFileName(count)
	dstPath := fmt.Sprintf("%s/%s", in.TraceDir, dst)
	name := in.OriginalPath
	if err := os.Link(in.OriginalPath, dstPath); err == nil {
		name = dst
	}

	c.mu.Lock()
	c.filesAssumedImmutable[inode{dev: in.Dev, ino: in.Ino}] = true
	c.mu.Unlock()
	return name, nil
}

// cpuidGetterInjection is the process-wide CPUIDGetter used when recording
// a trace header; tests substitute their own to avoid depending on the
// host's actual CPU.
var cpuidGetterInjection CPUIDGetter = noCPUID{}

type noCPUID struct{}

func (noCPUID) CPUIDRecords() []byte { return nil }

// SetCPUIDGetter installs the collaborator used to populate a trace
// header's CPUID records. The default getter returns no records; a host
// integration installs a real one before calling NewHeaderForHost.
func SetCPUIDGetter(g CPUIDGetter) {
	if g == nil {
		g = noCPUID{}
	}
	cpuidGetterInjection = g
}

// NewHeaderForHost builds a Header describing the current host, delegating
// CPUID capture to the installed CPUIDGetter (spec.md §1: the engine
// treats CPUID enumeration as an external collaborator's responsibility).
func NewHeaderForHost(bindToCPU, hasCPUIDFaulting bool) Header {
	return Header{
		BindToCPU:        bindToCPU,
		HasCPUIDFaulting: hasCPUIDFaulting,
		CPUIDRecords:     cpuidGetterInjection.CPUIDRecords(),
		UUID:             uuid.New(),
	}
}
