package trace

import (
	"os"
	"testing"

	"github.com/BioTurboNick/rr/format/tracefmt"
	"github.com/BioTurboNick/rr/internal/assert"
)

func TestClassifyZeroMapping(t *testing.T) {
	c := newMappingClassifier(nil)
	source, name, err := c.classify(ClassifyInput{Zero: true})
	assert.OK(t, err)
	assert.Equal(t, source, tracefmt.BackingSourceZero)
	assert.Equal(t, name, "")
}

func TestClassifyPrivateMappingGoesToTrace(t *testing.T) {
	c := newMappingClassifier(nil)
	source, _, err := c.classify(ClassifyInput{Dev: 1, Ino: 2, Private: true, Writable: true})
	assert.OK(t, err)
	assert.Equal(t, source, tracefmt.BackingSourceTrace)
}

func TestClassifySharedMappingCapturesAsFile(t *testing.T) {
	dir := t.TempDir()
	original := dir + "/source.bin"
	assert.OK(t, os.WriteFile(original, []byte("hello"), 0600))

	c := newMappingClassifier(newCloneProbe(dir, dir+"/nonexistent-version-file"))
	source, name, err := c.classify(ClassifyInput{
		Dev: 1, Ino: 2, Private: false, OriginalPath: original, TraceDir: dir,
	})
	assert.OK(t, err)
	assert.Equal(t, source, tracefmt.BackingSourceFile)
	if name == "" {
		t.Fatal("expected a non-empty backing file name")
	}
}

func TestClassifyRemapAndPatchOriginsAreAlwaysZero(t *testing.T) {
	c := newMappingClassifier(nil)
	for _, origin := range []MappingOrigin{OriginRemap, OriginPatch, OriginRRBuffer} {
		source, name, err := c.classify(ClassifyInput{Origin: origin, Dev: 1, Ino: 2})
		assert.OK(t, err)
		assert.Equal(t, source, tracefmt.BackingSourceZero)
		assert.Equal(t, name, "")
	}
}

func TestClassifySysvSegmentGoesToTrace(t *testing.T) {
	c := newMappingClassifier(nil)
	source, _, err := c.classify(ClassifyInput{Dev: 1, Ino: 2, Fsname: "/SYSV00000000"})
	assert.OK(t, err)
	assert.Equal(t, source, tracefmt.BackingSourceTrace)
}

func TestClassifyAnonymousSyscallMappingIsZero(t *testing.T) {
	c := newMappingClassifier(nil)
	source, _, err := c.classify(ClassifyInput{Origin: OriginSyscall, Dev: 1, Ino: 0})
	assert.OK(t, err)
	assert.Equal(t, source, tracefmt.BackingSourceZero)
}

func TestClassifyPrivateCloneSucceedsWithoutMarkingImmutable(t *testing.T) {
	dir := t.TempDir()
	original := dir + "/source.bin"
	assert.OK(t, os.WriteFile(original, []byte("hello"), 0600))

	// Fake both the probe result and the clone call itself: the test
	// filesystem backing t.TempDir() may not support FICLONE, and this
	// test is about the classifier's bookkeeping, not the kernel's.
	probe := &cloneProbe{traceDir: dir, supported: true}
	prevClone := doReflinkClone
	doReflinkClone = func(src, dst string) error { return os.WriteFile(dst, []byte("clone"), 0600) }
	defer func() { doReflinkClone = prevClone }()

	c := newMappingClassifier(probe)
	in := ClassifyInput{Dev: 5, Ino: 6, Private: true, OriginalPath: original, TraceDir: dir}

	source, name, err := c.classify(in)
	assert.OK(t, err)
	assert.Equal(t, source, tracefmt.BackingSourceFile)
	if name == "" {
		t.Fatal("expected a non-empty backing file name")
	}

	c.mu.Lock()
	immutable := c.filesAssumedImmutable[inode{dev: 5, ino: 6}]
	c.mu.Unlock()
	if immutable {
		t.Fatal("a successful private clone should not mark the file immutable")
	}
}

// TestClassifyImmutableMarkOnlyGatesCopyEligibleRule exercises the
// TraceStream.cc algorithm this classifier mirrors: files_assumed_immutable
// is only consulted by the copy-eligible rule, never by the MAP_PRIVATE
// fast-clone rule or by the fallback rule itself, and the fallback rule
// always mints its own freshly numbered name rather than reusing a
// previously recorded one.
func TestClassifyImmutableMarkOnlyGatesCopyEligibleRule(t *testing.T) {
	dir := t.TempDir()
	original := dir + "/source.bin"
	assert.OK(t, os.WriteFile(original, []byte("hello"), 0600))

	c := newMappingClassifier(nil) // no clone support: every fast-clone attempt fails.
	in := ClassifyInput{Dev: 9, Ino: 10, OriginalPath: original, TraceDir: dir}

	// A shared (non-copy-eligible) mapping falls to the fallback chain and
	// marks the file immutable.
	firstSource, firstName, err := c.classify(in)
	assert.OK(t, err)
	assert.Equal(t, firstSource, tracefmt.BackingSourceFile)

	c.mu.Lock()
	immutable := c.filesAssumedImmutable[inode{dev: 9, ino: 10}]
	c.mu.Unlock()
	if !immutable {
		t.Fatal("expected the file to be marked immutable after the fallback rule ran")
	}

	// A later private+writable mapping of the same file would ordinarily
	// be copy-eligible (BackingSourceTrace), but the immutable mark
	// diverts it back through the fallback chain instead, and that
	// fallback mints a fresh name rather than reusing firstName.
	copyEligible := ClassifyInput{Dev: 9, Ino: 10, Private: true, Writable: true, OriginalPath: original, TraceDir: dir}
	secondSource, secondName, err := c.classify(copyEligible)
	assert.OK(t, err)
	assert.Equal(t, secondSource, tracefmt.BackingSourceFile)
	if secondName == firstName {
		t.Fatal("expected the fallback rule to mint a freshly numbered name, not reuse the cached one")
	}
}
