package trace

import (
	"fmt"
	"os"
	"path/filepath"
)

// Writer is the recording side of a trace: component D. It owns the six
// substream pipes and the monotonically increasing global_time clock, and
// exposes one write_* method per substream.
type Writer struct {
	dir        string
	pipes      [numSubstreams]*pipeWriter
	classifier *mappingClassifier
	probe      *cloneProbe

	globalTime FrameTime
	err        error
}

// NewWriter creates a fresh trace directory under the trace root (named
// after exeBasename), writes its header, and opens all six substream
// pipes. The returned Writer owns the trace directory until Close.
func NewWriter(exeBasename string, header Header) (*Writer, error) {
	dir, err := makeTraceDir(exeBasename)
	if err != nil {
		return nil, err
	}
	if err := writeVersionFile(dir, header); err != nil {
		return nil, err
	}
	if err := updateLatestSymlink(dir); err != nil {
		return nil, fmt.Errorf("updating latest trace symlink: %w", err)
	}

	w := &Writer{dir: dir, globalTime: 1}
	w.probe = newCloneProbe(dir, versionFilePath(dir))
	w.classifier = newMappingClassifier(w.probe)

	for _, s := range allSubstreams() {
		f, err := os.Create(filepath.Join(dir, s.FileName()))
		if err != nil {
			w.closePipesOpenedSoFar()
			return nil, fmt.Errorf("creating substream file %s: %w", s.FileName(), err)
		}
		w.pipes[s] = newPipeWriter(f, s.BlockSize(), s.Threads())
	}
	return w, nil
}

func (w *Writer) closePipesOpenedSoFar() {
	for _, s := range allSubstreams() {
		if p := w.pipes[s]; p != nil {
			p.Close()
		}
	}
}

// Dir returns the trace directory path.
func (w *Writer) Dir() string { return w.dir }

// good reports whether the writer has not yet recorded an unrecoverable
// error; once good returns false, every write_* call is a no-op that
// returns the same error.
func (w *Writer) good() bool { return w.err == nil }

// Good reports whether the trace is still healthy, per spec.md §7's
// boolean health check (as opposed to returning an error from every call).
func (w *Writer) Good() bool { return w.good() }

func (w *Writer) fail(err error) error {
	if w.err == nil {
		w.err = err
	}
	return w.err
}

// WriteFrame appends a TraceFrame to the EVENTS substream, advancing the
// trace clock to the frame's GlobalTime. Per spec.md §2, global_time only
// ever increases; WriteFrame rejects a frame whose GlobalTime regresses.
func (w *Writer) WriteFrame(f TraceFrame) error {
	if !w.good() {
		return w.err
	}
	if f.GlobalTime < w.globalTime {
		return w.fail(fmt.Errorf("frame global_time %d regresses before last written time %d", f.GlobalTime, w.globalTime))
	}
	w.globalTime = f.GlobalTime
	if err := writeFrame(w.pipes[EVENTS], f); err != nil {
		return w.fail(err)
	}
	return nil
}

// WriteTaskEvent appends a TaskEvent to the TASKS substream.
func (w *Writer) WriteTaskEvent(e TaskEvent) error {
	if !w.good() {
		return w.err
	}
	if err := writeTaskEvent(w.pipes[TASKS], e); err != nil {
		return w.fail(err)
	}
	return nil
}

// WriteMappedRegion classifies a newly observed mmap(2) region, fills in
// its Source and BackingFileName accordingly, and appends the resulting
// MappedRegion to the MMAPS substream. If the region is classified
// BackingSourceTrace, its initial contents must additionally be captured
// via WriteRawData under the same GlobalTime. It returns the classified
// region so the caller can decide whether that capture is needed.
func (w *Writer) WriteMappedRegion(m MappedRegion, in ClassifyInput) (MappedRegion, error) {
	if !w.good() {
		return MappedRegion{}, w.err
	}
	in.TraceDir = w.dir
	in.Dev, in.Ino = uint64(m.Device), uint64(m.Inode)
	if in.Fsname == "" {
		in.Fsname = m.Fsname
	}
	source, name, err := w.classifier.classify(in)
	if err != nil {
		return MappedRegion{}, w.fail(err)
	}
	m.Source = source
	m.BackingFileName = name
	if err := writeMappedRegion(w.pipes[MMAPS], m); err != nil {
		return MappedRegion{}, w.fail(err)
	}
	return m, nil
}

// WriteRawDataHeader appends a raw-data chunk's header (GlobalTime,
// address, and length of the bytes that follow in RAW_DATA) to the
// RAW_DATA_HEADER substream.
func (w *Writer) WriteRawDataHeader(h RawDataHeader) error {
	if !w.good() {
		return w.err
	}
	if err := writeRawDataHeader(w.pipes[RAW_DATA_HEADER], h); err != nil {
		return w.fail(err)
	}
	return nil
}

// WriteRawData appends bytes to the RAW_DATA substream. Every call must be
// paired with a preceding WriteRawDataHeader carrying the same length
// (spec.md §3 "RAW_DATA_HEADER / RAW_DATA pairing").
func (w *Writer) WriteRawData(p []byte) error {
	if !w.good() {
		return w.err
	}
	if _, err := w.pipes[RAW_DATA].Write(p); err != nil {
		return w.fail(err)
	}
	return nil
}

// WriteGeneric appends an arbitrary, recorder-defined byte blob to the
// GENERIC substream, tagged with the frame time it belongs to. The engine
// does not interpret its contents. Per spec.md §4.D, this does not advance
// the trace clock; only WriteFrame does.
func (w *Writer) WriteGeneric(t FrameTime, p []byte) error {
	if !w.good() {
		return w.err
	}
	h := GenericHeader{GlobalTime: t, Length: int64(len(p))}
	if err := writeGenericHeader(w.pipes[GENERIC], h); err != nil {
		return w.fail(err)
	}
	if _, err := w.pipes[GENERIC].Write(p); err != nil {
		return w.fail(err)
	}
	return nil
}

// Close joins all substream compression workers and flushes every
// substream file, returning the first error observed by the writer, if
// any.
func (w *Writer) Close() error {
	var firstErr error
	for _, s := range allSubstreams() {
		if err := w.pipes[s].Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if firstErr == nil {
		firstErr = w.err
	}
	return firstErr
}
