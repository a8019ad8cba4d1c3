package trace

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/BioTurboNick/rr/format"
	"github.com/BioTurboNick/rr/format/tracefmt"
)

// Reader is the replay side of a trace: component E. It owns the six
// substream pipes and exposes one read_*/peek_* method per substream,
// plus save/restore and independent-cursor cloning across all of them at
// once.
type Reader struct {
	dir        string
	pipes      [numSubstreams]*pipeReader
	Header     Header
	globalTime FrameTime
}

// OpenReader opens an existing trace directory, validating its version
// file and opening all six substream pipes for reading.
func OpenReader(dir string) (*Reader, error) {
	header, err := readVersionFile(dir)
	if err != nil {
		return nil, err
	}
	r := &Reader{dir: dir, Header: header}
	for _, s := range allSubstreams() {
		p, err := newPipeReader(filepath.Join(dir, s.FileName()))
		if err != nil {
			r.closePipesOpenedSoFar()
			return nil, fmt.Errorf("opening substream file %s: %w", s.FileName(), err)
		}
		r.pipes[s] = p
	}
	return r, nil
}

func (r *Reader) closePipesOpenedSoFar() {
	for _, s := range allSubstreams() {
		if p := r.pipes[s]; p != nil {
			p.Close()
		}
	}
}

// Dir returns the trace directory path.
func (r *Reader) Dir() string { return r.dir }

// ReadFrame reads the next TraceFrame from the EVENTS substream, ticks
// the reader's global_time, and asserts that the decoded frame's time
// equals the tick-advanced clock (spec.md §4.E, §7 "Invalid frame time
// (≤ 0) on read" and the reader's own tick_time/assert pair) — a
// corrupted or out-of-order trace fails fast here instead of silently
// desyncing the reader's clock.
func (r *Reader) ReadFrame() (TraceFrame, error) {
	f, err := readFrame(r.pipes[EVENTS])
	if err != nil {
		return TraceFrame{}, err
	}
	if f.GlobalTime <= 0 {
		return TraceFrame{}, fmt.Errorf("%w: invalid frame global_time %d", format.ExitDataErr, f.GlobalTime)
	}
	r.globalTime++
	if f.GlobalTime != r.globalTime {
		return TraceFrame{}, fmt.Errorf("%w: frame global_time %d does not match tick-advanced global_time %d", format.ExitDataErr, f.GlobalTime, r.globalTime)
	}
	return f, nil
}

// PeekFrame reads the next TraceFrame without consuming it: a subsequent
// ReadFrame call observes the same frame again (spec.md §5 "peek purity").
// The reader's global_time is likewise left unchanged.
func (r *Reader) PeekFrame() (TraceFrame, error) {
	cp, err := r.pipes[EVENTS].checkpoint()
	if err != nil {
		return TraceFrame{}, err
	}
	savedTime := r.globalTime
	f, err := r.ReadFrame()
	if rerr := r.pipes[EVENTS].restore(cp); rerr != nil && err == nil {
		err = rerr
	}
	r.globalTime = savedTime
	return f, err
}

// ReadTaskEvent reads the next TaskEvent from the TASKS substream.
func (r *Reader) ReadTaskEvent() (TaskEvent, error) {
	return readTaskEvent(r.pipes[TASKS])
}

// ReadMappedRegion reads the next MappedRegion from the MMAPS substream.
func (r *Reader) ReadMappedRegion() (MappedRegion, error) {
	return readMappedRegion(r.pipes[MMAPS])
}

// ReadMappedRegionForFrame implements spec.md §4.E's CURRENT_TIME_ONLY
// speculative read: it reads the next MappedRegion and, if its GlobalTime
// does not equal the reader's current global_time (typically the time of
// the most recently read frame), restores the MMAPS cursor and reports
// found == false without having consumed anything.
func (r *Reader) ReadMappedRegionForFrame() (region MappedRegion, found bool, err error) {
	cp, err := r.pipes[MMAPS].checkpoint()
	if err != nil {
		return MappedRegion{}, false, err
	}
	region, err = readMappedRegion(r.pipes[MMAPS])
	if err != nil {
		if err == io.EOF {
			return MappedRegion{}, false, nil
		}
		return MappedRegion{}, false, err
	}
	if region.GlobalTime != r.globalTime {
		if rerr := r.pipes[MMAPS].restore(cp); rerr != nil {
			return MappedRegion{}, false, rerr
		}
		return MappedRegion{}, false, nil
	}
	return region, true, nil
}

// ResolveMappedRegionBackingPath resolves a FILE-backed MappedRegion's
// backing file name to an absolute path, and reports whether it should
// skip stat validation because it names a clone segment this engine
// itself created (spec.md §4.E: "names starting with the literal prefix
// mmap_clone_ are recognized as clone-originated and skip stat
// validation").
func (r *Reader) ResolveMappedRegionBackingPath(m MappedRegion) (path string, skipValidation bool) {
	name := m.BackingFileName
	if filepath.IsAbs(name) {
		return name, strings.HasPrefix(filepath.Base(name), cloneFilePrefix)
	}
	return filepath.Join(r.dir, name), strings.HasPrefix(name, cloneFilePrefix)
}

// ValidateMappedRegion performs the live-stat comparison spec.md §4.E
// describes for FILE-backed mappings with validation enabled: it stats
// the resolved backing path and logs any divergence from the recorded
// StatSnapshot, unless the backing file is a clone this engine created
// (which by construction cannot have diverged) or carries an all-zero
// recorded snapshot.
func (r *Reader) ValidateMappedRegion(logger *slog.Logger, m MappedRegion) {
	if m.Source != tracefmt.BackingSourceFile {
		return
	}
	if m.Stat == (StatSnapshot{}) {
		return
	}
	path, skip := r.ResolveMappedRegionBackingPath(m)
	if skip {
		return
	}
	info, err := os.Stat(path)
	if err != nil {
		return
	}
	current := statSnapshotFromFileInfo(info)
	validateStat(logger, path, m.Stat, current)
}

// ReadRawDataHeader reads the next RawDataHeader from the
// RAW_DATA_HEADER substream.
func (r *Reader) ReadRawDataHeader() (RawDataHeader, error) {
	return readRawDataHeader(r.pipes[RAW_DATA_HEADER])
}

// ReadRawData reads exactly len(p) bytes from the RAW_DATA substream,
// matching the length a preceding ReadRawDataHeader reported.
func (r *Reader) ReadRawData(p []byte) error {
	_, err := io.ReadFull(r.pipes[RAW_DATA], p)
	return err
}

// ReadGenericHeader reads the next GenericHeader from the GENERIC
// substream, immediately followed by Length bytes of payload.
func (r *Reader) ReadGenericHeader() (GenericHeader, error) {
	return readGenericHeader(r.pipes[GENERIC])
}

// ReadGenericData reads exactly len(p) bytes of payload from the GENERIC
// substream, following a ReadGenericHeader call reporting that length.
func (r *Reader) ReadGenericData(p []byte) error {
	_, err := io.ReadFull(r.pipes[GENERIC], p)
	return err
}

// ReadRawDataForFrame implements spec.md §4.E's conditional consume: it
// peeks the upcoming RAW_DATA_HEADER record's time. If strictly greater
// than frameTime, it leaves both the RAW_DATA_HEADER and RAW_DATA streams
// untouched and returns ok == false. If equal, it consumes the header and
// its paired bytes and returns them with ok == true. A strictly-less peek
// is a trace-order violation.
func (r *Reader) ReadRawDataForFrame(frameTime FrameTime) (data []byte, ok bool, err error) {
	cp, err := r.pipes[RAW_DATA_HEADER].checkpoint()
	if err != nil {
		return nil, false, err
	}
	h, err := readRawDataHeader(r.pipes[RAW_DATA_HEADER])
	if err != nil {
		if err == io.EOF {
			return nil, false, nil
		}
		return nil, false, err
	}
	if h.GlobalTime > frameTime {
		if rerr := r.pipes[RAW_DATA_HEADER].restore(cp); rerr != nil {
			return nil, false, rerr
		}
		return nil, false, nil
	}
	if h.GlobalTime < frameTime {
		return nil, false, fmt.Errorf("trace order violation: raw data header time %d precedes frame time %d", h.GlobalTime, frameTime)
	}
	data = make([]byte, h.Length)
	if err := r.ReadRawData(data); err != nil {
		return nil, false, err
	}
	return data, true, nil
}

// ReadGenericForFrame implements spec.md §4.E's conditional consume for
// the GENERIC substream, mirroring ReadRawDataForFrame.
func (r *Reader) ReadGenericForFrame(frameTime FrameTime) (data []byte, ok bool, err error) {
	cp, err := r.pipes[GENERIC].checkpoint()
	if err != nil {
		return nil, false, err
	}
	h, err := readGenericHeader(r.pipes[GENERIC])
	if err != nil {
		if err == io.EOF {
			return nil, false, nil
		}
		return nil, false, err
	}
	if h.GlobalTime > frameTime {
		if rerr := r.pipes[GENERIC].restore(cp); rerr != nil {
			return nil, false, rerr
		}
		return nil, false, nil
	}
	if h.GlobalTime < frameTime {
		return nil, false, fmt.Errorf("trace order violation: generic record time %d precedes frame time %d", h.GlobalTime, frameTime)
	}
	data = make([]byte, h.Length)
	if err := r.ReadGenericData(data); err != nil {
		return nil, false, err
	}
	return data, true, nil
}

// traceCheckpoint captures the position of all six substreams, plus the
// reader's global_time, at once.
type traceCheckpoint struct {
	pipes      [numSubstreams]pipeCheckpoint
	globalTime FrameTime
}

// Checkpoint captures the reader's current position across all six
// substreams and its global_time, for later Restore.
func (r *Reader) Checkpoint() (traceCheckpoint, error) {
	var cp traceCheckpoint
	for _, s := range allSubstreams() {
		c, err := r.pipes[s].checkpoint()
		if err != nil {
			return traceCheckpoint{}, fmt.Errorf("checkpointing substream %s: %w", s, err)
		}
		cp.pipes[s] = c
	}
	cp.globalTime = r.globalTime
	return cp, nil
}

// Restore rewinds every substream, and the reader's global_time, to a
// previously captured Checkpoint.
func (r *Reader) Restore(cp traceCheckpoint) error {
	for _, s := range allSubstreams() {
		if err := r.pipes[s].restore(cp.pipes[s]); err != nil {
			return fmt.Errorf("restoring substream %s: %w", s, err)
		}
	}
	r.globalTime = cp.globalTime
	return nil
}

// Rewind resets every substream to the beginning of the trace and
// global_time to 0 (spec.md §4.E).
func (r *Reader) Rewind() error {
	for _, s := range allSubstreams() {
		if err := r.pipes[s].rewind(); err != nil {
			return fmt.Errorf("rewinding substream %s: %w", s, err)
		}
	}
	r.globalTime = 0
	return nil
}

// Clone returns a new Reader with its own independent cursor into each
// substream, initially positioned at the same point as r, including its
// global_time (spec.md §5 "reader clone independence"). Advancing the
// clone never affects r, and vice versa.
func (r *Reader) Clone() (*Reader, error) {
	c := &Reader{dir: r.dir, Header: r.Header, globalTime: r.globalTime}
	for _, s := range allSubstreams() {
		p, err := r.pipes[s].clone()
		if err != nil {
			c.closePipesOpenedSoFar()
			return nil, fmt.Errorf("cloning substream %s: %w", s, err)
		}
		c.pipes[s] = p
	}
	return c, nil
}

// AtEnd reports whether every substream has been fully consumed.
func (r *Reader) AtEnd() bool {
	for _, s := range allSubstreams() {
		if !r.pipes[s].atStreamEOF() {
			return false
		}
	}
	return true
}

// Close releases all substream file handles.
func (r *Reader) Close() error {
	var firstErr error
	for _, s := range allSubstreams() {
		if err := r.pipes[s].Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
