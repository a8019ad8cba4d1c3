package trace

import (
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"strings"
	"syscall"

	flatbuffers "github.com/google/flatbuffers/go"

	"github.com/BioTurboNick/rr/format/tracefmt"
)

// StatSnapshot is the subset of a file's stat(2) result recorded alongside
// a FILE-backed mapping, used on replay to detect whether the underlying
// file has since changed.
type StatSnapshot struct {
	Mode  uint32
	Uid   uint32
	Gid   uint32
	Size  int64
	Mtime int64
	Ino   uint64
}

// MappedRegion is one record of the MMAPS substream, describing a single
// mmap(2) region and how its bytes are backed in the trace.
type MappedRegion struct {
	GlobalTime      FrameTime
	Start           uint64
	End             uint64
	Fsname          string
	Device          int64
	Inode           int64
	Prot            int32
	Flags           int32
	FileOffsetBytes int64
	Stat            StatSnapshot
	Source          tracefmt.BackingSource
	// BackingFileName is empty for BackingSourceZero and
	// BackingSourceTrace. For File it is the name of the clone or hardlink
	// inside the trace directory, or (if neither fast-copy mechanism was
	// available) the original file's absolute path.
	BackingFileName string
}

// writeMappedRegion appends a MappedRegion to the MMAPS substream.
func writeMappedRegion(w io.Writer, m MappedRegion) error {
	builder := flatbuffers.NewBuilder(256)

	fsnameOff := builder.CreateString(m.Fsname)
	backingOff := builder.CreateString(m.BackingFileName)

	tracefmt.StatSnapshotStart(builder)
	tracefmt.StatSnapshotAddMode(builder, m.Stat.Mode)
	tracefmt.StatSnapshotAddUid(builder, m.Stat.Uid)
	tracefmt.StatSnapshotAddGid(builder, m.Stat.Gid)
	tracefmt.StatSnapshotAddSize(builder, m.Stat.Size)
	tracefmt.StatSnapshotAddMtime(builder, m.Stat.Mtime)
	tracefmt.StatSnapshotAddIno(builder, m.Stat.Ino)
	statOff := tracefmt.StatSnapshotEnd(builder)

	tracefmt.MMapStart(builder)
	tracefmt.MMapAddFrameTime(builder, int64(m.GlobalTime))
	tracefmt.MMapAddStart(builder, m.Start)
	tracefmt.MMapAddEnd(builder, m.End)
	tracefmt.MMapAddFsname(builder, fsnameOff)
	tracefmt.MMapAddDevice(builder, m.Device)
	tracefmt.MMapAddInode(builder, m.Inode)
	tracefmt.MMapAddProt(builder, m.Prot)
	tracefmt.MMapAddFlags(builder, m.Flags)
	tracefmt.MMapAddFileOffsetBytes(builder, m.FileOffsetBytes)
	tracefmt.MMapAddStat(builder, statOff)
	tracefmt.MMapAddSource(builder, m.Source)
	tracefmt.MMapAddBackingFileName(builder, backingOff)
	off := tracefmt.MMapEnd(builder)
	tracefmt.FinishSizePrefixedMMapBuffer(builder, off)

	return writeMessage(w, builder.FinishedBytes())
}

// readMappedRegion reads the next MappedRegion from the MMAPS substream.
func readMappedRegion(r io.Reader) (MappedRegion, error) {
	buf, err := readMessage(r)
	if err != nil {
		return MappedRegion{}, err
	}
	msg := tracefmt.GetSizePrefixedRootAsMMap(buf, 0)

	var stat tracefmt.StatSnapshot
	msg.Stat(&stat)

	return MappedRegion{
		GlobalTime:      FrameTime(msg.FrameTime()),
		Start:           msg.Start(),
		End:             msg.End(),
		Fsname:          msg.Fsname(),
		Device:          msg.Device(),
		Inode:           msg.Inode(),
		Prot:            msg.Prot(),
		Flags:           msg.Flags(),
		FileOffsetBytes: msg.FileOffsetBytes(),
		Stat: StatSnapshot{
			Mode:  stat.Mode(),
			Uid:   stat.Uid(),
			Gid:   stat.Gid(),
			Size:  stat.Size(),
			Mtime: stat.Mtime(),
			Ino:   stat.Ino(),
		},
		Source:          msg.Source(),
		BackingFileName: msg.BackingFileName(),
	}, nil
}

// validateStat compares the stat snapshot recorded for a FILE-backed
// mapping against what the file looks like now, logging a warning for any
// field that has diverged rather than failing the replay outright: the
// engine records mapping provenance, it doesn't enforce file immutability
// (spec.md §6 "Validation mode").
func validateStat(logger *slog.Logger, backingFileName string, recorded, current StatSnapshot) {
	if logger == nil {
		logger = slog.Default()
	}
	if recorded == current {
		return
	}
	if recorded.Ino != current.Ino {
		logger.Warn("mapped file inode changed since recording", "file", backingFileName, "recorded", recorded.Ino, "current", current.Ino)
	}
	if recorded.Mode != current.Mode {
		logger.Warn("mapped file mode changed since recording", "file", backingFileName, "recorded", recorded.Mode, "current", current.Mode)
	}
	if recorded.Size != current.Size {
		logger.Warn("mapped file size changed since recording", "file", backingFileName, "recorded", recorded.Size, "current", current.Size)
	}
	if recorded.Mtime != current.Mtime {
		logger.Warn("mapped file mtime changed since recording", "file", backingFileName, "recorded", recorded.Mtime, "current", current.Mtime)
	}
	if recorded.Uid != current.Uid || recorded.Gid != current.Gid {
		logger.Warn("mapped file ownership changed since recording", "file", backingFileName, "recorded_uid", recorded.Uid, "current_uid", current.Uid, "recorded_gid", recorded.Gid, "current_gid", current.Gid)
	}
}

// statSnapshotFromFileInfo extracts the subset of stat(2) fields this
// engine records, from a live os.Stat result, the same way
// tarfs/archive.go reaches for *syscall.Stat_t to recover uid/gid/inode
// fields fs.FileInfo doesn't expose on its own.
func statSnapshotFromFileInfo(info fs.FileInfo) StatSnapshot {
	snap := StatSnapshot{
		Mode:  uint32(info.Mode().Perm()),
		Size:  info.Size(),
		Mtime: info.ModTime().Unix(),
	}
	if st, ok := info.Sys().(*syscall.Stat_t); ok {
		snap.Ino = st.Ino
		snap.Uid = st.Uid
		snap.Gid = st.Gid
	}
	return snap
}

const (
	cloneFilePrefix    = "mmap_clone_"
	hardlinkFilePrefix = "mmap_hardlink_"
)

// mmapCloneFileName returns the reserved name of a per-mapping fast-clone
// segment, numbered by the trace's monotonic mmap counter.
func mmapCloneFileName(count int) string {
	return fmt.Sprintf("%s%d", cloneFilePrefix, count)
}

// mmapHardlinkFileName returns the reserved name of a per-mapping hardlink
// segment, numbered by the trace's monotonic mmap counter.
func mmapHardlinkFileName(count int) string {
	return fmt.Sprintf("%s%d", hardlinkFilePrefix, count)
}

// isTraceLocalBackingFile reports whether a FILE-backed mapping's backing
// file name refers to a segment stored inside the trace directory (clone
// or hardlink) rather than to the original file's absolute path.
func isTraceLocalBackingFile(name string) bool {
	return strings.HasPrefix(name, cloneFilePrefix) || strings.HasPrefix(name, hardlinkFilePrefix)
}
