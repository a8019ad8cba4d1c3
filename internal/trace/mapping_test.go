package trace

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/BioTurboNick/rr/format/tracefmt"
	"github.com/BioTurboNick/rr/internal/assert"
)

func TestWriteReadMappedRegion(t *testing.T) {
	want := MappedRegion{
		GlobalTime:      5,
		Start:           0x400000,
		End:             0x401000,
		Fsname:          "/lib/libc.so.6",
		Device:          8,
		Inode:           123456,
		Prot:            5,
		Flags:           2,
		FileOffsetBytes: 0,
		Stat:            StatSnapshot{Mode: 0644, Uid: 1000, Gid: 1000, Size: 2048, Mtime: 1700000000},
		Source:          tracefmt.BackingSourceFile,
		BackingFileName: "mmap_hardlink_1",
	}

	var buf bytes.Buffer
	assert.OK(t, writeMappedRegion(&buf, want))

	got, err := readMappedRegion(&buf)
	assert.OK(t, err)
	assert.DeepEqual(t, got, want)
}

func TestWriteReadMappedRegionZeroSource(t *testing.T) {
	want := MappedRegion{
		GlobalTime: 1,
		Start:      0x7f0000,
		End:        0x7f1000,
		Source:     tracefmt.BackingSourceZero,
	}

	var buf bytes.Buffer
	assert.OK(t, writeMappedRegion(&buf, want))

	got, err := readMappedRegion(&buf)
	assert.OK(t, err)
	assert.DeepEqual(t, got, want)
}

func TestValidateStatLogsEachDivergentField(t *testing.T) {
	var out bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&out, nil))

	recorded := StatSnapshot{Ino: 11, Mode: 0644, Uid: 1, Gid: 1, Size: 100, Mtime: 10}
	current := StatSnapshot{Ino: 22, Mode: 0755, Uid: 1, Gid: 1, Size: 200, Mtime: 10}

	validateStat(logger, "/tmp/x", recorded, current)

	logged := out.String()
	if !bytes.Contains([]byte(logged), []byte("inode changed")) {
		t.Fatalf("expected an inode-changed warning, got: %s", logged)
	}
	if !bytes.Contains([]byte(logged), []byte("mode changed")) {
		t.Fatalf("expected a mode-changed warning, got: %s", logged)
	}
	if !bytes.Contains([]byte(logged), []byte("size changed")) {
		t.Fatalf("expected a size-changed warning, got: %s", logged)
	}
}

func TestValidateStatSilentWhenUnchanged(t *testing.T) {
	var out bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&out, nil))

	snap := StatSnapshot{Mode: 0644, Uid: 1, Gid: 1, Size: 100, Mtime: 10}
	validateStat(logger, "/tmp/x", snap, snap)

	if out.Len() != 0 {
		t.Fatalf("expected no warnings for an unchanged stat snapshot, got: %s", out.String())
	}
}

func TestIsTraceLocalBackingFile(t *testing.T) {
	assert.Equal(t, isTraceLocalBackingFile("mmap_clone_3"), true)
	assert.Equal(t, isTraceLocalBackingFile("mmap_hardlink_7"), true)
	assert.Equal(t, isTraceLocalBackingFile("/usr/lib/libc.so.6"), false)
}
