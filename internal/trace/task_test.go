package trace

import (
	"bytes"
	"testing"

	"github.com/BioTurboNick/rr/format/tracefmt"
	"github.com/BioTurboNick/rr/internal/assert"
)

func TestWriteReadTaskEventClone(t *testing.T) {
	want := TaskEvent{
		GlobalTime: 10,
		Tid:        200,
		Type:       tracefmt.TaskEventTypeClone,
		Clone:      &CloneInfo{ParentTid: 100, OwnNsTid: 200, Flags: 0x11},
	}

	var buf bytes.Buffer
	assert.OK(t, writeTaskEvent(&buf, want))

	got, err := readTaskEvent(&buf)
	assert.OK(t, err)
	assert.DeepEqual(t, got, want)
}

func TestWriteReadTaskEventExec(t *testing.T) {
	want := TaskEvent{
		GlobalTime: 11,
		Tid:        201,
		Type:       tracefmt.TaskEventTypeExec,
		Exec: &ExecInfo{
			FileName: "/usr/bin/true",
			CmdLine:  []string{"true", "--help"},
		},
	}

	var buf bytes.Buffer
	assert.OK(t, writeTaskEvent(&buf, want))

	got, err := readTaskEvent(&buf)
	assert.OK(t, err)
	assert.DeepEqual(t, got, want)
}

func TestWriteReadTaskEventExecWithNoArguments(t *testing.T) {
	want := TaskEvent{
		GlobalTime: 12,
		Tid:        202,
		Type:       tracefmt.TaskEventTypeExec,
		Exec:       &ExecInfo{FileName: "/usr/bin/env", CmdLine: nil},
	}

	var buf bytes.Buffer
	assert.OK(t, writeTaskEvent(&buf, want))

	got, err := readTaskEvent(&buf)
	assert.OK(t, err)
	assert.Equal(t, got.Exec.FileName, want.Exec.FileName)
	assert.Equal(t, len(got.Exec.CmdLine), 0)
}

func TestWriteReadTaskEventExit(t *testing.T) {
	want := TaskEvent{
		GlobalTime: 13,
		Tid:        203,
		Type:       tracefmt.TaskEventTypeExit,
		Exit:       &ExitInfo{ExitStatus: 1},
	}

	var buf bytes.Buffer
	assert.OK(t, writeTaskEvent(&buf, want))

	got, err := readTaskEvent(&buf)
	assert.OK(t, err)
	assert.DeepEqual(t, got, want)
}

func TestWriteTaskEventRejectsNoneType(t *testing.T) {
	var buf bytes.Buffer
	err := writeTaskEvent(&buf, TaskEvent{Type: tracefmt.TaskEventTypeNone})
	if err == nil {
		t.Fatal("expected an error writing a TaskEvent with type None")
	}
}

func TestWriteTaskEventRejectsMismatchedVariant(t *testing.T) {
	var buf bytes.Buffer
	err := writeTaskEvent(&buf, TaskEvent{Type: tracefmt.TaskEventTypeClone, Clone: nil})
	if err == nil {
		t.Fatal("expected an error writing a Clone-typed event with no Clone info")
	}
}
