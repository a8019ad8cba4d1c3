package trace

import (
	"fmt"
	"io"

	flatbuffers "github.com/google/flatbuffers/go"

	"github.com/BioTurboNick/rr/format/tracefmt"
)

// TaskEvent is one record of the TASKS substream: a CLONE, EXEC, or EXIT
// notification for a traced task. Exactly one of Clone, Exec, Exit is set,
// matching Type.
type TaskEvent struct {
	GlobalTime FrameTime
	Tid        int32
	Type       tracefmt.TaskEventType

	Clone *CloneInfo
	Exec  *ExecInfo
	Exit  *ExitInfo
}

type CloneInfo struct {
	ParentTid int32
	OwnNsTid  int32
	Flags     int32
}

type ExecInfo struct {
	FileName string
	CmdLine  []string
}

type ExitInfo struct {
	ExitStatus int32
}

// writeTaskEvent appends a TaskEvent to the TASKS substream. Writing a
// record whose Type is TaskEventTypeNone is a programming error: every
// task notification the engine records carries one of CLONE, EXEC, or
// EXIT (spec.md §3 TASKS invariants).
func writeTaskEvent(w io.Writer, e TaskEvent) error {
	if e.Type == tracefmt.TaskEventTypeNone {
		return fmt.Errorf("refusing to write a TaskEvent with type None")
	}

	builder := flatbuffers.NewBuilder(256)

	var variant flatbuffers.UOffsetT
	switch e.Type {
	case tracefmt.TaskEventTypeClone:
		if e.Clone == nil {
			return fmt.Errorf("TaskEvent type is Clone but Clone info is nil")
		}
		tracefmt.CloneInfoStart(builder)
		tracefmt.CloneInfoAddParentTid(builder, e.Clone.ParentTid)
		tracefmt.CloneInfoAddOwnNsTid(builder, e.Clone.OwnNsTid)
		tracefmt.CloneInfoAddFlags(builder, e.Clone.Flags)
		variant = tracefmt.CloneInfoEnd(builder)
	case tracefmt.TaskEventTypeExec:
		if e.Exec == nil {
			return fmt.Errorf("TaskEvent type is Exec but Exec info is nil")
		}
		cmdLineOffs := make([]flatbuffers.UOffsetT, len(e.Exec.CmdLine))
		for i := len(e.Exec.CmdLine) - 1; i >= 0; i-- {
			cmdLineOffs[i] = builder.CreateString(e.Exec.CmdLine[i])
		}
		tracefmt.ExecInfoStartCmdLineVector(builder, len(cmdLineOffs))
		for i := len(cmdLineOffs) - 1; i >= 0; i-- {
			builder.PrependUOffsetT(cmdLineOffs[i])
		}
		cmdLineVec := builder.EndVector(len(cmdLineOffs))
		fileNameOff := builder.CreateString(e.Exec.FileName)
		tracefmt.ExecInfoStart(builder)
		tracefmt.ExecInfoAddFileName(builder, fileNameOff)
		tracefmt.ExecInfoAddCmdLine(builder, cmdLineVec)
		variant = tracefmt.ExecInfoEnd(builder)
	case tracefmt.TaskEventTypeExit:
		if e.Exit == nil {
			return fmt.Errorf("TaskEvent type is Exit but Exit info is nil")
		}
		tracefmt.ExitInfoStart(builder)
		tracefmt.ExitInfoAddExitStatus(builder, e.Exit.ExitStatus)
		variant = tracefmt.ExitInfoEnd(builder)
	default:
		return fmt.Errorf("unknown TaskEvent type %v", e.Type)
	}

	tracefmt.TaskEventStart(builder)
	tracefmt.TaskEventAddFrameTime(builder, int64(e.GlobalTime))
	tracefmt.TaskEventAddTid(builder, e.Tid)
	tracefmt.TaskEventAddType(builder, e.Type)
	switch e.Type {
	case tracefmt.TaskEventTypeClone:
		tracefmt.TaskEventAddClone(builder, variant)
	case tracefmt.TaskEventTypeExec:
		tracefmt.TaskEventAddExec(builder, variant)
	case tracefmt.TaskEventTypeExit:
		tracefmt.TaskEventAddExit(builder, variant)
	}
	off := tracefmt.TaskEventEnd(builder)
	tracefmt.FinishSizePrefixedTaskEventBuffer(builder, off)

	return writeMessage(w, builder.FinishedBytes())
}

// readTaskEvent reads the next TaskEvent from the TASKS substream.
func readTaskEvent(r io.Reader) (TaskEvent, error) {
	buf, err := readMessage(r)
	if err != nil {
		return TaskEvent{}, err
	}
	msg := tracefmt.GetSizePrefixedRootAsTaskEvent(buf, 0)

	e := TaskEvent{
		GlobalTime: FrameTime(msg.FrameTime()),
		Tid:        msg.Tid(),
		Type:       msg.Type(),
	}
	switch e.Type {
	case tracefmt.TaskEventTypeClone:
		var c tracefmt.CloneInfo
		msg.Clone(&c)
		e.Clone = &CloneInfo{ParentTid: c.ParentTid(), OwnNsTid: c.OwnNsTid(), Flags: c.Flags()}
	case tracefmt.TaskEventTypeExec:
		var x tracefmt.ExecInfo
		msg.Exec(&x)
		cmdLine := make([]string, x.CmdLineLength())
		for i := range cmdLine {
			cmdLine[i] = x.CmdLine(i)
		}
		e.Exec = &ExecInfo{FileName: x.FileName(), CmdLine: cmdLine}
	case tracefmt.TaskEventTypeExit:
		var x tracefmt.ExitInfo
		msg.Exit(&x)
		e.Exit = &ExitInfo{ExitStatus: x.ExitStatus()}
	default:
		return TaskEvent{}, fmt.Errorf("trace contains a TaskEvent with type None")
	}
	return e, nil
}
