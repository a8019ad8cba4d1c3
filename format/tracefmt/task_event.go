// Code generated manually from tracefmt.fbs; mirrors the layout flatc would
// produce for CloneInfo, ExecInfo, ExitInfo, and TaskEvent.
package tracefmt

import (
	flatbuffers "github.com/google/flatbuffers/go"
)

// --- CloneInfo ---

type CloneInfo struct {
	_tab flatbuffers.Table
}

func (rcv *CloneInfo) Init(buf []byte, i flatbuffers.UOffsetT) {
	rcv._tab.Bytes = buf
	rcv._tab.Pos = i
}

func (rcv *CloneInfo) Table() flatbuffers.Table { return rcv._tab }

func (rcv *CloneInfo) ParentTid() int32 {
	o := flatbuffers.UOffsetT(rcv._tab.Offset(4))
	if o != 0 {
		return rcv._tab.GetInt32(o + rcv._tab.Pos)
	}
	return 0
}

func (rcv *CloneInfo) OwnNsTid() int32 {
	o := flatbuffers.UOffsetT(rcv._tab.Offset(6))
	if o != 0 {
		return rcv._tab.GetInt32(o + rcv._tab.Pos)
	}
	return 0
}

func (rcv *CloneInfo) Flags() int32 {
	o := flatbuffers.UOffsetT(rcv._tab.Offset(8))
	if o != 0 {
		return rcv._tab.GetInt32(o + rcv._tab.Pos)
	}
	return 0
}

func CloneInfoStart(builder *flatbuffers.Builder) { builder.StartObject(3) }

func CloneInfoAddParentTid(builder *flatbuffers.Builder, parentTid int32) {
	builder.PrependInt32Slot(0, parentTid, 0)
}

func CloneInfoAddOwnNsTid(builder *flatbuffers.Builder, ownNsTid int32) {
	builder.PrependInt32Slot(1, ownNsTid, 0)
}

func CloneInfoAddFlags(builder *flatbuffers.Builder, flags int32) {
	builder.PrependInt32Slot(2, flags, 0)
}

func CloneInfoEnd(builder *flatbuffers.Builder) flatbuffers.UOffsetT { return builder.EndObject() }

// --- ExecInfo ---

type ExecInfo struct {
	_tab flatbuffers.Table
}

func (rcv *ExecInfo) Init(buf []byte, i flatbuffers.UOffsetT) {
	rcv._tab.Bytes = buf
	rcv._tab.Pos = i
}

func (rcv *ExecInfo) Table() flatbuffers.Table { return rcv._tab }

func (rcv *ExecInfo) FileName() string {
	o := flatbuffers.UOffsetT(rcv._tab.Offset(4))
	if o != 0 {
		return rcv._tab.String(o + rcv._tab.Pos)
	}
	return ""
}

func (rcv *ExecInfo) CmdLine(j int) string {
	o := flatbuffers.UOffsetT(rcv._tab.Offset(6))
	if o != 0 {
		a := rcv._tab.Vector(o)
		a += flatbuffers.UOffsetT(j) * 4
		return rcv._tab.String(a)
	}
	return ""
}

func (rcv *ExecInfo) CmdLineLength() int {
	o := flatbuffers.UOffsetT(rcv._tab.Offset(6))
	if o != 0 {
		return rcv._tab.VectorLen(o)
	}
	return 0
}

func ExecInfoStart(builder *flatbuffers.Builder) { builder.StartObject(2) }

func ExecInfoAddFileName(builder *flatbuffers.Builder, fileName flatbuffers.UOffsetT) {
	builder.PrependUOffsetTSlot(0, fileName, 0)
}

func ExecInfoAddCmdLine(builder *flatbuffers.Builder, cmdLine flatbuffers.UOffsetT) {
	builder.PrependUOffsetTSlot(1, cmdLine, 0)
}

func ExecInfoEnd(builder *flatbuffers.Builder) flatbuffers.UOffsetT { return builder.EndObject() }

func ExecInfoStartCmdLineVector(builder *flatbuffers.Builder, numElems int) flatbuffers.UOffsetT {
	return builder.StartVector(4, numElems, 4)
}

// --- ExitInfo ---

type ExitInfo struct {
	_tab flatbuffers.Table
}

func (rcv *ExitInfo) Init(buf []byte, i flatbuffers.UOffsetT) {
	rcv._tab.Bytes = buf
	rcv._tab.Pos = i
}

func (rcv *ExitInfo) Table() flatbuffers.Table { return rcv._tab }

func (rcv *ExitInfo) ExitStatus() int32 {
	o := flatbuffers.UOffsetT(rcv._tab.Offset(4))
	if o != 0 {
		return rcv._tab.GetInt32(o + rcv._tab.Pos)
	}
	return 0
}

func ExitInfoStart(builder *flatbuffers.Builder) { builder.StartObject(1) }

func ExitInfoAddExitStatus(builder *flatbuffers.Builder, exitStatus int32) {
	builder.PrependInt32Slot(0, exitStatus, 0)
}

func ExitInfoEnd(builder *flatbuffers.Builder) flatbuffers.UOffsetT { return builder.EndObject() }

// --- TaskEvent ---

type TaskEvent struct {
	_tab flatbuffers.Table
}

func GetRootAsTaskEvent(buf []byte, offset flatbuffers.UOffsetT) *TaskEvent {
	n := flatbuffers.GetUOffsetT(buf[offset:])
	x := &TaskEvent{}
	x.Init(buf, n+offset)
	return x
}

func GetSizePrefixedRootAsTaskEvent(buf []byte, offset flatbuffers.UOffsetT) *TaskEvent {
	n := flatbuffers.GetUOffsetT(buf[offset+flatbuffers.SizeUint32:])
	x := &TaskEvent{}
	x.Init(buf, n+offset+flatbuffers.SizeUint32)
	return x
}

func (rcv *TaskEvent) Init(buf []byte, i flatbuffers.UOffsetT) {
	rcv._tab.Bytes = buf
	rcv._tab.Pos = i
}

func (rcv *TaskEvent) Table() flatbuffers.Table { return rcv._tab }

func (rcv *TaskEvent) FrameTime() int64 {
	o := flatbuffers.UOffsetT(rcv._tab.Offset(4))
	if o != 0 {
		return rcv._tab.GetInt64(o + rcv._tab.Pos)
	}
	return 0
}

func (rcv *TaskEvent) Tid() int32 {
	o := flatbuffers.UOffsetT(rcv._tab.Offset(6))
	if o != 0 {
		return rcv._tab.GetInt32(o + rcv._tab.Pos)
	}
	return 0
}

func (rcv *TaskEvent) Type() TaskEventType {
	o := flatbuffers.UOffsetT(rcv._tab.Offset(8))
	if o != 0 {
		return TaskEventType(rcv._tab.GetInt8(o + rcv._tab.Pos))
	}
	return TaskEventTypeNone
}

func (rcv *TaskEvent) Clone(obj *CloneInfo) *CloneInfo {
	o := flatbuffers.UOffsetT(rcv._tab.Offset(10))
	if o != 0 {
		x := rcv._tab.Indirect(o + rcv._tab.Pos)
		if obj == nil {
			obj = new(CloneInfo)
		}
		obj.Init(rcv._tab.Bytes, x)
		return obj
	}
	return nil
}

func (rcv *TaskEvent) Exec(obj *ExecInfo) *ExecInfo {
	o := flatbuffers.UOffsetT(rcv._tab.Offset(12))
	if o != 0 {
		x := rcv._tab.Indirect(o + rcv._tab.Pos)
		if obj == nil {
			obj = new(ExecInfo)
		}
		obj.Init(rcv._tab.Bytes, x)
		return obj
	}
	return nil
}

func (rcv *TaskEvent) Exit(obj *ExitInfo) *ExitInfo {
	o := flatbuffers.UOffsetT(rcv._tab.Offset(14))
	if o != 0 {
		x := rcv._tab.Indirect(o + rcv._tab.Pos)
		if obj == nil {
			obj = new(ExitInfo)
		}
		obj.Init(rcv._tab.Bytes, x)
		return obj
	}
	return nil
}

func TaskEventStart(builder *flatbuffers.Builder) { builder.StartObject(6) }

func TaskEventAddFrameTime(builder *flatbuffers.Builder, frameTime int64) {
	builder.PrependInt64Slot(0, frameTime, 0)
}

func TaskEventAddTid(builder *flatbuffers.Builder, tid int32) {
	builder.PrependInt32Slot(1, tid, 0)
}

func TaskEventAddType(builder *flatbuffers.Builder, type_ TaskEventType) {
	builder.PrependInt8Slot(2, int8(type_), 0)
}

func TaskEventAddClone(builder *flatbuffers.Builder, clone flatbuffers.UOffsetT) {
	builder.PrependUOffsetTSlot(3, clone, 0)
}

func TaskEventAddExec(builder *flatbuffers.Builder, exec flatbuffers.UOffsetT) {
	builder.PrependUOffsetTSlot(4, exec, 0)
}

func TaskEventAddExit(builder *flatbuffers.Builder, exit flatbuffers.UOffsetT) {
	builder.PrependUOffsetTSlot(5, exit, 0)
}

func TaskEventEnd(builder *flatbuffers.Builder) flatbuffers.UOffsetT { return builder.EndObject() }

func FinishTaskEventBuffer(builder *flatbuffers.Builder, offset flatbuffers.UOffsetT) {
	builder.Finish(offset)
}

func FinishSizePrefixedTaskEventBuffer(builder *flatbuffers.Builder, offset flatbuffers.UOffsetT) {
	builder.FinishSizePrefixed(offset)
}
