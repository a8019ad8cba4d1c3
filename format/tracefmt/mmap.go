// Code generated manually from tracefmt.fbs; mirrors the layout flatc would
// produce for StatSnapshot and MMap.
package tracefmt

import (
	flatbuffers "github.com/google/flatbuffers/go"
)

// --- StatSnapshot ---

type StatSnapshot struct {
	_tab flatbuffers.Table
}

func (rcv *StatSnapshot) Init(buf []byte, i flatbuffers.UOffsetT) {
	rcv._tab.Bytes = buf
	rcv._tab.Pos = i
}

func (rcv *StatSnapshot) Table() flatbuffers.Table { return rcv._tab }

func (rcv *StatSnapshot) Mode() uint32 {
	o := flatbuffers.UOffsetT(rcv._tab.Offset(4))
	if o != 0 {
		return rcv._tab.GetUint32(o + rcv._tab.Pos)
	}
	return 0
}

func (rcv *StatSnapshot) Uid() uint32 {
	o := flatbuffers.UOffsetT(rcv._tab.Offset(6))
	if o != 0 {
		return rcv._tab.GetUint32(o + rcv._tab.Pos)
	}
	return 0
}

func (rcv *StatSnapshot) Gid() uint32 {
	o := flatbuffers.UOffsetT(rcv._tab.Offset(8))
	if o != 0 {
		return rcv._tab.GetUint32(o + rcv._tab.Pos)
	}
	return 0
}

func (rcv *StatSnapshot) Size() int64 {
	o := flatbuffers.UOffsetT(rcv._tab.Offset(10))
	if o != 0 {
		return rcv._tab.GetInt64(o + rcv._tab.Pos)
	}
	return 0
}

func (rcv *StatSnapshot) Mtime() int64 {
	o := flatbuffers.UOffsetT(rcv._tab.Offset(12))
	if o != 0 {
		return rcv._tab.GetInt64(o + rcv._tab.Pos)
	}
	return 0
}

func (rcv *StatSnapshot) Ino() uint64 {
	o := flatbuffers.UOffsetT(rcv._tab.Offset(14))
	if o != 0 {
		return rcv._tab.GetUint64(o + rcv._tab.Pos)
	}
	return 0
}

func StatSnapshotStart(builder *flatbuffers.Builder) { builder.StartObject(6) }

func StatSnapshotAddMode(builder *flatbuffers.Builder, mode uint32) {
	builder.PrependUint32Slot(0, mode, 0)
}

func StatSnapshotAddUid(builder *flatbuffers.Builder, uid uint32) {
	builder.PrependUint32Slot(1, uid, 0)
}

func StatSnapshotAddGid(builder *flatbuffers.Builder, gid uint32) {
	builder.PrependUint32Slot(2, gid, 0)
}

func StatSnapshotAddSize(builder *flatbuffers.Builder, size int64) {
	builder.PrependInt64Slot(3, size, 0)
}

func StatSnapshotAddMtime(builder *flatbuffers.Builder, mtime int64) {
	builder.PrependInt64Slot(4, mtime, 0)
}

func StatSnapshotAddIno(builder *flatbuffers.Builder, ino uint64) {
	builder.PrependUint64Slot(5, ino, 0)
}

func StatSnapshotEnd(builder *flatbuffers.Builder) flatbuffers.UOffsetT { return builder.EndObject() }

// --- MMap ---

type MMap struct {
	_tab flatbuffers.Table
}

func GetRootAsMMap(buf []byte, offset flatbuffers.UOffsetT) *MMap {
	n := flatbuffers.GetUOffsetT(buf[offset:])
	x := &MMap{}
	x.Init(buf, n+offset)
	return x
}

func GetSizePrefixedRootAsMMap(buf []byte, offset flatbuffers.UOffsetT) *MMap {
	n := flatbuffers.GetUOffsetT(buf[offset+flatbuffers.SizeUint32:])
	x := &MMap{}
	x.Init(buf, n+offset+flatbuffers.SizeUint32)
	return x
}

func (rcv *MMap) Init(buf []byte, i flatbuffers.UOffsetT) {
	rcv._tab.Bytes = buf
	rcv._tab.Pos = i
}

func (rcv *MMap) Table() flatbuffers.Table { return rcv._tab }

func (rcv *MMap) FrameTime() int64 {
	o := flatbuffers.UOffsetT(rcv._tab.Offset(4))
	if o != 0 {
		return rcv._tab.GetInt64(o + rcv._tab.Pos)
	}
	return 0
}

func (rcv *MMap) Start() uint64 {
	o := flatbuffers.UOffsetT(rcv._tab.Offset(6))
	if o != 0 {
		return rcv._tab.GetUint64(o + rcv._tab.Pos)
	}
	return 0
}

func (rcv *MMap) End() uint64 {
	o := flatbuffers.UOffsetT(rcv._tab.Offset(8))
	if o != 0 {
		return rcv._tab.GetUint64(o + rcv._tab.Pos)
	}
	return 0
}

func (rcv *MMap) Fsname() string {
	o := flatbuffers.UOffsetT(rcv._tab.Offset(10))
	if o != 0 {
		return rcv._tab.String(o + rcv._tab.Pos)
	}
	return ""
}

func (rcv *MMap) Device() int64 {
	o := flatbuffers.UOffsetT(rcv._tab.Offset(12))
	if o != 0 {
		return rcv._tab.GetInt64(o + rcv._tab.Pos)
	}
	return 0
}

func (rcv *MMap) Inode() int64 {
	o := flatbuffers.UOffsetT(rcv._tab.Offset(14))
	if o != 0 {
		return rcv._tab.GetInt64(o + rcv._tab.Pos)
	}
	return 0
}

func (rcv *MMap) Prot() int32 {
	o := flatbuffers.UOffsetT(rcv._tab.Offset(16))
	if o != 0 {
		return rcv._tab.GetInt32(o + rcv._tab.Pos)
	}
	return 0
}

func (rcv *MMap) Flags() int32 {
	o := flatbuffers.UOffsetT(rcv._tab.Offset(18))
	if o != 0 {
		return rcv._tab.GetInt32(o + rcv._tab.Pos)
	}
	return 0
}

func (rcv *MMap) FileOffsetBytes() int64 {
	o := flatbuffers.UOffsetT(rcv._tab.Offset(20))
	if o != 0 {
		return rcv._tab.GetInt64(o + rcv._tab.Pos)
	}
	return 0
}

func (rcv *MMap) Stat(obj *StatSnapshot) *StatSnapshot {
	o := flatbuffers.UOffsetT(rcv._tab.Offset(22))
	if o != 0 {
		x := rcv._tab.Indirect(o + rcv._tab.Pos)
		if obj == nil {
			obj = new(StatSnapshot)
		}
		obj.Init(rcv._tab.Bytes, x)
		return obj
	}
	return nil
}

func (rcv *MMap) Source() BackingSource {
	o := flatbuffers.UOffsetT(rcv._tab.Offset(24))
	if o != 0 {
		return BackingSource(rcv._tab.GetInt8(o + rcv._tab.Pos))
	}
	return BackingSourceZero
}

func (rcv *MMap) BackingFileName() string {
	o := flatbuffers.UOffsetT(rcv._tab.Offset(26))
	if o != 0 {
		return rcv._tab.String(o + rcv._tab.Pos)
	}
	return ""
}

func MMapStart(builder *flatbuffers.Builder) { builder.StartObject(12) }

func MMapAddFrameTime(builder *flatbuffers.Builder, frameTime int64) {
	builder.PrependInt64Slot(0, frameTime, 0)
}

func MMapAddStart(builder *flatbuffers.Builder, start uint64) {
	builder.PrependUint64Slot(1, start, 0)
}

func MMapAddEnd(builder *flatbuffers.Builder, end uint64) {
	builder.PrependUint64Slot(2, end, 0)
}

func MMapAddFsname(builder *flatbuffers.Builder, fsname flatbuffers.UOffsetT) {
	builder.PrependUOffsetTSlot(3, fsname, 0)
}

func MMapAddDevice(builder *flatbuffers.Builder, device int64) {
	builder.PrependInt64Slot(4, device, 0)
}

func MMapAddInode(builder *flatbuffers.Builder, inode int64) {
	builder.PrependInt64Slot(5, inode, 0)
}

func MMapAddProt(builder *flatbuffers.Builder, prot int32) {
	builder.PrependInt32Slot(6, prot, 0)
}

func MMapAddFlags(builder *flatbuffers.Builder, flags int32) {
	builder.PrependInt32Slot(7, flags, 0)
}

func MMapAddFileOffsetBytes(builder *flatbuffers.Builder, fileOffsetBytes int64) {
	builder.PrependInt64Slot(8, fileOffsetBytes, 0)
}

func MMapAddStat(builder *flatbuffers.Builder, stat flatbuffers.UOffsetT) {
	builder.PrependUOffsetTSlot(9, stat, 0)
}

func MMapAddSource(builder *flatbuffers.Builder, source BackingSource) {
	builder.PrependInt8Slot(10, int8(source), 0)
}

func MMapAddBackingFileName(builder *flatbuffers.Builder, backingFileName flatbuffers.UOffsetT) {
	builder.PrependUOffsetTSlot(11, backingFileName, 0)
}

func MMapEnd(builder *flatbuffers.Builder) flatbuffers.UOffsetT { return builder.EndObject() }

func FinishMMapBuffer(builder *flatbuffers.Builder, offset flatbuffers.UOffsetT) {
	builder.Finish(offset)
}

func FinishSizePrefixedMMapBuffer(builder *flatbuffers.Builder, offset flatbuffers.UOffsetT) {
	builder.FinishSizePrefixed(offset)
}
