package trace

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
)

// EventCode is an opaque, recorder-owned event descriptor. The engine does
// not interpret events semantically (spec.md §1 Non-goals); the only bit it
// inspects is bit 0, HAS_EXEC_INFO, which says whether a register payload
// follows the frame's fixed header.
type EventCode int64

const hasExecInfoBit EventCode = 1

// HasExecInfo reports whether a frame carrying this event code is followed
// by a register payload.
func (e EventCode) HasExecInfo() bool { return e&hasExecInfoBit != 0 }

// WithExecInfo returns e with HAS_EXEC_INFO set or cleared.
func (e EventCode) WithExecInfo(has bool) EventCode {
	if has {
		return e | hasExecInfoBit
	}
	return e &^ hasExecInfoBit
}

// TraceFrame is one record of the EVENTS substream: spec.md's
// "TraceFrame (event record)".
type TraceFrame struct {
	GlobalTime   FrameTime
	Tid          int32
	Event        EventCode
	Ticks        int64
	MonotonicSec float64
	// Regs is non-nil iff Event.HasExecInfo().
	Regs *Registers
}

// basicInfo is the fixed-size header written for every frame, serialized
// by raw, ordered field writes rather than a schema-encoded message (see
// spec.md §9 "Mixed serialization").
type basicInfo struct {
	GlobalTime   int64
	Tid          int32
	Event        int64
	Ticks        int64
	MonotonicSec float64
}

const basicInfoSize = 8 + 4 + 8 + 8 + 8

func writeBasicInfo(w io.Writer, b basicInfo) error {
	var buf [basicInfoSize]byte
	binary.LittleEndian.PutUint64(buf[0:8], uint64(b.GlobalTime))
	binary.LittleEndian.PutUint32(buf[8:12], uint32(b.Tid))
	binary.LittleEndian.PutUint64(buf[12:20], uint64(b.Event))
	binary.LittleEndian.PutUint64(buf[20:28], uint64(b.Ticks))
	binary.LittleEndian.PutUint64(buf[28:36], math.Float64bits(b.MonotonicSec))
	_, err := w.Write(buf[:])
	return err
}

func readBasicInfo(r io.Reader) (basicInfo, error) {
	var buf [basicInfoSize]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return basicInfo{}, err
	}
	return basicInfo{
		GlobalTime:   int64(binary.LittleEndian.Uint64(buf[0:8])),
		Tid:          int32(binary.LittleEndian.Uint32(buf[8:12])),
		Event:        int64(binary.LittleEndian.Uint64(buf[12:20])),
		Ticks:        int64(binary.LittleEndian.Uint64(buf[20:28])),
		MonotonicSec: math.Float64frombits(binary.LittleEndian.Uint64(buf[28:36])),
	}, nil
}

// writeFrame serializes a TraceFrame to w, following it with the optional
// register payload when the event carries HAS_EXEC_INFO.
func writeFrame(w io.Writer, f TraceFrame) error {
	info := basicInfo{
		GlobalTime:   int64(f.GlobalTime),
		Tid:          f.Tid,
		Event:        int64(f.Event),
		Ticks:        f.Ticks,
		MonotonicSec: f.MonotonicSec,
	}
	if err := writeBasicInfo(w, info); err != nil {
		return fmt.Errorf("writing frame header: %w", err)
	}
	if !f.Event.HasExecInfo() {
		return nil
	}
	if f.Regs == nil {
		return fmt.Errorf("frame has HAS_EXEC_INFO set but no register payload")
	}
	return writeRegisters(w, f.Regs)
}

func writeRegisters(w io.Writer, regs *Registers) error {
	if _, err := w.Write([]byte{byte(regs.Arch)}); err != nil {
		return fmt.Errorf("writing register architecture tag: %w", err)
	}
	want, ok := generalRegsSize[regs.Arch]
	if !ok {
		return fmt.Errorf("unknown register architecture %d", regs.Arch)
	}
	if len(regs.GeneralRegs) != want {
		return fmt.Errorf("general register block for arch %d must be %d bytes, got %d", regs.Arch, want, len(regs.GeneralRegs))
	}
	if _, err := w.Write(regs.GeneralRegs); err != nil {
		return fmt.Errorf("writing general register block: %w", err)
	}
	if _, err := w.Write([]byte{byte(regs.ExtraRegsFormat)}); err != nil {
		return fmt.Errorf("writing extra register format: %w", err)
	}
	var lenBuf [4]byte
	binary.LittleEndian.PutUint32(lenBuf[:], uint32(len(regs.ExtraRegs)))
	if _, err := w.Write(lenBuf[:]); err != nil {
		return fmt.Errorf("writing extra register length: %w", err)
	}
	if len(regs.ExtraRegs) > 0 {
		if _, err := w.Write(regs.ExtraRegs); err != nil {
			return fmt.Errorf("writing extra register block: %w", err)
		}
	}
	return nil
}

// readFrame is the inverse of writeFrame.
func readFrame(r io.Reader) (TraceFrame, error) {
	info, err := readBasicInfo(r)
	if err != nil {
		return TraceFrame{}, err
	}
	f := TraceFrame{
		GlobalTime:   FrameTime(info.GlobalTime),
		Tid:          info.Tid,
		Event:        EventCode(info.Event),
		Ticks:        info.Ticks,
		MonotonicSec: info.MonotonicSec,
	}
	if !f.Event.HasExecInfo() {
		return f, nil
	}
	regs, err := readRegisters(r)
	if err != nil {
		return TraceFrame{}, err
	}
	f.Regs = regs
	return f, nil
}

func readRegisters(r io.Reader) (*Registers, error) {
	var archByte [1]byte
	if _, err := io.ReadFull(r, archByte[:]); err != nil {
		return nil, fmt.Errorf("reading register architecture tag: %w", err)
	}
	arch := Arch(archByte[0])
	size, ok := generalRegsSize[arch]
	if !ok {
		return nil, fmt.Errorf("unknown register architecture %d", arch)
	}
	general := make([]byte, size)
	if _, err := io.ReadFull(r, general); err != nil {
		return nil, fmt.Errorf("reading general register block: %w", err)
	}
	var formatByte [1]byte
	if _, err := io.ReadFull(r, formatByte[:]); err != nil {
		return nil, fmt.Errorf("reading extra register format: %w", err)
	}
	var lenBuf [4]byte
	if _, err := io.ReadFull(r, lenBuf[:]); err != nil {
		return nil, fmt.Errorf("reading extra register length: %w", err)
	}
	extraLen := binary.LittleEndian.Uint32(lenBuf[:])
	var extra []byte
	if extraLen > 0 {
		extra = make([]byte, extraLen)
		if _, err := io.ReadFull(r, extra); err != nil {
			return nil, fmt.Errorf("reading extra register block: %w", err)
		}
	}
	return &Registers{
		Arch:            arch,
		GeneralRegs:     general,
		ExtraRegsFormat: ExtraRegsFormat(formatByte[0]),
		ExtraRegs:       extra,
	}, nil
}
