package trace

import (
	"bytes"
	"testing"

	"github.com/BioTurboNick/rr/internal/assert"
)

func TestEventCodeHasExecInfo(t *testing.T) {
	var e EventCode
	assert.Equal(t, e.HasExecInfo(), false)

	e = e.WithExecInfo(true)
	assert.Equal(t, e.HasExecInfo(), true)

	e = e.WithExecInfo(false)
	assert.Equal(t, e.HasExecInfo(), false)
}

func TestWriteReadFrameWithoutRegisters(t *testing.T) {
	want := TraceFrame{
		GlobalTime:   42,
		Tid:          1234,
		Event:        EventCode(6),
		Ticks:        99,
		MonotonicSec: 1.5,
	}

	var buf bytes.Buffer
	assert.OK(t, writeFrame(&buf, want))

	got, err := readFrame(&buf)
	assert.OK(t, err)
	assert.DeepEqual(t, got, want)
}

func TestWriteReadFrameWithRegisters(t *testing.T) {
	want := TraceFrame{
		GlobalTime: 100,
		Tid:        5,
		Event:      EventCode(0).WithExecInfo(true),
		Ticks:      10,
		Regs: &Registers{
			Arch:            ArchX86_64,
			GeneralRegs:     bytes.Repeat([]byte{0xab}, generalRegsSize[ArchX86_64]),
			ExtraRegsFormat: ExtraRegsXSave,
			ExtraRegs:       []byte{1, 2, 3, 4},
		},
	}

	var buf bytes.Buffer
	assert.OK(t, writeFrame(&buf, want))

	got, err := readFrame(&buf)
	assert.OK(t, err)
	assert.DeepEqual(t, got, want)
}

func TestWriteFrameRejectsMissingRegistersWhenFlagged(t *testing.T) {
	f := TraceFrame{Event: EventCode(0).WithExecInfo(true)}
	var buf bytes.Buffer
	if err := writeFrame(&buf, f); err == nil {
		t.Fatal("expected an error writing a frame with HAS_EXEC_INFO but no registers")
	}
}

func TestWriteRegistersRejectsWrongSizedGeneralBlock(t *testing.T) {
	var buf bytes.Buffer
	err := writeRegisters(&buf, &Registers{Arch: ArchX86_64, GeneralRegs: []byte{1, 2, 3}})
	if err == nil {
		t.Fatal("expected an error writing a mis-sized general register block")
	}
}

func TestMultipleFramesReadBackInOrder(t *testing.T) {
	frames := []TraceFrame{
		{GlobalTime: 1, Tid: 1, Event: EventCode(2)},
		{GlobalTime: 2, Tid: 1, Event: EventCode(4)},
		{GlobalTime: 3, Tid: 2, Event: EventCode(6)},
	}

	var buf bytes.Buffer
	for _, f := range frames {
		assert.OK(t, writeFrame(&buf, f))
	}

	for _, want := range frames {
		got, err := readFrame(&buf)
		assert.OK(t, err)
		assert.DeepEqual(t, got, want)
	}
}
