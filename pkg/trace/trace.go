// Package trace is the public entry point into the trace stream engine: it
// re-exports the pieces of internal/trace a recorder or replayer needs to
// drive a trace, without exposing the substream plumbing itself.
package trace

import (
	"github.com/BioTurboNick/rr/internal/trace"
)

type (
	// FrameTime is the trace's logical clock.
	FrameTime = trace.FrameTime

	// Header describes the environment a trace was recorded in.
	Header = trace.Header

	// TraceFrame is one EVENTS substream record.
	TraceFrame = trace.TraceFrame

	// Registers is a frame's optional register payload.
	Registers = trace.Registers

	// Arch tags the CPU architecture a register payload was captured on.
	Arch = trace.Arch

	// ExtraRegsFormat tags the encoding of a frame's extra register block.
	ExtraRegsFormat = trace.ExtraRegsFormat

	// TaskEvent is one TASKS substream record.
	TaskEvent = trace.TaskEvent

	// CloneInfo, ExecInfo, and ExitInfo are the three TaskEvent variants.
	CloneInfo = trace.CloneInfo
	ExecInfo  = trace.ExecInfo
	ExitInfo  = trace.ExitInfo

	// MappedRegion is one MMAPS substream record.
	MappedRegion = trace.MappedRegion

	// StatSnapshot is the stat(2) snapshot recorded for FILE-backed
	// mappings.
	StatSnapshot = trace.StatSnapshot

	// RawDataHeader precedes a chunk of bytes in the RAW_DATA substream.
	RawDataHeader = trace.RawDataHeader

	// ClassifyInput describes a newly observed mapping to be classified
	// and recorded by Writer.WriteMappedRegion.
	ClassifyInput = trace.ClassifyInput

	// Writer records a trace.
	Writer = trace.Writer

	// Reader replays a trace.
	Reader = trace.Reader

	// CPUIDGetter supplies a trace header's CPUID leaves.
	CPUIDGetter = trace.CPUIDGetter
)

const (
	ArchX86     = trace.ArchX86
	ArchX86_64  = trace.ArchX86_64
	ArchAArch64 = trace.ArchAArch64

	ExtraRegsNone   = trace.ExtraRegsNone
	ExtraRegsXSave  = trace.ExtraRegsXSave
	ExtraRegsFPRegs = trace.ExtraRegsFPRegs
)

// NewWriter creates a fresh trace and opens it for recording.
func NewWriter(exeBasename string, header Header) (*Writer, error) {
	return trace.NewWriter(exeBasename, header)
}

// OpenReader opens an existing trace directory for replay.
func OpenReader(dir string) (*Reader, error) {
	return trace.OpenReader(dir)
}

// ResolveTraceDir turns an explicit path, or the empty string for "use the
// latest trace", into a concrete trace directory path.
func ResolveTraceDir(path string) (string, error) {
	return trace.ResolveTraceDir(path)
}

// SetCPUIDGetter installs the collaborator used to populate a trace
// header's CPUID records.
func SetCPUIDGetter(g CPUIDGetter) {
	trace.SetCPUIDGetter(g)
}

// NewHeaderForHost builds a Header describing the current host.
func NewHeaderForHost(bindToCPU, hasCPUIDFaulting bool) Header {
	return trace.NewHeaderForHost(bindToCPU, hasCPUIDFaulting)
}
