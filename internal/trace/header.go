package trace

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	flatbuffers "github.com/google/flatbuffers/go"

	"github.com/BioTurboNick/rr/format"
	"github.com/BioTurboNick/rr/format/tracefmt"
)

// FrameTime is the trace's logical clock, shared by all six substreams
// (spec.md §2 "global_time"). It only ever increases.
type FrameTime int64

// CPUIDGetter supplies the raw CPUID leaves captured for a trace's header.
// The engine treats this as an injected collaborator: producing CPUID
// records is a host/recorder concern (spec.md §1 Non-goals), not something
// the trace stream engine computes itself.
type CPUIDGetter interface {
	CPUIDRecords() []byte
}

// Header is the one-per-trace record written to the version file,
// describing the environment the trace was recorded in.
type Header struct {
	BindToCPU        bool
	HasCPUIDFaulting bool
	CPUIDRecords     []byte
	UUID             format.UUID
}

// boolToInt32 encodes bind_to_cpu the way spec.md's schema types it
// (i32, not bool) while letting Header keep the natural Go bool type.
func boolToInt32(b bool) int32 {
	if b {
		return 1
	}
	return 0
}

// writeVersionFile writes the version file at the root of a trace
// directory: an ASCII decimal version number followed by a newline, then a
// size-prefixed, schema-encoded Header message (spec.md §4.C, §9 "Mixed
// serialization").
func writeVersionFile(dir string, h Header) error {
	f, err := os.Create(versionFilePath(dir))
	if err != nil {
		return fmt.Errorf("creating version file: %w", err)
	}
	defer f.Close()

	if _, err := fmt.Fprintf(f, "%d\n", format.Version); err != nil {
		return fmt.Errorf("writing version number: %w", err)
	}

	builder := flatbuffers.NewBuilder(256)
	cpuidOff := builder.CreateByteVector(h.CPUIDRecords)
	uuidBytes := h.UUID[:]
	uuidOff := builder.CreateByteVector(uuidBytes)

	tracefmt.HeaderStart(builder)
	tracefmt.HeaderAddBindToCpu(builder, boolToInt32(h.BindToCPU))
	tracefmt.HeaderAddHasCpuidFaulting(builder, h.HasCPUIDFaulting)
	tracefmt.HeaderAddCpuidRecords(builder, cpuidOff)
	tracefmt.HeaderAddUuid(builder, uuidOff)
	headerOff := tracefmt.HeaderEnd(builder)
	tracefmt.FinishSizePrefixedHeaderBuffer(builder, headerOff)

	if _, err := f.Write(builder.FinishedBytes()); err != nil {
		return fmt.Errorf("writing header message: %w", err)
	}
	return nil
}

// readVersionFile is the inverse of writeVersionFile. It returns
// format.ExitDataErr wrapped around the underlying cause whenever the file
// is missing, malformed, or carries a version other than format.Version,
// per spec.md §7.
func readVersionFile(dir string) (Header, error) {
	f, err := os.Open(versionFilePath(dir))
	if err != nil {
		return Header{}, fmt.Errorf("%w: opening version file: %v", format.ExitDataErr, err)
	}
	defer f.Close()

	br := bufio.NewReader(f)
	line, err := br.ReadString('\n')
	if err != nil {
		return Header{}, fmt.Errorf("%w: reading version line: %v", format.ExitDataErr, err)
	}
	version, err := strconv.Atoi(strings.TrimSpace(line))
	if err != nil {
		return Header{}, fmt.Errorf("%w: parsing version line: %v", format.ExitDataErr, err)
	}
	if version != format.Version {
		return Header{}, fmt.Errorf("%w: trace version %d does not match supported version %d", format.ExitDataErr, version, format.Version)
	}

	rest, err := io.ReadAll(br)
	if err != nil {
		return Header{}, fmt.Errorf("%w: reading header message: %v", format.ExitDataErr, err)
	}
	if len(rest) < flatbuffers.SizeUint32 {
		return Header{}, fmt.Errorf("%w: header message truncated", format.ExitDataErr)
	}

	h := tracefmt.GetSizePrefixedRootAsHeader(rest, 0)
	var hdr Header
	hdr.BindToCPU = h.BindToCpu() != 0
	hdr.HasCPUIDFaulting = h.HasCpuidFaulting()
	hdr.CPUIDRecords = append([]byte(nil), h.CpuidRecordsBytes()...)
	uuidBytes := h.UuidBytes()
	if len(uuidBytes) != len(hdr.UUID) {
		return Header{}, fmt.Errorf("%w: header uuid has %d bytes, want %d", format.ExitDataErr, len(uuidBytes), len(hdr.UUID))
	}
	copy(hdr.UUID[:], uuidBytes)
	return hdr, nil
}
