package trace

import (
	"encoding/binary"
	"fmt"
	"io"

	flatbuffers "github.com/google/flatbuffers/go"
)

// writeMessage writes a size-prefixed schema-encoded message (as produced
// by one of format/tracefmt's FinishSizePrefixed*Buffer helpers) to w. The
// TASKS and MMAPS substreams are sequences of these messages back to back;
// this is the schema-encoded counterpart to writeFrame's raw-struct framing
// (spec.md §9 "Mixed serialization").
func writeMessage(w io.Writer, buf []byte) error {
	_, err := w.Write(buf)
	return err
}

// readMessage reads one size-prefixed message from r, returning the full
// buffer (size prefix included) ready for a tracefmt GetSizePrefixedRootAsX
// accessor.
func readMessage(r io.Reader) ([]byte, error) {
	var sizeBuf [flatbuffers.SizeUint32]byte
	if _, err := io.ReadFull(r, sizeBuf[:]); err != nil {
		return nil, err
	}
	size := binary.LittleEndian.Uint32(sizeBuf[:])
	buf := make([]byte, flatbuffers.SizeUint32+int(size))
	copy(buf, sizeBuf[:])
	if _, err := io.ReadFull(r, buf[flatbuffers.SizeUint32:]); err != nil {
		return nil, fmt.Errorf("reading message body: %w", err)
	}
	return buf, nil
}
