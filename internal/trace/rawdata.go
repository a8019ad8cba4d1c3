package trace

import (
	"encoding/binary"
	"io"
)

// RawDataHeader precedes every chunk of bytes in the RAW_DATA substream,
// itself stored in the RAW_DATA_HEADER substream (spec.md §3 "RAW_DATA /
// RAW_DATA_HEADER pairing"). Like TraceFrame's basicInfo, this is a raw
// fixed-layout struct dump rather than a schema-encoded message.
type RawDataHeader struct {
	GlobalTime FrameTime
	Addr       uint64
	Length     int64
}

const rawDataHeaderSize = 8 + 8 + 8

func writeRawDataHeader(w io.Writer, h RawDataHeader) error {
	var buf [rawDataHeaderSize]byte
	binary.LittleEndian.PutUint64(buf[0:8], uint64(h.GlobalTime))
	binary.LittleEndian.PutUint64(buf[8:16], h.Addr)
	binary.LittleEndian.PutUint64(buf[16:24], uint64(h.Length))
	_, err := w.Write(buf[:])
	return err
}

func readRawDataHeader(r io.Reader) (RawDataHeader, error) {
	var buf [rawDataHeaderSize]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return RawDataHeader{}, err
	}
	return RawDataHeader{
		GlobalTime: FrameTime(binary.LittleEndian.Uint64(buf[0:8])),
		Addr:       binary.LittleEndian.Uint64(buf[8:16]),
		Length:     int64(binary.LittleEndian.Uint64(buf[16:24])),
	}, nil
}

// GenericHeader precedes every blob in the GENERIC substream: (global_time,
// len), with the raw bytes immediately following in the same stream
// (spec.md §3 "generic" — "Compressed stream of (time, len, bytes)
// records").
type GenericHeader struct {
	GlobalTime FrameTime
	Length     int64
}

const genericHeaderSize = 8 + 8

func writeGenericHeader(w io.Writer, h GenericHeader) error {
	var buf [genericHeaderSize]byte
	binary.LittleEndian.PutUint64(buf[0:8], uint64(h.GlobalTime))
	binary.LittleEndian.PutUint64(buf[8:16], uint64(h.Length))
	_, err := w.Write(buf[:])
	return err
}

func readGenericHeader(r io.Reader) (GenericHeader, error) {
	var buf [genericHeaderSize]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return GenericHeader{}, err
	}
	return GenericHeader{
		GlobalTime: FrameTime(binary.LittleEndian.Uint64(buf[0:8])),
		Length:     int64(binary.LittleEndian.Uint64(buf[8:16])),
	}, nil
}
