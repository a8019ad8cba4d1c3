package trace

import (
	"encoding/binary"
	"fmt"
	"hash/crc32"
	"io"
	"os"
	"sync"

	"github.com/klauspost/compress/zstd"
	"golang.org/x/sync/errgroup"

	"github.com/BioTurboNick/rr/internal/buffer"
)

// This file implements component B, the stream adapter: it bridges between
// the schema/raw-struct message I/O used by the writer and reader cores and
// a compressed byte-pipe on disk. Each substream gets its own pipe; blocks
// are compressed by a worker pool sized by the substream's thread count,
// but frames always land on disk in submission order, matching the
// compressed byte-pipe contract in spec.md §5. Reading decodes blocks one
// at a time, in order, with a single decoder.

var castagnoli = crc32.MakeTable(crc32.Castagnoli)

// frameHeaderSize is the length of (compressed-length, crc32) preceding
// every compressed block on disk.
const frameHeaderSize = 8

var blockBufferPool buffer.Pool

type blockResult struct {
	data []byte
	err  error
}

// pipeWriter is the write side of a substream's compressed byte-pipe.
type pipeWriter struct {
	file      *os.File
	blockSize int

	buf []byte

	group *errgroup.Group
	queue chan chan blockResult
	done  chan error

	encPool sync.Pool

	closeOnce sync.Once
	closeErr  error
}

func newPipeWriter(file *os.File, blockSize, threads int) *pipeWriter {
	if threads < 1 {
		threads = 1
	}
	group := new(errgroup.Group)
	group.SetLimit(threads)
	w := &pipeWriter{
		file:      file,
		blockSize: blockSize,
		group:     group,
		queue:     make(chan chan blockResult, threads*2),
		done:      make(chan error, 1),
	}
	go w.drain()
	return w
}

func (w *pipeWriter) drain() {
	var drainErr error
	for fut := range w.queue {
		r := <-fut
		if drainErr != nil {
			continue
		}
		if r.err != nil {
			drainErr = r.err
			continue
		}
		if err := writeBlockFrame(w.file, r.data); err != nil {
			drainErr = err
		}
	}
	w.done <- drainErr
}

// Write buffers p, submitting filled blocks to the worker pool as they fill
// up. Writes are never short; a failure is only observed at Close.
func (w *pipeWriter) Write(p []byte) (int, error) {
	total := len(p)
	for len(p) > 0 {
		free := w.blockSize - len(w.buf)
		n := len(p)
		if n > free {
			n = free
		}
		w.buf = append(w.buf, p[:n]...)
		p = p[n:]
		if len(w.buf) >= w.blockSize {
			w.submitBlock()
		}
	}
	return total, nil
}

func (w *pipeWriter) submitBlock() {
	block := w.buf
	w.buf = nil
	fut := make(chan blockResult, 1)
	w.queue <- fut
	w.group.Go(func() error {
		data, err := w.compress(block)
		fut <- blockResult{data: data, err: err}
		return nil
	})
}

func (w *pipeWriter) compress(block []byte) ([]byte, error) {
	e, _ := w.encPool.Get().(*zstd.Encoder)
	if e == nil {
		var err error
		e, err = zstd.NewWriter(nil,
			zstd.WithEncoderCRC(false),
			zstd.WithEncoderConcurrency(1),
			zstd.WithEncoderLevel(zstd.SpeedFastest),
		)
		if err != nil {
			return nil, err
		}
	}
	defer w.encPool.Put(e)
	return e.EncodeAll(block, nil), nil
}

// Close flushes any partial block and waits for all workers to finish.
// It is safe to call more than once; later calls return the result of the
// first call.
func (w *pipeWriter) Close() error {
	w.closeOnce.Do(func() {
		if len(w.buf) > 0 {
			w.submitBlock()
		}
		close(w.queue)
		err := <-w.done
		if gerr := w.group.Wait(); err == nil {
			err = gerr
		}
		if cerr := w.file.Close(); err == nil {
			err = cerr
		}
		w.closeErr = err
	})
	return w.closeErr
}

func writeBlockFrame(w io.Writer, compressed []byte) error {
	var hdr [frameHeaderSize]byte
	binary.LittleEndian.PutUint32(hdr[0:4], uint32(len(compressed)))
	binary.LittleEndian.PutUint32(hdr[4:8], crc32.Checksum(compressed, castagnoli))
	if _, err := w.Write(hdr[:]); err != nil {
		return fmt.Errorf("writing substream block header: %w", err)
	}
	if _, err := w.Write(compressed); err != nil {
		return fmt.Errorf("writing substream block: %w", err)
	}
	return nil
}

// pipeReader is the read side of a substream's compressed byte-pipe.
type pipeReader struct {
	path string
	file *os.File

	block    []byte
	blockPos int

	atEOF bool
	dec   *zstd.Decoder
}

func newPipeReader(path string) (*pipeReader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	dec, err := zstd.NewReader(nil, zstd.IgnoreChecksum(true), zstd.WithDecoderConcurrency(1))
	if err != nil {
		f.Close()
		return nil, err
	}
	return &pipeReader{path: path, file: f, dec: dec}, nil
}

// Read implements io.Reader, transparently crossing block boundaries.
func (r *pipeReader) Read(p []byte) (int, error) {
	n := 0
	for n < len(p) {
		if r.blockPos >= len(r.block) {
			if err := r.fill(); err != nil {
				if n > 0 && err == io.EOF {
					return n, nil
				}
				return n, err
			}
		}
		c := copy(p[n:], r.block[r.blockPos:])
		r.blockPos += c
		n += c
	}
	return n, nil
}

func (r *pipeReader) fill() error {
	if r.atEOF {
		return io.EOF
	}
	var hdr [frameHeaderSize]byte
	if _, err := io.ReadFull(r.file, hdr[:]); err != nil {
		if err == io.EOF {
			r.atEOF = true
			return io.EOF
		}
		return fmt.Errorf("reading substream block header: %w", err)
	}
	length := binary.LittleEndian.Uint32(hdr[0:4])
	sum := binary.LittleEndian.Uint32(hdr[4:8])

	buf := blockBufferPool.Get(int(length))
	if _, err := io.ReadFull(r.file, buf.Data); err != nil {
		blockBufferPool.Put(buf)
		return fmt.Errorf("reading substream block: %w", err)
	}
	if crc32.Checksum(buf.Data, castagnoli) != sum {
		blockBufferPool.Put(buf)
		return fmt.Errorf("substream block checksum mismatch in %s", r.path)
	}
	decoded, err := r.dec.DecodeAll(buf.Data, nil)
	blockBufferPool.Put(buf)
	if err != nil {
		return fmt.Errorf("decompressing substream block: %w", err)
	}
	r.block = decoded
	r.blockPos = 0
	return nil
}

// pipeCheckpoint captures enough of a pipeReader's state to restore it
// later, without requiring the decompressor itself to support save/restore.
type pipeCheckpoint struct {
	fileOffset int64
	block      []byte
	blockPos   int
	atEOF      bool
}

func (r *pipeReader) checkpoint() (pipeCheckpoint, error) {
	off, err := r.file.Seek(0, io.SeekCurrent)
	if err != nil {
		return pipeCheckpoint{}, err
	}
	return pipeCheckpoint{
		fileOffset: off,
		block:      append([]byte(nil), r.block...),
		blockPos:   r.blockPos,
		atEOF:      r.atEOF,
	}, nil
}

func (r *pipeReader) restore(cp pipeCheckpoint) error {
	if _, err := r.file.Seek(cp.fileOffset, io.SeekStart); err != nil {
		return err
	}
	r.block = cp.block
	r.blockPos = cp.blockPos
	r.atEOF = cp.atEOF
	return nil
}

// rewind resets the reader to the very beginning of the substream.
func (r *pipeReader) rewind() error {
	if _, err := r.file.Seek(0, io.SeekStart); err != nil {
		return err
	}
	r.block = nil
	r.blockPos = 0
	r.atEOF = false
	return nil
}

// clone opens an independent file descriptor on the same substream file,
// seeded with a copy of the current decoded block so the clone observes the
// same next bytes without re-decoding from the start.
func (r *pipeReader) clone() (*pipeReader, error) {
	cp, err := r.checkpoint()
	if err != nil {
		return nil, err
	}
	c, err := newPipeReader(r.path)
	if err != nil {
		return nil, err
	}
	if err := c.restore(cp); err != nil {
		c.Close()
		return nil, err
	}
	return c, nil
}

func (r *pipeReader) Close() error {
	return r.file.Close()
}

// atStreamEOF reports whether every byte of the substream has been
// consumed. On a freshly opened or exhausted-block reader that hasn't
// attempted a read yet, it fills once to learn whether the underlying
// file is actually at EOF.
func (r *pipeReader) atStreamEOF() bool {
	if !r.atEOF && r.blockPos >= len(r.block) {
		r.fill()
	}
	return r.atEOF && r.blockPos >= len(r.block)
}
