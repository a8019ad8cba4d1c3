package trace

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/BioTurboNick/rr/internal/assert"
)

func writeAllAndClose(t *testing.T, path string, blockSize, threads int, chunks [][]byte) {
	t.Helper()
	f, err := os.Create(path)
	assert.OK(t, err)

	w := newPipeWriter(f, blockSize, threads)
	for _, c := range chunks {
		_, err := w.Write(c)
		assert.OK(t, err)
	}
	assert.OK(t, w.Close())
}

func readAll(t *testing.T, r io.Reader, n int) []byte {
	t.Helper()
	buf := make([]byte, n)
	_, err := io.ReadFull(r, buf)
	assert.OK(t, err)
	return buf
}

func TestPipeRoundTripAcrossBlockBoundaries(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "stream")

	chunkA := make([]byte, 100)
	chunkB := make([]byte, 50)
	for i := range chunkA {
		chunkA[i] = byte(i)
	}
	for i := range chunkB {
		chunkB[i] = byte(200 + i)
	}

	// A tiny block size forces several compressed blocks across the two
	// writes, exercising the block-boundary-crossing Read path.
	writeAllAndClose(t, path, 32, 1, [][]byte{chunkA, chunkB})

	r, err := newPipeReader(path)
	assert.OK(t, err)
	defer r.Close()

	got := readAll(t, r, len(chunkA)+len(chunkB))
	assert.DeepEqual(t, got[:len(chunkA)], chunkA)
	assert.DeepEqual(t, got[len(chunkA):], chunkB)

	_, err = r.Read(make([]byte, 1))
	assert.Error(t, err, io.EOF)
}

func TestPipeConcurrentWriterPreservesOrder(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "stream")

	var chunks [][]byte
	for i := 0; i < 16; i++ {
		c := make([]byte, 40)
		for j := range c {
			c[j] = byte(i)
		}
		chunks = append(chunks, c)
	}

	// Multiple worker threads compress blocks out of order; the drain
	// goroutine must still land them on disk in submission order.
	writeAllAndClose(t, path, 16, 4, chunks)

	r, err := newPipeReader(path)
	assert.OK(t, err)
	defer r.Close()

	for _, want := range chunks {
		got := readAll(t, r, len(want))
		assert.DeepEqual(t, got, want)
	}
}

func TestPipeCheckpointAndRestore(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "stream")
	writeAllAndClose(t, path, 8, 1, [][]byte{[]byte("hello world, this is a test")})

	r, err := newPipeReader(path)
	assert.OK(t, err)
	defer r.Close()

	first := readAll(t, r, 5)
	assert.DeepEqual(t, first, []byte("hello"))

	cp, err := r.checkpoint()
	assert.OK(t, err)

	second := readAll(t, r, 7)
	assert.DeepEqual(t, second, []byte(" world,"))

	assert.OK(t, r.restore(cp))
	secondAgain := readAll(t, r, 7)
	assert.DeepEqual(t, secondAgain, []byte(" world,"))
}

func TestPipeCloneHasIndependentCursor(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "stream")
	writeAllAndClose(t, path, 8, 1, [][]byte{[]byte("0123456789")})

	r, err := newPipeReader(path)
	assert.OK(t, err)
	defer r.Close()

	_ = readAll(t, r, 3) // "012"

	clone, err := r.clone()
	assert.OK(t, err)
	defer clone.Close()

	// Advancing the clone must not move the original.
	cloneNext := readAll(t, clone, 3) // "345"
	assert.DeepEqual(t, cloneNext, []byte("345"))

	originalNext := readAll(t, r, 3)
	assert.DeepEqual(t, originalNext, []byte("345"))
}

func TestPipeRewind(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "stream")
	writeAllAndClose(t, path, 8, 1, [][]byte{[]byte("abcdef")})

	r, err := newPipeReader(path)
	assert.OK(t, err)
	defer r.Close()

	_ = readAll(t, r, 4)
	assert.OK(t, r.rewind())

	got := readAll(t, r, 6)
	assert.DeepEqual(t, got, []byte("abcdef"))
}

func TestPipeCorruptedBlockFailsChecksum(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "stream")
	writeAllAndClose(t, path, 8, 1, [][]byte{[]byte("corrupt me")})

	data, err := os.ReadFile(path)
	assert.OK(t, err)
	// The 8-byte block size splits the 10-byte payload into two blocks;
	// flipping the file's last byte corrupts the second compressed block,
	// past its 8-byte frame header.
	data[len(data)-1] ^= 0xff
	assert.OK(t, os.WriteFile(path, data, 0600))

	r, err := newPipeReader(path)
	assert.OK(t, err)
	defer r.Close()

	// Read the whole payload so the reader has to decode the second block.
	_, err = r.Read(make([]byte, len("corrupt me")))
	if err == nil {
		t.Fatal("expected a checksum error reading a corrupted block")
	}
}
