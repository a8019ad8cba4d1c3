package trace

import (
	"bufio"
	"bytes"
	"io"
	"os"
	"testing"

	"github.com/google/uuid"

	"github.com/BioTurboNick/rr/format"
	"github.com/BioTurboNick/rr/internal/assert"
)

func overwriteFirstLine(path, line string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	br := bufio.NewReader(bytes.NewReader(data))
	if _, err := br.ReadString('\n'); err != nil {
		return err
	}
	rest, err := io.ReadAll(br)
	if err != nil {
		return err
	}
	return os.WriteFile(path, append([]byte(line), rest...), 0600)
}

func TestWriteReadVersionFileRoundTrip(t *testing.T) {
	dir := t.TempDir()
	want := Header{
		BindToCPU:        true,
		HasCPUIDFaulting: false,
		CPUIDRecords:     []byte{1, 2, 3, 4, 5},
		UUID:             uuid.New(),
	}

	assert.OK(t, writeVersionFile(dir, want))

	got, err := readVersionFile(dir)
	assert.OK(t, err)
	assert.DeepEqual(t, got, want)
}

func TestReadVersionFileRejectsWrongVersion(t *testing.T) {
	dir := t.TempDir()
	assert.OK(t, writeVersionFile(dir, Header{UUID: uuid.New()}))

	// Corrupt only the version line, leaving the header message intact.
	path := versionFilePath(dir)
	assert.OK(t, overwriteFirstLine(path, "1\n"))

	_, err := readVersionFile(dir)
	assert.Error(t, err, format.ExitDataErr)
}

func TestReadVersionFileRejectsMissingFile(t *testing.T) {
	_, err := readVersionFile(t.TempDir())
	assert.Error(t, err, format.ExitDataErr)
}

func TestNewHeaderForHostUsesInstalledCPUIDGetter(t *testing.T) {
	SetCPUIDGetter(fakeCPUIDGetter{records: []byte{9, 9, 9}})
	defer SetCPUIDGetter(nil)

	h := NewHeaderForHost(true, true)
	assert.DeepEqual(t, h.CPUIDRecords, []byte{9, 9, 9})
	assert.Equal(t, h.BindToCPU, true)
	assert.Equal(t, h.HasCPUIDFaulting, true)
}

type fakeCPUIDGetter struct{ records []byte }

func (f fakeCPUIDGetter) CPUIDRecords() []byte { return f.records }
