// Package format declares the on-disk contract of a trace: its version,
// its exit codes, and the small set of scalar types shared by every
// substream's schema.
package format

import (
	"fmt"

	"github.com/google/uuid"
)

// UUID identifies a single trace, generated once at trace creation.
type UUID = uuid.UUID

// Version is the current on-disk trace format version. A reader rejects
// any trace whose version file does not contain exactly this integer.
const Version = 85

// ExitCode is an error type carrying the process exit status that should be
// used when the error reaches the top of a command-line program. The trace
// engine itself never calls os.Exit; callers decide whether to honor the
// code.
type ExitCode int

// ExitDataErr is returned for a missing, malformed, or version-mismatched
// trace, following the UNIX EX_DATAERR convention.
const ExitDataErr ExitCode = 65

func (e ExitCode) Error() string {
	return fmt.Sprintf("exit status %d", int(e))
}

// FileDataCloneFileName returns the reserved name of a per-task file-data
// clone segment. The helper only fixes the naming convention; producing and
// consuming these segments is a recorder-side concern outside this engine.
func FileDataCloneFileName(tid int32, serial int) string {
	return fmt.Sprintf("cloned_data_%d_%d", tid, serial)
}
