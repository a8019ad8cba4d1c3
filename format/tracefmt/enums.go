// Code generated manually from tracefmt.fbs; mirrors the layout flatc would
// produce. Do not normalize towards a different serialization discipline;
// the byte layout here is part of the on-disk trace format.
package tracefmt

// BackingSource discriminates how a mapped region's bytes are stored.
type BackingSource int8

const (
	BackingSourceZero  BackingSource = 0
	BackingSourceTrace BackingSource = 1
	BackingSourceFile  BackingSource = 2
)

func (v BackingSource) String() string {
	switch v {
	case BackingSourceZero:
		return "Zero"
	case BackingSourceTrace:
		return "Trace"
	case BackingSourceFile:
		return "File"
	default:
		return "Unknown"
	}
}

// TaskEventType discriminates the variant carried by a TaskEvent record.
type TaskEventType int8

const (
	TaskEventTypeNone  TaskEventType = 0
	TaskEventTypeClone TaskEventType = 1
	TaskEventTypeExec  TaskEventType = 2
	TaskEventTypeExit  TaskEventType = 3
)

func (v TaskEventType) String() string {
	switch v {
	case TaskEventTypeNone:
		return "None"
	case TaskEventTypeClone:
		return "Clone"
	case TaskEventTypeExec:
		return "Exec"
	case TaskEventTypeExit:
		return "Exit"
	default:
		return "Unknown"
	}
}
