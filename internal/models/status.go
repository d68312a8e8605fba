package models

// Status is the lifecycle state of a video project.
type Status string

const (
	StatusUploading  Status = "uploading"
	StatusAnalyzing  Status = "analyzing"
	StatusPlanning   Status = "planning"
	StatusGenerating Status = "generating"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
)

// forward edges of the status graph
var nextStatus = map[Status]Status{
	StatusUploading:  StatusAnalyzing,
	StatusAnalyzing:  StatusPlanning,
	StatusPlanning:   StatusGenerating,
	StatusGenerating: StatusProcessing,
	StatusProcessing: StatusCompleted,
}

// IsTerminal reports whether no further status transition is allowed.
func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

func (s Status) Valid() bool {
	switch s {
	case StatusUploading, StatusAnalyzing, StatusPlanning,
		StatusGenerating, StatusProcessing, StatusCompleted, StatusFailed:
		return true
	}
	return false
}

// CanTransition reports whether moving from one status to another follows
// the project lifecycle: each state advances to its successor, and any
// non-terminal state may fail. Re-running an earlier stage (e.g. a second
// analyze on a planning project) re-enters that stage, so a step back to
// the restarted stage's own status is also legal as long as the project
// is not terminal.
func CanTransition(from, to Status) bool {
	if from.IsTerminal() {
		return false
	}
	if to == StatusFailed {
		return true
	}
	if nextStatus[from] == to {
		return true
	}
	// stage restart: analyzing and generating may be re-entered from any
	// later non-terminal state
	if to == StatusAnalyzing || to == StatusGenerating {
		return true
	}
	return false
}
