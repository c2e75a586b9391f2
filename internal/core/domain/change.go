package domain

import "time"

// ChangeOp is the kind of change observed on a watched file.
type ChangeOp string

// Observed change kinds.
const (
	// ChangeWrite means the file was created or its content changed.
	ChangeWrite ChangeOp = "write"

	// ChangeRemove means the file was removed or renamed away.
	ChangeRemove ChangeOp = "remove"
)

// FileChange is a coalesced notification about one watched path.
type FileChange struct {
	Path string
	Op   ChangeOp
	At   time.Time
}
