package driven

import "time"

// Clock supplies timestamps for history entries.
type Clock interface {
	Now() time.Time
}
