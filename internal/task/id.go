package task

import "github.com/oklog/ulid/v2"

// NewID returns a new lexically sortable task id. Safe for concurrent use.
func NewID() string {
	return ulid.Make().String()
}
