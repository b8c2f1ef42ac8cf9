// Package clock provides the wall clock used outside tests.
package clock

import (
	"time"

	"github.com/iho/ledgerdash/internal/usecase"
)

// SystemClock reads the current time in a fixed location.
type SystemClock struct {
	loc *time.Location
}

// New creates a SystemClock. A nil loc means time.Local.
func New(loc *time.Location) *SystemClock {
	if loc == nil {
		loc = time.Local
	}
	return &SystemClock{loc: loc}
}

// Now returns the current time.
func (c *SystemClock) Now() time.Time {
	return time.Now().In(c.loc)
}

var _ usecase.Clock = (*SystemClock)(nil)
