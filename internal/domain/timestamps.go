// Package domain defines the entities stored and served by the notes server.
package domain

import "time"

// Timestamps is embedded by entities that track creation and modification times.
// Values are kept in UTC so they round-trip through storage unchanged.
type Timestamps struct {
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// InitTimestamps sets CreatedAt and UpdatedAt to now.
func (t *Timestamps) InitTimestamps() {
	now := Now()
	t.CreatedAt = now
	t.UpdatedAt = now
}

// Touch refreshes UpdatedAt.
func (t *Timestamps) Touch() {
	t.UpdatedAt = Now()
}

// Now returns the current UTC time.
func Now() time.Time {
	return time.Now().UTC()
}
