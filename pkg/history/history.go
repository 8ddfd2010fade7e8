// Package history keeps a capped, ordered log of document snapshots and
// can diff any two of them. Snapshot identity is the xxhash of the
// content, so recording the same text twice in a row is a no-op.
package history

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/cespare/xxhash/v2"

	"github.com/bastiangx/editcore/pkg/diff"
)

// ErrNotFound is returned when a snapshot ID is not in the log.
var ErrNotFound = errors.New("history: snapshot not found")

// DefaultLimit is the snapshot cap when none is given.
const DefaultLimit = 100

// Snapshot is one recorded document state.
type Snapshot struct {
	ID        string    `json:"id" msgpack:"i"`
	Content   string    `json:"content" msgpack:"c"`
	Timestamp time.Time `json:"timestamp" msgpack:"t"`
}

// Log is an ordered snapshot log, oldest first. Not safe for concurrent
// mutation; callers serialize writes the same way they do for the
// completion index.
type Log struct {
	snapshots []Snapshot
	limit     int
	engine    *diff.Engine
}

// NewLog creates a log keeping at most limit snapshots; older ones fall
// off the front.
func NewLog(limit int) *Log {
	if limit < 1 {
		limit = DefaultLimit
	}
	return &Log{
		limit:  limit,
		engine: diff.NewEngine(),
	}
}

// ContentID returns the snapshot ID a given content would get.
func ContentID(content string) string {
	return strconv.FormatUint(xxhash.Sum64String(content), 16)
}

// Record appends a snapshot of content and returns it. When content is
// identical to the latest snapshot the existing one comes back instead.
func (l *Log) Record(content string) Snapshot {
	id := ContentID(content)
	if n := len(l.snapshots); n > 0 && l.snapshots[n-1].ID == id {
		return l.snapshots[n-1]
	}

	snap := Snapshot{
		ID:        id,
		Content:   content,
		Timestamp: time.Now().UTC(),
	}
	l.snapshots = append(l.snapshots, snap)
	if len(l.snapshots) > l.limit {
		l.snapshots = l.snapshots[len(l.snapshots)-l.limit:]
	}
	return snap
}

// Len returns the number of snapshots held.
func (l *Log) Len() int { return len(l.snapshots) }

// Latest returns the most recent snapshot.
func (l *Log) Latest() (Snapshot, bool) {
	if len(l.snapshots) == 0 {
		return Snapshot{}, false
	}
	return l.snapshots[len(l.snapshots)-1], true
}

// Get looks a snapshot up by ID.
func (l *Log) Get(id string) (Snapshot, bool) {
	for i := len(l.snapshots) - 1; i >= 0; i-- {
		if l.snapshots[i].ID == id {
			return l.snapshots[i], true
		}
	}
	return Snapshot{}, false
}

// Between diffs two recorded snapshots, older side left. Unknown IDs
// return ErrNotFound.
func (l *Log) Between(ctx context.Context, olderID, newerID string) (*diff.Result, error) {
	older, ok := l.Get(olderID)
	if !ok {
		return nil, ErrNotFound
	}
	newer, ok := l.Get(newerID)
	if !ok {
		return nil, ErrNotFound
	}
	return l.engine.Lines(ctx, older.Content, newer.Content)
}

// Snapshots returns a copy of the log, oldest first.
func (l *Log) Snapshots() []Snapshot {
	out := make([]Snapshot, len(l.snapshots))
	copy(out, l.snapshots)
	return out
}

// Restore replaces the log contents, trimming from the front if the
// input exceeds the cap.
func (l *Log) Restore(snaps []Snapshot) {
	if len(snaps) > l.limit {
		snaps = snaps[len(snaps)-l.limit:]
	}
	l.snapshots = make([]Snapshot, len(snaps))
	copy(l.snapshots, snaps)
}
