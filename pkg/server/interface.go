/*
Package server implements msgpack IPC for the editor core services.

The server exposes pattern search, completion, diffing and document
history over a single stream, by default stdin/stdout. The protocol uses
binary msgpack encoding; messages are processed synchronously with timing
info included in responses.

# IPC

Each request carries an ID field, an op selector and the fields that op
needs. A search request looks like:

	{"id": "req_001", "op": "search", "x": "the text", "p": "text", "a": "kmp"}

The server responds with match offsets and microsecond timing:

	{"id": "req_001", "m": [{"i": 4, "l": 4}], "c": 1, "t": 87}

Completion requests reuse the same envelope:

	{"id": "req_002", "op": "complete", "pr": "fun", "l": 10}
	{"id": "req_003", "op": "fuzzy", "pr": "functon", "md": 2}

Diff ops take both documents inline and can return structured entries or
unified text:

	{"id": "req_004", "op": "diff", "dl": "a\nb", "dr": "a\nc", "dm": "lines"}

History ops record snapshots and diff two recorded revisions by ID:

	{"id": "req_005", "op": "record", "x": "document body"}
	{"id": "req_006", "op": "between", "ol": "1a2b", "nw": "3c4d"}

Response structures include status information and error details when an
op fails. Unknown ops and oversized texts come back as errors with a 400
code, internal failures as 500.

# Message Types

Request is the single envelope for every op. Response types are per op:
SearchResponse, CompleteResponse, FuzzyResponse, DiffResponse,
StatsResponse and AckResponse, plus ErrorResponse for failures.

msgpack encoding has ~30 to 50% smaller message sizes compared to JSON.
binary format enables faster parsing and generation, less errors and
reducing latency in editor round trips.
*/
package server

import (
	"github.com/bastiangx/editcore/pkg/complete"
	"github.com/bastiangx/editcore/pkg/diff"
	"github.com/bastiangx/editcore/pkg/match"
)

// Request - single IPC envelope, op selects the operation
type Request struct {
	ID string `msgpack:"id"`
	Op string `msgpack:"op"`

	// search fields
	Text          string   `msgpack:"x,omitempty"`
	Pattern       string   `msgpack:"p,omitempty"`
	Patterns      []string `msgpack:"ps,omitempty"`
	Algorithm     string   `msgpack:"a,omitempty"`
	CaseSensitive *bool    `msgpack:"cs,omitempty"`
	WholeWord     *bool    `msgpack:"ww,omitempty"`

	// completion fields
	Prefix      string `msgpack:"pr,omitempty"`
	Word        string `msgpack:"w,omitempty"`
	Limit       int    `msgpack:"l,omitempty"`
	MaxDistance *int   `msgpack:"md,omitempty"`

	// diff fields
	Left  string `msgpack:"dl,omitempty"`
	Right string `msgpack:"dr,omitempty"`
	Mode  string `msgpack:"dm,omitempty"` // "lines", "words", "chars", "unified"

	// history fields
	OlderID string `msgpack:"ol,omitempty"`
	NewerID string `msgpack:"nw,omitempty"`
}

// SearchResponse - match offsets for single or multi pattern search
type SearchResponse struct {
	ID        string               `msgpack:"id"`
	Matches   []match.Match        `msgpack:"m,omitempty"`
	ByPattern []match.PatternMatch `msgpack:"mp,omitempty"`
	Count     int                  `msgpack:"c"`
	TimeTaken int64                `msgpack:"t"`
}

// CompleteResponse - ranked prefix completions
type CompleteResponse struct {
	ID          string                `msgpack:"id"`
	Suggestions []complete.Suggestion `msgpack:"s"`
	Count       int                   `msgpack:"c"`
	TimeTaken   int64                 `msgpack:"t"`
}

// FuzzyResponse - fuzzy completion candidates with edit distances
type FuzzyResponse struct {
	ID        string                `msgpack:"id"`
	Matches   []complete.FuzzyMatch `msgpack:"s"`
	Count     int                   `msgpack:"c"`
	TimeTaken int64                 `msgpack:"t"`
}

// DiffResponse - structured entries or unified text depending on mode
type DiffResponse struct {
	ID        string      `msgpack:"id"`
	Lines     []diff.Line `msgpack:"ln,omitempty"`
	Spans     []diff.Span `msgpack:"sp,omitempty"`
	Stats     *diff.Stats `msgpack:"st,omitempty"`
	Unified   string      `msgpack:"u,omitempty"`
	TimeTaken int64       `msgpack:"t"`
}

// StatsResponse - index shape plus history depth
type StatsResponse struct {
	ID      string         `msgpack:"id"`
	Index   complete.Stats `msgpack:"ix"`
	History int            `msgpack:"h"`
}

// AckResponse - status for mutations and health checks
type AckResponse struct {
	ID         string `msgpack:"id"`
	Status     string `msgpack:"status"`
	SnapshotID string `msgpack:"sid,omitempty"`
}

// ErrorResponse holds basic error information for failed requests
type ErrorResponse struct {
	ID    string `msgpack:"id"`
	Error string `msgpack:"e"`
	Code  int    `msgpack:"c"`
}
