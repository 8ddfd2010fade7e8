package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/bastiangx/editcore/internal/logger"
	"github.com/bastiangx/editcore/internal/textutil"
	"github.com/bastiangx/editcore/pkg/complete"
	"github.com/bastiangx/editcore/pkg/config"
	"github.com/bastiangx/editcore/pkg/diff"
	"github.com/bastiangx/editcore/pkg/history"
	"github.com/bastiangx/editcore/pkg/match"
)

// Server handles the IPC for the editor core
type Server struct {
	cfg     *config.Config
	index   *complete.Index
	engine  *diff.Engine
	history *history.Log
	decoder *msgpack.Decoder
	encoder *msgpack.Encoder
	log     *log.Logger
}

// NewServer creates a server over stdin/stdout for IPC
func NewServer(cfg *config.Config) *Server {
	return NewServerOn(cfg, os.Stdin, os.Stdout)
}

// NewServerOn creates a server over an arbitrary stream pair, which is
// what the tests use.
func NewServerOn(cfg *config.Config, r io.Reader, w io.Writer) *Server {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	return &Server{
		cfg:     cfg,
		index:   complete.NewIndexWithLimit(cfg.Complete.MaxResults),
		engine:  diff.NewEngineWithThreshold(cfg.Diff.SimilarityThreshold),
		history: history.NewLog(cfg.Server.HistoryLimit),
		decoder: msgpack.NewDecoder(r),
		encoder: msgpack.NewEncoder(w),
		log:     logger.New("ipc"),
	}
}

// Index exposes the completion index, mainly so a caller can preload
// words before starting the loop.
func (s *Server) Index() *complete.Index { return s.index }

// Start begins decoding requests until the stream ends.
func (s *Server) Start() error {
	s.log.Debug("Starting server.")

	s.send(AckResponse{Status: "ready"})

	for {
		var req Request
		if err := s.decoder.Decode(&req); err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			s.log.Errorf("Decoding request: %v", err)
			return err
		}
		s.handle(req)
	}
}

func (s *Server) handle(req Request) {
	switch req.Op {
	case "search":
		s.handleSearch(req)
	case "complete":
		s.handleComplete(req)
	case "fuzzy":
		s.handleFuzzy(req)
	case "insert":
		s.index.Insert(req.Word)
		s.send(AckResponse{ID: req.ID, Status: "ok"})
	case "remove":
		if s.index.Remove(req.Word) {
			s.send(AckResponse{ID: req.ID, Status: "ok"})
		} else {
			s.send(AckResponse{ID: req.ID, Status: "absent"})
		}
	case "diff":
		s.handleDiff(req)
	case "record":
		snap := s.history.Record(req.Text)
		s.send(AckResponse{ID: req.ID, Status: "ok", SnapshotID: snap.ID})
	case "between":
		s.handleBetween(req)
	case "stats":
		s.send(StatsResponse{ID: req.ID, Index: s.index.Stats(), History: s.history.Len()})
	case "health":
		s.send(AckResponse{ID: req.ID, Status: "ok"})
	default:
		s.sendError(req.ID, fmt.Sprintf("Unknown op: %s", req.Op), 400)
	}
}

func (s *Server) handleSearch(req Request) {
	if !s.checkTextSize(req.ID, req.Text) {
		return
	}

	caseSensitive := s.cfg.Search.CaseSensitive
	if req.CaseSensitive != nil {
		caseSensitive = *req.CaseSensitive
	}
	wholeWord := s.cfg.Search.WholeWord
	if req.WholeWord != nil {
		wholeWord = *req.WholeWord
	}

	start := time.Now()
	resp := SearchResponse{ID: req.ID}

	if len(req.Patterns) > 0 {
		found, err := s.multiSearch(req, caseSensitive)
		if err != nil {
			s.sendError(req.ID, err.Error(), 500)
			return
		}
		if wholeWord {
			found = filterWholePattern(req.Text, found)
		}
		resp.ByPattern = found
		resp.Count = len(found)
	} else {
		algo := match.Algorithm(req.Algorithm)
		if algo == "" {
			algo = match.Algorithm(s.cfg.Search.DefaultAlgorithm)
		}
		m, err := match.New(algo, req.Pattern, caseSensitive)
		if err != nil {
			s.sendError(req.ID, err.Error(), 400)
			return
		}
		found, err := m.FindAll(context.Background(), req.Text)
		if err != nil {
			s.sendError(req.ID, err.Error(), 500)
			return
		}
		if wholeWord {
			found = filterWhole(req.Text, found)
		}
		resp.Matches = found
		resp.Count = len(found)
	}

	resp.TimeTaken = time.Since(start).Microseconds()
	s.send(resp)
}

// multiSearch picks the multi pattern engine: rabin-karp when asked for,
// aho-corasick otherwise.
func (s *Server) multiSearch(req Request, caseSensitive bool) ([]match.PatternMatch, error) {
	var m match.MultiMatcher
	if match.Algorithm(req.Algorithm) == match.AlgoRabinKarp {
		m = match.NewRabinKarpWithParams(req.Patterns, caseSensitive,
			uint64(s.cfg.Search.HashBase), uint64(s.cfg.Search.HashModulus))
	} else {
		m = match.NewAhoCorasick(req.Patterns, caseSensitive)
	}
	return m.FindAll(context.Background(), req.Text)
}

func filterWhole(text string, in []match.Match) []match.Match {
	out := in[:0]
	for _, m := range in {
		if textutil.IsWordBoundary(text, m.Index, m.Length) {
			out = append(out, m)
		}
	}
	return out
}

func filterWholePattern(text string, in []match.PatternMatch) []match.PatternMatch {
	out := in[:0]
	for _, m := range in {
		if textutil.IsWordBoundary(text, m.Index, m.Length) {
			out = append(out, m)
		}
	}
	return out
}

func (s *Server) handleComplete(req Request) {
	limit := req.Limit
	if limit < 1 {
		limit = s.cfg.Complete.MaxResults
	}

	start := time.Now()
	suggestions := s.index.SearchPrefix(req.Prefix)
	if len(suggestions) > limit {
		suggestions = suggestions[:limit]
	}

	s.send(CompleteResponse{
		ID:          req.ID,
		Suggestions: suggestions,
		Count:       len(suggestions),
		TimeTaken:   time.Since(start).Microseconds(),
	})
}

func (s *Server) handleFuzzy(req Request) {
	if req.Prefix == "" {
		s.sendError(req.ID, "Missing 'pr' parameter", 400)
		s.log.Debug("Fuzzy query is empty in request")
		return
	}

	maxDistance := s.cfg.Complete.MaxFuzzyDistance
	if req.MaxDistance != nil {
		maxDistance = *req.MaxDistance
	}

	start := time.Now()
	matches, err := s.index.FuzzySearch(context.Background(), req.Prefix, maxDistance)
	if err != nil {
		s.sendError(req.ID, err.Error(), 500)
		return
	}

	s.send(FuzzyResponse{
		ID:        req.ID,
		Matches:   matches,
		Count:     len(matches),
		TimeTaken: time.Since(start).Microseconds(),
	})
}

func (s *Server) handleDiff(req Request) {
	if !s.checkTextSize(req.ID, req.Left) || !s.checkTextSize(req.ID, req.Right) {
		return
	}

	start := time.Now()
	resp := DiffResponse{ID: req.ID}
	ctx := context.Background()

	switch req.Mode {
	case "", "lines":
		res, err := s.engine.Lines(ctx, req.Left, req.Right)
		if err != nil {
			s.sendError(req.ID, err.Error(), 500)
			return
		}
		resp.Lines = res.Lines
		resp.Stats = &res.Stats
	case "unified":
		res, err := s.engine.Lines(ctx, req.Left, req.Right)
		if err != nil {
			s.sendError(req.ID, err.Error(), 500)
			return
		}
		resp.Unified = diff.Unified(res, "left", "right")
		resp.Stats = &res.Stats
	case "words":
		spans, err := s.engine.Words(ctx, req.Left, req.Right)
		if err != nil {
			s.sendError(req.ID, err.Error(), 500)
			return
		}
		resp.Spans = spans
	case "chars":
		spans, err := s.engine.Characters(ctx, req.Left, req.Right)
		if err != nil {
			s.sendError(req.ID, err.Error(), 500)
			return
		}
		resp.Spans = spans
	default:
		s.sendError(req.ID, fmt.Sprintf("Unknown diff mode: %s", req.Mode), 400)
		return
	}

	resp.TimeTaken = time.Since(start).Microseconds()
	s.send(resp)
}

func (s *Server) handleBetween(req Request) {
	res, err := s.history.Between(context.Background(), req.OlderID, req.NewerID)
	if err != nil {
		if errors.Is(err, history.ErrNotFound) {
			s.sendError(req.ID, err.Error(), 404)
		} else {
			s.sendError(req.ID, err.Error(), 500)
		}
		return
	}
	s.send(DiffResponse{ID: req.ID, Lines: res.Lines, Stats: &res.Stats})
}

func (s *Server) checkTextSize(id, text string) bool {
	if limit := s.cfg.Server.MaxTextBytes; limit > 0 && len(text) > limit {
		s.sendError(id, fmt.Sprintf("Text exceeds maximum size of %d bytes", limit), 400)
		s.log.Debugf("Oversized text in request: %d bytes", len(text))
		return false
	}
	return true
}

func (s *Server) send(response interface{}) {
	if err := s.encoder.Encode(response); err != nil {
		s.log.Errorf("Encoding response: %v", err)
	}
}

func (s *Server) sendError(id, message string, code int) {
	s.send(ErrorResponse{ID: id, Error: message, Code: code})
}
