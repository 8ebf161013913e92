// Package analysis turns position strings into analyses, caching results in
// a store.Store.
package analysis

import (
	"context"
	"errors"
	"fmt"
	"log"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"milkchess/internal/game"
	"milkchess/internal/models"
	"milkchess/internal/store"
)

var (
	ErrDepthOutOfRange = errors.New("perft depth out of range")
	ErrBatchTooLarge   = errors.New("batch too large")
	ErrNoPosition      = errors.New("position or fen is required")
)

// Options bounds the work a single request may ask for.
type Options struct {
	MaxPerftDepth int
	BatchWorkers  int
	MaxBatchSize  int
}

type Service struct {
	store store.Store
	opts  Options
	now   func() time.Time
}

func NewService(s store.Store, opts Options) *Service {
	if s == nil {
		s = store.Nop{}
	}
	if opts.BatchWorkers < 1 {
		opts.BatchWorkers = 1
	}
	return &Service{store: s, opts: opts, now: time.Now}
}

// ResolvePosition returns the position string for a request carrying either
// a position string or a FEN. The position wins when both are set.
func ResolvePosition(position, fen string) (string, error) {
	switch {
	case position != "":
		if _, err := game.DecodePosition(position); err != nil {
			return "", err
		}
		return position, nil
	case fen != "":
		b, err := game.ParseFEN(fen)
		if err != nil {
			return "", err
		}
		return b.Position(), nil
	}
	return "", ErrNoPosition
}

// Analyze returns the analysis of position, from the cache when possible.
// Cache failures are logged and never fail the request.
func (s *Service) Analyze(ctx context.Context, position string) (*models.Analysis, error) {
	b, err := game.DecodePosition(position)
	if err != nil {
		return nil, err
	}

	cached, err := s.store.Get(ctx, position)
	if err == nil {
		return cached, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		log.Printf("[Store] Cache lookup failed for %s: %v", position, err)
	}

	analysis := s.build(b)
	if err := s.store.Put(ctx, analysis); err != nil {
		log.Printf("[Store] Cache write failed for %s: %v", position, err)
	}
	return analysis, nil
}

// AnalyzeLine analyses position as the latest position of a game whose earlier
// positions are history, oldest first. A third occurrence of the position
// yields a threefold_repetition draw reason unless the position is already
// drawn or lost.
func (s *Service) AnalyzeLine(ctx context.Context, position string, history []string) (*models.Analysis, error) {
	for i, pos := range history {
		if _, err := game.DecodePosition(pos); err != nil {
			return nil, fmt.Errorf("history[%d]: %w", i, err)
		}
	}

	analysis, err := s.Analyze(ctx, position)
	if err != nil || len(history) == 0 {
		return analysis, err
	}

	line := append(slices.Clip(history), position)
	out := *analysis
	out.Repetitions = game.CountRepetitions(line, position)
	if out.DrawReason == "" && !out.IsTerminal && game.IsThreefoldRepetition(line, position) {
		out.DrawReason = string(game.DrawByThreefoldRepetition)
	}
	return &out, nil
}

func (s *Service) build(b *game.Board) *models.Analysis {
	state := b.ClassifyState()
	moves := b.GenerateLegalMoves()

	analysis := &models.Analysis{
		ID:         uuid.NewString(),
		Position:   b.Position(),
		FEN:        b.FEN(),
		SideToMove: strings.ToLower(b.SideToMove.String()),
		State:      state.String(),
		InCheck:    state.Status == game.Check || state.Status == game.Checkmate,
		IsTerminal: state.IsTerminal(),
		Moves:      make([]models.AnalyzedMove, 0, len(moves)),
		MoveCount:  len(moves),
		CreatedAt:  s.now(),
	}
	if reason, drawn := b.AutomaticDraw(); drawn {
		analysis.DrawReason = string(reason)
	}

	for _, a := range moves {
		m := models.AnalyzedMove{
			UCI:  a.String(),
			SAN:  b.SAN(a),
			Type: a.Type.String(),
		}
		switch {
		case a.Type == game.EnPassant:
			m.Captured = game.Pawn.String()
		case a.IsCapture():
			m.Captured = a.Captured.Kind().String()
		}

		b.Apply(a)
		m.Position = b.Position()
		b.Undo(a)

		analysis.Moves = append(analysis.Moves, m)
	}
	return analysis
}

// LegalMoves returns the position reached by each legal move.
func (s *Service) LegalMoves(ctx context.Context, position string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return game.LegalPositions(position)
}

// GameState returns the state name of position.
func (s *Service) GameState(ctx context.Context, position string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	state, err := game.PositionState(position)
	if err != nil {
		return "", err
	}
	return state.String(), nil
}

// BatchResult is the outcome for one position of a batch. Exactly one of
// Analysis and Error is set.
type BatchResult struct {
	Position string           `json:"position"`
	Analysis *models.Analysis `json:"analysis,omitempty"`
	Error    string           `json:"error,omitempty"`
}

// AnalyzeBatch analyses positions concurrently, each worker on its own board.
// Invalid positions are reported per entry; only cancellation fails the batch.
func (s *Service) AnalyzeBatch(ctx context.Context, positions []string) ([]BatchResult, error) {
	if s.opts.MaxBatchSize > 0 && len(positions) > s.opts.MaxBatchSize {
		return nil, fmt.Errorf("%w: %d positions, limit is %d", ErrBatchTooLarge, len(positions), s.opts.MaxBatchSize)
	}

	results := make([]BatchResult, len(positions))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.opts.BatchWorkers)

	for i, pos := range positions {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i].Position = pos
			analysis, err := s.Analyze(gctx, pos)
			if err != nil {
				results[i].Error = err.Error()
				return nil
			}
			results[i].Analysis = analysis
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	log.Printf("[Analysis] Batch of %d positions done", len(positions))
	return results, nil
}

// PerftResult is a perft count split by root move.
type PerftResult struct {
	Depth  int               `json:"depth"`
	Nodes  int64             `json:"nodes"`
	Divide []game.PerftEntry `json:"divide"`
}

// Perft counts leaf nodes to depth, checking ctx between root moves.
func (s *Service) Perft(ctx context.Context, position string, depth int) (*PerftResult, error) {
	if depth < 1 || (s.opts.MaxPerftDepth > 0 && depth > s.opts.MaxPerftDepth) {
		return nil, fmt.Errorf("%w: %d (max %d)", ErrDepthOutOfRange, depth, s.opts.MaxPerftDepth)
	}
	b, err := game.DecodePosition(position)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	result := &PerftResult{Depth: depth}
	for _, a := range b.GenerateLegalMoves() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		b.Apply(a)
		nodes := b.Perft(depth - 1)
		b.Undo(a)

		result.Nodes += nodes
		result.Divide = append(result.Divide, game.PerftEntry{Move: a.String(), Nodes: nodes})
	}

	log.Printf("[Analysis] Perft depth %d: %d nodes in %v", depth, result.Nodes, time.Since(start))
	return result, nil
}
