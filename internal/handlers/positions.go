package handlers

import (
	"net/http"

	"milkchess/internal/analysis"
)

type PositionHandler struct {
	svc *analysis.Service
}

func NewPositionHandler(svc *analysis.Service) *PositionHandler {
	return &PositionHandler{svc: svc}
}

// Request/Response types
type PositionRequest struct {
	Position string `json:"position,omitempty"`
	FEN      string `json:"fen,omitempty"`

	// History holds the game's earlier positions, oldest first. Only analyze
	// uses it, to detect threefold repetition.
	History []string `json:"history,omitempty"`
}

type MovesResponse struct {
	Positions []string `json:"positions"`
}

type StateResponse struct {
	State string `json:"state"`
}

type BatchRequest struct {
	Positions []string `json:"positions"`
}

type BatchResponse struct {
	Results []analysis.BatchResult `json:"results"`
}

type PerftRequest struct {
	Position string `json:"position,omitempty"`
	FEN      string `json:"fen,omitempty"`
	Depth    int    `json:"depth"`
}

// readPosition decodes a PositionRequest and resolves it to a position string.
func readPosition(w http.ResponseWriter, r *http.Request) (string, *PositionRequest, bool) {
	var req PositionRequest
	if err := decodeBody(w, r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return "", nil, false
	}
	position, err := analysis.ResolvePosition(req.Position, req.FEN)
	if err != nil {
		respondWithServiceError(w, err)
		return "", nil, false
	}
	return position, &req, true
}

// Analyze returns the full analysis of one position.
func (h *PositionHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	position, req, ok := readPosition(w, r)
	if !ok {
		return
	}
	result, err := h.svc.AnalyzeLine(r.Context(), position, req.History)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, result)
}

// Moves returns the position reached by each legal move.
func (h *PositionHandler) Moves(w http.ResponseWriter, r *http.Request) {
	position, _, ok := readPosition(w, r)
	if !ok {
		return
	}
	positions, err := h.svc.LegalMoves(r.Context(), position)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, MovesResponse{Positions: positions})
}

// State returns the state name of a position.
func (h *PositionHandler) State(w http.ResponseWriter, r *http.Request) {
	position, _, ok := readPosition(w, r)
	if !ok {
		return
	}
	state, err := h.svc.GameState(r.Context(), position)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, StateResponse{State: state})
}

// Batch analyses many positions; invalid entries carry their own error.
func (h *PositionHandler) Batch(w http.ResponseWriter, r *http.Request) {
	var req BatchRequest
	if err := decodeBody(w, r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if len(req.Positions) == 0 {
		respondWithError(w, http.StatusBadRequest, "positions is required")
		return
	}
	results, err := h.svc.AnalyzeBatch(r.Context(), req.Positions)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, BatchResponse{Results: results})
}

// Perft counts leaf nodes of the move tree, split by root move.
func (h *PositionHandler) Perft(w http.ResponseWriter, r *http.Request) {
	var req PerftRequest
	if err := decodeBody(w, r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	position, err := analysis.ResolvePosition(req.Position, req.FEN)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	result, err := h.svc.Perft(r.Context(), position, req.Depth)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, result)
}
