package models

import "time"

// Analysis is the full picture of one position: its state and every legal
// move with the position it leads to. It is cached by position string.
type Analysis struct {
	ID         string `json:"id" bson:"_id"`
	Position   string `json:"position" bson:"position"`
	FEN        string `json:"fen" bson:"fen"`
	SideToMove string `json:"sideToMove" bson:"sideToMove"` // "white" or "black"

	// State is Playing, CheckBlack, CheckWhite, CheckmateBlack,
	// CheckmateWhite or Stalemate.
	State      string `json:"state" bson:"state"`
	InCheck    bool   `json:"inCheck" bson:"inCheck"`
	IsTerminal bool   `json:"isTerminal" bson:"isTerminal"`
	DrawReason string `json:"drawReason,omitempty" bson:"drawReason,omitempty"`

	// Repetitions counts occurrences of the position in the game history sent
	// with the request, this one included. Set per request, never cached.
	Repetitions int `json:"repetitions,omitempty" bson:"-"`

	Moves     []AnalyzedMove `json:"moves" bson:"moves"`
	MoveCount int            `json:"moveCount" bson:"moveCount"`
	CreatedAt time.Time      `json:"createdAt" bson:"createdAt"`
}

// AnalyzedMove is one legal move of an analysed position.
type AnalyzedMove struct {
	UCI      string `json:"uci" bson:"uci"`           // coordinate notation, e.g. "e2e4"
	SAN      string `json:"san" bson:"san"`           // standard algebraic notation, e.g. "e4"
	Type     string `json:"type" bson:"type"`         // Move, Capture, Castle...
	Position string `json:"position" bson:"position"` // resulting position string
	Captured string `json:"captured,omitempty" bson:"captured,omitempty"`
}
