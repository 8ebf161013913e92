package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"milkchess/internal/analysis"
	"milkchess/internal/game"
)

// maxBodyBytes bounds request bodies; a full batch is well under this.
const maxBodyBytes = 1 << 20

type ErrorResponse struct {
	Error string `json:"error"`
}

func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, ErrorResponse{Error: message})
}

func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		log.Printf("Failed to marshal response: %v", err)
		code = http.StatusInternalServerError
		response = []byte(`{"error":"internal error"}`)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}

// decodeBody decodes a JSON request body into v, rejecting unknown fields.
func decodeBody(w http.ResponseWriter, r *http.Request, v interface{}) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

// statusFor maps a service error to an HTTP status.
func statusFor(err error) int {
	switch {
	case errors.Is(err, game.ErrInvalidPosition),
		errors.Is(err, game.ErrInvalidFEN),
		errors.Is(err, analysis.ErrNoPosition),
		errors.Is(err, analysis.ErrDepthOutOfRange):
		return http.StatusBadRequest
	case errors.Is(err, analysis.ErrBatchTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

func respondWithServiceError(w http.ResponseWriter, err error) {
	code := statusFor(err)
	if code == http.StatusInternalServerError {
		log.Printf("[Analysis] Request failed: %v", err)
		respondWithError(w, code, "internal error")
		return
	}
	respondWithError(w, code, err.Error())
}
