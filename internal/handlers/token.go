package handlers

import (
	"net/http"
	"strings"

	"milkchess/internal/audit"
	"milkchess/internal/auth"
)

type TokenHandler struct {
	clients    *auth.ClientRegistry
	jwtService *auth.JWTService
	audit      *audit.Logger
}

func NewTokenHandler(clients *auth.ClientRegistry, jwtService *auth.JWTService, auditLog *audit.Logger) *TokenHandler {
	return &TokenHandler{
		clients:    clients,
		jwtService: jwtService,
		audit:      auditLog,
	}
}

type TokenRequest struct {
	Client string `json:"client"`
	Secret string `json:"secret"`
}

type TokenResponse struct {
	AccessToken string `json:"accessToken"`
	TokenType   string `json:"tokenType"`
	ExpiresIn   int    `json:"expiresIn"` // seconds
}

// IssueToken exchanges a client name and secret for an access token.
func (h *TokenHandler) IssueToken(w http.ResponseWriter, r *http.Request) {
	var req TokenRequest
	if err := decodeBody(w, r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	req.Client = strings.TrimSpace(req.Client)
	if req.Client == "" || req.Secret == "" {
		respondWithError(w, http.StatusBadRequest, "Client and secret are required")
		return
	}

	if err := h.clients.Authenticate(req.Client, req.Secret); err != nil {
		h.audit.LogEvent(audit.EventTokenDenied, req.Client, r, "invalid credentials")
		respondWithError(w, http.StatusUnauthorized, "Invalid client or secret")
		return
	}

	token, err := h.jwtService.GenerateAccessToken(req.Client)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to generate token")
		return
	}
	h.audit.LogEvent(audit.EventTokenIssued, req.Client, r, "")

	respondWithJSON(w, http.StatusOK, TokenResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   int(h.jwtService.GetAccessTTL().Seconds()),
	})
}
