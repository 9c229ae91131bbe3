package api

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"github.com/adfharrison1/go-docstore/pkg/executor"
)

// Handler provides HTTP handlers for the query API
type Handler struct {
	evaluator *executor.Evaluator
	secrets   [][]byte
	logger    zerolog.Logger
}

// NewHandler creates a new API handler. Requests must present one of secrets
// as a bearer token.
func NewHandler(evaluator *executor.Evaluator, secrets []string, logger zerolog.Logger) *Handler {
	h := &Handler{
		evaluator: evaluator,
		logger:    logger,
	}
	for _, secret := range secrets {
		if secret != "" {
			h.secrets = append(h.secrets, []byte(secret))
		}
	}
	return h
}

// authorized checks the bearer token of a request against the known secrets
func (h *Handler) authorized(r *http.Request) bool {
	header := r.Header.Get("Authorization")
	token, found := strings.CutPrefix(header, "Bearer ")
	if !found || token == "" {
		return false
	}
	for _, secret := range h.secrets {
		if subtle.ConstantTimeCompare([]byte(token), secret) == 1 {
			return true
		}
	}
	return false
}
