package api

import (
	"errors"
	"io"
	"net/http"

	"github.com/adfharrison1/go-docstore/pkg/domain"
	"github.com/adfharrison1/go-docstore/pkg/wire"
)

// maxQueryBytes bounds the size of a query body
const maxQueryBytes = 16 << 20

// HandleQuery evaluates one query expression and answers with its result
// wrapped in the success envelope, or with the failure envelope.
func (h *Handler) HandleQuery(w http.ResponseWriter, r *http.Request) {
	codec := wire.ByContentType(r.Header.Get("Content-Type"))

	if !h.authorized(r) {
		h.logger.Warn().Str("remote", r.RemoteAddr).Msg("rejected query with invalid secret")
		WriteError(w, codec, &domain.BackendError{
			Code:        domain.CodeUnauthorized,
			Description: "invalid or missing secret",
		})
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxQueryBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			WriteError(w, codec, &domain.BackendError{Code: domain.CodeInvalidArgument, Description: "query body too large", Status: http.StatusRequestEntityTooLarge})
			return
		}
		WriteError(w, codec, &domain.BackendError{Code: domain.CodeInvalidExpression, Description: "could not read query body"})
		return
	}

	var expr interface{}
	if err := codec.Unmarshal(body, &expr); err != nil {
		h.logger.Debug().Err(err).Msg("undecodable query body")
		WriteError(w, codec, &domain.BackendError{Code: domain.CodeInvalidExpression, Description: err.Error()})
		return
	}

	result, err := h.evaluator.Evaluate(r.Context(), expr)
	if err != nil {
		be := domain.ToBackendError(err)
		h.logger.Debug().Str("code", be.Code).Str("description", be.Description).Msg("query failed")
		WriteError(w, codec, be)
		return
	}

	payload, err := codec.Marshal(wire.Response{Resource: result})
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to encode query result")
		WriteError(w, codec, &domain.BackendError{Code: domain.CodeInternal, Description: "could not encode result"})
		return
	}

	w.Header().Set("Content-Type", codec.ContentType())
	w.WriteHeader(http.StatusOK)
	w.Write(payload)
}
