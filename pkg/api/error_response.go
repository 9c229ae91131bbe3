package api

import (
	"net/http"

	"github.com/adfharrison1/go-docstore/pkg/domain"
	"github.com/adfharrison1/go-docstore/pkg/wire"
)

// WriteError writes the failure envelope for a backend error
func WriteError(w http.ResponseWriter, codec wire.Codec, be *domain.BackendError) {
	status := be.Status
	if status == 0 {
		status = domain.StatusForCode(be.Code)
	}

	body, err := codec.Marshal(wire.ErrorResponse{
		Errors: []wire.ErrorDetail{{Code: be.Code, Description: be.Description}},
	})
	if err != nil {
		http.Error(w, be.Error(), status)
		return
	}

	w.Header().Set("Content-Type", codec.ContentType())
	w.WriteHeader(status)
	w.Write(body)
}
