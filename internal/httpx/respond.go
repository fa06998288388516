// Package httpx holds the small amount of glue the HTTP programmatic API
// needs that doesn't belong to any one domain package: JSON responses and
// the error-taxonomy-to-status-code mapping from SPEC_FULL.md §4.9.
package httpx

import (
	"encoding/json"
	"net/http"

	gwerrors "github.com/kishhcodes/cloudgate/pkg/shared/errors"
)

// JSON writes v as a JSON response body with status.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

type errorBody struct {
	Error string `json:"error"`
	Kind  string `json:"kind,omitempty"`
	Hint  string `json:"hint,omitempty"`
}

// Error writes err as a JSON error body, choosing the HTTP status from the
// gwerrors.Kind it carries, or 500 if it carries none.
func Error(w http.ResponseWriter, err error) {
	kind := gwerrors.KindOf(err)
	body := errorBody{Error: err.Error(), Kind: string(kind)}

	status := http.StatusInternalServerError
	switch kind {
	case gwerrors.KindValidation:
		status = http.StatusUnprocessableEntity
	case gwerrors.KindAuth:
		status = http.StatusUnauthorized
		body.Hint = "check the provider CLI's configured credentials"
	case gwerrors.KindState:
		status = http.StatusConflict
	case gwerrors.KindResourceExhausted:
		status = http.StatusTooManyRequests
	case gwerrors.KindTimeout:
		status = http.StatusGatewayTimeout
	case gwerrors.KindHandlerMissing:
		status = http.StatusUnprocessableEntity
	case gwerrors.KindHandlerError, gwerrors.KindExecution:
		status = http.StatusBadGateway
	}
	JSON(w, status, body)
}

// DecodeJSON decodes r's body into v, returning a ValidationError-kind error
// on malformed JSON.
func DecodeJSON(r *http.Request, v any) error {
	defer r.Body.Close()
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return gwerrors.Wrap(gwerrors.KindValidation, "decode request body", err)
	}
	return nil
}
