package api

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/phrazzld/tasklog-api/internal/api/shared"
	"github.com/phrazzld/tasklog-api/internal/domain"
)

// getPathUUID extracts a UUID from the URL path parameters.
// A missing or malformed value yields domain.ErrInvalidID.
func getPathUUID(r *http.Request, paramName string) (uuid.UUID, error) {
	raw := chi.URLParam(r, paramName)
	if raw == "" {
		return uuid.Nil, fmt.Errorf("%w: %s is required", domain.ErrInvalidID, paramName)
	}

	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %s has invalid format", domain.ErrInvalidID, paramName)
	}
	return id, nil
}

// queryInt returns the integer query parameter name, or 0 when it is absent
// or not a number. Zero selects the caller's default.
func queryInt(r *http.Request, name string) int {
	v, err := strconv.Atoi(r.URL.Query().Get(name))
	if err != nil {
		return 0
	}
	return v
}

// pageFromQuery reads the page and limit query parameters.
func pageFromQuery(r *http.Request) domain.PageRequest {
	return domain.PageRequest{
		Page:  queryInt(r, "page"),
		Limit: queryInt(r, "limit"),
	}
}

// decodeBody decodes the JSON request body into v, tagging decode failures
// so they map to 400 (or 413 for an oversize body).
func decodeBody(r *http.Request, v interface{}) error {
	if err := shared.DecodeJSON(r, v); err != nil {
		if shared.IsBodyTooLarge(err) {
			return err
		}
		return fmt.Errorf("%w: %w", errBadRequestBody, err)
	}
	return nil
}

// identityFromRequest returns the identity placed by the auth middleware.
func identityFromRequest(r *http.Request) *domain.Identity {
	id, _ := shared.IdentityFromContext(r.Context())
	return id
}
