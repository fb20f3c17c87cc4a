package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/ideahub-dev/ideahub/internal/domain"
	mw "github.com/ideahub-dev/ideahub/internal/middleware"
)

// parseIntParam parses an integer parameter from a string and returns a meaningful error
func parseIntParam(param string, paramName string) (int, error) {
	val, err := strconv.Atoi(param)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: must be an integer", paramName)
	}
	return val, nil
}

// idParam extracts an int64 id from the chi route.
func idParam(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: must be an integer", name)
	}
	return id, nil
}

// requester returns the authenticated user or writes 401.
func requester(w http.ResponseWriter, r *http.Request) (*domain.User, bool) {
	user := mw.GetUserFromContext(r)
	if user == nil {
		http.Error(w, "Not authorized", http.StatusUnauthorized)
		return nil, false
	}
	return user, true
}
