// Package controllers holds the HTTP handlers. They stay thin: bind and
// validate the payload, call one service method, translate the result into
// the response envelope.
package controllers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/EdwardBKTay/online-shopping-platform-backend-clone/pkg/apperr"
	"github.com/EdwardBKTay/online-shopping-platform-backend-clone/pkg/middleware"
	"github.com/EdwardBKTay/online-shopping-platform-backend-clone/pkg/response"
)

// respondError maps a service error onto the HTTP envelope.
func respondError(w http.ResponseWriter, err error) {
	response.Error(w, apperr.Status(err), apperr.Detail(err))
}

// identity pulls the authenticated identity injected by the auth middleware.
// Routes behind middleware.Auth always have one; the ok path guards tests
// that hit a handler directly.
func identity(w http.ResponseWriter, r *http.Request) (middleware.Identity, bool) {
	id, ok := middleware.IdentityFromCtx(r.Context())
	if !ok {
		response.Unauthorized(w)
	}
	return id, ok
}

// pathID parses a numeric {param} from the route.
func pathID(r *http.Request, param string) (uint, error) {
	raw := chi.URLParam(r, param)
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, apperr.Newf(apperr.ErrValidation, "Invalid %s", param)
	}
	return uint(id), nil
}

// pageParams reads ?page= and ?limit= with sane defaults.
func pageParams(r *http.Request) (page, limit int) {
	page, _ = strconv.Atoi(r.URL.Query().Get("page"))
	limit, _ = strconv.Atoi(r.URL.Query().Get("limit"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return page, limit
}
