package handlers

import (
	"net/http"

	"github.com/sbilibin2017/gw-transfer-api/internal/middlewares"
	"github.com/sbilibin2017/gw-transfer-api/internal/models"
	"github.com/sbilibin2017/gw-transfer-api/internal/services"
)

// currentUser returns the authenticated user or writes a 401.
func currentUser(w http.ResponseWriter, r *http.Request) (*models.UserDB, bool) {
	user := middlewares.UserFromContext(r.Context())
	if user == nil {
		writeError(w, services.ErrUnauthenticated)
		return nil, false
	}
	return user, true
}

// NewMeHandler returns an HTTP handler describing the authenticated user.
// @Summary Current user
// @Tags auth
// @Produce json
// @Success 200 {object} models.UserDB "Current user"
// @Failure 401 {object} handlers.ErrorResponse "Unauthorized"
// @Router /auth/me [get]
// @Security BearerAuth
func NewMeHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := currentUser(w, r)
		if !ok {
			return
		}
		writeJSON(w, http.StatusOK, user)
	}
}
