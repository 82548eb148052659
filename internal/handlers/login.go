package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/sbilibin2017/gw-transfer-api/internal/models"
	"github.com/sbilibin2017/gw-transfer-api/internal/services"
)

//go:generate mockgen -source=login.go -destination=login_mock.go -package=handlers

// Loginer defines the interface that the login service must implement.
type Loginer interface {
	Login(ctx context.Context, username, password string) (*models.AccessToken, error)
}

// NewTokenHandler returns an HTTP handler issuing access tokens for
// form-encoded credentials.
// @Summary Obtain an access token
// @Description Authenticate with username and password and return a bearer token
// @Tags auth
// @Accept x-www-form-urlencoded
// @Produce json
// @Param username formData string true "Username"
// @Param password formData string true "Password"
// @Success 200 {object} models.AccessToken "Access token"
// @Failure 400 {object} handlers.ErrorResponse "Invalid form / inactive user"
// @Failure 401 {object} handlers.ErrorResponse "Incorrect username or password"
// @Failure 500 {object} handlers.ErrorResponse "Internal server error"
// @Router /auth/token [post]
func NewTokenHandler(svc Loginer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			writeErrorMessage(w, http.StatusBadRequest, "invalid form body")
			return
		}

		username := r.PostForm.Get("username")
		password := r.PostForm.Get("password")
		if username == "" || password == "" {
			writeErrorMessage(w, http.StatusBadRequest, "username and password are required")
			return
		}

		token, err := svc.Login(r.Context(), username, password)
		if err != nil {
			if errors.Is(err, services.ErrInactiveUser) {
				writeErrorMessage(w, http.StatusBadRequest, err.Error())
				return
			}
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, token)
	}
}
