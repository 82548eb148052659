package middlewares

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/sbilibin2017/gw-transfer-api/internal/logger"
	"github.com/sbilibin2017/gw-transfer-api/internal/models"
	"github.com/sbilibin2017/gw-transfer-api/internal/services"
)

//go:generate mockgen -source=auth.go -destination=auth_mock.go -package=middlewares

// Tokener extracts the bearer token from a request.
type Tokener interface {
	GetTokenFromRequest(ctx context.Context, r *http.Request) (string, error)
}

// Authenticator resolves a token to the user it was issued for.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*models.UserDB, error)
}

type authContextKey int

const (
	userKey authContextKey = iota
	tokenKey
)

// UserFromContext returns the authenticated user, nil outside AuthMiddleware.
func UserFromContext(ctx context.Context) *models.UserDB {
	user, _ := ctx.Value(userKey).(*models.UserDB)
	return user
}

// TokenFromContext returns the raw bearer token of the request.
func TokenFromContext(ctx context.Context) string {
	token, _ := ctx.Value(tokenKey).(string)
	return token
}

// WithUser stores user and token in ctx the way AuthMiddleware does.
func WithUser(ctx context.Context, user *models.UserDB, token string) context.Context {
	ctx = context.WithValue(ctx, userKey, user)
	return context.WithValue(ctx, tokenKey, token)
}

// AuthMiddleware rejects requests without a valid, non-revoked bearer token
// and passes the resolved user downstream.
func AuthMiddleware(tokener Tokener, auth Authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			tokenString, err := tokener.GetTokenFromRequest(ctx, r)
			if err != nil {
				logger.Log.Debugw("authorization failed", "err", err)
				unauthorized(w)
				return
			}

			user, err := auth.Authenticate(ctx, tokenString)
			if err != nil {
				if services.KindOf(err) == services.KindUnauthenticated {
					logger.Log.Debugw("authorization failed", "err", err)
					unauthorized(w)
					return
				}
				logger.Log.Errorw("authentication error", "err", err)
				writeJSONError(w, http.StatusInternalServerError, "Internal server error")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUser(ctx, user, tokenString)))
		})
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("WWW-Authenticate", "Bearer")
	writeJSONError(w, http.StatusUnauthorized, services.ErrUnauthenticated.Error())
}

func writeJSONError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(errorResponse{Error: msg})
}
