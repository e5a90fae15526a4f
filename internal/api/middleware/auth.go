package middleware

import (
	"context"
	"errors"
	"log"
	"net/http"

	"taskboard/internal/common"
	"taskboard/internal/common/security"
	"taskboard/internal/domain/model"
	"taskboard/internal/domain/repository"

	"github.com/go-chi/jwtauth/v5"
)

type contextKey string

const (
	UserIDCtxKey   contextKey = "userID"
	UserRoleCtxKey contextKey = "userRole"
)

// One message for every authentication failure. Distinguishing malformed
// from expired from unknown-user would hand probers an oracle.
const authFailedMsg = "Invalid or missing authorization token"

// Authenticator resolves the bearer token to an acting identity. The role
// is looked up from the credential store on every request rather than read
// from the token, so role changes apply immediately and tokens for deleted
// users stop working.
func Authenticator(userRepo repository.UserRepository) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, claims, err := jwtauth.FromContext(r.Context())
			if err != nil || token == nil {
				common.RespondWithError(w, http.StatusUnauthorized, authFailedMsg)
				return
			}

			userID, err := security.GetUserIDFromClaims(claims)
			if err != nil {
				common.RespondWithError(w, http.StatusUnauthorized, authFailedMsg)
				return
			}

			user, err := userRepo.FindByID(r.Context(), userID)
			if err != nil {
				if !errors.Is(err, common.ErrNotFound) {
					log.Printf("ERROR: failed to resolve user %s: %v", userID, err)
				}
				common.RespondWithError(w, http.StatusUnauthorized, authFailedMsg)
				return
			}

			ctx := context.WithValue(r.Context(), UserIDCtxKey, user.ID)
			ctx = context.WithValue(ctx, UserRoleCtxKey, user.Role)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func AdminOnly(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		role, ok := r.Context().Value(UserRoleCtxKey).(string)
		if !ok || role != model.RoleAdmin {
			common.RespondWithError(w, http.StatusForbidden, "Admin access required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Helper to get user ID from context
func GetUserIDFromContext(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(UserIDCtxKey).(string)
	return userID, ok
}

// Helper to get user role from context
func GetUserRoleFromContext(ctx context.Context) (string, bool) {
	userRole, ok := ctx.Value(UserRoleCtxKey).(string)
	return userRole, ok
}
