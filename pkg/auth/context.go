package auth

import (
	"context"

	apperrors "buildflow-backend/pkg/errors"
)

type contextKey string

const userContextKey contextKey = "user_context"

// UserContext carries the authenticated user's identity through a
// request.
type UserContext struct {
	UserID string
	Email  string
	Roles  []string
}

// SetUserInContext attaches the user context to a request context.
func SetUserInContext(ctx context.Context, user *UserContext) context.Context {
	return context.WithValue(ctx, userContextKey, user)
}

// GetUserFromContext extracts the user context set by the auth
// middleware.
func GetUserFromContext(ctx context.Context) (*UserContext, error) {
	user, ok := ctx.Value(userContextKey).(*UserContext)
	if !ok || user == nil || user.UserID == "" {
		return nil, apperrors.NewUnauthorizedError("no authenticated user in context")
	}
	return user, nil
}
