package auth

import (
	"context"

	"github.com/doctorazi/blogdesk/internal/model"
)

// ContextKey is a type for context keys to avoid collisions
type ContextKey string

const (
	ContextKeyUserID  ContextKey = "userID"
	ContextKeySession ContextKey = "session"
)

func ContextWithUserID(ctx context.Context, userID model.UserID) context.Context {
	return context.WithValue(ctx, ContextKeyUserID, userID)
}

func UserIDFromContext(ctx context.Context) (model.UserID, bool) {
	userID, ok := ctx.Value(ContextKeyUserID).(model.UserID)
	return userID, ok && userID != ""
}

// ContextWithSession stores the caller's backend session token so outbound
// requests can be made on the caller's behalf.
func ContextWithSession(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, ContextKeySession, token)
}

func SessionFromContext(ctx context.Context) (string, bool) {
	token, ok := ctx.Value(ContextKeySession).(string)
	return token, ok && token != ""
}
