// Package ctxutil carries per-request values through context.Context.
package ctxutil

import (
	"context"
)

type ctxKey string

const (
	accountKey   ctxKey = "account"
	requestIDKey ctxKey = "request_id"
)

// WithAccount stores the acting account name in the context.
func WithAccount(ctx context.Context, account string) context.Context {
	return context.WithValue(ctx, accountKey, account)
}

// AccountFromCtx returns the account name and whether one was set.
// An empty name counts as unset.
func AccountFromCtx(ctx context.Context) (string, bool) {
	account, ok := ctx.Value(accountKey).(string)
	if !ok || account == "" {
		return "", false
	}
	return account, true
}

// WithRequestID stores the request ID in the context.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

// RequestIDFromCtx extracts the request ID from the context.
// Returns an empty string if absent.
func RequestIDFromCtx(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}
