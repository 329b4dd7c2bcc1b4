package ctxkeys

import (
	"context"

	"github.com/lunanest/storytime/internal/model"
)

// contextKey is a type for context keys to avoid collisions
type contextKey string

const (
	IdentityKey contextKey = "identity"
)

func Identity(ctx context.Context) *model.Identity {
	id, _ := ctx.Value(IdentityKey).(*model.Identity)
	return id
}

func WithIdentity(ctx context.Context, id *model.Identity) context.Context {
	return context.WithValue(ctx, IdentityKey, id)
}
