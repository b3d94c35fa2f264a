package api

import (
	"context"

	"github.com/rpupo63/portfolio-backend/auth"
)

type keyType string

const (
	identityKey     keyType = "identity"
	sessionTokenKey keyType = "sessionToken"
)

func ctxWithSession(ctx context.Context, identity auth.Identity, token string) context.Context {
	ctx = context.WithValue(ctx, identityKey, identity)
	return context.WithValue(ctx, sessionTokenKey, token)
}

// ctxGetIdentity returns the moderator set by the auth middleware.
func ctxGetIdentity(ctx context.Context) (auth.Identity, bool) {
	identity, ok := ctx.Value(identityKey).(auth.Identity)
	return identity, ok
}

func ctxGetSessionToken(ctx context.Context) string {
	token, _ := ctx.Value(sessionTokenKey).(string)
	return token
}
