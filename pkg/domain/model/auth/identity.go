package auth

import (
	"context"

	"github.com/dosecal/dosecal/pkg/domain/types"
)

// Identity is the authenticated caller of a request. Token issuance and
// exchange happen outside this service; the identity arrives resolved
// per request. AccessToken is the caller's provider token and must never
// reach logs, hence the masq tag.
type Identity struct {
	UserID      types.UserID `json:"userId"`
	Email       string       `json:"email"`
	AccessToken string       `json:"-" masq:"secret"`
}

type ctxKey string

const identityKey ctxKey = "identity"

// ContextWithIdentity stores the identity in the context
func ContextWithIdentity(ctx context.Context, id *Identity) context.Context {
	return context.WithValue(ctx, identityKey, id)
}

// IdentityFromContext retrieves the identity from the context.
// Returns nil if no identity is set.
func IdentityFromContext(ctx context.Context) *Identity {
	id, ok := ctx.Value(identityKey).(*Identity)
	if !ok {
		return nil
	}
	return id
}
