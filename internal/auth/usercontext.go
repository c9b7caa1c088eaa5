package auth

import (
	"context"

	"github.com/golang-jwt/jwt/v5"
)

// Claim names checked, in order, for the tenant identifier.
const (
	SubjectClaim        = "sub"
	NameIdentifierClaim = "nameid"
)

// UserContext yields the tenant identifier of the current caller.
//
// CurrentUserID returns ok=false when there is no usable principal. An empty
// id with ok=true means the claim exists but is blank; deciding what to do
// with that is up to the caller.
type UserContext interface {
	CurrentUserID() (string, bool)
}

type requestUserContext struct {
	ctx context.Context
}

// FromContext returns a UserContext reading the principal bound to ctx.
// Nothing is cached: each call re-reads ctx.
func FromContext(ctx context.Context) UserContext {
	return requestUserContext{ctx: ctx}
}

func (u requestUserContext) CurrentUserID() (string, bool) {
	p, ok := PrincipalFrom(u.ctx)
	if !ok || !p.Authenticated {
		return "", false
	}
	return subjectFromClaims(p.Claims)
}

func subjectFromClaims(claims jwt.MapClaims) (string, bool) {
	for _, name := range []string{SubjectClaim, NameIdentifierClaim} {
		raw, present := claims[name]
		if !present {
			continue
		}
		s, ok := raw.(string)
		if !ok {
			return "", false
		}
		return s, true
	}
	return "", false
}

// StaticUserContext is a fixed identity for internal callers that have
// already established who they act for.
type StaticUserContext struct {
	ID    string
	Known bool
}

// Anonymous is a UserContext with no identity.
var Anonymous UserContext = StaticUserContext{}

// As returns a UserContext that always resolves to id.
func As(id string) UserContext {
	return StaticUserContext{ID: id, Known: true}
}

func (s StaticUserContext) CurrentUserID() (string, bool) {
	return s.ID, s.Known
}
