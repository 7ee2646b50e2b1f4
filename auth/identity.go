// Package auth resolves caller identities from signed tokens and keeps the signing secret in the system keyring.
package auth

import "github.com/samber/lo"

// Identity is the caller a search runs on behalf of.
type Identity struct {
	Subject string   `json:"sub"`
	Roles   []string `json:"roles,omitempty"`
}

// Anonymous is the identity of callers that presented no token.
var Anonymous = Identity{}

func (i Identity) IsAnonymous() bool {
	return i.Subject == ""
}

// HasAnyRole reports whether the identity holds at least one of roles.
func (i Identity) HasAnyRole(roles ...string) bool {
	return len(lo.Intersect(i.Roles, roles)) > 0
}

func (i Identity) String() string {
	if i.IsAnonymous() {
		return "anonymous"
	}
	return i.Subject
}
