package auth

import (
	"github.com/gin-gonic/gin"

	"github.com/evcraddock/realty/internal/user"
)

const identityKey = "auth.identity"

// Identity is the authenticated caller.
type Identity struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// IdentityOf returns the identity for u.
func IdentityOf(u *user.User) Identity {
	return Identity{ID: u.ID, Email: u.Email, Role: u.Role}
}

// IsAdmin reports whether the caller has the admin role.
func (id Identity) IsAdmin() bool {
	return id.Role == user.RoleAdmin
}

// SetIdentity stores id in the request context.
func SetIdentity(c *gin.Context, id Identity) {
	c.Set(identityKey, id)
}

// IdentityFrom returns the identity stored by RequireAuth.
func IdentityFrom(c *gin.Context) (Identity, bool) {
	v, ok := c.Get(identityKey)
	if !ok {
		return Identity{}, false
	}
	id, ok := v.(Identity)
	return id, ok
}
