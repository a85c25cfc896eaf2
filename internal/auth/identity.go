package auth

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/support-desk/internal/domain"
)

const identityKey = "auth_identity"

// Identity is the authenticated caller as seen by the ticket core.
type Identity struct {
	ID   int64
	Role domain.Role
}

// Valid reports whether the identity names a real principal.
func (i Identity) Valid() bool {
	return i.ID > 0 && i.Role.Valid()
}

func (i Identity) IsAdmin() bool    { return i.Valid() && i.Role == domain.RoleAdmin }
func (i Identity) IsCustomer() bool { return i.Valid() && i.Role == domain.RoleCustomer }

// IdentityFromContext retrieves the identity stored by AuthMiddleware.
func IdentityFromContext(c *fiber.Ctx) (Identity, bool) {
	identity, ok := c.Locals(identityKey).(Identity)
	if !ok || !identity.Valid() {
		return Identity{}, false
	}
	return identity, true
}
