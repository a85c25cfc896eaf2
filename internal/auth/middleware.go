package auth

import (
	"context"
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/support-desk/internal/domain"
	"github.com/spec-kit/support-desk/internal/repository"
	apperrors "github.com/spec-kit/support-desk/pkg/util/errorutil"
)

// AuthMiddleware validates bearer tokens and resolves the caller identity.
type AuthMiddleware struct {
	tokens    *TokenManager
	customers repository.CustomerRepository
	admins    repository.AdminRepository
	cache     *IdentityCache
	logger    *zap.Logger
}

// NewAuthMiddleware constructs middleware. cache may be nil.
func NewAuthMiddleware(tokens *TokenManager, customers repository.CustomerRepository, admins repository.AdminRepository, cache *IdentityCache, logger *zap.Logger) *AuthMiddleware {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthMiddleware{tokens: tokens, customers: customers, admins: admins, cache: cache, logger: logger}
}

// Handle enforces authentication for protected routes.
func (m *AuthMiddleware) Handle(c *fiber.Ctx) error {
	authHeader := c.Get(fiber.HeaderAuthorization)
	if authHeader == "" {
		return apperrors.NewUnauthorized("authentication required")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
		return apperrors.NewUnauthorized("invalid authorization header")
	}

	identity, err := m.tokens.ParseToken(strings.TrimSpace(parts[1]))
	if err != nil {
		return apperrors.NewUnauthorized("invalid token")
	}

	if err := m.confirm(c.UserContext(), identity); err != nil {
		return err
	}

	c.Locals(identityKey, identity)
	return c.Next()
}

// confirm checks the principal behind a valid token still exists.
func (m *AuthMiddleware) confirm(ctx context.Context, identity Identity) error {
	known, err := m.cache.Known(ctx, identity)
	if err != nil {
		m.logger.Debug("identity cache lookup failed", zap.Error(err))
	}
	if known {
		return nil
	}

	switch identity.Role {
	case domain.RoleCustomer:
		_, err = m.customers.GetByID(ctx, identity.ID)
	case domain.RoleAdmin:
		_, err = m.admins.GetByID(ctx, identity.ID)
	default:
		return apperrors.NewUnauthorized("unknown role")
	}
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return apperrors.NewUnauthorized("unknown principal")
		}
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return apperrors.NewCancelled(err)
		}
		return apperrors.NewPersistence(err)
	}

	if err := m.cache.Remember(ctx, identity); err != nil {
		m.logger.Debug("identity cache store failed", zap.Error(err))
	}
	return nil
}
