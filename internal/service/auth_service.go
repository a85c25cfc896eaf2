package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/support-desk/internal/auth"
	"github.com/spec-kit/support-desk/internal/config"
	"github.com/spec-kit/support-desk/internal/domain"
	"github.com/spec-kit/support-desk/internal/repository"
	apperrors "github.com/spec-kit/support-desk/pkg/util/errorutil"
)

// AuthService coordinates registration and login flows.
type AuthService struct {
	customers  repository.CustomerRepository
	admins     repository.AdminRepository
	tokenMgr   *auth.TokenManager
	bcryptCost int
	logger     *zap.Logger
}

// AuthDependencies encapsulates repo requirements for auth service.
type AuthDependencies struct {
	CustomerRepo repository.CustomerRepository
	AdminRepo    repository.AdminRepository
	Logger       *zap.Logger
}

// Session is an issued access token together with the principal it names.
type Session struct {
	Token     string
	ExpiresAt time.Time
	Identity  auth.Identity
	Name      string
	Email     string
	CreatedAt time.Time
}

var errInvalidCredentials = apperrors.NewUnauthorized("invalid credentials")

// NewAuthService builds the service.
func NewAuthService(cfg config.Config, deps AuthDependencies) *AuthService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{
		customers:  deps.CustomerRepo,
		admins:     deps.AdminRepo,
		tokenMgr:   auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes),
		bcryptCost: cfg.Auth.BcryptCost,
		logger:     logger,
	}
}

// Tokens exposes the token manager shared with the auth middleware.
func (s *AuthService) Tokens() *auth.TokenManager {
	return s.tokenMgr
}

// RegisterCustomer creates a customer account and signs it in.
func (s *AuthService) RegisterCustomer(ctx context.Context, name, email, password string) (*Session, error) {
	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	customer := &domain.Customer{
		Name:         strings.TrimSpace(name),
		Email:        normalizeEmail(email),
		PasswordHash: hash,
	}
	if err := s.customers.Create(ctx, customer); err != nil {
		if errors.Is(err, domain.ErrAlreadyExists) {
			return nil, apperrors.NewValidationError("email already registered", map[string]any{"email": customer.Email})
		}
		return nil, s.directoryError(err)
	}

	s.logger.Info("customer registered", zap.Int64("customer_id", customer.ID))
	return s.issue(auth.Identity{ID: customer.ID, Role: domain.RoleCustomer}, customer.Name, customer.Email, customer.CreatedAt)
}

// LoginCustomer authenticates a customer.
func (s *AuthService) LoginCustomer(ctx context.Context, email, password string) (*Session, error) {
	customer, err := s.customers.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, errInvalidCredentials
		}
		return nil, s.directoryError(err)
	}
	if err := auth.ComparePassword(customer.PasswordHash, password); err != nil {
		return nil, errInvalidCredentials
	}
	return s.issue(auth.Identity{ID: customer.ID, Role: domain.RoleCustomer}, customer.Name, customer.Email, customer.CreatedAt)
}

// LoginAdmin authenticates an administrator.
func (s *AuthService) LoginAdmin(ctx context.Context, email, password string) (*Session, error) {
	admin, err := s.admins.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, errInvalidCredentials
		}
		return nil, s.directoryError(err)
	}
	if err := auth.ComparePassword(admin.PasswordHash, password); err != nil {
		return nil, errInvalidCredentials
	}
	return s.issue(auth.Identity{ID: admin.ID, Role: domain.RoleAdmin}, admin.Name, admin.Email, admin.CreatedAt)
}

// CreateAdmin provisions an administrator account. It is not reachable over
// HTTP; adminctl calls it directly.
func (s *AuthService) CreateAdmin(ctx context.Context, name, email, password string) (*domain.Admin, error) {
	if strings.TrimSpace(name) == "" || strings.TrimSpace(email) == "" || len(password) < 8 {
		return nil, apperrors.NewValidationError("name, email and a password of at least 8 characters are required", nil)
	}
	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	admin := &domain.Admin{
		Name:         strings.TrimSpace(name),
		Email:        normalizeEmail(email),
		PasswordHash: hash,
	}
	if err := s.admins.Create(ctx, admin); err != nil {
		if errors.Is(err, domain.ErrAlreadyExists) {
			return nil, apperrors.NewValidationError("email already registered", map[string]any{"email": admin.Email})
		}
		return nil, s.directoryError(err)
	}
	s.logger.Info("admin created", zap.Int64("admin_id", admin.ID))
	return admin, nil
}

// EnsureAdmin creates the administrator unless one with the same email already
// exists. The bool reports whether an account was created. An existing
// account's password is left as is.
func (s *AuthService) EnsureAdmin(ctx context.Context, name, email, password string) (*domain.Admin, bool, error) {
	existing, err := s.admins.GetByEmail(ctx, normalizeEmail(email))
	switch {
	case err == nil:
		return existing, false, nil
	case !errors.Is(err, domain.ErrNotFound):
		return nil, false, s.directoryError(err)
	}

	admin, err := s.CreateAdmin(ctx, name, email, password)
	if err != nil {
		return nil, false, err
	}
	return admin, true, nil
}

func (s *AuthService) issue(identity auth.Identity, name, email string, createdAt time.Time) (*Session, error) {
	token, exp, err := s.tokenMgr.GenerateToken(identity)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return &Session{Token: token, ExpiresAt: exp, Identity: identity, Name: name, Email: email, CreatedAt: createdAt}, nil
}

func (s *AuthService) directoryError(err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return apperrors.NewCancelled(err)
	}
	s.logger.Error("directory failure", zap.Error(err))
	return apperrors.NewPersistence(err)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
