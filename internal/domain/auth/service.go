package auth

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"timebill/internal/core/apperror"
	"timebill/internal/core/id"
	"timebill/internal/core/security"
	"timebill/internal/core/tx"
	"timebill/internal/domain/catalogs/business"
	"timebill/pkg/logger"
)

// ServiceConfig holds auth service configuration.
type ServiceConfig struct {
	MaxLoginAttempts  int
	LockDuration      time.Duration
	PasswordMinLength int
}

// DefaultServiceConfig returns default configuration.
func DefaultServiceConfig() ServiceConfig {
	return ServiceConfig{
		MaxLoginAttempts:  5,
		LockDuration:      15 * time.Minute,
		PasswordMinLength: 8,
	}
}

// BusinessDirectory resolves tenants during the login gate check.
type BusinessDirectory interface {
	GetByID(ctx context.Context, businessID id.ID) (*business.Business, error)
}

// LoginResult is returned on successful authentication.
type LoginResult struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
	User      *User     `json:"user"`
}

// RegisterRequest carries new account data.
type RegisterRequest struct {
	Email      string `json:"email"`
	Password   string `json:"password"`
	FirstName  string `json:"firstName"`
	LastName   string `json:"lastName"`
	BusinessID id.ID  `json:"businessId"`
}

// Service provides authentication logic.
type Service struct {
	userRepo   UserRepository
	businesses BusinessDirectory
	flags      security.FeatureFlagProvider
	txManager  tx.Manager
	jwtService *JWTService
	config     ServiceConfig
}

// NewService creates a new auth service.
func NewService(
	userRepo UserRepository,
	businesses BusinessDirectory,
	flags security.FeatureFlagProvider,
	txManager tx.Manager,
	jwtService *JWTService,
	config ServiceConfig,
) *Service {
	return &Service{
		userRepo:   userRepo,
		businesses: businesses,
		flags:      flags,
		txManager:  txManager,
		jwtService: jwtService,
		config:     config,
	}
}

// checkLoginGate rejects sign-ins for inactive tenants or tenants with
// login switched off. Runs before password verification so a disabled
// tenant never reveals whether credentials were correct.
func (s *Service) checkLoginGate(ctx context.Context, user *User) error {
	if user.BusinessID == nil {
		// System admins are not bound to a tenant.
		return nil
	}

	biz, err := s.businesses.GetByID(ctx, *user.BusinessID)
	if err != nil {
		if apperror.IsNotFound(err) {
			return apperror.NewForbidden("business is not available")
		}
		return err
	}

	if !biz.IsActive() {
		return apperror.NewForbidden("business is not active")
	}
	if !biz.LoginEnabled {
		return apperror.NewForbidden("login is disabled for this business")
	}
	if s.flags != nil && !s.flags.IsEnabled(ctx, biz.ID.String(), security.FlagLoginEnabled) {
		return apperror.NewForbidden("login is disabled for this business")
	}
	return nil
}

// Login authenticates a user and issues an access token.
func (s *Service) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, apperror.NewUnauthorized("invalid credentials")
		}
		return nil, err
	}

	if err := user.CanLogin(); err != nil {
		return nil, err
	}
	if err := s.checkLoginGate(ctx, user); err != nil {
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		user.RecordFailedLogin(s.config.MaxLoginAttempts, s.config.LockDuration)
		if updateErr := s.updateUser(ctx, user); updateErr != nil {
			logger.Warn(ctx, "record failed login", "email", email, "error", updateErr)
		}
		return nil, apperror.NewUnauthorized("invalid credentials")
	}

	user.RecordSuccessfulLogin()
	if err := s.updateUser(ctx, user); err != nil {
		logger.Warn(ctx, "record successful login", "email", email, "error", err)
	}

	token, expiresAt, err := s.jwtService.GenerateAccessToken(user)
	if err != nil {
		return nil, fmt.Errorf("generate token: %w", err)
	}

	logger.Info(ctx, "user logged in", "userId", user.ID, "email", user.Email)
	return &LoginResult{Token: token, ExpiresAt: expiresAt, User: user}, nil
}

func (s *Service) updateUser(ctx context.Context, user *User) error {
	return s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		return s.userRepo.Update(ctx, user)
	})
}

// Register creates a new tenant user account.
func (s *Service) Register(ctx context.Context, req RegisterRequest) (*User, error) {
	if req.Email == "" {
		return nil, apperror.NewValidation("email is required").WithDetail("field", "email")
	}
	if len(req.Password) < s.config.PasswordMinLength {
		return nil, apperror.NewValidation(
			fmt.Sprintf("password must be at least %d characters", s.config.PasswordMinLength),
		).WithDetail("field", "password")
	}
	if id.IsNil(req.BusinessID) {
		return nil, apperror.NewValidation("business is required").WithDetail("field", "businessId")
	}

	exists, err := s.userRepo.ExistsByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("check email exists: %w", err)
	}
	if exists {
		return nil, apperror.NewConflict("email already registered").WithDetail("email", req.Email)
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	bid := req.BusinessID
	user := NewUser(req.Email, string(passwordHash), &bid)
	user.FirstName = req.FirstName
	user.LastName = req.LastName
	if err := user.Validate(ctx); err != nil {
		return nil, err
	}

	err = s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		return s.userRepo.Create(ctx, user)
	})
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	logger.Info(ctx, "user registered", "userId", user.ID, "email", user.Email)
	return user, nil
}

// GetByID retrieves a user, enforcing the access predicate.
func (s *Service) GetByID(ctx context.Context, userID id.ID) (*User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	actor := security.ActorFrom(ctx)
	if err := security.RequireView(actor, user, "user"); err != nil {
		return nil, err
	}
	return user, nil
}

// Update modifies a user account. A tenant administrator cannot touch
// accounts holding the global role.
func (s *Service) Update(ctx context.Context, user *User) error {
	actor := security.ActorFrom(ctx)
	if err := security.RequireModify(actor, user, "user"); err != nil {
		return err
	}
	if err := user.Validate(ctx); err != nil {
		return err
	}

	return s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		return s.userRepo.Update(ctx, user)
	})
}

// List retrieves users scoped to the actor's tenant.
func (s *Service) List(ctx context.Context, filter UserFilter) ([]*User, int64, error) {
	actor := security.ActorFrom(ctx)
	if actor == nil {
		return nil, 0, apperror.NewUnauthorized("authentication required")
	}
	if !actor.Can(security.ActionManageUsers) {
		return nil, 0, apperror.NewForbidden("user management capability required")
	}

	filter.Scope = security.ScopeByBusiness(actor)
	return s.userRepo.List(ctx, filter)
}

// ChangePassword verifies the current password and stores a new hash.
func (s *Service) ChangePassword(ctx context.Context, userID id.ID, current, next string) error {
	user, err := s.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(current)); err != nil {
		return apperror.NewUnauthorized("current password is incorrect")
	}
	if len(next) < s.config.PasswordMinLength {
		return apperror.NewValidation(
			fmt.Sprintf("password must be at least %d characters", s.config.PasswordMinLength),
		).WithDetail("field", "password")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(next), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	user.PasswordHash = string(hash)

	return s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		return s.userRepo.Update(ctx, user)
	})
}
