package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/phrazzld/tasklog-api/internal/domain"
	"github.com/phrazzld/tasklog-api/internal/platform/logger"
	"github.com/phrazzld/tasklog-api/internal/platform/metrics"
	"github.com/phrazzld/tasklog-api/internal/service/auth"
	"github.com/phrazzld/tasklog-api/internal/store"
)

// UserService provides account signup and signin.
type UserService interface {
	// Register validates the input and creates an account.
	// Returns domain.ValidationErrors for bad input and store.ErrUserExists
	// when the username or email is taken.
	Register(ctx context.Context, username, email, password string) (*domain.User, error)

	// Authenticate checks the credentials and issues a session token.
	// Returns ErrInvalidCredentials for an unknown email or wrong password.
	Authenticate(ctx context.Context, email, password string) (string, *domain.User, error)
}

// UserServiceImpl implements the UserService interface
type UserServiceImpl struct {
	userStore store.UserStore
	tokens    auth.JWTService
	verifier  auth.PasswordVerifier
	metrics   *metrics.Metrics
	logger    *slog.Logger

	bcryptCost int
	dummyOnce  sync.Once
	dummyHash  string
}

// NewUserService creates a new UserService.
func NewUserService(
	userStore store.UserStore,
	tokens auth.JWTService,
	verifier auth.PasswordVerifier,
	bcryptCost int,
	m *metrics.Metrics,
	logger *slog.Logger,
) *UserServiceImpl {
	if logger == nil {
		logger = slog.Default()
	}
	return &UserServiceImpl{
		userStore:  userStore,
		tokens:     tokens,
		verifier:   verifier,
		metrics:    m,
		logger:     logger.With(slog.String("component", "user_service")),
		bcryptCost: bcryptCost,
	}
}

var _ UserService = (*UserServiceImpl)(nil)

// Register implements UserService.Register
func (s *UserServiceImpl) Register(ctx context.Context, username, email, password string) (*domain.User, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	user, err := domain.NewUser(username, email, password)
	if err != nil {
		return nil, err
	}

	if err := s.userStore.Create(ctx, user); err != nil {
		if store.IsDuplicateError(err) {
			log.Debug("signup rejected: account exists")
			return nil, store.ErrUserExists
		}
		log.Error("failed to create user", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	log.Info("user registered", slog.String("user_id", user.ID.String()))
	return user, nil
}

// Authenticate implements UserService.Authenticate
func (s *UserServiceImpl) Authenticate(ctx context.Context, email, password string) (string, *domain.User, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	creds := domain.Credentials{Email: email, Password: password}.Normalize()
	if err := creds.Validate(); err != nil {
		return "", nil, err
	}

	user, err := s.userStore.GetByEmail(ctx, creds.Email)
	if err != nil {
		if !errors.Is(err, store.ErrUserNotFound) {
			log.Error("failed to look up user for signin", slog.String("error", err.Error()))
			return "", nil, fmt.Errorf("failed to look up user: %w", err)
		}
		// Pay the same bcrypt cost as a real comparison.
		_ = s.verifier.Compare(s.getDummyHash(), creds.Password)
		s.metrics.AuthAttempt("signin", metrics.ResultFailure)
		return "", nil, ErrInvalidCredentials
	}

	if err := s.verifier.Compare(user.HashedPassword, creds.Password); err != nil {
		log.Debug("signin rejected: password mismatch", slog.String("user_id", user.ID.String()))
		s.metrics.AuthAttempt("signin", metrics.ResultFailure)
		return "", nil, ErrInvalidCredentials
	}

	token, err := s.tokens.GenerateToken(ctx, user)
	if err != nil {
		log.Error("failed to issue token",
			slog.String("error", err.Error()),
			slog.String("user_id", user.ID.String()))
		return "", nil, fmt.Errorf("failed to issue token: %w", err)
	}

	s.metrics.AuthAttempt("signin", metrics.ResultSuccess)
	log.Info("user signed in", slog.String("user_id", user.ID.String()))
	return token, user, nil
}

func (s *UserServiceImpl) getDummyHash() string {
	s.dummyOnce.Do(func() {
		s.dummyHash = auth.DummyHash(s.bcryptCost)
	})
	return s.dummyHash
}
