// Package services contains the server-side business logic. This file
// implements UserService, which orchestrates the credential lifecycle:
// signup, login, password change, and account deletion.
package services

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/vkarpov/authkeeper/internal/common"
	"github.com/vkarpov/authkeeper/internal/dbx"
	"github.com/vkarpov/authkeeper/internal/logging"
	"github.com/vkarpov/authkeeper/internal/server/auth"
	"github.com/vkarpov/authkeeper/internal/server/config"
	"github.com/vkarpov/authkeeper/internal/server/models"
	"github.com/vkarpov/authkeeper/internal/server/repositories/repomanager"
)

// emailPattern is the address pattern accounts are validated against.
var emailPattern = regexp.MustCompile(`^\w+([.-]?\w+)*@\w+([.-]?\w+)*(\.\w{2,3})+$`)

// Account field violation messages.
const (
	violationInvalidEmail     = "Please enter a valid email"
	violationMissingFirstName = "first name is required"
	violationMissingLastName  = "last name is required"
)

// Summary lines for rejected input.
const (
	msgPasswordValidationFailed = "Password validation failed"
	msgValidationFailed         = "Validation failed"
)

// AuthResult bundles a freshly issued token with the public account view.
type AuthResult struct {
	Token string
	User  models.PublicUser
}

// UserService provides the credential lifecycle operations:
//   - SignUp: validate, create the account, issue a token
//   - Login: verify credentials and issue a token
//   - ChangePassword: re-authenticate and replace the stored hash
//   - DeleteAccount: remove the account of the token subject
type UserService struct {
	db            *sql.DB
	repomanager   repomanager.RepositoryManager
	hasher        auth.PasswordHasher
	logger        logging.Logger
	jwtSecret     []byte
	tokenValidity time.Duration
}

// NewUserService constructs a UserService using repositories and server config.
func NewUserService(db *sql.DB, m repomanager.RepositoryManager, hasher auth.PasswordHasher, l logging.Logger, cfg *config.Config) *UserService {
	return &UserService{
		db:            db,
		repomanager:   m,
		hasher:        hasher,
		logger:        l.With("module", "user_service"),
		jwtSecret:     []byte(cfg.SecretKey),
		tokenValidity: cfg.TokenValidityDuration,
	}
}

// SignUp validates the candidate credentials, creates the account, and
// issues a token for the new identity. Every violated rule is reported at
// once. A taken email yields common.ErrorConflict; the repository's unique
// constraint is the authoritative guarantee, the lookup below only produces
// the friendly error first.
func (s *UserService) SignUp(ctx context.Context, email, password, firstName, lastName string) (*AuthResult, error) {
	email = normalizeEmail(email)

	if violations := auth.ValidatePassword(password); len(violations) > 0 {
		return nil, common.NewValidationError(msgPasswordValidationFailed, violations)
	}
	if violations := validateAccountFields(email, firstName, lastName); len(violations) > 0 {
		return nil, common.NewValidationError(msgValidationFailed, violations)
	}

	repo := s.repomanager.Users(s.db)

	_, err := repo.GetByEmail(ctx, email)
	if err == nil {
		return nil, common.ErrorConflict
	}
	if !errors.Is(err, common.ErrorNotFound) {
		s.logger.Error(ctx, "signup lookup failed", "error", err)
		return nil, common.ErrorInternal
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		s.logger.Error(ctx, "password hashing failed", "error", err)
		return nil, common.ErrorInternal
	}

	user, err := repo.Create(ctx, &models.User{
		Email:        email,
		FirstName:    firstName,
		LastName:     lastName,
		PasswordHash: hash,
	})
	if err != nil {
		if errors.Is(err, common.ErrorConflict) {
			return nil, common.ErrorConflict
		}
		s.logger.Error(ctx, "account insert failed", "error", err)
		return nil, common.ErrorInternal
	}

	token, err := s.issueToken(user.ID)
	if err != nil {
		s.logger.Error(ctx, "token issuance failed", "error", err)
		return nil, common.ErrorInternal
	}

	return &AuthResult{Token: token, User: user.Public()}, nil
}

// Login verifies the provided credentials and, on success, issues a token.
// An unknown email yields ErrorNotFound; a wrong password yields
// ErrInvalidCredentials.
func (s *UserService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	email = normalizeEmail(email)

	repo := s.repomanager.Users(s.db)

	user, err := repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		s.logger.Error(ctx, "login lookup failed", "error", err)
		return nil, common.ErrorInternal
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		return nil, common.ErrInvalidCredentials
	}

	token, err := s.issueToken(user.ID)
	if err != nil {
		s.logger.Error(ctx, "token issuance failed", "error", err)
		return nil, common.ErrorInternal
	}

	return &AuthResult{Token: token, User: user.Public()}, nil
}

// ChangePassword re-authenticates the token subject with the current
// password and replaces the stored hash. The new password must satisfy the
// policy and must not verify against the existing hash. Verify and update
// run in one transaction. No new token is issued; the existing token stays
// valid.
func (s *UserService) ChangePassword(ctx context.Context, tokenString, currentPassword, newPassword string) error {
	userID, err := auth.GetUserIDFromToken(tokenString, s.jwtSecret)
	if err != nil {
		return common.ErrorUnauthenticated
	}

	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Users(tx)

		user, err := repo.GetByID(ctx, userID)
		if err != nil {
			return err
		}

		if !s.hasher.Verify(currentPassword, user.PasswordHash) {
			return common.ErrIncorrectPassword
		}

		violations := auth.ValidatePassword(newPassword)
		if s.hasher.Verify(newPassword, user.PasswordHash) {
			violations = append(violations, auth.ViolationSameAsCurrent)
		}
		if len(violations) > 0 {
			return common.NewValidationError(msgPasswordValidationFailed, violations)
		}

		hash, err := s.hasher.Hash(newPassword)
		if err != nil {
			return err
		}

		user.PasswordHash = hash
		_, err = repo.Update(ctx, user)
		return err
	})

	return s.foldError(ctx, "change password failed", err)
}

// DeleteAccount removes the account of the token subject. Outstanding
// tokens are not invalidated; they stay structurally valid but fail the
// account lookup on subsequent use.
func (s *UserService) DeleteAccount(ctx context.Context, tokenString string) error {
	userID, err := auth.GetUserIDFromToken(tokenString, s.jwtSecret)
	if err != nil {
		return common.ErrorUnauthenticated
	}

	repo := s.repomanager.Users(s.db)

	err = repo.Delete(ctx, userID)
	return s.foldError(ctx, "account deletion failed", err)
}

// --- helpers below ---

func (s *UserService) issueToken(userID string) (string, error) {
	return auth.GenerateToken(userID, s.jwtSecret, s.tokenValidity)
}

// foldError passes typed failures through and collapses everything else
// into ErrorInternal so driver detail never crosses the service boundary.
func (s *UserService) foldError(ctx context.Context, msg string, err error) error {
	if err == nil {
		return nil
	}

	var validationErr *common.ValidationError
	switch {
	case errors.As(err, &validationErr),
		errors.Is(err, common.ErrorNotFound),
		errors.Is(err, common.ErrIncorrectPassword),
		errors.Is(err, common.ErrorUnauthenticated):
		return err
	}

	s.logger.Error(ctx, msg, "error", err)
	return common.ErrorInternal
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validateAccountFields(email, firstName, lastName string) []string {
	var violations []string
	if !emailPattern.MatchString(email) {
		violations = append(violations, violationInvalidEmail)
	}
	if strings.TrimSpace(firstName) == "" {
		violations = append(violations, violationMissingFirstName)
	}
	if strings.TrimSpace(lastName) == "" {
		violations = append(violations, violationMissingLastName)
	}
	return violations
}
