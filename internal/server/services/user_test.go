package services

import (
	"context"
	"database/sql"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vkarpov/authkeeper/internal/common"
	"github.com/vkarpov/authkeeper/internal/logging"
	"github.com/vkarpov/authkeeper/internal/server/auth"
	"github.com/vkarpov/authkeeper/internal/server/config"
	"github.com/vkarpov/authkeeper/internal/server/models"
	"github.com/vkarpov/authkeeper/internal/server/repositories/repomanager"
)

const testSecret = "test-secret"

// --- helpers ---

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db, mock
}

func repomanagerForTests() repomanager.RepositoryManager {
	return repomanager.NewInMemoryRepositoryManager()
}

func discardLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func newService(t *testing.T) (*UserService, sqlmock.Sqlmock) {
	t.Helper()
	db, mock := newSQLMockDB(t)
	cfg := &config.Config{
		SecretKey:             testSecret,
		TokenValidityDuration: time.Hour,
	}
	rm := repomanagerForTests()
	return NewUserService(db, rm, auth.NewBcryptHasher(), discardLogger(), cfg), mock
}

func signUp(t *testing.T, s *UserService, email string) *AuthResult {
	t.Helper()
	result, err := s.SignUp(context.Background(), email, "abc12!", "Alice", "Smith")
	require.NoError(t, err)
	return result
}

func expectTx(mock sqlmock.Sqlmock, commit bool) {
	mock.ExpectBegin()
	if commit {
		mock.ExpectCommit()
	} else {
		mock.ExpectRollback()
	}
}

func TestSignUp_Success(t *testing.T) {
	s, _ := newService(t)

	result, err := s.SignUp(context.Background(), "a@b.com", "abc12!", "Alice", "Smith")
	require.NoError(t, err)

	assert.NotEmpty(t, result.Token)
	assert.NotEmpty(t, result.User.ID)
	assert.Equal(t, "a@b.com", result.User.Email)
	assert.Equal(t, models.RoleUser, result.User.Role)
	assert.Equal(t, models.DefaultAvatar, result.User.Avatar)

	// the issued token asserts the new identity
	userID, err := auth.GetUserIDFromToken(result.Token, []byte(testSecret))
	require.NoError(t, err)
	assert.Equal(t, result.User.ID, userID)
}

func TestSignUp_NormalizesEmail(t *testing.T) {
	s, _ := newService(t)

	result := signUp(t, s, "  A@B.com ")
	assert.Equal(t, "a@b.com", result.User.Email)
}

func TestSignUp_PasswordViolations(t *testing.T) {
	s, _ := newService(t)

	_, err := s.SignUp(context.Background(), "a@b.com", "12345", "Alice", "Smith")

	var validationErr *common.ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, []string{
		auth.ViolationTooShort,
		auth.ViolationMissingLetter,
		auth.ViolationMissingSpecial,
	}, validationErr.Violations)
}

// A password over the bcrypt input limit is a policy violation, never an
// internal failure at hashing time.
func TestSignUp_PasswordOverByteLimit(t *testing.T) {
	s, _ := newService(t)

	_, err := s.SignUp(context.Background(), "a@b.com", strings.Repeat("a", 80)+"!", "Alice", "Smith")

	var validationErr *common.ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, []string{auth.ViolationTooLong}, validationErr.Violations)
}

func TestChangePassword_NewPasswordOverByteLimit(t *testing.T) {
	s, mock := newService(t)
	created := signUp(t, s, "a@b.com")
	expectTx(mock, false)

	err := s.ChangePassword(context.Background(), created.Token, "abc12!", strings.Repeat("b", 80)+"!")

	var validationErr *common.ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, []string{auth.ViolationTooLong}, validationErr.Violations)
}

func TestSignUp_InvalidEmailAndMissingNames(t *testing.T) {
	s, _ := newService(t)

	_, err := s.SignUp(context.Background(), "not-an-email", "abc12!", "", " ")

	var validationErr *common.ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Contains(t, validationErr.Violations, "Please enter a valid email")
	assert.Contains(t, validationErr.Violations, "first name is required")
	assert.Contains(t, validationErr.Violations, "last name is required")
}

func TestSignUp_DuplicateEmail(t *testing.T) {
	s, _ := newService(t)

	signUp(t, s, "a@b.com")

	_, err := s.SignUp(context.Background(), "a@b.com", "other1!", "Bob", "Jones")
	assert.ErrorIs(t, err, common.ErrorConflict)
}

func TestLogin_RoundTripAfterSignUp(t *testing.T) {
	s, _ := newService(t)

	created := signUp(t, s, "a@b.com")

	result, err := s.Login(context.Background(), "a@b.com", "abc12!")
	require.NoError(t, err)
	assert.Equal(t, created.User.ID, result.User.ID)
	assert.NotEmpty(t, result.Token)
}

func TestLogin_UnknownEmail(t *testing.T) {
	s, _ := newService(t)

	_, err := s.Login(context.Background(), "missing@b.com", "abc12!")
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestLogin_WrongPassword(t *testing.T) {
	s, _ := newService(t)

	signUp(t, s, "a@b.com")

	_, err := s.Login(context.Background(), "a@b.com", "wrong1!")
	assert.ErrorIs(t, err, common.ErrInvalidCredentials)
	assert.NotErrorIs(t, err, common.ErrorNotFound)
}

func TestChangePassword_Success(t *testing.T) {
	s, mock := newService(t)

	created := signUp(t, s, "a@b.com")
	expectTx(mock, true)

	err := s.ChangePassword(context.Background(), created.Token, "abc12!", "xyz34?")
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())

	// old password no longer works, the new one does
	_, err = s.Login(context.Background(), "a@b.com", "abc12!")
	assert.ErrorIs(t, err, common.ErrInvalidCredentials)

	_, err = s.Login(context.Background(), "a@b.com", "xyz34?")
	assert.NoError(t, err)
}

func TestChangePassword_ExistingTokenStaysValid(t *testing.T) {
	s, mock := newService(t)

	created := signUp(t, s, "a@b.com")
	expectTx(mock, true)

	require.NoError(t, s.ChangePassword(context.Background(), created.Token, "abc12!", "xyz34?"))

	// same token authenticates a second operation
	expectTx(mock, true)
	require.NoError(t, s.ChangePassword(context.Background(), created.Token, "xyz34?", "abc12!"))
}

func TestChangePassword_InvalidToken(t *testing.T) {
	s, _ := newService(t)

	err := s.ChangePassword(context.Background(), "not.a.token", "abc12!", "xyz34?")
	assert.ErrorIs(t, err, common.ErrorUnauthenticated)
}

func TestChangePassword_IncorrectCurrentPassword(t *testing.T) {
	s, mock := newService(t)

	created := signUp(t, s, "a@b.com")
	expectTx(mock, false)

	err := s.ChangePassword(context.Background(), created.Token, "wrong1!", "xyz34?")
	assert.ErrorIs(t, err, common.ErrIncorrectPassword)
}

func TestChangePassword_SameAsCurrent(t *testing.T) {
	s, mock := newService(t)

	created := signUp(t, s, "a@b.com")
	expectTx(mock, false)

	err := s.ChangePassword(context.Background(), created.Token, "abc12!", "abc12!")

	var validationErr *common.ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, []string{auth.ViolationSameAsCurrent}, validationErr.Violations)

	// account unmodified
	_, err = s.Login(context.Background(), "a@b.com", "abc12!")
	assert.NoError(t, err)
}

func TestChangePassword_WeakNewPassword(t *testing.T) {
	s, mock := newService(t)

	created := signUp(t, s, "a@b.com")
	expectTx(mock, false)

	err := s.ChangePassword(context.Background(), created.Token, "abc12!", "short")

	var validationErr *common.ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Contains(t, validationErr.Violations, auth.ViolationTooShort)
}

func TestChangePassword_DeletedAccount(t *testing.T) {
	s, mock := newService(t)

	created := signUp(t, s, "a@b.com")
	require.NoError(t, s.DeleteAccount(context.Background(), created.Token))

	// token is structurally valid but the subject is gone
	expectTx(mock, false)
	err := s.ChangePassword(context.Background(), created.Token, "abc12!", "xyz34?")
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestDeleteAccount_Success(t *testing.T) {
	s, _ := newService(t)

	created := signUp(t, s, "a@b.com")

	require.NoError(t, s.DeleteAccount(context.Background(), created.Token))

	_, err := s.Login(context.Background(), "a@b.com", "abc12!")
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestDeleteAccount_ExpiredToken(t *testing.T) {
	s, _ := newService(t)

	created := signUp(t, s, "a@b.com")

	expired, err := auth.GenerateToken(created.User.ID, []byte(testSecret), -time.Minute)
	require.NoError(t, err)

	err = s.DeleteAccount(context.Background(), expired)
	assert.ErrorIs(t, err, common.ErrorUnauthenticated)

	// account untouched
	_, err = s.Login(context.Background(), "a@b.com", "abc12!")
	assert.NoError(t, err)
}

func TestDeleteAccount_AlreadyAbsent(t *testing.T) {
	s, _ := newService(t)

	created := signUp(t, s, "a@b.com")
	require.NoError(t, s.DeleteAccount(context.Background(), created.Token))

	err := s.DeleteAccount(context.Background(), created.Token)
	assert.ErrorIs(t, err, common.ErrorNotFound)
}
