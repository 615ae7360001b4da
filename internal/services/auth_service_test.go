package services

import (
	"regexp"
	"testing"
	"time"

	"github.com/agrolink/farmgate/internal/database"
	"github.com/agrolink/farmgate/internal/events"
	"github.com/agrolink/farmgate/internal/repository"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

// recordingNotifier captures emitted notifications for assertions.
type recordingNotifier struct {
	emitted []events.Notification
}

func (r *recordingNotifier) Emit(n events.Notification) {
	r.emitted = append(r.emitted, n)
}

func setupAuthTest(t *testing.T) (*repository.UserRepository, *recordingNotifier, *AuthService) {
	db, err := database.Connect(":memory:")
	assert.NoError(t, err)

	err = database.Migrate(db)
	assert.NoError(t, err)

	userRepo := repository.NewUserRepository(db)
	notifier := &recordingNotifier{}
	authService := NewAuthService(userRepo, notifier, zap.NewNop(), "test-secret", time.Hour)

	return userRepo, notifier, authService
}

func TestAuthService_Register(t *testing.T) {
	_, notifier, authService := setupAuthTest(t)

	user, err := authService.Register("a@x.com", "ada", "Ada", "Obi", "p4ssword", "device-1")
	assert.NoError(t, err)
	assert.Equal(t, "a@x.com", user.Email)
	assert.Equal(t, "ada", user.Username)
	assert.False(t, user.Verified)
	assert.NotEqual(t, "p4ssword", user.PasswordHash)
	assert.Len(t, user.DeviceTokens, 1)

	assert.Len(t, notifier.emitted, 1)
	assert.Equal(t, events.WelcomeEmail, notifier.emitted[0].Name)
	assert.Equal(t, "a@x.com", notifier.emitted[0].To)
	assert.Equal(t, "ada", notifier.emitted[0].Data["name"])
}

func TestAuthService_RegisterDuplicateEmail(t *testing.T) {
	_, _, authService := setupAuthTest(t)

	_, err := authService.Register("a@x.com", "ada", "", "", "p4ssword", "")
	assert.NoError(t, err)

	_, err = authService.Register("a@x.com", "other", "", "", "different", "")
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestAuthService_Login(t *testing.T) {
	_, _, authService := setupAuthTest(t)

	user, err := authService.Register("a@x.com", "ada", "", "", "p4ssword", "")
	assert.NoError(t, err)

	token, err := authService.Login("a@x.com", "p4ssword")
	assert.NoError(t, err)
	assert.NotEmpty(t, token)

	claims, err := authService.ValidateToken(token)
	assert.NoError(t, err)
	assert.Equal(t, "a@x.com", claims.Email)
	assert.Equal(t, "1", claims.Subject)
	assert.Equal(t, user.Email, claims.Email)
}

func TestAuthService_LoginDoesNotLeakWhichFieldWasWrong(t *testing.T) {
	_, _, authService := setupAuthTest(t)

	_, err := authService.Register("a@x.com", "ada", "", "", "p4ssword", "")
	assert.NoError(t, err)

	_, wrongPassword := authService.Login("a@x.com", "not-it")
	_, unknownEmail := authService.Login("nobody@x.com", "p4ssword")

	assert.ErrorIs(t, wrongPassword, ErrInvalidCredentials)
	assert.ErrorIs(t, unknownEmail, ErrInvalidCredentials)
	assert.Equal(t, wrongPassword, unknownEmail)
}

func TestAuthService_ValidateTokenRejectsGarbage(t *testing.T) {
	_, _, authService := setupAuthTest(t)

	_, err := authService.ValidateToken("not.a.token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestAuthService_ForgotPassword(t *testing.T) {
	userRepo, notifier, authService := setupAuthTest(t)

	_, err := authService.Register("a@x.com", "ada", "", "", "p4ssword", "")
	assert.NoError(t, err)

	err = authService.ForgotPassword("a@x.com")
	assert.NoError(t, err)

	user, err := userRepo.FindByEmail("a@x.com")
	assert.NoError(t, err)
	assert.NotNil(t, user.ResetCode)
	assert.Regexp(t, regexp.MustCompile(`^[0-9a-f]{6}$`), *user.ResetCode)

	// register + send-verification
	assert.Len(t, notifier.emitted, 2)
	assert.Equal(t, events.SendVerification, notifier.emitted[1].Name)
	assert.Equal(t, *user.ResetCode, notifier.emitted[1].Data["token"])
}

func TestAuthService_ForgotPasswordUnknownUser(t *testing.T) {
	_, _, authService := setupAuthTest(t)

	err := authService.ForgotPassword("nobody@x.com")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestAuthService_VerifyResetCode(t *testing.T) {
	userRepo, notifier, authService := setupAuthTest(t)

	_, err := authService.Register("a@x.com", "ada", "", "", "p4ssword", "")
	assert.NoError(t, err)
	err = authService.ForgotPassword("a@x.com")
	assert.NoError(t, err)

	code := notifier.emitted[1].Data["token"]

	returned, err := authService.VerifyResetCode("a@x.com", code)
	assert.NoError(t, err)
	assert.Equal(t, code, returned)

	user, err := userRepo.FindByEmail("a@x.com")
	assert.NoError(t, err)
	assert.True(t, user.Verified)
	// The code survives verification; only ResetPassword consumes it.
	assert.NotNil(t, user.ResetCode)
}

func TestAuthService_VerifyResetCodeMismatch(t *testing.T) {
	userRepo, _, authService := setupAuthTest(t)

	_, err := authService.Register("a@x.com", "ada", "", "", "p4ssword", "")
	assert.NoError(t, err)
	err = authService.ForgotPassword("a@x.com")
	assert.NoError(t, err)

	_, err = authService.VerifyResetCode("a@x.com", "000000")
	assert.ErrorIs(t, err, ErrCodeMismatch)

	user, err := userRepo.FindByEmail("a@x.com")
	assert.NoError(t, err)
	assert.False(t, user.Verified)
}

func TestAuthService_VerifyResetCodeUnknownUser(t *testing.T) {
	_, _, authService := setupAuthTest(t)

	_, err := authService.VerifyResetCode("nobody@x.com", "abc123")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestAuthService_ResetPassword(t *testing.T) {
	userRepo, notifier, authService := setupAuthTest(t)

	_, err := authService.Register("a@x.com", "ada", "", "", "old-password", "")
	assert.NoError(t, err)
	err = authService.ForgotPassword("a@x.com")
	assert.NoError(t, err)

	code := notifier.emitted[1].Data["token"]

	err = authService.ResetPassword(code, "new-password")
	assert.NoError(t, err)

	user, err := userRepo.FindByEmail("a@x.com")
	assert.NoError(t, err)
	assert.Nil(t, user.ResetCode)

	_, err = authService.Login("a@x.com", "old-password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = authService.Login("a@x.com", "new-password")
	assert.NoError(t, err)

	assert.Equal(t, events.PasswordReset, notifier.emitted[len(notifier.emitted)-1].Name)
}

func TestAuthService_ResetPasswordCodeIsSingleUse(t *testing.T) {
	_, notifier, authService := setupAuthTest(t)

	_, err := authService.Register("a@x.com", "ada", "", "", "old-password", "")
	assert.NoError(t, err)
	err = authService.ForgotPassword("a@x.com")
	assert.NoError(t, err)

	code := notifier.emitted[1].Data["token"]

	err = authService.ResetPassword(code, "new-password")
	assert.NoError(t, err)

	err = authService.ResetPassword(code, "another-password")
	assert.ErrorIs(t, err, ErrResetCodeInvalid)
}

func TestAuthService_ResetDoesNotRequireVerification(t *testing.T) {
	userRepo, notifier, authService := setupAuthTest(t)

	_, err := authService.Register("a@x.com", "ada", "", "", "old-password", "")
	assert.NoError(t, err)
	err = authService.ForgotPassword("a@x.com")
	assert.NoError(t, err)

	// Skip VerifyResetCode entirely; the code alone authorizes the reset.
	code := notifier.emitted[1].Data["token"]
	err = authService.ResetPassword(code, "new-password")
	assert.NoError(t, err)

	user, err := userRepo.FindByEmail("a@x.com")
	assert.NoError(t, err)
	assert.False(t, user.Verified)
}
