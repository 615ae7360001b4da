package services

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/agrolink/farmgate/internal/events"
	"github.com/agrolink/farmgate/internal/models"
	"github.com/agrolink/farmgate/internal/password"
	"github.com/agrolink/farmgate/internal/repository"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailTaken         = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrCodeMismatch       = errors.New("invalid otp")
	ErrResetCodeInvalid   = errors.New("reset code does not match any user")
	ErrInvalidToken       = errors.New("invalid token")
)

type AccessClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

type AuthService struct {
	userRepo  *repository.UserRepository
	notifier  events.Notifier
	logger    *zap.Logger
	jwtSecret string
	jwtExpire time.Duration
}

func NewAuthService(
	userRepo *repository.UserRepository,
	notifier events.Notifier,
	logger *zap.Logger,
	jwtSecret string,
	jwtExpire time.Duration,
) *AuthService {
	return &AuthService{
		userRepo:  userRepo,
		notifier:  notifier,
		logger:    logger,
		jwtSecret: jwtSecret,
		jwtExpire: jwtExpire,
	}
}

// Register creates an unverified user and emits a welcome notification.
// The notification is fire-and-forget and cannot fail registration.
func (s *AuthService) Register(email, username, firstName, lastName, plainPassword, deviceToken string) (*models.User, error) {
	hash, err := password.Hash(plainPassword)
	if err != nil {
		s.logger.Error("password hashing failed", zap.Error(err))
		return nil, err
	}

	user := &models.User{
		Email:        email,
		Username:     username,
		FirstName:    firstName,
		LastName:     lastName,
		PasswordHash: hash,
		Verified:     false,
	}
	if deviceToken != "" {
		user.DeviceTokens = []models.DeviceToken{{Token: deviceToken}}
	}

	if err := s.userRepo.Create(user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrEmailTaken
		}
		s.logger.Error("registration failed", zap.String("email", email), zap.Error(err))
		return nil, err
	}

	s.notifier.Emit(events.Notification{
		Name: events.WelcomeEmail,
		To:   user.Email,
		Data: map[string]string{"name": user.Username},
	})

	return user, nil
}

// Login verifies credentials and issues an access token. A missing user
// and a wrong password both surface as ErrInvalidCredentials so callers
// cannot tell which field was wrong.
func (s *AuthService) Login(email, plainPassword string) (string, error) {
	user, err := s.userRepo.FindByEmail(email)
	if err != nil {
		s.logger.Error("login lookup failed", zap.Error(err))
		return "", ErrInvalidCredentials
	}
	if user == nil {
		return "", ErrInvalidCredentials
	}

	match, err := password.Verify(user.PasswordHash, plainPassword)
	if err != nil {
		s.logger.Error("password verification failed", zap.Error(err))
		return "", ErrInvalidCredentials
	}
	if !match {
		return "", ErrInvalidCredentials
	}

	return s.signToken(user)
}

func (s *AuthService) signToken(user *models.User) (string, error) {
	claims := AccessClaims{
		Email: user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   fmt.Sprint(user.ID),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(s.jwtExpire)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Issuer:    "farmgate",
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.jwtSecret))
}

// ValidateToken parses and checks an access token, returning its claims.
func (s *AuthService) ValidateToken(tokenString string) (*AccessClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &AccessClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(s.jwtSecret), nil
	})

	if err != nil {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*AccessClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	return claims, nil
}

// ForgotPassword issues a short one-time reset code and hands it to the
// mailer. The code never appears in the direct response.
func (s *AuthService) ForgotPassword(email string) error {
	user, err := s.userRepo.FindByEmail(email)
	if err != nil {
		s.logger.Error("forgot-password lookup failed", zap.Error(err))
		return err
	}
	if user == nil {
		return ErrUserNotFound
	}

	code, err := randomCode()
	if err != nil {
		return err
	}

	user.ResetCode = &code
	if err := s.userRepo.Update(user); err != nil {
		s.logger.Error("storing reset code failed", zap.Error(err))
		return err
	}

	s.notifier.Emit(events.Notification{
		Name: events.SendVerification,
		To:   user.Email,
		Data: map[string]string{"name": user.Username, "token": code},
	})

	return nil
}

// VerifyResetCode marks the user verified when the submitted code
// matches the outstanding one. The code is not consumed here; only
// ResetPassword clears it.
func (s *AuthService) VerifyResetCode(email, code string) (string, error) {
	user, err := s.userRepo.FindByEmail(email)
	if err != nil {
		s.logger.Error("verify lookup failed", zap.Error(err))
		return "", err
	}
	if user == nil {
		return "", ErrUserNotFound
	}

	if user.ResetCode == nil || *user.ResetCode != code {
		return "", ErrCodeMismatch
	}

	user.Verified = true
	if err := s.userRepo.Update(user); err != nil {
		s.logger.Error("marking user verified failed", zap.Error(err))
		return "", err
	}

	return *user.ResetCode, nil
}

// ResetPassword replaces the password of whichever user holds the reset
// code and clears the code. Authorization is the code match alone; the
// verified flag is not consulted.
func (s *AuthService) ResetPassword(resetCode, newPassword string) error {
	user, err := s.userRepo.FindByResetCode(resetCode)
	if err != nil {
		s.logger.Error("reset-code lookup failed", zap.Error(err))
		return err
	}
	if user == nil {
		return ErrResetCodeInvalid
	}

	hash, err := password.Hash(newPassword)
	if err != nil {
		s.logger.Error("password hashing failed", zap.Error(err))
		return err
	}

	user.PasswordHash = hash
	user.ResetCode = nil
	if err := s.userRepo.Update(user); err != nil {
		s.logger.Error("password reset failed", zap.Error(err))
		return err
	}

	s.notifier.Emit(events.Notification{
		Name: events.PasswordReset,
		To:   user.Email,
		Data: map[string]string{"name": user.Username},
	})

	return nil
}

// randomCode returns 3 random bytes as 6 hex characters.
func randomCode() (string, error) {
	buf := make([]byte, 3)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
