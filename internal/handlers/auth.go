package handlers

import (
	"errors"
	"net/http"

	"github.com/agrolink/farmgate/internal/services"
	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	authService *services.AuthService
}

func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

type RegisterRequest struct {
	Email       string `json:"email" binding:"required,email"`
	Username    string `json:"username" binding:"required"`
	FirstName   string `json:"firstname"`
	LastName    string `json:"lastname"`
	Password    string `json:"password" binding:"required"`
	DeviceToken string `json:"deviceToken"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	AccessToken string `json:"access_token"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type VerifyTokenRequest struct {
	Email string `json:"email" binding:"required,email"`
	Token string `json:"token" binding:"required"`
}

type ResetPasswordRequest struct {
	ResetToken  string `json:"resetToken" binding:"required"`
	NewPassword string `json:"newPassword" binding:"required"`
}

// Register godoc
// @Summary Register a new user
// @Description Create an account and send a welcome email
// @Tags auth
// @Accept json
// @Produce json
// @Param request body RegisterRequest true "Registration details"
// @Success 201 {object} Envelope
// @Failure 400 {object} Envelope
// @Failure 500 {object} Envelope
// @Router /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}

	user, err := h.authService.Register(req.Email, req.Username, req.FirstName, req.LastName, req.Password, req.DeviceToken)
	if err != nil {
		if errors.Is(err, services.ErrEmailTaken) {
			fail(c, http.StatusBadRequest, "User already exists")
			return
		}
		fail(c, http.StatusInternalServerError, "Registration failed.")
		return
	}

	respond(c, http.StatusCreated, "User registered.", "Success", gin.H{
		"email":    user.Email,
		"username": user.Username,
	})
}

// Login godoc
// @Summary Log in
// @Description Exchange credentials for a bearer token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Credentials"
// @Success 200 {object} LoginResponse
// @Failure 401 {object} Envelope
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusUnauthorized, "Login failed, try again.")
		return
	}

	token, err := h.authService.Login(req.Email, req.Password)
	if err != nil {
		// Missing user and bad password get the same answer.
		fail(c, http.StatusUnauthorized, "Login failed, try again.")
		return
	}

	c.JSON(http.StatusOK, LoginResponse{AccessToken: token})
}

// ForgotPassword godoc
// @Summary Request a password reset code
// @Description Email a one-time reset code to the user
// @Tags auth
// @Accept json
// @Produce json
// @Param request body ForgotPasswordRequest true "Account email"
// @Success 200 {object} Envelope
// @Failure 500 {object} Envelope
// @Router /auth/forgotPassword [post]
func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req ForgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}

	if err := h.authService.ForgotPassword(req.Email); err != nil {
		fail(c, http.StatusInternalServerError, "Retrieving password failed.")
		return
	}

	respond(c, http.StatusOK, "Reset token has been sent to your email", "success", nil)
}

// VerifyToken godoc
// @Summary Verify a reset code
// @Description Check a submitted reset code and mark the account verified
// @Tags auth
// @Accept json
// @Produce json
// @Param request body VerifyTokenRequest true "Email and code"
// @Success 200 {object} Envelope
// @Failure 400 {object} Envelope
// @Failure 404 {object} Envelope
// @Failure 500 {object} Envelope
// @Router /auth/verifyToken [post]
func (h *AuthHandler) VerifyToken(c *gin.Context) {
	var req VerifyTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}

	code, err := h.authService.VerifyResetCode(req.Email, req.Token)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			fail(c, http.StatusNotFound, "User could not be found.")
			return
		}
		if errors.Is(err, services.ErrCodeMismatch) {
			fail(c, http.StatusBadRequest, "Invalid OTP")
			return
		}
		fail(c, http.StatusInternalServerError, "Token could not be verified.")
		return
	}

	respond(c, http.StatusOK, "Valid Token", "success", gin.H{"token": code})
}

// ResetPassword godoc
// @Summary Reset a password
// @Description Replace the password of the account holding the reset code
// @Tags auth
// @Accept json
// @Produce json
// @Param request body ResetPasswordRequest true "Reset code and new password"
// @Success 200 {object} Envelope
// @Failure 500 {object} Envelope
// @Router /auth/resetPassword [post]
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}

	if err := h.authService.ResetPassword(req.ResetToken, req.NewPassword); err != nil {
		fail(c, http.StatusInternalServerError, "Password could not be reset.")
		return
	}

	respond(c, http.StatusOK, "Password Reset successfully.", "success", nil)
}
