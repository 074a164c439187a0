package controller

import (
	"net/http"

	"github.com/ctoapp/cto-backend/internal/app/service"
	apperrors "github.com/ctoapp/cto-backend/internal/errors"
	"github.com/ctoapp/cto-backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

type AuthController struct {
	authService service.AuthService
}

func NewAuthController(authService service.AuthService) *AuthController {
	return &AuthController{authService: authService}
}

type SignupRequest struct {
	Email           string `json:"email" binding:"required,email"`
	Password        string `json:"password" binding:"required,min=7"`
	PasswordConfirm string `json:"passwordConfirm" binding:"required"`
	Role            int    `json:"role"`
}

type ConfirmRequest struct {
	Email string `json:"email" binding:"required,email"`
	Code  int    `json:"code" binding:"required"`
	Token string `json:"token" binding:"required"`
}

type ResendRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
	Remember bool   `json:"remember"`
}

type ForgotRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type ResetRequest struct {
	Email           string `json:"email" binding:"required,email"`
	Password        string `json:"password" binding:"required,min=7"`
	PasswordConfirm string `json:"passwordConfirm" binding:"required"`
}

// Signup handles account creation.
// POST /api/authentication/signup
func (ctrl *AuthController) Signup(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid signup request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.RespondError(c, apperrors.Validation("Invalid request payload"))
		return
	}

	err := ctrl.authService.Signup(c.Request.Context(), service.SignupInput{
		Email:           req.Email,
		Password:        req.Password,
		PasswordConfirm: req.PasswordConfirm,
		Role:            req.Role,
	})
	if err != nil {
		apperrors.RespondError(c, err)
		return
	}

	apperrors.Respond(c, http.StatusCreated, gin.H{"sent": true})
}

// Confirm redeems a confirmation challenge and returns the first session.
// POST /api/authentication/confirm
func (ctrl *AuthController) Confirm(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req ConfirmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid confirm request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.RespondError(c, apperrors.Validation("Invalid request payload"))
		return
	}

	token, err := ctrl.authService.Confirm(c.Request.Context(), req.Email, req.Code, req.Token)
	if err != nil {
		apperrors.RespondError(c, err)
		return
	}

	apperrors.Respond(c, http.StatusOK, gin.H{"token": token})
}

// Resend issues a replacement confirmation challenge.
// POST /api/authentication/resend
func (ctrl *AuthController) Resend(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req ResendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid resend request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.RespondError(c, apperrors.Validation("Invalid request payload"))
		return
	}

	if err := ctrl.authService.Resend(c.Request.Context(), req.Email); err != nil {
		apperrors.RespondError(c, err)
		return
	}

	apperrors.Respond(c, http.StatusCreated, gin.H{"sent": true})
}

// Login authenticates an account and returns a session token.
// POST /api/authentication/login
func (ctrl *AuthController) Login(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid login request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.RespondError(c, apperrors.Validation("Invalid request payload"))
		return
	}

	token, _, err := ctrl.authService.Login(req.Email, req.Password, req.Remember)
	if err != nil {
		apperrors.RespondError(c, err)
		return
	}

	apperrors.Respond(c, http.StatusCreated, gin.H{"token": token})
}

// Forgot opens a password reset and mails its link.
// POST /api/authentication/forgot
func (ctrl *AuthController) Forgot(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req ForgotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid forgot request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.RespondError(c, apperrors.Validation("Invalid request payload"))
		return
	}

	if err := ctrl.authService.Forgot(c.Request.Context(), req.Email); err != nil {
		apperrors.RespondError(c, err)
		return
	}

	apperrors.Respond(c, http.StatusOK, gin.H{"sent": true})
}

// Reset redeems a reset token and installs the new password.
// POST /api/authentication/reset/:resetToken
func (ctrl *AuthController) Reset(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req ResetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid reset request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.RespondError(c, apperrors.Validation("Invalid request payload"))
		return
	}

	token, err := ctrl.authService.Reset(c.Request.Context(), service.ResetInput{
		Token:           c.Param("resetToken"),
		Email:           req.Email,
		Password:        req.Password,
		PasswordConfirm: req.PasswordConfirm,
	})
	if err != nil {
		apperrors.RespondError(c, err)
		return
	}

	apperrors.Respond(c, http.StatusCreated, gin.H{"token": token})
}
