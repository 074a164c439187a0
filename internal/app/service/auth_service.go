package service

import (
	"context"
	"errors"
	"time"

	"github.com/ctoapp/cto-backend/config"
	"github.com/ctoapp/cto-backend/internal/app/model"
	"github.com/ctoapp/cto-backend/internal/app/repository"
	apperrors "github.com/ctoapp/cto-backend/internal/errors"
	"github.com/ctoapp/cto-backend/internal/mailer"
	"github.com/ctoapp/cto-backend/pkg/logger"
	"github.com/ctoapp/cto-backend/pkg/util"
	"gorm.io/gorm"
)

// resetTokenBytes is the entropy of reset and confirmation tokens. The
// rendered form is twice as long in uppercase hex.
const resetTokenBytes = 32

// SignupInput is the payload of a signup request after binding.
type SignupInput struct {
	Email           string
	Password        string
	PasswordConfirm string
	Role            int
}

// ResetInput is the payload of a password reset redemption.
type ResetInput struct {
	Token           string
	Email           string
	Password        string
	PasswordConfirm string
}

type AuthService interface {
	Signup(ctx context.Context, input SignupInput) error
	Confirm(ctx context.Context, email string, code int, token string) (string, error)
	Resend(ctx context.Context, email string) error
	Login(email, password string, remember bool) (string, *model.User, error)
	Forgot(ctx context.Context, email string) error
	Reset(ctx context.Context, input ResetInput) (string, error)
}

type authService struct {
	userRepo         repository.UserRepository
	roleRepo         repository.RoleRepository
	confirmationRepo repository.UserConfirmationRepository
	resetRepo        repository.PasswordResetRepository
	mail             mailer.Mailer
	jwtCfg           config.JWTConfig
	authCfg          config.AuthConfig
	publicURL        string
}

func NewAuthService(
	userRepo repository.UserRepository,
	roleRepo repository.RoleRepository,
	confirmationRepo repository.UserConfirmationRepository,
	resetRepo repository.PasswordResetRepository,
	mail mailer.Mailer,
	jwtCfg config.JWTConfig,
	authCfg config.AuthConfig,
	publicURL string,
) AuthService {
	return &authService{
		userRepo:         userRepo,
		roleRepo:         roleRepo,
		confirmationRepo: confirmationRepo,
		resetRepo:        resetRepo,
		mail:             mail,
		jwtCfg:           jwtCfg,
		authCfg:          authCfg,
		publicURL:        publicURL,
	}
}

// Signup creates an unconfirmed account and dispatches its confirmation
// challenge. The account stays unusable until Confirm succeeds.
func (s *authService) Signup(ctx context.Context, input SignupInput) error {
	logger.Info("Signup attempt", map[string]interface{}{
		"email": input.Email,
	})

	if input.Password != input.PasswordConfirm {
		return apperrors.Validation("Passwords do not match")
	}

	roleNumber := input.Role
	if roleNumber == 0 {
		roleNumber = model.RoleUser
	}
	role, err := s.roleRepo.FindByNumber(roleNumber)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.NotFound("Role not found")
		}
		return apperrors.Internal("failed to look up role", err)
	}

	exists, err := s.userRepo.ExistsByEmailAndRole(input.Email, role.ID)
	if err != nil {
		return apperrors.Internal("failed to check existing account", err)
	}
	if exists {
		logger.Warn("Signup rejected: account already exists", map[string]interface{}{
			"email": input.Email,
		})
		return apperrors.Conflict("An account with this email already exists")
	}

	hash, err := util.HashPassword(input.Password)
	if err != nil {
		return apperrors.Internal("failed to hash password", err)
	}

	user := &model.User{
		Email:        input.Email,
		PasswordHash: hash,
		RoleID:       role.ID,
	}
	if err := s.userRepo.Create(user); err != nil {
		return apperrors.FromDB(err, "user")
	}

	if _, err := s.issueConfirmation(ctx, user); err != nil {
		return err
	}

	logger.Info("Signup completed, confirmation sent", map[string]interface{}{
		"user_id": user.ID,
		"email":   user.Email,
	})
	return nil
}

// issueConfirmation creates a fresh code/token challenge and mails it. A
// delivery failure deactivates the challenge so it can never be redeemed.
func (s *authService) issueConfirmation(ctx context.Context, user *model.User) (*model.UserConfirmation, error) {
	code, err := util.GenerateConfirmationCode()
	if err != nil {
		return nil, apperrors.Internal("failed to generate confirmation code", err)
	}
	token, err := util.GenerateSecureToken(resetTokenBytes)
	if err != nil {
		return nil, apperrors.Internal("failed to generate confirmation token", err)
	}

	confirmation := &model.UserConfirmation{
		UserID:     user.ID,
		Code:       code,
		Token:      token,
		ExpireDate: time.Now().Add(s.authCfg.ConfirmationTTL),
	}
	if err := s.confirmationRepo.Create(confirmation); err != nil {
		return nil, apperrors.FromDB(err, "confirmation")
	}

	msg := mailer.ConfirmationMessage(user.Email, code, token)
	if err := s.mail.Send(ctx, msg); err != nil {
		if derr := s.confirmationRepo.Deactivate(confirmation.ID); derr != nil {
			logger.Error("Failed to deactivate confirmation after mail failure", derr, map[string]interface{}{
				"confirmation_id": confirmation.ID,
			})
		}
		return nil, apperrors.Internal("failed to send confirmation email", err)
	}
	return confirmation, nil
}

// Confirm redeems a confirmation challenge and mints the first session.
func (s *authService) Confirm(_ context.Context, email string, code int, token string) (string, error) {
	user, err := s.userRepo.FindByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", apperrors.NotFound("User not found")
		}
		return "", apperrors.Internal("failed to look up user", err)
	}
	if user.AccountConfirmed {
		return "", apperrors.Validation("Account already confirmed")
	}

	confirmation, err := s.confirmationRepo.FindMatch(user.ID, code, token, time.Now())
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", apperrors.Validation("Invalid or expired confirmation code")
		}
		return "", apperrors.Internal("failed to look up confirmation", err)
	}

	if err := s.confirmationRepo.MarkUsed(confirmation.ID); err != nil {
		return "", apperrors.Internal("failed to consume confirmation", err)
	}

	user.AccountConfirmed = true
	user.Touch(user.ID)
	if err := s.userRepo.Update(user); err != nil {
		return "", apperrors.Internal("failed to confirm account", err)
	}

	logger.Info("Account confirmed", map[string]interface{}{
		"user_id": user.ID,
		"email":   user.Email,
	})
	return s.mintSession(user, false)
}

// Resend issues a replacement confirmation challenge. Throttled so the
// mailbox is not flooded; older challenges are retired only after the new
// one is actually on its way.
func (s *authService) Resend(ctx context.Context, email string) error {
	user, err := s.userRepo.FindByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.NotFound("User not found")
		}
		return apperrors.Internal("failed to look up user", err)
	}
	if user.AccountConfirmed {
		return apperrors.Validation("Account already confirmed")
	}

	latest, err := s.confirmationRepo.FindLatestActive(user.ID)
	if err != nil {
		return apperrors.Internal("failed to look up confirmations", err)
	}
	if latest != nil && time.Since(latest.CreatedAt) < s.authCfg.ResendThrottle {
		logger.Warn("Resend throttled", map[string]interface{}{
			"user_id": user.ID,
		})
		return apperrors.Validation("You can request a new code every 3 minutes")
	}

	confirmation, err := s.issueConfirmation(ctx, user)
	if err != nil {
		return err
	}

	if err := s.confirmationRepo.DeactivateOthers(user.ID, confirmation.ID); err != nil {
		logger.Error("Failed to deactivate superseded confirmations", err, map[string]interface{}{
			"user_id": user.ID,
		})
	}
	return nil
}

// Login verifies credentials and mints a session. Unconfirmed accounts
// cannot log in even with the right password.
func (s *authService) Login(email, password string, remember bool) (string, *model.User, error) {
	user, err := s.userRepo.FindByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil, apperrors.Unauthorized("Invalid credentials")
		}
		return "", nil, apperrors.Internal("failed to look up user", err)
	}

	if !util.VerifyPassword(user.PasswordHash, password) {
		logger.Warn("Login failed: wrong password", map[string]interface{}{
			"email": email,
		})
		return "", nil, apperrors.Unauthorized("Invalid credentials")
	}

	if !user.AccountConfirmed {
		return "", nil, apperrors.Unauthorized("Account not confirmed")
	}

	token, err := s.mintSession(user, remember)
	if err != nil {
		return "", nil, err
	}

	logger.Info("Login succeeded", map[string]interface{}{
		"user_id":  user.ID,
		"remember": remember,
	})
	return token, user, nil
}

// Forgot opens a password reset challenge and mails its link.
func (s *authService) Forgot(ctx context.Context, email string) error {
	user, err := s.userRepo.FindByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.NotFound("User not found")
		}
		return apperrors.Internal("failed to look up user", err)
	}
	if !user.AccountConfirmed {
		return apperrors.Unauthorized("Account not confirmed")
	}

	token, err := util.GenerateSecureToken(resetTokenBytes)
	if err != nil {
		return apperrors.Internal("failed to generate reset token", err)
	}

	reset := &model.PasswordReset{
		UserID:      user.ID,
		Token:       token,
		ExpireDate:  time.Now().Add(s.authCfg.ResetTTL),
		OldPassword: user.PasswordHash,
	}
	if err := s.resetRepo.Create(reset); err != nil {
		return apperrors.FromDB(err, "password reset")
	}

	msg := mailer.ResetMessage(user.Email, s.publicURL, token)
	if err := s.mail.Send(ctx, msg); err != nil {
		if derr := s.resetRepo.Deactivate(reset.ID); derr != nil {
			logger.Error("Failed to deactivate reset after mail failure", derr, map[string]interface{}{
				"reset_id": reset.ID,
			})
		}
		return apperrors.Internal("failed to send reset email", err)
	}

	logger.Info("Password reset issued", map[string]interface{}{
		"user_id": user.ID,
	})
	return nil
}

// Reset redeems a reset challenge. The candidate password must differ from
// the current secret and from every password previously installed through a
// reset; the change invalidates all sessions minted before it.
func (s *authService) Reset(_ context.Context, input ResetInput) (string, error) {
	if input.Password != input.PasswordConfirm {
		return "", apperrors.Validation("Passwords do not match")
	}

	user, err := s.userRepo.FindByEmail(input.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", apperrors.NotFound("User not found")
		}
		return "", apperrors.Internal("failed to look up user", err)
	}
	if !user.AccountConfirmed {
		return "", apperrors.Unauthorized("Account not confirmed")
	}

	if util.VerifyPassword(user.PasswordHash, input.Password) {
		return "", apperrors.Conflict("New password must differ from the current password")
	}

	reset, err := s.resetRepo.FindActiveByToken(user.ID, input.Token, time.Now())
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", apperrors.NotFound("Reset token expired")
		}
		return "", apperrors.Internal("failed to look up reset", err)
	}

	previous, err := s.resetRepo.FindUsedExcept(user.ID, reset.ID)
	if err != nil {
		return "", apperrors.Internal("failed to load reset history", err)
	}
	for i := range previous {
		if util.VerifyPassword(previous[i].OldPassword, input.Password) {
			return "", apperrors.Conflict("Password was already used")
		}
	}

	hash, err := util.HashPassword(input.Password)
	if err != nil {
		return "", apperrors.Internal("failed to hash password", err)
	}

	updated, err := s.userRepo.UpdatePassword(user.ID, hash, user.ID)
	if err != nil {
		return "", apperrors.Internal("failed to update password", err)
	}

	if err := s.resetRepo.MarkUsed(reset.ID, hash); err != nil {
		return "", apperrors.Internal("failed to consume reset", err)
	}

	logger.Info("Password reset completed", map[string]interface{}{
		"user_id": user.ID,
	})
	return s.mintSession(updated, false)
}

func (s *authService) mintSession(user *model.User, remember bool) (string, error) {
	roleNumber := model.RoleUser
	if user.Role != nil {
		roleNumber = user.Role.Number
	}
	token, err := util.GenerateToken(
		user.ID,
		user.Email,
		roleNumber,
		remember,
		s.jwtCfg.Secret,
		s.jwtCfg.Expiry,
		s.jwtCfg.RememberExpiry,
	)
	if err != nil {
		logger.Error("Failed to generate session token", err, map[string]interface{}{
			"user_id": user.ID,
		})
		return "", apperrors.Internal("failed to generate session token", err)
	}
	return token, nil
}
