package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ctoapp/cto-backend/config"
	"github.com/ctoapp/cto-backend/internal/app/model"
	"github.com/ctoapp/cto-backend/internal/app/repository"
	"github.com/ctoapp/cto-backend/internal/db"
	apperrors "github.com/ctoapp/cto-backend/internal/errors"
	"github.com/ctoapp/cto-backend/internal/mailer"
	"github.com/ctoapp/cto-backend/pkg/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// recordingMailer captures outbound messages and can be told to fail.
type recordingMailer struct {
	sent []mailer.Message
	fail bool
}

func (m *recordingMailer) Send(_ context.Context, msg mailer.Message) error {
	if m.fail {
		return errors.New("smtp unavailable")
	}
	m.sent = append(m.sent, msg)
	return nil
}

type authTestEnv struct {
	db      *gorm.DB
	service AuthService
	mail    *recordingMailer
}

func setupAuthServiceTest(t *testing.T) *authTestEnv {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.CleanupTestDB(testDB) })

	mail := &recordingMailer{}
	svc := NewAuthService(
		repository.NewUserRepository(testDB),
		repository.NewRoleRepository(testDB),
		repository.NewUserConfirmationRepository(testDB),
		repository.NewPasswordResetRepository(testDB),
		mail,
		config.JWTConfig{Secret: "test-secret", Expiry: time.Hour, RememberExpiry: 168 * time.Hour},
		config.AuthConfig{
			ConfirmationTTL: 10 * time.Minute,
			ResetTTL:        10 * time.Minute,
			ResendThrottle:  3 * time.Minute,
		},
		"http://localhost:5000",
	)
	return &authTestEnv{db: testDB, service: svc, mail: mail}
}

func (env *authTestEnv) signup(t *testing.T, email, password string) {
	err := env.service.Signup(context.Background(), SignupInput{
		Email:           email,
		Password:        password,
		PasswordConfirm: password,
	})
	require.NoError(t, err)
}

// latestChallenge reads the open confirmation challenge straight from the
// database, standing in for the mailbox.
func (env *authTestEnv) latestChallenge(t *testing.T, email string) *model.UserConfirmation {
	var user model.User
	require.NoError(t, env.db.Where("email = ?", email).First(&user).Error)

	var confirmation model.UserConfirmation
	err := env.db.Where("user_id = ? AND is_active = ? AND is_used = ?", user.ID, true, false).
		Order("id DESC").First(&confirmation).Error
	require.NoError(t, err)
	return &confirmation
}

func (env *authTestEnv) confirmAccount(t *testing.T, email string) string {
	challenge := env.latestChallenge(t, email)
	token, err := env.service.Confirm(context.Background(), email, challenge.Code, challenge.Token)
	require.NoError(t, err)
	return token
}

// resetToken fetches the open reset token for the user from the database.
func (env *authTestEnv) resetToken(t *testing.T, email string) string {
	var user model.User
	require.NoError(t, env.db.Where("email = ?", email).First(&user).Error)

	var reset model.PasswordReset
	err := env.db.Where("user_id = ? AND is_active = ? AND is_used = ?", user.ID, true, false).
		Order("id DESC").First(&reset).Error
	require.NoError(t, err)
	return reset.Token
}

func TestAuthService_Signup(t *testing.T) {
	env := setupAuthServiceTest(t)

	t.Run("creates an unconfirmed account and mails the challenge", func(t *testing.T) {
		env.signup(t, "new@example.com", "secret77")

		var user model.User
		require.NoError(t, env.db.Where("email = ?", "new@example.com").First(&user).Error)
		assert.False(t, user.AccountConfirmed)
		assert.NotEqual(t, "secret77", user.PasswordHash)

		require.Len(t, env.mail.sent, 1)
		assert.Equal(t, "new@example.com", env.mail.sent[0].To)

		challenge := env.latestChallenge(t, "new@example.com")
		assert.GreaterOrEqual(t, challenge.Code, 100000)
		assert.LessOrEqual(t, challenge.Code, 999999)
		assert.Len(t, challenge.Token, 64)
	})

	t.Run("password mismatch leaves no confirmable account", func(t *testing.T) {
		err := env.service.Signup(context.Background(), SignupInput{
			Email:           "mismatch@example.com",
			Password:        "secret77",
			PasswordConfirm: "secret78",
		})
		assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))

		var count int64
		env.db.Model(&model.User{}).Where("email = ?", "mismatch@example.com").Count(&count)
		assert.Equal(t, int64(0), count)
	})

	t.Run("duplicate email and role conflicts", func(t *testing.T) {
		err := env.service.Signup(context.Background(), SignupInput{
			Email:           "new@example.com",
			Password:        "secret77",
			PasswordConfirm: "secret77",
		})
		assert.Equal(t, apperrors.KindConflict, apperrors.KindOf(err))
	})

	t.Run("unknown role is rejected", func(t *testing.T) {
		err := env.service.Signup(context.Background(), SignupInput{
			Email:           "role@example.com",
			Password:        "secret77",
			PasswordConfirm: "secret77",
			Role:            42,
		})
		assert.Equal(t, apperrors.KindNotFound, apperrors.KindOf(err))
	})
}

func TestAuthService_Signup_MailFailureCompensates(t *testing.T) {
	env := setupAuthServiceTest(t)
	env.mail.fail = true

	err := env.service.Signup(context.Background(), SignupInput{
		Email:           "fail@example.com",
		Password:        "secret77",
		PasswordConfirm: "secret77",
	})
	assert.Equal(t, apperrors.KindInternal, apperrors.KindOf(err))

	// The challenge that never reached the mailbox must not be redeemable
	var count int64
	env.db.Model(&model.UserConfirmation{}).
		Joins("JOIN users ON users.id = user_confirmations.user_id").
		Where("users.email = ? AND user_confirmations.is_active = ?", "fail@example.com", true).
		Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestAuthService_Confirm(t *testing.T) {
	env := setupAuthServiceTest(t)
	env.signup(t, "user@example.com", "secret77")

	challenge := env.latestChallenge(t, "user@example.com")

	t.Run("wrong code is rejected", func(t *testing.T) {
		_, err := env.service.Confirm(context.Background(), "user@example.com", challenge.Code+1, challenge.Token)
		assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))
	})

	t.Run("redeeming mints a session", func(t *testing.T) {
		token, err := env.service.Confirm(context.Background(), "user@example.com", challenge.Code, challenge.Token)
		require.NoError(t, err)

		claims, err := util.ValidateToken(token, "test-secret")
		require.NoError(t, err)
		assert.Equal(t, "user@example.com", claims.Email)

		var user model.User
		require.NoError(t, env.db.Where("email = ?", "user@example.com").First(&user).Error)
		assert.True(t, user.AccountConfirmed)
	})

	t.Run("a confirmed account cannot confirm again", func(t *testing.T) {
		_, err := env.service.Confirm(context.Background(), "user@example.com", challenge.Code, challenge.Token)
		assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))
	})

	t.Run("unknown account", func(t *testing.T) {
		_, err := env.service.Confirm(context.Background(), "nobody@example.com", 123456, "X")
		assert.Equal(t, apperrors.KindNotFound, apperrors.KindOf(err))
	})
}

func TestAuthService_Confirm_Expired(t *testing.T) {
	env := setupAuthServiceTest(t)
	env.signup(t, "late@example.com", "secret77")

	challenge := env.latestChallenge(t, "late@example.com")
	require.NoError(t, env.db.Model(&model.UserConfirmation{}).
		Where("id = ?", challenge.ID).
		Update("expire_date", time.Now().Add(-time.Minute)).Error)

	_, err := env.service.Confirm(context.Background(), "late@example.com", challenge.Code, challenge.Token)
	assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))
}

func TestAuthService_Resend(t *testing.T) {
	env := setupAuthServiceTest(t)
	env.signup(t, "user@example.com", "secret77")
	first := env.latestChallenge(t, "user@example.com")

	t.Run("throttled inside the window", func(t *testing.T) {
		err := env.service.Resend(context.Background(), "user@example.com")
		assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))
	})

	t.Run("allowed once the window passes and supersedes the old challenge", func(t *testing.T) {
		require.NoError(t, env.db.Model(&model.UserConfirmation{}).
			Where("id = ?", first.ID).
			Update("created_at", time.Now().Add(-4*time.Minute)).Error)

		require.NoError(t, env.service.Resend(context.Background(), "user@example.com"))
		assert.Len(t, env.mail.sent, 2)

		second := env.latestChallenge(t, "user@example.com")
		assert.NotEqual(t, first.ID, second.ID)

		// The superseded challenge is dead, the new one redeems
		_, err := env.service.Confirm(context.Background(), "user@example.com", first.Code, first.Token)
		assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))

		_, err = env.service.Confirm(context.Background(), "user@example.com", second.Code, second.Token)
		assert.NoError(t, err)
	})

	t.Run("confirmed accounts cannot resend", func(t *testing.T) {
		err := env.service.Resend(context.Background(), "user@example.com")
		assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))
	})
}

func TestAuthService_Resend_MailFailureKeepsOldChallenge(t *testing.T) {
	env := setupAuthServiceTest(t)
	env.signup(t, "user@example.com", "secret77")
	first := env.latestChallenge(t, "user@example.com")

	require.NoError(t, env.db.Model(&model.UserConfirmation{}).
		Where("id = ?", first.ID).
		Update("created_at", time.Now().Add(-4*time.Minute)).Error)

	env.mail.fail = true
	err := env.service.Resend(context.Background(), "user@example.com")
	assert.Equal(t, apperrors.KindInternal, apperrors.KindOf(err))

	// The old challenge was not deactivated and still redeems
	env.mail.fail = false
	_, err = env.service.Confirm(context.Background(), "user@example.com", first.Code, first.Token)
	assert.NoError(t, err)
}

func TestAuthService_Login(t *testing.T) {
	env := setupAuthServiceTest(t)
	env.signup(t, "user@example.com", "secret77")

	t.Run("unconfirmed account cannot log in", func(t *testing.T) {
		_, _, err := env.service.Login("user@example.com", "secret77", false)
		assert.Equal(t, apperrors.KindUnauthorized, apperrors.KindOf(err))
	})

	env.confirmAccount(t, "user@example.com")

	t.Run("unknown email", func(t *testing.T) {
		_, _, err := env.service.Login("nobody@example.com", "secret77", false)
		assert.Equal(t, apperrors.KindUnauthorized, apperrors.KindOf(err))
	})

	t.Run("wrong password", func(t *testing.T) {
		_, _, err := env.service.Login("user@example.com", "wrong999", false)
		assert.Equal(t, apperrors.KindUnauthorized, apperrors.KindOf(err))
	})

	t.Run("valid credentials mint a session", func(t *testing.T) {
		token, user, err := env.service.Login("user@example.com", "secret77", false)
		require.NoError(t, err)
		assert.Equal(t, "user@example.com", user.Email)

		claims, err := util.ValidateToken(token, "test-secret")
		require.NoError(t, err)
		assert.Equal(t, user.ID, claims.UserID)
		assert.False(t, claims.Remember)
	})

	t.Run("remember extends the session", func(t *testing.T) {
		token, _, err := env.service.Login("user@example.com", "secret77", true)
		require.NoError(t, err)

		claims, err := util.ValidateToken(token, "test-secret")
		require.NoError(t, err)
		assert.True(t, claims.Remember)
		assert.True(t, claims.ExpiresAt.After(time.Now().Add(100*time.Hour)))
	})
}

func TestAuthService_ForgotAndReset(t *testing.T) {
	env := setupAuthServiceTest(t)
	env.signup(t, "user@example.com", "secret77")
	env.confirmAccount(t, "user@example.com")

	t.Run("forgot requires a known account", func(t *testing.T) {
		err := env.service.Forgot(context.Background(), "nobody@example.com")
		assert.Equal(t, apperrors.KindNotFound, apperrors.KindOf(err))
	})

	require.NoError(t, env.service.Forgot(context.Background(), "user@example.com"))
	token := env.resetToken(t, "user@example.com")

	t.Run("mismatched candidate", func(t *testing.T) {
		_, err := env.service.Reset(context.Background(), ResetInput{
			Token: token, Email: "user@example.com",
			Password: "fresh888", PasswordConfirm: "fresh999",
		})
		assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))
	})

	t.Run("candidate equal to the current password conflicts", func(t *testing.T) {
		_, err := env.service.Reset(context.Background(), ResetInput{
			Token: token, Email: "user@example.com",
			Password: "secret77", PasswordConfirm: "secret77",
		})
		assert.Equal(t, apperrors.KindConflict, apperrors.KindOf(err))
	})

	t.Run("wrong token", func(t *testing.T) {
		_, err := env.service.Reset(context.Background(), ResetInput{
			Token: "DEADBEEF", Email: "user@example.com",
			Password: "fresh888", PasswordConfirm: "fresh888",
		})
		assert.Equal(t, apperrors.KindNotFound, apperrors.KindOf(err))
	})

	t.Run("redeeming installs the new password", func(t *testing.T) {
		sessionToken, err := env.service.Reset(context.Background(), ResetInput{
			Token: token, Email: "user@example.com",
			Password: "fresh888", PasswordConfirm: "fresh888",
		})
		require.NoError(t, err)

		_, err = util.ValidateToken(sessionToken, "test-secret")
		assert.NoError(t, err)

		// Old password is gone, new one works
		_, _, err = env.service.Login("user@example.com", "secret77", false)
		assert.Equal(t, apperrors.KindUnauthorized, apperrors.KindOf(err))
		_, _, err = env.service.Login("user@example.com", "fresh888", false)
		assert.NoError(t, err)
	})

	t.Run("a consumed token cannot be redeemed twice", func(t *testing.T) {
		_, err := env.service.Reset(context.Background(), ResetInput{
			Token: token, Email: "user@example.com",
			Password: "other999", PasswordConfirm: "other999",
		})
		assert.Equal(t, apperrors.KindNotFound, apperrors.KindOf(err))
	})

	t.Run("returning to a previously used password conflicts", func(t *testing.T) {
		require.NoError(t, env.service.Forgot(context.Background(), "user@example.com"))
		second := env.resetToken(t, "user@example.com")

		// secret77 was the password snapshotted by the first consumed reset
		_, err := env.service.Reset(context.Background(), ResetInput{
			Token: second, Email: "user@example.com",
			Password: "secret77", PasswordConfirm: "secret77",
		})
		assert.Equal(t, apperrors.KindConflict, apperrors.KindOf(err))
	})
}

func TestAuthService_Forgot_RequiresConfirmedAccount(t *testing.T) {
	env := setupAuthServiceTest(t)
	env.signup(t, "user@example.com", "secret77")

	err := env.service.Forgot(context.Background(), "user@example.com")
	assert.Equal(t, apperrors.KindUnauthorized, apperrors.KindOf(err))
}

func TestAuthService_Forgot_MailFailureCompensates(t *testing.T) {
	env := setupAuthServiceTest(t)
	env.signup(t, "user@example.com", "secret77")
	env.confirmAccount(t, "user@example.com")

	env.mail.fail = true
	err := env.service.Forgot(context.Background(), "user@example.com")
	assert.Equal(t, apperrors.KindInternal, apperrors.KindOf(err))

	var count int64
	env.db.Model(&model.PasswordReset{}).Where("is_active = ?", true).Count(&count)
	assert.Equal(t, int64(0), count)
}
