package controller

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ctoapp/cto-backend/config"
	"github.com/ctoapp/cto-backend/internal/app/model"
	"github.com/ctoapp/cto-backend/internal/app/repository"
	"github.com/ctoapp/cto-backend/internal/app/service"
	"github.com/ctoapp/cto-backend/internal/db"
	"github.com/ctoapp/cto-backend/internal/mailer"
	"github.com/ctoapp/cto-backend/internal/middleware"
	"github.com/ctoapp/cto-backend/internal/storage"
	"github.com/ctoapp/cto-backend/pkg/util"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const testJWTSecret = "test-secret"

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

type testEnv struct {
	db     *gorm.DB
	engine *gin.Engine
	mail   *recordingMailer
}

// setupTestEnv wires the full HTTP stack over an in-memory database, a
// temp-dir file store and a recording mailer.
func setupTestEnv(t *testing.T) *testEnv {
	gin.SetMode(gin.TestMode)

	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.CleanupTestDB(testDB) })

	store, err := storage.NewLocalStorage(t.TempDir(), "http://localhost:5000")
	require.NoError(t, err)
	mail := &recordingMailer{}

	userRepo := repository.NewUserRepository(testDB)
	roleRepo := repository.NewRoleRepository(testDB)
	confirmationRepo := repository.NewUserConfirmationRepository(testDB)
	resetRepo := repository.NewPasswordResetRepository(testDB)
	manufacturerRepo := repository.NewManufacturerRepository(testDB)
	toolRepo := repository.NewToolRepository(testDB)
	techniqueRepo := repository.NewTechniqueRepository(testDB)
	productRepo := repository.NewProductRepository(testDB)

	authService := service.NewAuthService(
		userRepo, roleRepo, confirmationRepo, resetRepo, mail,
		config.JWTConfig{Secret: testJWTSecret, Expiry: time.Hour, RememberExpiry: 168 * time.Hour},
		config.AuthConfig{
			ConfirmationTTL: 10 * time.Minute,
			ResetTTL:        10 * time.Minute,
			ResendThrottle:  3 * time.Minute,
		},
		"http://localhost:5000",
	)

	authController := NewAuthController(authService)
	manufacturerController := NewManufacturerController(service.NewManufacturerService(manufacturerRepo, toolRepo, store))
	toolController := NewToolController(service.NewToolService(toolRepo, store))
	techniqueController := NewTechniqueController(service.NewTechniqueService(techniqueRepo, store))
	productController := NewProductController(service.NewProductService(productRepo, manufacturerRepo, toolRepo, store))

	authMiddleware := middleware.NewAuthMiddleware(userRepo, testJWTSecret)

	engine := gin.New()
	api := engine.Group("/api")

	auth := api.Group("/authentication")
	auth.POST("/signup", authController.Signup)
	auth.POST("/login", authController.Login)
	auth.POST("/confirm", authController.Confirm)
	auth.POST("/resend", authController.Resend)
	auth.POST("/forgot", authController.Forgot)
	auth.POST("/reset/:resetToken", authController.Reset)

	mount := func(group *gin.RouterGroup, list, get, create, update, del gin.HandlerFunc) {
		group.GET("", list)
		group.GET("/:id", get)
		group.POST("", authMiddleware.Authorize(), authMiddleware.Protect(model.RoleAdmin), create)
		group.PUT("/:id", authMiddleware.Authorize(), authMiddleware.Protect(model.RoleAdmin), update)
		group.DELETE("/:id", authMiddleware.Authorize(), authMiddleware.Protect(model.RoleAdmin), del)
	}
	mount(api.Group("/manufacturers"), manufacturerController.List, manufacturerController.Get, manufacturerController.Create, manufacturerController.Update, manufacturerController.Delete)
	mount(api.Group("/tools"), toolController.List, toolController.Get, toolController.Create, toolController.Update, toolController.Delete)
	mount(api.Group("/techniques"), techniqueController.List, techniqueController.Get, techniqueController.Create, techniqueController.Update, techniqueController.Delete)
	mount(api.Group("/products"), productController.List, productController.Get, productController.Create, productController.Update, productController.Delete)

	return &testEnv{db: testDB, engine: engine, mail: mail}
}

// tokenForRole creates a confirmed account with the given role and returns
// a session token for it.
func (env *testEnv) tokenForRole(t *testing.T, email string, roleNumber int) string {
	var role model.Role
	require.NoError(t, env.db.Where("number = ?", roleNumber).First(&role).Error)

	hash, err := util.HashPassword("secret77")
	require.NoError(t, err)

	user := &model.User{
		Email:            email,
		PasswordHash:     hash,
		AccountConfirmed: true,
		RoleID:           role.ID,
	}
	require.NoError(t, env.db.Create(user).Error)

	token, err := util.GenerateToken(user.ID, email, roleNumber, false, testJWTSecret, time.Hour, 168*time.Hour)
	require.NoError(t, err)
	return token
}
