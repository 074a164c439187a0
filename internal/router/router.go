package router

import (
	"github.com/ctoapp/cto-backend/config"
	"github.com/ctoapp/cto-backend/internal/app/controller"
	"github.com/ctoapp/cto-backend/internal/app/model"
	"github.com/ctoapp/cto-backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

type Router struct {
	authController         *controller.AuthController
	manufacturerController *controller.ManufacturerController
	toolController         *controller.ToolController
	techniqueController    *controller.TechniqueController
	productController      *controller.ProductController
	authMiddleware         *middleware.AuthMiddleware
	config                 *config.Config
}

func NewRouter(
	authController *controller.AuthController,
	manufacturerController *controller.ManufacturerController,
	toolController *controller.ToolController,
	techniqueController *controller.TechniqueController,
	productController *controller.ProductController,
	authMiddleware *middleware.AuthMiddleware,
	cfg *config.Config,
) *Router {
	return &Router{
		authController:         authController,
		manufacturerController: manufacturerController,
		toolController:         toolController,
		techniqueController:    techniqueController,
		productController:      productController,
		authMiddleware:         authMiddleware,
		config:                 cfg,
	}
}

func (r *Router) Setup() *gin.Engine {
	gin.SetMode(r.config.Server.GinMode)

	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.LoggingMiddleware())
	router.Use(corsMiddleware(r.config.CORS.AllowedOrigins))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"message": "CTO App API is running",
		})
	})

	// Serve uploaded files when the local storage driver is in use
	router.Static("/public", r.config.Storage.LocalDir)

	api := router.Group("/api")
	{
		auth := api.Group("/authentication")
		{
			auth.POST("/signup", r.authController.Signup)
			auth.POST("/login", r.authController.Login)
			auth.POST("/confirm", r.authController.Confirm)
			auth.POST("/resend", r.authController.Resend)
			auth.POST("/forgot", r.authController.Forgot)
			auth.POST("/reset/:resetToken", r.authController.Reset)
		}

		manufacturers := api.Group("/manufacturers")
		{
			manufacturers.GET("", r.manufacturerController.List)
			manufacturers.GET("/:id", r.manufacturerController.Get)
			manufacturers.POST("",
				r.authMiddleware.Authorize(),
				r.authMiddleware.Protect(model.RoleAdmin),
				r.manufacturerController.Create,
			)
			manufacturers.PUT("/:id",
				r.authMiddleware.Authorize(),
				r.authMiddleware.Protect(model.RoleAdmin),
				r.manufacturerController.Update,
			)
			manufacturers.DELETE("/:id",
				r.authMiddleware.Authorize(),
				r.authMiddleware.Protect(model.RoleAdmin),
				r.manufacturerController.Delete,
			)
		}

		tools := api.Group("/tools")
		{
			tools.GET("", r.toolController.List)
			tools.GET("/:id", r.toolController.Get)
			tools.POST("",
				r.authMiddleware.Authorize(),
				r.authMiddleware.Protect(model.RoleAdmin),
				r.toolController.Create,
			)
			tools.PUT("/:id",
				r.authMiddleware.Authorize(),
				r.authMiddleware.Protect(model.RoleAdmin),
				r.toolController.Update,
			)
			tools.DELETE("/:id",
				r.authMiddleware.Authorize(),
				r.authMiddleware.Protect(model.RoleAdmin),
				r.toolController.Delete,
			)
		}

		techniques := api.Group("/techniques")
		{
			techniques.GET("", r.techniqueController.List)
			techniques.GET("/:id", r.techniqueController.Get)
			techniques.POST("",
				r.authMiddleware.Authorize(),
				r.authMiddleware.Protect(model.RoleAdmin),
				r.techniqueController.Create,
			)
			techniques.PUT("/:id",
				r.authMiddleware.Authorize(),
				r.authMiddleware.Protect(model.RoleAdmin),
				r.techniqueController.Update,
			)
			techniques.DELETE("/:id",
				r.authMiddleware.Authorize(),
				r.authMiddleware.Protect(model.RoleAdmin),
				r.techniqueController.Delete,
			)
		}

		products := api.Group("/products")
		{
			products.GET("", r.productController.List)
			products.GET("/:id", r.productController.Get)
			products.POST("",
				r.authMiddleware.Authorize(),
				r.authMiddleware.Protect(model.RoleAdmin),
				r.productController.Create,
			)
			products.PUT("/:id",
				r.authMiddleware.Authorize(),
				r.authMiddleware.Protect(model.RoleAdmin),
				r.productController.Update,
			)
			products.DELETE("/:id",
				r.authMiddleware.Authorize(),
				r.authMiddleware.Protect(model.RoleAdmin),
				r.productController.Delete,
			)
		}
	}

	return router
}

func corsMiddleware(allowedOrigins []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")

		allowed := false
		for _, allowedOrigin := range allowedOrigins {
			if origin == allowedOrigin || allowedOrigin == "*" {
				allowed = true
				break
			}
		}

		if allowed {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		}

		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
