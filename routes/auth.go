package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/mmhealthtech/clinic-ops/controllers"
	"github.com/mmhealthtech/clinic-ops/middleware"
)

// SetupAuthRoutes configures all authentication related routes
func SetupAuthRoutes(app *fiber.App) {
	auth := app.Group("/auth")

	// Public routes
	auth.Post("/register", middleware.RequireTenant(), controllers.Register)
	auth.Post("/login", middleware.RequireTenant(), controllers.Login)

	// Protected routes
	auth.Get("/me", middleware.Protected(), controllers.GetUserProfile)
}
