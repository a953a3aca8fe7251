package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/mmhealthtech/clinic-ops/controllers"
	"github.com/mmhealthtech/clinic-ops/middleware"
)

// SetupAvailabilityRoutes configures doctor availability and blackout routes.
func SetupAvailabilityRoutes(app *fiber.App) {
	doctors := app.Group("/doctors", middleware.Protected(), middleware.RequireTenant())

	doctors.Get("/:id/slots", controllers.GetDoctorSlots)

	doctors.Get("/:id/availability", middleware.RequirePermission("availability", "read"), controllers.ListAvailability)
	doctors.Post("/:id/availability", middleware.RequirePermission("availability", "create"), controllers.CreateAvailabilityWindow)

	doctors.Get("/:id/blackouts", middleware.RequirePermission("blackouts", "read"), controllers.ListBlackouts)
	doctors.Post("/:id/blackouts", middleware.RequirePermission("blackouts", "create"), controllers.CreateBlackout)
}
