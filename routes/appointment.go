package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/mmhealthtech/clinic-ops/controllers"
	"github.com/mmhealthtech/clinic-ops/middleware"
)

// SetupAppointmentRoutes configures the staff-facing appointment routes.
// Every route is tenant scoped and JWT protected; write operations also
// go through the permission table.
func SetupAppointmentRoutes(app *fiber.App) {
	appointment := app.Group("/appointments", middleware.Protected(), middleware.RequireTenant())

	appointment.Get("/", middleware.RequirePermission("appointments", "read"), controllers.ListAppointments)
	appointment.Get("/:id", middleware.RequirePermission("appointments", "read"), controllers.GetAppointment)
	appointment.Post("/", middleware.RequirePermission("appointments", "create"), controllers.CreateAppointment)
	appointment.Post("/:id/reschedule", middleware.RequirePermission("appointments", "update"), controllers.RescheduleAppointment)
	appointment.Post("/:id/cancel", middleware.RequirePermission("appointments", "update"), controllers.CancelAppointment)

	// Lifecycle transitions
	appointment.Post("/:id/check-in", middleware.RequirePermission("appointments", "update"), controllers.CheckInAppointment)
	appointment.Post("/:id/start", middleware.RequirePermission("appointments", "update"), controllers.StartAppointment)
	appointment.Post("/:id/complete", middleware.RequirePermission("appointments", "update"), controllers.CompleteAppointment)
}
