package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/mmhealthtech/clinic-ops/controllers/portal"
	"github.com/mmhealthtech/clinic-ops/middleware"
)

// SetupPortalRoutes configures the patient self-service surface. Patients
// only ever see their own appointments, so there is no permission table
// lookup here; the role check plus ownership filters in the handlers are
// the whole story.
func SetupPortalRoutes(app *fiber.App) {
	p := app.Group("/portal", middleware.Protected(), middleware.RequireTenant(), middleware.RequireRole("patient"))

	p.Get("/doctors/:id/slots", portal.GetDoctorSlots)
	p.Get("/appointments", portal.ListMyAppointments)
	p.Post("/appointments", portal.CreateAppointment)
	p.Post("/appointments/:id/cancel", portal.CancelAppointment)
}
