package portal

import (
	"github.com/gofiber/fiber/v2"

	"github.com/mmhealthtech/clinic-ops/config"
	"github.com/mmhealthtech/clinic-ops/controllers"
	"github.com/mmhealthtech/clinic-ops/db"
	"github.com/mmhealthtech/clinic-ops/middleware"
	"github.com/mmhealthtech/clinic-ops/models"
	"github.com/mmhealthtech/clinic-ops/redis"
	"github.com/mmhealthtech/clinic-ops/scheduler"
	"github.com/mmhealthtech/clinic-ops/utils"
)

// requireBookingEnabled gates the whole patient-facing surface behind the
// deployment toggle.
func requireBookingEnabled(c *fiber.Ctx) (bool, error) {
	if config.Get().Policy.PatientBookingEnabled {
		return true, nil
	}
	return false, c.Status(fiber.StatusForbidden).JSON(utils.ErrorResponse{
		Message: "Online booking is not enabled for this clinic",
	})
}

func patientID(c *fiber.Ctx) (uint, bool) {
	id, ok := c.Locals("userID").(uint)
	return id, ok
}

// GetDoctorSlots lists bookable slots for the patient portal. Unlike the
// staff endpoint, past dates are rejected here.
func GetDoctorSlots(c *fiber.Ctx) error {
	if ok, resp := requireBookingEnabled(c); !ok {
		return resp
	}

	tenantID := middleware.TenantID(c)
	doctorID, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Invalid doctor ID",
		})
	}

	dateKey := c.Query("date")
	if dateKey == "" {
		dateKey = utils.TodayLocal().DateKey
	}
	if _, err := utils.DayOfWeek(dateKey); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Invalid date, use YYYY-MM-DD",
		})
	}
	if dateKey < utils.TodayLocal().DateKey {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Cannot browse slots for a past date",
		})
	}

	if slots, ok := redis.GetCachedSlots(tenantID, uint(doctorID), dateKey); ok {
		return c.JSON(slots)
	}
	slots, err := scheduler.AvailableSlots(db.DB, tenantID, uint(doctorID), dateKey,
		config.Get().Policy.SlotDurationMin)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to compute slots",
			Error:   err.Error(),
		})
	}
	redis.SetCachedSlots(tenantID, uint(doctorID), dateKey, slots)
	return c.JSON(slots)
}

// CreateAppointment books a slot for the authenticated patient. The slot
// duration always comes from clinic policy; patients cannot choose it.
func CreateAppointment(c *fiber.Ctx) error {
	if ok, resp := requireBookingEnabled(c); !ok {
		return resp
	}
	pid, ok := patientID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(utils.ErrorResponse{
			Message: "Not authenticated",
		})
	}

	var body struct {
		DoctorID   uint   `json:"doctor_id"`
		Date       string `json:"date"`
		StartMin   int    `json:"start_min"`
		Department string `json:"department"`
		Reason     string `json:"reason"`
	}
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Failed to parse request body",
			Error:   err.Error(),
		})
	}
	if body.Date < utils.TodayLocal().DateKey {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Cannot book an appointment in the past",
		})
	}

	appointment, err := scheduler.Book(db.DB, scheduler.BookingRequest{
		TenantID:    middleware.TenantID(c),
		DoctorID:    body.DoctorID,
		PatientID:   pid,
		DateKey:     body.Date,
		StartMin:    body.StartMin,
		DurationMin: config.Get().Policy.SlotDurationMin,
		Department:  body.Department,
		Reason:      body.Reason,
	})
	if err != nil {
		return controllers.SchedulingError(c, err)
	}

	redis.InvalidateSlots(appointment.TenantID, appointment.DoctorID, appointment.Date)
	return c.Status(fiber.StatusCreated).JSON(appointment)
}

// CancelAppointment cancels one of the patient's own appointments. The
// cancel-window policy applies because the actor is the patient.
func CancelAppointment(c *fiber.Ctx) error {
	if ok, resp := requireBookingEnabled(c); !ok {
		return resp
	}
	pid, ok := patientID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(utils.ErrorResponse{
			Message: "Not authenticated",
		})
	}
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Invalid appointment ID",
		})
	}

	tenantID := middleware.TenantID(c)

	var appointment models.Appointment
	if err := db.DB.Where("tenant_id = ? AND patient_id = ?", tenantID, pid).
		First(&appointment, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(utils.ErrorResponse{
			Message: "Appointment not found",
		})
	}

	var body struct {
		Reason string `json:"reason"`
	}
	_ = c.BodyParser(&body)

	cancelled, err := scheduler.Cancel(db.DB, tenantID, uint(id), body.Reason,
		scheduler.ActorPatient, config.Get().Policy)
	if err != nil {
		return controllers.SchedulingError(c, err)
	}

	redis.InvalidateSlots(cancelled.TenantID, cancelled.DoctorID, cancelled.Date)
	return c.JSON(cancelled)
}

// ListMyAppointments returns the authenticated patient's appointments,
// soonest first.
func ListMyAppointments(c *fiber.Ctx) error {
	pid, ok := patientID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(utils.ErrorResponse{
			Message: "Not authenticated",
		})
	}

	var appointments []models.Appointment
	err := db.DB.Preload("Doctor").
		Where("tenant_id = ? AND patient_id = ?", middleware.TenantID(c), pid).
		Order("date asc, start_min asc").
		Find(&appointments).Error
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to fetch appointments",
			Error:   err.Error(),
		})
	}
	return c.JSON(appointments)
}
