package controllers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/mmhealthtech/clinic-ops/config"
	"github.com/mmhealthtech/clinic-ops/db"
	"github.com/mmhealthtech/clinic-ops/middleware"
	"github.com/mmhealthtech/clinic-ops/models"
	"github.com/mmhealthtech/clinic-ops/redis"
	"github.com/mmhealthtech/clinic-ops/scheduler"
	"github.com/mmhealthtech/clinic-ops/utils"
)

// ListAppointments godoc
// @Summary List appointments, optionally filtered by doctor, date, status
// @Tags appointments
// @Produce json
// @Success 200 {array} models.Appointment
// @Failure 500 {object} utils.ErrorResponse
// @Router /appointments [get]
func ListAppointments(c *fiber.Ctx) error {
	q := db.DB.Preload("Doctor").Preload("Patient").
		Where("tenant_id = ?", middleware.TenantID(c))
	if doctorID := c.QueryInt("doctor_id"); doctorID > 0 {
		q = q.Where("doctor_id = ?", doctorID)
	}
	if date := c.Query("date"); date != "" {
		q = q.Where("date = ?", date)
	}
	if status := c.Query("status"); status != "" {
		q = q.Where("status = ?", status)
	}

	var appointments []models.Appointment
	if err := q.Order("date asc, start_min asc").Find(&appointments).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to fetch appointments",
			Error:   err.Error(),
		})
	}
	return c.JSON(appointments)
}

// GetAppointment godoc
// @Summary Get an appointment by ID
// @Tags appointments
// @Produce json
// @Param id path int true "Appointment ID"
// @Success 200 {object} models.Appointment
// @Failure 404 {object} utils.ErrorResponse
// @Router /appointments/{id} [get]
func GetAppointment(c *fiber.Ctx) error {
	var appointment models.Appointment
	err := db.DB.Preload("Doctor").Preload("Patient").Preload("Visit").
		Where("tenant_id = ?", middleware.TenantID(c)).
		First(&appointment, c.Params("id")).Error
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(utils.ErrorResponse{
			Message: "Appointment not found",
			Error:   err.Error(),
		})
	}
	return c.JSON(appointment)
}

type bookBody struct {
	DoctorID    uint   `json:"doctor_id"`
	PatientID   uint   `json:"patient_id"`
	Date        string `json:"date"`
	StartMin    int    `json:"start_min"`
	DurationMin int    `json:"duration_min"`
	Department  string `json:"department"`
	Reason      string `json:"reason"`
	Location    string `json:"location"`
}

// CreateAppointment godoc
// @Summary Book an appointment
// @Tags appointments
// @Accept json
// @Produce json
// @Success 201 {object} models.Appointment
// @Failure 409 {object} utils.ErrorResponse
// @Router /appointments [post]
func CreateAppointment(c *fiber.Ctx) error {
	var body bookBody
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Failed to parse request body",
			Error:   err.Error(),
		})
	}
	if body.DurationMin == 0 {
		body.DurationMin = config.Get().Policy.SlotDurationMin
	}

	appointment, err := scheduler.Book(db.DB, scheduler.BookingRequest{
		TenantID:    middleware.TenantID(c),
		DoctorID:    body.DoctorID,
		PatientID:   body.PatientID,
		DateKey:     body.Date,
		StartMin:    body.StartMin,
		DurationMin: body.DurationMin,
		Department:  body.Department,
		Reason:      body.Reason,
		Location:    body.Location,
	})
	if err != nil {
		return SchedulingError(c, err)
	}

	redis.InvalidateSlots(appointment.TenantID, appointment.DoctorID, appointment.Date)
	return c.Status(fiber.StatusCreated).JSON(appointment)
}

// RescheduleAppointment godoc
// @Summary Move an appointment to a new slot
// @Tags appointments
// @Accept json
// @Produce json
// @Param id path int true "Appointment ID"
// @Success 200 {object} models.Appointment
// @Failure 409 {object} utils.ErrorResponse
// @Router /appointments/{id}/reschedule [post]
func RescheduleAppointment(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Invalid appointment ID",
		})
	}

	var body struct {
		Date        string `json:"date"`
		StartMin    int    `json:"start_min"`
		DurationMin int    `json:"duration_min"`
	}
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Failed to parse request body",
			Error:   err.Error(),
		})
	}
	if body.DurationMin == 0 {
		body.DurationMin = config.Get().Policy.SlotDurationMin
	}

	tenantID := middleware.TenantID(c)

	var before models.Appointment
	if err := db.DB.Where("tenant_id = ?", tenantID).First(&before, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(utils.ErrorResponse{
			Message: "Appointment not found",
		})
	}

	appointment, err := scheduler.Reschedule(db.DB, tenantID, uint(id), body.Date, body.StartMin, body.DurationMin)
	if err != nil {
		return SchedulingError(c, err)
	}

	redis.InvalidateSlots(tenantID, before.DoctorID, before.Date)
	redis.InvalidateSlots(tenantID, appointment.DoctorID, appointment.Date)
	return c.JSON(appointment)
}

// CancelAppointment godoc
// @Summary Cancel an appointment
// @Tags appointments
// @Accept json
// @Produce json
// @Param id path int true "Appointment ID"
// @Success 200 {object} models.Appointment
// @Failure 422 {object} utils.ErrorResponse
// @Router /appointments/{id}/cancel [post]
func CancelAppointment(c *fiber.Ctx) error {
	return cancelAs(c, scheduler.ActorStaff)
}

func cancelAs(c *fiber.Ctx, actor scheduler.Actor) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Invalid appointment ID",
		})
	}

	var body struct {
		Reason string `json:"reason"`
	}
	// An empty body is fine; the reason is optional.
	_ = c.BodyParser(&body)

	appointment, err := scheduler.Cancel(db.DB, middleware.TenantID(c), uint(id),
		body.Reason, actor, config.Get().Policy)
	if err != nil {
		return SchedulingError(c, err)
	}

	redis.InvalidateSlots(appointment.TenantID, appointment.DoctorID, appointment.Date)
	return c.JSON(appointment)
}

// CheckInAppointment marks the patient as arrived.
func CheckInAppointment(c *fiber.Ctx) error {
	return advance(c, func(tenantID string, id uint) (*models.Appointment, error) {
		return scheduler.CheckIn(db.DB, tenantID, id)
	})
}

// StartAppointment marks the consultation as underway.
func StartAppointment(c *fiber.Ctx) error {
	return advance(c, func(tenantID string, id uint) (*models.Appointment, error) {
		return scheduler.Start(db.DB, tenantID, id)
	})
}

// CompleteAppointment closes the consultation, creating or linking the
// clinical visit first.
func CompleteAppointment(c *fiber.Ctx) error {
	return advance(c, func(tenantID string, id uint) (*models.Appointment, error) {
		return scheduler.Complete(db.DB, tenantID, id, scheduler.LocalVisitLinker{})
	})
}

func advance(c *fiber.Ctx, op func(tenantID string, id uint) (*models.Appointment, error)) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Invalid appointment ID",
		})
	}
	appointment, err := op(middleware.TenantID(c), uint(id))
	if err != nil {
		return SchedulingError(c, err)
	}
	return c.JSON(appointment)
}
