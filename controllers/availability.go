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

// GetDoctorSlots godoc
// @Summary List bookable slots for a doctor on a date
// @Tags availability
// @Produce json
// @Param id path int true "Doctor ID"
// @Param date query string true "Clinic-local date (YYYY-MM-DD)"
// @Success 200 {array} utils.Slot
// @Failure 400 {object} utils.ErrorResponse
// @Router /doctors/{id}/slots [get]
func GetDoctorSlots(c *fiber.Ctx) error {
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

	if slots, ok := redis.GetCachedSlots(tenantID, uint(doctorID), dateKey); ok {
		return c.JSON(slots)
	}

	slots, err := scheduler.AvailableSlots(db.DB, tenantID, uint(doctorID), dateKey,
		config.Get().Policy.SlotDurationMin)
	if err != nil {
		return SchedulingError(c, err)
	}
	redis.SetCachedSlots(tenantID, uint(doctorID), dateKey, slots)
	return c.JSON(slots)
}

// CreateAvailabilityWindow godoc
// @Summary Add a recurring availability window for a doctor
// @Tags availability
// @Accept json
// @Produce json
// @Param id path int true "Doctor ID"
// @Success 201 {object} models.AvailabilityWindow
// @Failure 409 {object} utils.ErrorResponse
// @Failure 422 {object} utils.ErrorResponse
// @Router /doctors/{id}/availability [post]
func CreateAvailabilityWindow(c *fiber.Ctx) error {
	doctorID, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Invalid doctor ID",
		})
	}

	var body struct {
		DayOfWeek int `json:"day_of_week"`
		StartMin  int `json:"start_min"`
		EndMin    int `json:"end_min"`
	}
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Failed to parse request body",
			Error:   err.Error(),
		})
	}

	window, err := scheduler.AddWindow(db.DB, middleware.TenantID(c), uint(doctorID),
		models.DayOfWeek(body.DayOfWeek), body.StartMin, body.EndMin)
	if err != nil {
		return SchedulingError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(window)
}

// ListAvailability returns a doctor's recurring windows, ordered by weekday
// then start minute.
func ListAvailability(c *fiber.Ctx) error {
	doctorID, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Invalid doctor ID",
		})
	}
	windows, err := scheduler.ListWindows(db.DB, middleware.TenantID(c), uint(doctorID))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to fetch availability",
			Error:   err.Error(),
		})
	}
	return c.JSON(windows)
}

// CreateBlackout adds a leave/unavailability period for a doctor.
func CreateBlackout(c *fiber.Ctx) error {
	doctorID, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Invalid doctor ID",
		})
	}

	var body struct {
		StartDate string `json:"start_date"`
		EndDate   string `json:"end_date"`
		StartMin  *int   `json:"start_min"`
		EndMin    *int   `json:"end_min"`
		Reason    string `json:"reason"`
	}
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(utils.ErrorResponse{
			Message: "Failed to parse request body",
			Error:   err.Error(),
		})
	}

	blackout := &models.BlackoutPeriod{
		TenantID:  middleware.TenantID(c),
		DoctorID:  uint(doctorID),
		StartDate: body.StartDate,
		EndDate:   body.EndDate,
		StartMin:  body.StartMin,
		EndMin:    body.EndMin,
		Reason:    body.Reason,
	}
	if err := scheduler.AddBlackout(db.DB, blackout); err != nil {
		return SchedulingError(c, err)
	}

	// Blackouts change what the generator offers.
	for d := blackout.StartDate; d <= blackout.EndDate; {
		redis.InvalidateSlots(blackout.TenantID, blackout.DoctorID, d)
		next, err := utils.ToLocalInstant(d, 24*60)
		if err != nil {
			break
		}
		d = next.Format(utils.DateKeyLayout)
	}

	return c.Status(fiber.StatusCreated).JSON(blackout)
}

// ListBlackouts returns the blackout periods covering a given date.
func ListBlackouts(c *fiber.Ctx) error {
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
	periods, err := scheduler.ListBlackouts(db.DB, middleware.TenantID(c), uint(doctorID), dateKey)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(utils.ErrorResponse{
			Message: "Failed to fetch blackouts",
			Error:   err.Error(),
		})
	}
	return c.JSON(periods)
}
