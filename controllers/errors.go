package controllers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/mmhealthtech/clinic-ops/scheduler"
	"github.com/mmhealthtech/clinic-ops/utils"
)

// SchedulingError maps the scheduler's error taxonomy to HTTP. Validation
// failures are client errors; conflict failures are 409 so callers know to
// re-fetch slots and retry with a fresh choice.
func SchedulingError(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	message := "Scheduling operation failed"

	switch {
	case errors.Is(err, scheduler.ErrInvalidRange):
		status, message = fiber.StatusUnprocessableEntity, "Invalid time range"
	case errors.Is(err, utils.ErrInvalidTimestamp):
		status, message = fiber.StatusBadRequest, "Invalid date or time"
	case errors.Is(err, scheduler.ErrOverlapConflict):
		status, message = fiber.StatusConflict, "Window overlaps an existing window"
	case errors.Is(err, scheduler.ErrSlotNoLongerAvailable):
		status, message = fiber.StatusConflict, "Slot is no longer available"
	case errors.Is(err, scheduler.ErrInvalidTransition):
		status, message = fiber.StatusUnprocessableEntity, "Invalid status transition"
	case errors.Is(err, scheduler.ErrCancelWindowViolation):
		status, message = fiber.StatusUnprocessableEntity, "Too late to cancel this appointment"
	case errors.Is(err, scheduler.ErrVisitLinkRequired):
		status, message = fiber.StatusBadGateway, "Could not link the clinical visit"
	case errors.Is(err, scheduler.ErrNotFound):
		status, message = fiber.StatusNotFound, "Appointment not found"
	}

	return c.Status(status).JSON(utils.ErrorResponse{
		Message: message,
		Error:   err.Error(),
	})
}
