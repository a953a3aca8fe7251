package middleware

import (
	"github.com/gofiber/fiber/v2"
)

// RequireTenant extracts the opaque tenant identifier every request must
// carry. Tenant resolution itself happens upstream; this core only scopes
// reads and writes by the value it is given.
func RequireTenant() fiber.Handler {
	return func(c *fiber.Ctx) error {
		tenantID := c.Get("X-Tenant-ID")
		if tenantID == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Missing X-Tenant-ID header",
			})
		}
		c.Locals("tenantID", tenantID)
		return c.Next()
	}
}

// TenantID returns the tenant stored by RequireTenant.
func TenantID(c *fiber.Ctx) string {
	if v, ok := c.Locals("tenantID").(string); ok {
		return v
	}
	return ""
}
