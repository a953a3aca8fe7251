package db

import (
	"fmt"
	"log"

	"github.com/mmhealthtech/clinic-ops/models"
)

func Migrate() {
	// Initialize DB connection
	Init()

	err := DB.AutoMigrate(
		&models.User{},
		&models.Role{},
		&models.Permission{},
		&models.AvailabilityWindow{},
		&models.DefaultAvailabilityWindow{},
		&models.BlackoutPeriod{},
		&models.Appointment{},
		&models.Visit{},
	)
	if err != nil {
		log.Fatal("Failed to run migrations: ", err)
	}

	seedRolesAndPermissions()

	fmt.Println("✅ Migrations applied successfully!")
}

// seedRolesAndPermissions creates the built-in roles and the scheduling
// permissions if they do not exist yet. Idempotent.
func seedRolesAndPermissions() {
	roles := []models.Role{
		{Name: "admin", Description: "Clinic administrator with full access"},
		{Name: "doctor", Description: "Doctor who runs consultations"},
		{Name: "receptionist", Description: "Front desk staff who manage the schedule"},
		{Name: "patient", Description: "Portal patient who books appointments"},
	}
	for _, role := range roles {
		var existing models.Role
		if DB.Where("name = ?", role.Name).First(&existing).RowsAffected == 0 {
			DB.Create(&role)
		}
	}

	permissions := []models.Permission{
		{Name: "create_availability", Description: "Author availability windows", Resource: "availability", Action: "create"},
		{Name: "read_availability", Description: "View availability windows", Resource: "availability", Action: "read"},
		{Name: "create_blackout", Description: "Author blackout periods", Resource: "blackouts", Action: "create"},
		{Name: "read_blackouts", Description: "View blackout periods", Resource: "blackouts", Action: "read"},
		{Name: "create_appointment", Description: "Book appointments", Resource: "appointments", Action: "create"},
		{Name: "read_appointments", Description: "View appointments", Resource: "appointments", Action: "read"},
		{Name: "update_appointment", Description: "Reschedule, cancel and advance appointments", Resource: "appointments", Action: "update"},
	}
	for _, permission := range permissions {
		var existing models.Permission
		if DB.Where("name = ?", permission.Name).First(&existing).RowsAffected == 0 {
			DB.Create(&permission)
		}
	}

	grants := map[string][]string{
		"admin":        {"create_availability", "read_availability", "create_blackout", "read_blackouts", "create_appointment", "read_appointments", "update_appointment"},
		"doctor":       {"read_availability", "read_blackouts", "read_appointments", "update_appointment"},
		"receptionist": {"read_availability", "create_blackout", "read_blackouts", "create_appointment", "read_appointments", "update_appointment"},
		"patient":      {"read_appointments"},
	}
	for roleName, names := range grants {
		var role models.Role
		if DB.Where("name = ?", roleName).First(&role).RowsAffected == 0 {
			continue
		}
		var perms []models.Permission
		DB.Where("name IN (?)", names).Find(&perms)
		DB.Model(&role).Association("Permissions").Replace(perms)
	}
}
