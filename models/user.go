package models

import (
	"time"

	"gorm.io/gorm"
)

// User covers every person who authenticates against the platform:
// administrators, doctors, receptionists and portal patients. Doctors carry
// a department; everyone is scoped to a tenant.
type User struct {
	ID         uint                 `json:"id" gorm:"primaryKey"`
	TenantID   string               `json:"tenant_id" gorm:"size:64;index"`
	Name       string               `json:"name"`
	Email      string               `json:"email" gorm:"uniqueIndex"`
	Password   string               `json:"password,omitempty"`
	Department string               `json:"department,omitempty"`
	RoleID     uint                 `json:"role_id"`
	Role       Role                 `json:"role,omitempty" gorm:"foreignKey:RoleID"`
	Windows    []AvailabilityWindow `json:"windows,omitempty" gorm:"foreignKey:DoctorID"`
	Blackouts  []BlackoutPeriod     `json:"blackouts,omitempty" gorm:"foreignKey:DoctorID"`
	CreatedAt  time.Time            `json:"created_at"`
	UpdatedAt  time.Time            `json:"updated_at"`
}

type Role struct {
	ID          uint           `json:"id" gorm:"primaryKey"`
	Name        string         `json:"name" gorm:"unique"`
	Description string         `json:"description"`
	Permissions []Permission   `json:"permissions,omitempty" gorm:"many2many:role_permissions;"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`
}

type Permission struct {
	ID          uint           `json:"id" gorm:"primaryKey"`
	Name        string         `json:"name" gorm:"unique"`
	Description string         `json:"description"`
	Resource    string         `json:"resource"` // "appointments", "availability", "blackouts"
	Action      string         `json:"action"`   // "create", "read", "update"
	Roles       []Role         `json:"roles,omitempty" gorm:"many2many:role_permissions;"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`
}
