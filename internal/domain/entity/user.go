package entity

import "time"

// Roles válidos para User.
const (
	RoleAdmin      = "admin"
	RoleLabManager = "lab_manager"
	RoleStaff      = "staff"
)

// Estados de usuario.
const (
	UserStatusActive   = "active"
	UserStatusInactive = "inactive"
)

// User representa un usuario del sistema.
type User struct {
	ID           string
	Email        string
	PasswordHash string // hash bcrypt, nunca plano después de persistir
	Name         string
	Role         string // admin, lab_manager, staff
	Status       string // active, inactive
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
