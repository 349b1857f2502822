package entity

import "time"

// Roles válidos para User.
const (
	RoleAdmin    = "admin"    // administra configuración y lanza syncs
	RoleAnalista = "analista" // consulta reportes, solo lectura
)

// User representa un usuario interno del sistema de reportes.
type User struct {
	ID           string
	Email        string
	PasswordHash string // bcrypt hash, nunca plano en dominio después de persistir
	Name         string
	Role         string // admin, analista
	Status       string // active, inactive
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
