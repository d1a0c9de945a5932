package entity

import "time"

// Roles de usuario. El middleware de auth los extrae del claim del JWT; la
// máquina de estados decide con ellos qué transiciones puede ejecutar el actor.
const (
	RoleAdmin      = "admin"
	RoleTechnician = "technician" // técnico de laboratorio
	RoleQuality    = "quality"    // control de calidad
)

// User representa un usuario del laboratorio.
type User struct {
	ID           string
	Email        string
	PasswordHash string
	Name         string
	Role         string
	Status       string // active | disabled
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
