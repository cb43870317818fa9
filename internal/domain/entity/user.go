package entity

import "time"

// Roles válidos para User.
const (
	RoleAdmin   = "admin"
	RoleAuditor = "auditor"
)

// User representa un usuario que puede subir archivos y consultar reportes.
type User struct {
	ID           string
	Email        string
	PasswordHash string // bcrypt, nunca plano después de persistir
	Name         string
	Role         string // admin, auditor
	Active       bool
	CreatedAt    time.Time
}
