package entity

import "time"

// User representa un operador de caja.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string // bcrypt
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
