package entity

import "time"

// Register es una sesión de caja abierta por un usuario.
type Register struct {
	ID       string
	UserID   string
	OpenedAt time.Time
	ClosedAt *time.Time // nil = caja abierta
}

// IsClosed indica si la caja ya tiene fecha de cierre.
func (r *Register) IsClosed() bool {
	return r.ClosedAt != nil
}

// OwnedBy indica si la caja pertenece al usuario.
func (r *Register) OwnedBy(userID string) bool {
	return userID != "" && r.UserID == userID
}
