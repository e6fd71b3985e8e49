package entity

import "time"

// Category agrupa ítems (reactivos, vidriería, equipos...).
type Category struct {
	ID          string
	Name        string
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
