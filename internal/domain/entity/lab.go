package entity

import "time"

// Lab representa un laboratorio físico; cada uno mantiene su propio balance por ítem.
type Lab struct {
	ID          string
	Name        string
	Location    string
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
