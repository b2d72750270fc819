package domain

import "time"

// Stage is one named, ordered step of the recruitment pipeline.
type Stage struct {
	ID          string
	Name        string
	Description string
	Order       int
	Active      bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
