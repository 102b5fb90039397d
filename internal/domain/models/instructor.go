// internal/domain/models/instructor.go
package models

import "time"

type Instructor struct {
	ID        string    `json:"id,omitempty"`
	ClubIDs   []string  `json:"club_ids,omitempty"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Specialty string    `json:"specialty"`
	Bio       string    `json:"bio"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at,omitempty"`
	UpdatedAt time.Time `json:"updated_at,omitempty"`
}
