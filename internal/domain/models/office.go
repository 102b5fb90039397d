// internal/domain/models/office.go
package models

import "time"

// Office is a bookable workspace. Type is one of private, shared,
// meeting_room, phone_booth.
type Office struct {
	ID          string    `json:"id,omitempty"`
	ClubID      string    `json:"club_id,omitempty"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Type        string    `json:"type"`
	Capacity    int       `json:"capacity"`
	Amenities   []string  `json:"amenities"`
	HourlyRate  float64   `json:"hourly_rate"`
	DailyRate   float64   `json:"daily_rate"`
	Active      bool      `json:"active"`
	CreatedAt   time.Time `json:"created_at,omitempty"`
	UpdatedAt   time.Time `json:"updated_at,omitempty"`
}

// OfficeBooking reserves an office for a time range.
type OfficeBooking struct {
	ID        string    `json:"id,omitempty"`
	OfficeID  string    `json:"office_id,omitempty"`
	MemberID  string    `json:"member_id,omitempty"`
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
	Status    string    `json:"status"` // confirmed, cancelled, completed, no-show
	TotalCost float64   `json:"total_cost"`
	Notes     string    `json:"notes"`
	CreatedAt time.Time `json:"created_at,omitempty"`
	UpdatedAt time.Time `json:"updated_at,omitempty"`
}
