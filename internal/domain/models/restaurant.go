// internal/domain/models/restaurant.go
package models

import "time"

// Restaurant is a dining venue attached to a club.
type Restaurant struct {
	ID          string    `json:"id,omitempty"`
	ClubID      string    `json:"club_id,omitempty"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Cuisine     string    `json:"cuisine"`
	Phone       string    `json:"phone"`
	Email       string    `json:"email"`
	Capacity    int       `json:"capacity"`
	OpeningTime string    `json:"opening_time"`
	ClosingTime string    `json:"closing_time"`
	Active      bool      `json:"active"`
	CreatedAt   time.Time `json:"created_at,omitempty"`
	UpdatedAt   time.Time `json:"updated_at,omitempty"`
}

// Reservation is a table booking at a restaurant.
// Status is one of confirmed, cancelled, completed, no-show.
type Reservation struct {
	ID              string    `json:"id,omitempty"`
	RestaurantID    string    `json:"restaurant_id,omitempty"`
	MemberID        string    `json:"member_id,omitempty"`
	GuestName       string    `json:"guest_name"`
	GuestEmail      string    `json:"guest_email"`
	GuestPhone      string    `json:"guest_phone"`
	PartySize       int       `json:"party_size"`
	DateTime        time.Time `json:"date_time"`
	Status          string    `json:"status"`
	SpecialRequests string    `json:"special_requests"`
	Notes           string    `json:"notes"`
	CreatedAt       time.Time `json:"created_at,omitempty"`
	UpdatedAt       time.Time `json:"updated_at,omitempty"`
}
