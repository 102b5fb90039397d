// internal/domain/models/member.go
package models

import "time"

// Member status values as reported by the club API.
const (
	MemberActive    = "active"
	MemberInactive  = "inactive"
	MemberSuspended = "suspended"
	MemberExpired   = "expired"
)

// Member is a club member record owned by the club API.
// IDs are assigned by the API; the dashboard never generates them.
type Member struct {
	ID               string         `json:"id,omitempty"`
	ClubIDs          []string       `json:"club_ids,omitempty"`
	FirstName        string         `json:"first_name"`
	LastName         string         `json:"last_name"`
	Email            string         `json:"email"`
	Phone            string         `json:"phone"`
	MembershipType   string         `json:"membership_type"`
	Status           string         `json:"status"`
	JoinDate         time.Time      `json:"join_date"`
	ExpiryDate       time.Time      `json:"expiry_date"`
	AutoRenewal      bool           `json:"auto_renewal"`
	EmergencyContact string         `json:"emergency_contact"`
	Notes            string         `json:"notes"`
	BillingHistory   []BillingEntry `json:"billing_history,omitempty"`
	CreatedAt        time.Time      `json:"created_at,omitempty"`
	UpdatedAt        time.Time      `json:"updated_at,omitempty"`
}

// FullName joins first and last name.
func (m Member) FullName() string {
	switch {
	case m.FirstName == "":
		return m.LastName
	case m.LastName == "":
		return m.FirstName
	}
	return m.FirstName + " " + m.LastName
}

// BillingEntry is one line of a member's billing history.
type BillingEntry struct {
	Date        time.Time `json:"date"`
	Amount      float64   `json:"amount"`
	Description string    `json:"description"`
	Status      string    `json:"status"` // paid, pending, failed, refunded
}
