// internal/domain/models/class.go
package models

import "time"

// Class status values.
const (
	ClassScheduled  = "scheduled"
	ClassInProgress = "in-progress"
	ClassCompleted  = "completed"
	ClassCancelled  = "cancelled"
)

// Class is a scheduled group fitness class.
type Class struct {
	ID              string    `json:"id,omitempty"`
	Name            string    `json:"name"`
	Description     string    `json:"description"`
	Instructor      string    `json:"instructor"`
	Date            time.Time `json:"date"`
	StartTime       string    `json:"start_time"` // HH:MM
	EndTime         string    `json:"end_time"`   // HH:MM
	Duration        int       `json:"duration"`   // minutes
	Capacity        int       `json:"capacity"`
	EnrolledMembers []string  `json:"enrolled_members"`
	WaitList        []string  `json:"wait_list"`
	Recurring       bool      `json:"recurring"`
	RecurringDays   []string  `json:"recurring_days"`
	Status          string    `json:"status"`
	CreatedAt       time.Time `json:"created_at,omitempty"`
	UpdatedAt       time.Time `json:"updated_at,omitempty"`
}

// ClassWithMembers is the class detail payload with enrolled and
// wait-listed members resolved.
type ClassWithMembers struct {
	Class
	EnrolledMembersDetails []Member `json:"enrolled_members_details"`
	WaitListDetails        []Member `json:"wait_list_details"`
}
