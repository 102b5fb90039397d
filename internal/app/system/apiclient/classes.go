package apiclient

import (
	"time"

	"github.com/dalemusser/clubhub/internal/domain/models"
)

// ClassDateLayout is the only date form the classes endpoints accept on
// create and update.
const ClassDateLayout = "2006-01-02"

// classWrite is the body of POST /api/classes and PUT /api/classes/{id}.
// Enrollment lists are absent; they change only through enroll/unenroll.
type classWrite struct {
	Name          string   `json:"name"`
	Description   string   `json:"description"`
	Instructor    string   `json:"instructor"`
	Date          string   `json:"date"`
	StartTime     string   `json:"start_time"`
	EndTime       string   `json:"end_time"`
	Duration      int      `json:"duration"`
	Capacity      int      `json:"capacity"`
	Recurring     bool     `json:"recurring"`
	RecurringDays []string `json:"recurring_days"`
	Status        string   `json:"status"`
}

func classBody(c models.Class) any {
	return classWrite{
		Name:          c.Name,
		Description:   c.Description,
		Instructor:    c.Instructor,
		Date:          classDate(c.Date),
		StartTime:     c.StartTime,
		EndTime:       c.EndTime,
		Duration:      c.Duration,
		Capacity:      c.Capacity,
		Recurring:     c.Recurring,
		RecurringDays: c.RecurringDays,
		Status:        c.Status,
	}
}

// classDate keeps the calendar day the user picked, whatever zone t is in.
func classDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(ClassDateLayout)
}
