// internal/app/features/classes/types.go
package classes

import (
	"html/template"

	"github.com/dalemusser/clubhub/internal/app/features/shared/listpage"
	"github.com/dalemusser/clubhub/internal/app/system/formutil"
	"github.com/dalemusser/clubhub/internal/app/system/viewdata"
)

// Statuses are the class states staff may set.
var Statuses = []option{
	{"scheduled", "Scheduled"},
	{"in-progress", "In Progress"},
	{"completed", "Completed"},
	{"cancelled", "Cancelled"},
}

// WeekDays are offered for recurring classes, Monday first.
var WeekDays = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

type option struct {
	Value string
	Label string
}

// Availability levels.
const (
	LevelOK      = "ok"
	LevelFilling = "filling"
	LevelFull    = "full"
)

// availability is enrolled/capacity with its level.
type availability struct {
	Enrolled int
	Capacity int
	Level    string
}

type classRow struct {
	ID          string
	Name        string
	Instructor  string
	Date        string
	Time        string
	Duration    string
	Avail       availability
	Status      string
	StatusClass string
}

type filterOptions struct {
	Instructors []option
	Dates       []option
	Durations   []option
}

type listData struct {
	viewdata.BaseVM
	List      listpage.Page[classRow]
	Filter    filters
	Options   filterOptions
	ShowClear bool
}

type memberRow struct {
	ID          string
	Name        string
	Email       string
	Membership  string
	UnenrollURL string
}

type showData struct {
	viewdata.BaseVM
	ID            string
	Name          string
	Instructor    string
	Date          string
	Time          string
	Duration      string
	Status        string
	StatusClass   string
	Description   template.HTML
	Recurring     string
	Avail         availability
	OpenSpots     int
	Enrolled      []memberRow
	WaitList      []memberRow
	Candidates    []option
	CandidateNote string
	EnrollURL     string
}

type formData struct {
	formutil.Base
	Input       classInput
	IsEdit      bool
	ActionURL   string
	CancelURL   string
	Statuses    []option
	Instructors []option
	WeekDays    []dayOption
}

type dayOption struct {
	Name    string
	Checked bool
}
