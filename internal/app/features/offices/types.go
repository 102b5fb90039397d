// internal/app/features/offices/types.go
package offices

import (
	"github.com/dalemusser/clubhub/internal/app/features/shared/listpage"
	"github.com/dalemusser/clubhub/internal/app/system/formutil"
	"github.com/dalemusser/clubhub/internal/app/system/viewdata"
)

// OfficeTypes in the order the form offers them.
var OfficeTypes = []option{
	{Value: "private", Label: "Private Office"},
	{Value: "shared", Label: "Shared Workspace"},
	{Value: "meeting_room", Label: "Meeting Room"},
	{Value: "phone_booth", Label: "Phone Booth"},
}

type option struct {
	Value    string
	Label    string
	Selected bool
}

type officeRow struct {
	ID          string
	Name        string
	Description string
	Club        string
	Type        string
	Capacity    string
	HourlyRate  string
	DailyRate   string
	Active      bool
	ActiveLabel string
}

type listData struct {
	viewdata.BaseVM
	List  listpage.Page[officeRow]
	Clubs []option // club filter; the first entry is "All clubs"
}

type bookingRow struct {
	ID          string
	Member      string
	Start       string
	End         string
	Duration    string
	Cost        string
	Status      string
	StatusClass string
	DeleteURL   string
}

type showData struct {
	viewdata.BaseVM
	ID          string
	Name        string
	Description string
	Club        string
	ClubURL     string
	Type        string
	Capacity    string
	HourlyRate  string
	DailyRate   string
	Amenities   []string
	ActiveLabel string
	Bookings    listpage.Page[bookingRow]
}

type formData struct {
	formutil.Base
	Input     officeInput
	IsEdit    bool
	ActionURL string
	CancelURL string
	Clubs     []option
	Types     []option
}

type memberOption struct {
	ID       string
	Label    string
	Selected bool
}

type bookingFormData struct {
	formutil.Base
	OfficeID   string
	OfficeName string
	HourlyRate string
	Input      bookingInput
	Members    []memberOption
	MemberNote string
	ActionURL  string
	CancelURL  string
}
