// internal/app/features/restaurants/types.go
package restaurants

import (
	"github.com/dalemusser/clubhub/internal/app/features/shared/listpage"
	"github.com/dalemusser/clubhub/internal/app/system/formutil"
	"github.com/dalemusser/clubhub/internal/app/system/viewdata"
)

// ReservationStatuses in the order the form offers them.
var ReservationStatuses = []option{
	{Value: "confirmed", Label: "Confirmed"},
	{Value: "cancelled", Label: "Cancelled"},
	{Value: "completed", Label: "Completed"},
	{Value: "no-show", Label: "No Show"},
}

type option struct {
	Value    string
	Label    string
	Selected bool
}

type restaurantRow struct {
	ID          string
	Name        string
	Description string
	Club        string
	Cuisine     string
	Capacity    string
	Hours       string
	Active      bool
	ActiveLabel string
}

type listData struct {
	viewdata.BaseVM
	List listpage.Page[restaurantRow]
}

type showData struct {
	viewdata.BaseVM
	ID          string
	Name        string
	Description string
	Cuisine     string
	Club        string
	ClubURL     string
	Phone       string
	Email       string
	Capacity    string
	Opening     string
	Closing     string
	ActiveLabel string
}

type formData struct {
	formutil.Base
	Input     restaurantInput
	IsEdit    bool
	ActionURL string
	CancelURL string
	Clubs     []option
}

type reservationRow struct {
	ID              string
	Guest           string
	SpecialRequests string
	Email           string
	Phone           string
	When            string
	Party           string
	Status          string
	StatusClass     string
	DeleteURL       string
}

// statusTab is one filter button above the reservation table.
type statusTab struct {
	Label  string
	URL    string
	Count  int
	Active bool
}

type reservationsData struct {
	viewdata.BaseVM
	RestaurantID   string
	RestaurantName string
	Tabs           []statusTab
	List           listpage.Page[reservationRow]
}

type memberOption struct {
	ID       string
	Label    string
	Selected bool
}

type reservationFormData struct {
	formutil.Base
	RestaurantID string
	Hours        string
	Input        reservationInput
	Members      []memberOption
	MemberNote   string
	Statuses     []option
	ActionURL    string
	CancelURL    string
}
