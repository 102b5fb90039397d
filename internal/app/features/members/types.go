// internal/app/features/members/types.go
package members

import (
	"html/template"

	"github.com/dalemusser/clubhub/internal/app/features/shared/listpage"
	"github.com/dalemusser/clubhub/internal/app/system/formutil"
	"github.com/dalemusser/clubhub/internal/app/system/viewdata"
)

// MembershipTypes are the plans offered on the member form.
var MembershipTypes = []option{
	{"basic", "Basic"},
	{"premium", "Premium"},
	{"vip", "VIP"},
	{"student", "Student"},
	{"senior", "Senior"},
}

// Statuses are the member states staff may set.
var Statuses = []option{
	{"active", "Active"},
	{"inactive", "Inactive"},
	{"suspended", "Suspended"},
	{"expired", "Expired"},
}

type option struct {
	Value string
	Label string
}

// memberRow is one line of the members table.
type memberRow struct {
	ID          string
	Name        string
	Email       string
	Phone       string
	Membership  string
	Status      string
	StatusClass string
	JoinDate    string
	ExpiryDate  string
	Expired     bool
}

type listData struct {
	viewdata.BaseVM
	List      listpage.Page[memberRow]
	ExportURL string
}

// formData backs the new and edit forms.
type formData struct {
	formutil.Base
	Input           memberInput
	IsEdit          bool
	ActionURL       string
	CancelURL       string
	MembershipTypes []option
	Statuses        []option
}

type billingRow struct {
	Date        string
	Amount      string
	Description string
	Status      string
}

type showData struct {
	viewdata.BaseVM
	ID               string
	Name             string
	Email            string
	Phone            string
	Membership       string
	Status           string
	StatusClass      string
	JoinDate         string
	ExpiryDate       string
	ExpiryNote       string
	AutoRenewal      string
	EmergencyContact string
	Notes            template.HTML
	Billing          []billingRow
}
