// internal/app/features/instructors/types.go
package instructors

import (
	"html/template"

	"github.com/dalemusser/clubhub/internal/app/features/shared/listpage"
	"github.com/dalemusser/clubhub/internal/app/system/formutil"
	"github.com/dalemusser/clubhub/internal/app/system/viewdata"
)

type instructorRow struct {
	ID          string
	Name        string
	Email       string
	Phone       string
	Specialty   string
	Active      bool
	ActiveLabel string
}

type listData struct {
	viewdata.BaseVM
	List listpage.Page[instructorRow]
}

type clubLink struct {
	ID       string
	Name     string
	Location string
}

type classLink struct {
	ID   string
	Name string
	Date string
	Time string
}

type showData struct {
	viewdata.BaseVM
	ID          string
	Name        string
	Email       string
	Phone       string
	Specialty   string
	Bio         template.HTML
	ActiveLabel string
	Clubs       []clubLink
	ClassCount  int
	Upcoming    []classLink
	Past        []classLink
	Notices     []string
}

type clubChoice struct {
	ID      string
	Name    string
	Checked bool
}

type formData struct {
	formutil.Base
	Input     instructorInput
	IsEdit    bool
	ActionURL string
	CancelURL string
	Clubs     []clubChoice
}
