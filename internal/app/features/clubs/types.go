// internal/app/features/clubs/types.go
package clubs

import (
	"github.com/dalemusser/clubhub/internal/app/features/shared/listpage"
	"github.com/dalemusser/clubhub/internal/app/system/formutil"
	"github.com/dalemusser/clubhub/internal/app/system/viewdata"
)

type clubRow struct {
	ID          string
	Name        string
	Address     string
	Location    string
	Phone       string
	Email       string
	Active      bool
	ActiveLabel string
}

type listData struct {
	viewdata.BaseVM
	List listpage.Page[clubRow]
}

// link is one related record on the club page.
type link struct {
	URL    string
	Label  string
	Detail string
}

// section is one related collection on the club page. Error is set when
// that collection failed to load; the rest of the page still renders.
type section struct {
	Title string
	Empty string
	Links []link
	Error string
}

type showData struct {
	viewdata.BaseVM
	ID          string
	Name        string
	Address     string
	Location    string
	Phone       string
	Email       string
	ActiveLabel string
	Sections    []section
}

type formData struct {
	formutil.Base
	Input     clubInput
	IsEdit    bool
	ActionURL string
	CancelURL string
}
