// internal/app/system/viewdata/viewdata.go
package viewdata

import (
	"net/http"

	"github.com/dalemusser/clubhub/internal/app/system/auth"
	"github.com/dalemusser/clubhub/internal/app/system/authz"
	"github.com/dalemusser/clubhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/httpnav"
	"github.com/gorilla/csrf"
)

// DefaultSiteName is shown in the header and page titles.
const DefaultSiteName = "ClubHub"

var siteName = DefaultSiteName

// SetSiteName overrides the site name. Call once at startup.
func SetSiteName(name string) {
	if name != "" {
		siteName = name
	}
}

// NavVM holds the sidebar visibility flags for the signed-in user.
type NavVM struct {
	Members     bool
	Classes     bool
	Instructors bool
	Clubs       bool
	Restaurants bool
	Offices     bool
	Audit       bool
}

// BaseVM contains common fields for all view models.
// Embed this struct in your feature-specific view models.
//
// Usage:
//
//	type listData struct {
//	    viewdata.BaseVM
//	    // page-specific fields...
//	}
//
//	data := listData{
//	    BaseVM: viewdata.NewBaseVM(r, "Members", "/dashboard"),
//	}
type BaseVM struct {
	SiteName string

	// User context (from auth middleware)
	IsLoggedIn bool
	Role       string
	UserName   string
	Nav        NavVM

	// Page context
	Title       string
	BackURL     string
	CurrentPath string

	CSRFToken string
	Flashes   []auth.Flash
}

// NewBaseVM creates a fully populated BaseVM for a page.
//
// Parameters:
//   - r: the HTTP request
//   - title: the page title
//   - backDefault: default URL for the back button if none in request
func NewBaseVM(r *http.Request, title, backDefault string) BaseVM {
	role, name, _, signedIn := authz.UserCtx(r)

	vm := BaseVM{
		SiteName:    siteName,
		IsLoggedIn:  signedIn,
		Role:        role,
		UserName:    name,
		Title:       title,
		BackURL:     httpnav.ResolveBackURL(r, backDefault),
		CurrentPath: httpnav.CurrentPath(r),
		CSRFToken:   csrf.Token(r),
		Flashes:     auth.Flashes(r),
	}
	if signedIn {
		vm.Nav = NavVM{
			Members:     authz.CanAccess(r, authz.SectionMembers),
			Classes:     authz.CanAccess(r, authz.SectionClasses),
			Instructors: authz.CanAccess(r, authz.SectionInstructors),
			Clubs:       authz.CanAccess(r, authz.SectionClubs),
			Restaurants: authz.CanAccess(r, authz.SectionRestaurants),
			Offices:     authz.CanAccess(r, authz.SectionOffices),
			Audit:       authz.HasAnyRole(r, models.RoleAdmin, models.RoleClubManager),
		}
	}
	return vm
}
