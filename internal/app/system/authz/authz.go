// internal/app/system/authz/authz.go
package authz

import (
	"net/http"
	"strings"

	"github.com/dalemusser/clubhub/internal/app/system/auth"
	"github.com/dalemusser/clubhub/internal/domain/models"
)

// Section names a dashboard area gated by staff role.
type Section string

const (
	SectionMembers     Section = "members"
	SectionClasses     Section = "classes"
	SectionInstructors Section = "instructors"
	SectionClubs       Section = "clubs"
	SectionRestaurants Section = "restaurants"
	SectionOffices     Section = "offices"
)

// sectionRoles lists which staff roles may open each section.
// Admins see everything.
var sectionRoles = map[Section][]string{
	SectionMembers:     {models.RoleClubManager, models.RoleAllServices},
	SectionClasses:     {models.RoleClubManager, models.RoleAllServices, models.RoleClasses},
	SectionInstructors: {models.RoleClubManager, models.RoleAllServices, models.RoleClasses},
	SectionClubs:       {models.RoleClubManager},
	SectionRestaurants: {models.RoleClubManager, models.RoleAllServices, models.RoleRestaurant},
	SectionOffices:     {models.RoleClubManager, models.RoleAllServices, models.RoleOffice},
}

// UserCtx returns the user's role (lowercased), name, API user id, and a
// found flag. Without a signed-in user it returns "visitor", "", "", false.
func UserCtx(r *http.Request) (role string, name string, userID string, ok bool) {
	user, ok := auth.CurrentUser(r)
	if !ok || user.ID == "" {
		return "visitor", "", "", false
	}
	return strings.ToLower(user.Role), user.Name, user.ID, true
}

// IsAdmin reports whether the current request's user is an admin.
func IsAdmin(r *http.Request) bool {
	role, _, _, ok := UserCtx(r)
	return ok && role == models.RoleAdmin
}

// RolesFor returns every role allowed into s, admin included.
func RolesFor(s Section) []string {
	return append([]string{models.RoleAdmin}, sectionRoles[s]...)
}

// CanAccess reports whether the current user may open section s.
func CanAccess(r *http.Request, s Section) bool {
	return HasAnyRole(r, RolesFor(s)...)
}

// Sections returns the sections visible to the current user, in menu order.
func Sections(r *http.Request) []Section {
	all := []Section{SectionMembers, SectionClasses, SectionInstructors, SectionClubs, SectionRestaurants, SectionOffices}
	out := make([]Section, 0, len(all))
	for _, s := range all {
		if CanAccess(r, s) {
			out = append(out, s)
		}
	}
	return out
}
