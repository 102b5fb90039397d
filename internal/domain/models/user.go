// internal/domain/models/user.go
package models

// Staff roles issued by the club API.
const (
	RoleAdmin       = "admin"
	RoleClubManager = "club_manager"
	RoleAllServices = "all_services"
	RoleRestaurant  = "restaurant"
	RoleOffice      = "office"
	RoleClasses     = "classes"
)

// User is a staff account as returned by /api/me and /auth/login.
type User struct {
	ID              string   `json:"id"`
	Email           string   `json:"email"`
	FirstName       string   `json:"first_name"`
	LastName        string   `json:"last_name"`
	Name            string   `json:"name,omitempty"`
	Role            string   `json:"role"`
	AssignedClubIDs []string `json:"assigned_club_ids,omitempty"`
	Active          bool     `json:"active"`
}

// DisplayName prefers first/last name and falls back to the legacy
// name field, then the email.
func (u User) DisplayName() string {
	full := u.FirstName
	if u.LastName != "" {
		if full != "" {
			full += " "
		}
		full += u.LastName
	}
	switch {
	case full != "":
		return full
	case u.Name != "":
		return u.Name
	}
	return u.Email
}

// LoginResponse is the body of a successful POST /auth/login.
type LoginResponse struct {
	User    User   `json:"user"`
	Token   string `json:"token"`
	Message string `json:"message"`
}
