package authz_test

import (
	"net/http/httptest"
	"testing"

	"github.com/dalemusser/clubhub/internal/app/system/auth"
	"github.com/dalemusser/clubhub/internal/app/system/authz"
)

func withRole(role string) *auth.SessionUser {
	return &auth.SessionUser{ID: "u-1", Name: "Staff", Role: role}
}

func TestUserCtx_NoUser(t *testing.T) {
	req := httptest.NewRequest("GET", "/test", nil)

	role, name, id, ok := authz.UserCtx(req)
	if ok {
		t.Error("expected ok=false without a user")
	}
	if role != "visitor" || name != "" || id != "" {
		t.Errorf("got (%q, %q, %q), want (visitor, \"\", \"\")", role, name, id)
	}
}

func TestUserCtx_LowercasesRole(t *testing.T) {
	req := auth.WithTestUser(httptest.NewRequest("GET", "/test", nil), withRole("Club_Manager"))

	role, name, id, ok := authz.UserCtx(req)
	if !ok {
		t.Fatal("expected ok=true")
	}
	if role != "club_manager" {
		t.Errorf("role: got %q, want %q", role, "club_manager")
	}
	if name != "Staff" || id != "u-1" {
		t.Errorf("got name %q id %q", name, id)
	}
}

func TestUserCtx_EmptyIDFailsClosed(t *testing.T) {
	req := auth.WithTestUser(httptest.NewRequest("GET", "/test", nil), &auth.SessionUser{Role: "admin"})

	if _, _, _, ok := authz.UserCtx(req); ok {
		t.Error("expected user without id to be treated as signed out")
	}
}

func TestCanAccess(t *testing.T) {
	tests := []struct {
		role    string
		section authz.Section
		want    bool
	}{
		{"admin", authz.SectionClubs, true},
		{"admin", authz.SectionOffices, true},
		{"club_manager", authz.SectionClubs, true},
		{"all_services", authz.SectionClubs, false},
		{"all_services", authz.SectionMembers, true},
		{"classes", authz.SectionClasses, true},
		{"classes", authz.SectionInstructors, true},
		{"classes", authz.SectionMembers, false},
		{"restaurant", authz.SectionRestaurants, true},
		{"restaurant", authz.SectionOffices, false},
		{"office", authz.SectionOffices, true},
		{"office", authz.SectionClasses, false},
	}

	for _, tc := range tests {
		req := auth.WithTestUser(httptest.NewRequest("GET", "/", nil), withRole(tc.role))
		if got := authz.CanAccess(req, tc.section); got != tc.want {
			t.Errorf("CanAccess(%s, %s): got %v, want %v", tc.role, tc.section, got, tc.want)
		}
	}
}

func TestSections_Restaurant(t *testing.T) {
	req := auth.WithTestUser(httptest.NewRequest("GET", "/", nil), withRole("restaurant"))

	got := authz.Sections(req)
	if len(got) != 1 || got[0] != authz.SectionRestaurants {
		t.Errorf("Sections: got %v, want [restaurants]", got)
	}
}

func TestHasAnyRole_NoUser(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	if authz.HasAnyRole(req, "admin") {
		t.Error("expected false without a user")
	}
}
