package nav_test

import (
	"reflect"
	"testing"
	"time"

	"github.com/lifelink/lifelink-web/internal/domain"
	"github.com/lifelink/lifelink-web/internal/nav"
)

func adminState(name string) nav.State {
	sess := domain.NewAdminSession("tok", domain.AdminIdentity{
		FullName: name,
		Role:     "admin",
	}, time.Now())
	return nav.State{DonorToken: "tok", DonorName: name, Admin: &sess}
}

func TestResolve_LoggedOut(t *testing.T) {
	got := nav.Resolve(nav.State{})

	if got.LoggedIn {
		t.Error("LoggedIn = true, want false")
	}
	if !got.Login.Visible || got.Login.Label != "Login" {
		t.Errorf("Login = %+v, want visible with label Login", got.Login)
	}
	if got.Logout.Visible {
		t.Error("Logout should be hidden when logged out")
	}
	if got.Admin.Visible {
		t.Error("Admin link should be hidden when logged out")
	}
	if got.Register.Label != "Register Now" || got.Register.Target != "/register-donor.html" {
		t.Errorf("Register = %+v, want Register Now", got.Register)
	}
	if !got.TrackerDesktop || !got.TrackerBottom || !got.TrackerMenu {
		t.Error("tracker links should be visible when logged out")
	}
}

func TestResolve_DonorLoggedIn(t *testing.T) {
	got := nav.Resolve(nav.State{DonorToken: "tok", DonorName: "Jane Doe"})

	if !got.LoggedIn || got.Role != nav.RoleDonor {
		t.Errorf("LoggedIn=%v Role=%q, want donor login", got.LoggedIn, got.Role)
	}
	if got.Login.Visible {
		t.Error("Login should be hidden for a donor")
	}
	if !got.Logout.Visible {
		t.Error("Logout should be visible for a donor")
	}
	if got.Admin.Visible {
		t.Error("Admin link should be hidden for a donor")
	}
	if got.Register.Label != "Jane" || got.Register.Target != "/tracker.html" {
		t.Errorf("Register = %+v, want first name linking to tracker", got.Register)
	}
	if got.ProfileName != "Jane" || got.ProfileInitials != "JD" {
		t.Errorf("profile = %q/%q, want Jane/JD", got.ProfileName, got.ProfileInitials)
	}
}

func TestResolve_AdminLoggedIn(t *testing.T) {
	got := nav.Resolve(adminState("Admin User"))

	if got.Role != nav.RoleAdmin {
		t.Errorf("Role = %q, want admin", got.Role)
	}
	if !got.Admin.Visible || got.Admin.Target != "/admin/index.html" {
		t.Errorf("Admin = %+v, want visible dashboard link", got.Admin)
	}
	if got.Register.Label != "Dashboard" || got.Register.Target != "/admin/index.html" {
		t.Errorf("Register = %+v, want Dashboard", got.Register)
	}
	if got.TrackerDesktop || got.TrackerMenu {
		t.Error("tracker should be off the desktop nav and menus for admins")
	}
	if !got.TrackerBottom {
		t.Error("bottom nav tracker slot should remain for admins")
	}
}

func TestResolve_RoleDefaultsToDonorWithInvalidBlob(t *testing.T) {
	// A blob without a token is not an admin session.
	sess := domain.AdminSession{Authenticated: true}
	got := nav.Resolve(nav.State{DonorToken: "tok", DonorName: "Jane", Admin: &sess})
	if got.Role != nav.RoleDonor {
		t.Errorf("Role = %q, want donor", got.Role)
	}
}

func TestResolve_Idempotent(t *testing.T) {
	state := adminState("Admin User")
	first := nav.Resolve(state)
	second := nav.Resolve(state)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("Resolve not idempotent:\nfirst  %+v\nsecond %+v", first, second)
	}
}

func TestFirstName(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"Jane Doe", "Jane"},
		{"Jane", "Jane"},
		{"  Jane   Doe  ", "Jane"},
		{"", ""},
	}
	for _, tc := range cases {
		if got := nav.FirstName(tc.in); got != tc.want {
			t.Errorf("FirstName(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestInitials(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"Jane Doe", "JD"},
		{"jane doe", "JD"},
		{"Jane", "J"},
		{"Jane Anne Doe", "JA"},
		{"", ""},
	}
	for _, tc := range cases {
		if got := nav.Initials(tc.in); got != tc.want {
			t.Errorf("Initials(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
