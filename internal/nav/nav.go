// Package nav computes the navigation view-model that every page binds.
// It replaces the old text-matching walk over anchor tags: Resolve is a
// pure function of session state, so re-running it is always idempotent
// and nothing accumulates listeners.
package nav

import (
	"strings"

	"github.com/lifelink/lifelink-web/internal/domain"
)

const (
	RoleDonor = "donor"
	RoleAdmin = "admin"
)

// State is everything the synchronizer reads from the session store.
type State struct {
	DonorToken string
	DonorName  string
	Admin      *domain.AdminSession
}

// Role defaults to donor unless the admin blob carries an authenticated
// principal with a token.
func (s State) Role() string {
	if s.Admin.Valid() {
		return s.Admin.Admin.Role
	}
	return RoleDonor
}

func (s State) LoggedIn() bool { return s.DonorToken != "" }

// Link is one gated navigation element.
type Link struct {
	Visible bool   `json:"visible"`
	Label   string `json:"label,omitempty"`
	Target  string `json:"target,omitempty"`
}

// NavState is the full navigation view-model.
type NavState struct {
	LoggedIn bool   `json:"logged_in"`
	Role     string `json:"role"`

	Login    Link `json:"login"`
	Logout   Link `json:"logout"`
	Admin    Link `json:"admin"`
	Register Link `json:"register"` // becomes Profile/Dashboard when logged in

	// Tracker visibility is split per nav location: admins keep the link
	// hidden in the desktop nav and off-nav menus but the bottom nav slot
	// remains occupied.
	TrackerDesktop bool `json:"tracker_desktop"`
	TrackerBottom  bool `json:"tracker_bottom"`
	TrackerMenu    bool `json:"tracker_menu"`

	ProfileName     string `json:"profile_name,omitempty"`     // first name
	ProfileInitials string `json:"profile_initials,omitempty"` // max 2, uppercase
}

// Resolve maps session state to the navigation policy table.
func Resolve(s State) NavState {
	if !s.LoggedIn() {
		return NavState{
			Role:           RoleDonor,
			Login:          Link{Visible: true, Label: "Login", Target: "/login.html"},
			Register:       Link{Visible: true, Label: "Register Now", Target: "/register-donor.html"},
			TrackerDesktop: true,
			TrackerBottom:  true,
			TrackerMenu:    true,
		}
	}

	out := NavState{
		LoggedIn:        true,
		Role:            s.Role(),
		Logout:          Link{Visible: true, Label: "Logout"},
		ProfileName:     FirstName(s.DonorName),
		ProfileInitials: Initials(s.DonorName),
	}

	if out.Role == RoleAdmin {
		out.Admin = Link{Visible: true, Label: "Admin", Target: "/admin/index.html"}
		out.Register = Link{Visible: true, Label: "Dashboard", Target: "/admin/index.html"}
		out.TrackerBottom = true
		return out
	}

	label := out.ProfileName
	if label == "" {
		label = "Profile"
	}
	out.Register = Link{Visible: true, Label: label, Target: "/tracker.html"}
	out.TrackerDesktop = true
	out.TrackerBottom = true
	out.TrackerMenu = true
	return out
}

// FirstName returns the first whitespace-separated word of name.
func FirstName(name string) string {
	fields := strings.Fields(name)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

// Initials joins the first letter of each name part, capped at two,
// uppercased: "Jane Doe" -> "JD".
func Initials(name string) string {
	var initials []rune
	for _, part := range strings.Fields(name) {
		initials = append(initials, []rune(part)[0])
		if len(initials) == 2 {
			break
		}
	}
	return strings.ToUpper(string(initials))
}
