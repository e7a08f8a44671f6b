package domain

import "time"

// AdminIdentity is the principal embedded in the admin session blob,
// exactly as the backend returns it from /auth/login.
type AdminIdentity struct {
	AdminID     string   `json:"admin_id"`
	Email       string   `json:"email"`
	FullName    string   `json:"full_name"`
	Role        string   `json:"role"`
	Permissions []string `json:"permissions"`
}

// AdminSession is the persisted admin session record. LoginTime and Expiry
// are unix milliseconds. Expiry is written at login (+24h) but never checked
// in-process; a stale session stays usable until the backend rejects its token.
type AdminSession struct {
	Authenticated bool          `json:"authenticated"`
	Token         string        `json:"token"`
	Admin         AdminIdentity `json:"admin"`
	LoginTime     int64         `json:"loginTime"`
	Expiry        int64         `json:"expiry"`
}

const AdminSessionTTL = 24 * time.Hour

// NewAdminSession builds the session blob written after a non-donor login.
func NewAdminSession(token string, admin AdminIdentity, now time.Time) AdminSession {
	return AdminSession{
		Authenticated: true,
		Token:         token,
		Admin:         admin,
		LoginTime:     now.UnixMilli(),
		Expiry:        now.Add(AdminSessionTTL).UnixMilli(),
	}
}

// Valid reports whether the blob represents an authenticated principal.
// It does not consult Expiry.
func (s *AdminSession) Valid() bool {
	return s != nil && s.Authenticated && s.Token != ""
}
