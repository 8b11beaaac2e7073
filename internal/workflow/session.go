// Package workflow enforces the legal state transitions for news articles
// and reader comments. The engine is a pure validator: it holds no
// persistent state and never reads ambient auth state; every call takes an
// explicit Session carrying the acting user.
package workflow

import "newsdesk/internal/models"

// Session identifies the acting user for a workflow call. It is built by
// the auth middleware from the verified token and passed explicitly; the
// engine never consults globals.
type Session struct {
	UserID uint
	Role   models.Role
}

// IsStaff reports whether the session may act as a moderator/editor.
func (s Session) IsStaff() bool {
	return s.Role == models.RoleAdmin || s.Role == models.RoleEditor
}
