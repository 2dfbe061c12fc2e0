// Package models defines the client-side data: the session, the backend wire
// types and the results of the protect, verify and monitor flows.
package models

// Session is the cached authentication state. It is persisted as JSON in the
// local store and passed explicitly to every flow.
type Session struct {
	Token    string `json:"token"`
	Email    string `json:"email"`
	UUID     string `json:"uuid"`
	EmailSHA string `json:"email_sha"`
	APIBase  string `json:"apiBase"`
}

// LoggedIn reports whether s carries everything the authenticated flows need.
func (s *Session) LoggedIn() bool {
	return s != nil && s.Token != "" && s.Email != "" && s.EmailSHA != ""
}

// AccessToken is nil-safe.
func (s *Session) AccessToken() string {
	if s == nil {
		return ""
	}
	return s.Token
}
