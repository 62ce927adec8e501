// ABOUTME: Credential storage contracts for the session gateway
// ABOUTME: Store persists the token pair, Ephemeral holds session-scoped scratch data

package session

// Credentials is the token pair issued by the auth API
type Credentials struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// Empty reports whether neither token is present
func (c Credentials) Empty() bool {
	return c.AccessToken == "" && c.RefreshToken == ""
}

// Store persists credentials. It is the only source of truth for the
// session; callers must not keep copies across requests.
type Store interface {
	Get() (Credentials, error)
	Set(Credentials) error
	Clear() error
}

// Ephemeral is session-scoped scratch storage dropped when the session ends
type Ephemeral interface {
	Flush()
}
