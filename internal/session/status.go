// ABOUTME: Reports the current session state from stored credentials
// ABOUTME: Decodes JWT claims without verification for display only

package session

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Status describes the stored session
type Status struct {
	SignedIn   bool      `json:"signedIn"`
	Subject    string    `json:"subject,omitempty"`
	Email      string    `json:"email,omitempty"`
	ExpiresAt  time.Time `json:"expiresAt,omitzero"`
	Expired    bool      `json:"expired"`
	HasRefresh bool      `json:"hasRefreshToken"`
}

// Status reads the store and describes the session. Signature checks are
// the server's job; claims here are informational.
func (g *Gateway) Status(now time.Time) (Status, error) {
	creds, err := g.store.Get()
	if err != nil {
		return Status{}, err
	}
	st := Status{
		SignedIn:   creds.AccessToken != "",
		HasRefresh: creds.RefreshToken != "",
	}
	if !st.SignedIn {
		return st, nil
	}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(creds.AccessToken, claims); err != nil {
		g.logger.Debug("Access token is not a readable JWT", "error", err)
		return st, nil
	}

	if sub, err := claims.GetSubject(); err == nil {
		st.Subject = sub
	}
	if st.Subject == "" {
		if id, ok := claims["id"].(string); ok {
			st.Subject = id
		}
	}
	if email, ok := claims["email"].(string); ok {
		st.Email = email
	}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		st.ExpiresAt = exp.Time
		st.Expired = !now.Before(exp.Time)
	}
	return st, nil
}
