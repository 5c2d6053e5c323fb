package auth

import "time"

// Identity is the authenticated caller of one request. It is derived from a
// verified access token and passed explicitly to the handlers that need it.
type Identity struct {
	Subject   int64
	Email     string
	IssuedAt  time.Time
	ExpiresAt time.Time
	Audience  []string
	Issuer    string
}

func identityFromClaims(subject int64, c *Claims) Identity {
	id := Identity{
		Subject:  subject,
		Email:    c.Email,
		Audience: append([]string(nil), c.Audience...),
		Issuer:   c.Issuer,
	}
	if c.IssuedAt != nil {
		id.IssuedAt = c.IssuedAt.Time
	}
	if c.ExpiresAt != nil {
		id.ExpiresAt = c.ExpiresAt.Time
	}
	return id
}
