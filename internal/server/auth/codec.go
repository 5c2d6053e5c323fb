// Package auth issues and verifies signed tokens, authenticates bearer
// credentials and enforces resource ownership.
package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/dmitrijs2005/noteshare/internal/common"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TokenKind tags a token with the endpoint family allowed to accept it.
type TokenKind string

const (
	KindAccess  TokenKind = "access"
	KindRefresh TokenKind = "refresh"
)

// ErrMalformedSubject is returned when a verified token names no valid account id.
var ErrMalformedSubject = errors.New("malformed token subject")

// Settings configures a Codec. It is built once at start-up and never mutated.
type Settings struct {
	Secret     []byte
	Audience   string
	Issuer     string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

// Validate requires every field; there are no defaults.
func (s Settings) Validate() error {
	var errs []error
	if len(s.Secret) == 0 {
		errs = append(errs, errors.New("secret is required"))
	}
	if s.Audience == "" {
		errs = append(errs, errors.New("audience is required"))
	}
	if s.Issuer == "" {
		errs = append(errs, errors.New("issuer is required"))
	}
	if s.AccessTTL <= 0 {
		errs = append(errs, errors.New("access TTL must be positive"))
	}
	if s.RefreshTTL <= 0 {
		errs = append(errs, errors.New("refresh TTL must be positive"))
	}
	return errors.Join(errs...)
}

// Claims is the signed token payload: registered claims plus the optional
// email and the token kind.
type Claims struct {
	jwt.RegisteredClaims
	Email string    `json:"email,omitempty"`
	Kind  TokenKind `json:"kind"`
}

// AccountID parses the subject as a positive account id.
func (c *Claims) AccountID() (int64, error) {
	id, err := strconv.ParseInt(c.Subject, 10, 64)
	if err != nil || id <= 0 {
		return 0, ErrMalformedSubject
	}
	return id, nil
}

// Codec signs and verifies HS256 tokens. It is safe for concurrent use.
type Codec struct {
	settings Settings
	now      func() time.Time
}

// NewCodec validates s and returns a Codec bound to it.
func NewCodec(s Settings) (*Codec, error) {
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("token settings: %w", err)
	}
	secret := make([]byte, len(s.Secret))
	copy(secret, s.Secret)
	s.Secret = secret
	return &Codec{settings: s, now: time.Now}, nil
}

// IssueAccess mints a short-lived access token carrying the email claim.
func (c *Codec) IssueAccess(subject int64, email string) (string, error) {
	return c.Issue(subject, KindAccess, c.settings.AccessTTL, email)
}

// IssueRefresh mints a long-lived refresh token without extra claims.
func (c *Codec) IssueRefresh(subject int64) (string, error) {
	return c.Issue(subject, KindRefresh, c.settings.RefreshTTL, "")
}

// Issue signs a token for subject that expires ttl from now. Every token
// gets a unique jti, so two tokens are never byte-equal.
func (c *Codec) Issue(subject int64, kind TokenKind, ttl time.Duration, email string) (string, error) {
	now := c.now()
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   strconv.FormatInt(subject, 10),
			Audience:  jwt.ClaimStrings{c.settings.Audience},
			Issuer:    c.settings.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Email: email,
		Kind:  kind,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(c.settings.Secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify checks signature, algorithm, audience, issuer, expiry and kind.
// Expired tokens yield common.ErrTokenExpired; every other failure wraps
// common.ErrInvalidToken. Error texts never include key material.
func (c *Codec) Verify(tokenString string, kind TokenKind) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return c.settings.Secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithAudience(c.settings.Audience),
		jwt.WithIssuer(c.settings.Issuer),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
		jwt.WithTimeFunc(c.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, common.ErrTokenExpired
		}
		return nil, fmt.Errorf("%w: %v", common.ErrInvalidToken, err)
	}
	if !token.Valid {
		return nil, common.ErrInvalidToken
	}

	// now >= exp is expired, independent of library rounding
	if !c.now().Before(claims.ExpiresAt.Time) {
		return nil, common.ErrTokenExpired
	}
	if claims.Kind != kind {
		return nil, fmt.Errorf("%w: %s token not accepted here", common.ErrInvalidToken, kindName(claims.Kind))
	}
	return claims, nil
}

func kindName(k TokenKind) string {
	if k == "" {
		return "untyped"
	}
	return string(k)
}
