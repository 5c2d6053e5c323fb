package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/dmitrijs2005/noteshare/internal/common"
	"github.com/dmitrijs2005/noteshare/internal/logging"
	"github.com/dmitrijs2005/noteshare/internal/server/models"
)

// AccountFinder resolves a token subject to an active account.
type AccountFinder interface {
	FindActiveByID(ctx context.Context, id int64) (*models.Account, error)
}

// Authenticator turns a bearer credential into an Identity. Every request
// re-checks that the subject is still an active account, so deactivation
// takes effect immediately rather than at token expiry.
type Authenticator struct {
	codec    *Codec
	accounts AccountFinder
	logger   logging.Logger
}

func NewAuthenticator(codec *Codec, accounts AccountFinder, logger logging.Logger) *Authenticator {
	if logger == nil {
		logger = logging.Nop{}
	}
	return &Authenticator{codec: codec, accounts: accounts, logger: logger.With("module", "authenticator")}
}

// Authenticate reads the Authorization header of r.
func (a *Authenticator) Authenticate(ctx context.Context, r *http.Request) (Identity, error) {
	return a.AuthenticateHeader(ctx, r.Header.Get(common.AuthorizationHeaderName))
}

// AuthenticateHeader authenticates a raw "Bearer <token>" header value.
// All failures are common.ErrorUnauthorized.
func (a *Authenticator) AuthenticateHeader(ctx context.Context, header string) (Identity, error) {
	token, ok := BearerToken(header)
	if !ok {
		return Identity{}, common.Unauthorized("not logged in")
	}

	claims, err := a.codec.Verify(token, KindAccess)
	if err != nil {
		a.logger.Warn(ctx, "access token rejected", "reason", err.Error())
		return Identity{}, common.AsUnauthorized(err)
	}

	subject, err := claims.AccountID()
	if err != nil {
		a.logger.Warn(ctx, "access token rejected", "reason", err.Error())
		return Identity{}, common.Unauthorized(ErrMalformedSubject.Error())
	}

	if _, err := a.accounts.FindActiveByID(ctx, subject); err != nil {
		if !errors.Is(err, common.ErrorNotFound) {
			a.logger.Error(ctx, "account lookup failed", "subject", subject, "error", err.Error())
			return Identity{}, &common.Error{Class: common.ErrorUnauthorized, Msg: "authentication failed", Cause: err}
		}
		a.logger.Warn(ctx, "access token for unknown or inactive account", "subject", subject)
		return Identity{}, common.Unauthorized("account not recognized")
	}

	return identityFromClaims(subject, claims), nil
}

// BearerToken extracts the token from a header of exactly two
// space-separated parts, the first being "Bearer".
func BearerToken(header string) (string, bool) {
	parts := strings.Split(header, " ")
	if len(parts) != 2 || parts[0] != common.BearerScheme || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}
