// Package services contains server-side business logic. This file implements
// AuthService, which exchanges credentials and refresh tokens for token pairs.
package services

import (
	"context"
	"database/sql"
	"errors"

	"github.com/dmitrijs2005/noteshare/internal/common"
	"github.com/dmitrijs2005/noteshare/internal/logging"
	"github.com/dmitrijs2005/noteshare/internal/server/auth"
	"github.com/dmitrijs2005/noteshare/internal/server/models"
	"github.com/dmitrijs2005/noteshare/internal/server/repositories/repomanager"
)

// TokenPair bundles a short-lived access token and a long-lived refresh token.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// AuthService keeps no state of its own: refresh tokens are self-contained
// and every refresh re-reads the account.
type AuthService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	codec       *auth.Codec
	hasher      auth.Hasher
	logger      logging.Logger
}

func NewAuthService(db *sql.DB, m repomanager.RepositoryManager, codec *auth.Codec,
	hasher auth.Hasher, logger logging.Logger) *AuthService {
	return &AuthService{
		db:          db,
		repomanager: m,
		codec:       codec,
		hasher:      hasher,
		logger:      logger.With("module", "auth"),
	}
}

// Login checks the password of an active account and issues a token pair.
func (s *AuthService) Login(ctx context.Context, email, password string) (*TokenPair, error) {
	account, err := s.repomanager.Accounts(s.db).FindActiveByEmail(ctx, email)
	if err != nil {
		return nil, s.lookupFailure(ctx, "login", err)
	}

	ok, err := s.hasher.Compare(password, account.PasswordHash)
	if err != nil {
		s.logger.Error(ctx, "password compare failed", "account", account.ID, "error", err.Error())
	}
	if !ok {
		s.logger.Warn(ctx, "login rejected", "reason", "invalid credentials", "account", account.ID)
		return nil, common.Unauthorized("invalid credentials")
	}

	return s.issuePair(ctx, account)
}

// Refresh exchanges a valid refresh token for a new pair. Claims come from
// the account as it is now, so renamed or deactivated accounts never carry
// stale claims forward.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	claims, err := s.codec.Verify(refreshToken, auth.KindRefresh)
	if err != nil {
		s.logger.Warn(ctx, "refresh rejected", "reason", err.Error())
		return nil, common.AsUnauthorized(err)
	}

	id, err := claims.AccountID()
	if err != nil {
		s.logger.Warn(ctx, "refresh rejected", "reason", err.Error())
		return nil, common.Unauthorized(auth.ErrMalformedSubject.Error())
	}

	account, err := s.repomanager.Accounts(s.db).FindActiveByID(ctx, id)
	if err != nil {
		return nil, s.lookupFailure(ctx, "refresh", err)
	}

	return s.issuePair(ctx, account)
}

func (s *AuthService) lookupFailure(ctx context.Context, op string, err error) error {
	if errors.Is(err, common.ErrorNotFound) {
		s.logger.Warn(ctx, op+" rejected", "reason", "account not recognized")
		return common.Unauthorized("account not recognized")
	}
	s.logger.Error(ctx, op+" account lookup failed", "error", err.Error())
	return &common.Error{Class: common.ErrorUnauthorized, Msg: "authentication failed", Cause: err}
}

func (s *AuthService) issuePair(ctx context.Context, account *models.Account) (*TokenPair, error) {
	access, err := s.codec.IssueAccess(account.ID, account.Email)
	if err != nil {
		s.logger.Error(ctx, "issue access token", "error", err.Error())
		return nil, &common.Error{Class: common.ErrorUnauthorized, Msg: "authentication failed", Cause: err}
	}
	refresh, err := s.codec.IssueRefresh(account.ID)
	if err != nil {
		s.logger.Error(ctx, "issue refresh token", "error", err.Error())
		return nil, &common.Error{Class: common.ErrorUnauthorized, Msg: "authentication failed", Cause: err}
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}
