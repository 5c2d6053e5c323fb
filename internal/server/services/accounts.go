package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/noteshare/internal/common"
	"github.com/dmitrijs2005/noteshare/internal/dbx"
	"github.com/dmitrijs2005/noteshare/internal/logging"
	"github.com/dmitrijs2005/noteshare/internal/server/auth"
	"github.com/dmitrijs2005/noteshare/internal/server/models"
	"github.com/dmitrijs2005/noteshare/internal/server/repositories/repomanager"
	"github.com/gabriel-vasile/mimetype"
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/google/uuid"
)

const (
	MinPictureSize = 1 << 10
	MaxPictureSize = 10 << 20
)

// pictureTypes maps accepted content types to stored file extensions.
var pictureTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
}

// PictureStore is the object storage used for account pictures.
type PictureStore interface {
	Put(ctx context.Context, key, contentType string, body []byte) error
	Delete(ctx context.Context, key string) error
	PresignGet(ctx context.Context, key string) (string, error)
}

type CreateAccountInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (in CreateAccountInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Name, validation.Required, validation.Length(3, 100)),
		validation.Field(&in.Email, validation.Required, is.Email),
		validation.Field(&in.Password, validation.Required, validation.Length(5, 0)),
	)
}

// UpdateAccountInput carries the fields to change; nil means unchanged.
type UpdateAccountInput struct {
	Name     *string `json:"name"`
	Password *string `json:"password"`
}

func (in UpdateAccountInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Name, validation.NilOrNotEmpty, validation.Length(3, 100)),
		validation.Field(&in.Password, validation.NilOrNotEmpty, validation.Length(5, 0)),
	)
}

type AccountService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	hasher      auth.Hasher
	pictures    PictureStore
	logger      logging.Logger
	newKey      func(accountID int64, ext string) string
}

func NewAccountService(db *sql.DB, m repomanager.RepositoryManager, hasher auth.Hasher,
	pictures PictureStore, logger logging.Logger) *AccountService {
	return &AccountService{
		db:          db,
		repomanager: m,
		hasher:      hasher,
		pictures:    pictures,
		logger:      logger.With("module", "accounts"),
		newKey:      PictureKey,
	}
}

// PictureKey names a new picture object of an account.
func PictureKey(accountID int64, ext string) string {
	return fmt.Sprintf("pictures/%d/%s%s", accountID, uuid.NewString(), ext)
}

// Create registers a new active account.
func (s *AccountService) Create(ctx context.Context, in CreateAccountInput) (*models.Account, error) {
	if err := in.Validate(); err != nil {
		return nil, invalid(err)
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, err
	}

	account, err := s.repomanager.Accounts(s.db).Create(ctx, &models.Account{
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: hash,
	})
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, common.Conflict("account with this email already exists")
		}
		return nil, err
	}

	s.logger.Info(ctx, "account created", "account", account.ID)
	return account, nil
}

func (s *AccountService) List(ctx context.Context, page models.Page) ([]*models.Account, error) {
	return s.repomanager.Accounts(s.db).List(ctx, page)
}

func (s *AccountService) Get(ctx context.Context, id int64) (*models.Account, error) {
	account, err := s.repomanager.Accounts(s.db).GetByID(ctx, id)
	return auth.MustExist(account, err, "account not found")
}

func (s *AccountService) loadOwned(ctx context.Context, id int64, identity auth.Identity) (*models.Account, error) {
	return auth.LoadOwned(ctx, identity, "account not found", func(ctx context.Context) (*models.Account, error) {
		return s.repomanager.Accounts(s.db).GetByID(ctx, id)
	})
}

// Update changes the caller's own name or password.
func (s *AccountService) Update(ctx context.Context, id int64, in UpdateAccountInput, identity auth.Identity) (*models.Account, error) {
	if err := in.Validate(); err != nil {
		return nil, invalid(err)
	}

	account, err := s.loadOwned(ctx, id, identity)
	if err != nil {
		return nil, err
	}

	if in.Name != nil {
		account.Name = *in.Name
	}
	if in.Password != nil {
		hash, err := s.hasher.Hash(*in.Password)
		if err != nil {
			return nil, err
		}
		account.PasswordHash = hash
	}

	return s.repomanager.Accounts(s.db).Update(ctx, account)
}

// Delete removes the caller's own account together with every note it sent
// or received.
func (s *AccountService) Delete(ctx context.Context, id int64, identity auth.Identity) error {
	account, err := s.loadOwned(ctx, id, identity)
	if err != nil {
		return err
	}

	var removed int64
	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		var err error
		if removed, err = s.repomanager.Notes(tx).DeleteByAccount(ctx, id); err != nil {
			return err
		}
		return s.repomanager.Accounts(tx).Delete(ctx, id)
	})
	if err != nil {
		return err
	}

	if account.Picture != "" {
		s.dropPicture(ctx, account.Picture)
	}

	s.logger.Info(ctx, "account deleted", "account", id, "notes", removed)
	return nil
}

// UploadPicture stores a JPEG or PNG as the caller's picture. The type is
// sniffed from the content; the client's claim is ignored.
func (s *AccountService) UploadPicture(ctx context.Context, identity auth.Identity, data []byte) (*models.Account, error) {
	if len(data) < MinPictureSize {
		return nil, common.BadRequest("file too small, minimum is %d bytes", MinPictureSize)
	}
	if len(data) > MaxPictureSize {
		return nil, common.Unprocessable("file too large")
	}

	mtype := mimetype.Detect(data)
	ext, ok := pictureTypes[mtype.String()]
	if !ok {
		return nil, common.Unprocessable("unsupported file type " + mtype.String())
	}

	repo := s.repomanager.Accounts(s.db)
	account, err := repo.GetByID(ctx, identity.Subject)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.NotFound("account not found")
		}
		return nil, err
	}
	previous := account.Picture

	key := s.newKey(identity.Subject, ext)
	if err := s.pictures.Put(ctx, key, mtype.String(), data); err != nil {
		return nil, err
	}

	if err := repo.SetPicture(ctx, identity.Subject, key); err != nil {
		s.dropPicture(ctx, key)
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.NotFound("account not found")
		}
		return nil, err
	}
	if previous != "" && previous != key {
		s.dropPicture(ctx, previous)
	}

	s.logger.Info(ctx, "picture stored", "account", identity.Subject, "key", key)
	return repo.GetByID(ctx, identity.Subject)
}

// dropPicture removes an object no account refers to. Failures are logged,
// not returned.
func (s *AccountService) dropPicture(ctx context.Context, key string) {
	if s.pictures == nil {
		return
	}
	if err := s.pictures.Delete(ctx, key); err != nil {
		s.logger.Warn(ctx, "picture cleanup failed", "key", key, "error", err.Error())
	}
}

// PictureURL returns a presigned download URL for an account's picture.
func (s *AccountService) PictureURL(ctx context.Context, id int64) (string, error) {
	account, err := s.Get(ctx, id)
	if err != nil {
		return "", err
	}
	if account.Picture == "" {
		return "", common.NotFound("picture not found")
	}
	return s.pictures.PresignGet(ctx, account.Picture)
}

// SetActive switches an account on or off. Inactive accounts are turned away
// by every authentication path.
func (s *AccountService) SetActive(ctx context.Context, id int64, active bool) error {
	if err := s.repomanager.Accounts(s.db).SetActive(ctx, id, active); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.NotFound("account not found")
		}
		return err
	}
	s.logger.Info(ctx, "account activity changed", "account", id, "active", active)
	return nil
}

// invalid turns a validation failure into a client error.
func invalid(err error) error {
	return &common.Error{Class: common.ErrorValidation, Msg: err.Error(), Cause: err}
}
