package services

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/dmitrijs2005/noteshare/internal/common"
	"github.com/dmitrijs2005/noteshare/internal/logging"
	"github.com/dmitrijs2005/noteshare/internal/server/auth"
	"github.com/dmitrijs2005/noteshare/internal/server/models"
	"github.com/dmitrijs2005/noteshare/internal/server/repositories/repomanager"
	validation "github.com/go-ozzo/ozzo-validation"
)

type CreateNoteInput struct {
	Text string `json:"text"`
	ToID int64  `json:"toId"`
}

func (in CreateNoteInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Text, validation.Required, validation.Length(5, 0)),
		validation.Field(&in.ToID, validation.Required, validation.Min(int64(1))),
	)
}

type UpdateNoteInput struct {
	Text *string `json:"text"`
	Read *bool   `json:"read"`
}

func (in UpdateNoteInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Text, validation.NilOrNotEmpty, validation.Length(5, 0)),
	)
}

// NoteService manages notes. Reads are public; changes are limited to the
// sender.
type NoteService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	logger      logging.Logger
	now         func() time.Time
}

func NewNoteService(db *sql.DB, m repomanager.RepositoryManager, logger logging.Logger) *NoteService {
	return &NoteService{
		db:          db,
		repomanager: m,
		logger:      logger.With("module", "notes"),
		now:         time.Now,
	}
}

func (s *NoteService) List(ctx context.Context, page models.Page) ([]*models.Note, error) {
	return s.repomanager.Notes(s.db).List(ctx, page)
}

func (s *NoteService) Get(ctx context.Context, id int64) (*models.Note, error) {
	note, err := s.repomanager.Notes(s.db).GetByID(ctx, id)
	return auth.MustExist(note, err, "note not found")
}

// Create sends a note from the caller to an existing account.
func (s *NoteService) Create(ctx context.Context, in CreateNoteInput, identity auth.Identity) (*models.Note, error) {
	if err := in.Validate(); err != nil {
		return nil, invalid(err)
	}

	accounts := s.repomanager.Accounts(s.db)

	to, err := accounts.GetByID(ctx, in.ToID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.NotFound("recipient not found")
		}
		return nil, err
	}

	from, err := accounts.FindActiveByID(ctx, identity.Subject)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.Unauthorized("account not recognized")
		}
		return nil, err
	}

	note, err := s.repomanager.Notes(s.db).Create(ctx, &models.Note{
		Text: in.Text,
		From: models.Party{ID: from.ID, Name: from.Name},
		To:   models.Party{ID: to.ID, Name: to.Name},
		Read: false,
		Date: s.now().UTC(),
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info(ctx, "note created", "note", note.ID, "from", from.ID, "to", to.ID)
	return note, nil
}

func (s *NoteService) loadOwned(ctx context.Context, id int64, identity auth.Identity) (*models.Note, error) {
	return auth.LoadOwned(ctx, identity, "note not found", func(ctx context.Context) (*models.Note, error) {
		return s.repomanager.Notes(s.db).GetByID(ctx, id)
	})
}

// Update edits text or the read flag of a note the caller sent.
func (s *NoteService) Update(ctx context.Context, id int64, in UpdateNoteInput, identity auth.Identity) (*models.Note, error) {
	if err := in.Validate(); err != nil {
		return nil, invalid(err)
	}

	note, err := s.loadOwned(ctx, id, identity)
	if err != nil {
		return nil, err
	}

	if in.Text != nil {
		note.Text = *in.Text
	}
	if in.Read != nil {
		note.Read = *in.Read
	}

	return s.repomanager.Notes(s.db).Update(ctx, note)
}

func (s *NoteService) Delete(ctx context.Context, id int64, identity auth.Identity) error {
	if _, err := s.loadOwned(ctx, id, identity); err != nil {
		return err
	}
	if err := s.repomanager.Notes(s.db).Delete(ctx, id); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.NotFound("note not found")
		}
		return err
	}
	s.logger.Info(ctx, "note deleted", "note", id)
	return nil
}
