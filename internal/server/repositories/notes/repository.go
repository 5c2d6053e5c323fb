package notes

import (
	"context"

	"github.com/dmitrijs2005/noteshare/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, note *models.Note) (*models.Note, error)
	GetByID(ctx context.Context, id int64) (*models.Note, error)
	List(ctx context.Context, page models.Page) ([]*models.Note, error)
	Update(ctx context.Context, note *models.Note) (*models.Note, error)
	Delete(ctx context.Context, id int64) error
	DeleteByAccount(ctx context.Context, accountID int64) (int64, error)
}
