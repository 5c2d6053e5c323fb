package accounts

import (
	"context"

	"github.com/dmitrijs2005/noteshare/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, account *models.Account) (*models.Account, error)
	GetByID(ctx context.Context, id int64) (*models.Account, error)
	FindActiveByID(ctx context.Context, id int64) (*models.Account, error)
	FindActiveByEmail(ctx context.Context, email string) (*models.Account, error)
	List(ctx context.Context, page models.Page) ([]*models.Account, error)
	Update(ctx context.Context, account *models.Account) (*models.Account, error)
	Delete(ctx context.Context, id int64) error
	SetActive(ctx context.Context, id int64, active bool) error
	SetPicture(ctx context.Context, id int64, key string) error
}
