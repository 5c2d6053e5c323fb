// Package accounts stores registered accounts in PostgreSQL.
package accounts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/noteshare/internal/common"
	"github.com/dmitrijs2005/noteshare/internal/dbx"
	"github.com/dmitrijs2005/noteshare/internal/server/models"
)

const selectAccount = `SELECT id, name, email, password_hash, active, picture, created_at, updated_at
		 FROM accounts`

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

func scanAccount(row scanner) (*models.Account, error) {
	a := &models.Account{}
	err := row.Scan(&a.ID, &a.Name, &a.Email, &a.PasswordHash, &a.Active, &a.Picture, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return a, nil
}

// Create inserts an active account. A taken email yields common.ErrorAlreadyExists.
func (r *PostgresRepository) Create(ctx context.Context, account *models.Account) (*models.Account, error) {
	query :=
		`INSERT INTO accounts (name, email, password_hash, active)
		 VALUES ($1, $2, $3, TRUE)
		 RETURNING id, active, created_at, updated_at
		 `

	err := r.db.QueryRowContext(ctx, query, account.Name, account.Email, account.PasswordHash).
		Scan(&account.ID, &account.Active, &account.CreatedAt, &account.UpdatedAt)

	if err != nil {
		if dbx.IsUniqueViolation(err) {
			return nil, common.ErrorAlreadyExists
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return account, nil
}

func (r *PostgresRepository) getOne(ctx context.Context, query string, arg any) (*models.Account, error) {
	a, err := scanAccount(r.db.QueryRowContext(ctx, query, arg))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return a, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*models.Account, error) {
	return r.getOne(ctx, selectAccount+`
		 WHERE id = $1`, id)
}

// FindActiveByID returns common.ErrorNotFound for unknown and deactivated accounts alike.
func (r *PostgresRepository) FindActiveByID(ctx context.Context, id int64) (*models.Account, error) {
	return r.getOne(ctx, selectAccount+`
		 WHERE id = $1 AND active`, id)
}

func (r *PostgresRepository) FindActiveByEmail(ctx context.Context, email string) (*models.Account, error) {
	return r.getOne(ctx, selectAccount+`
		 WHERE email = $1 AND active`, email)
}

// List returns accounts in id order.
func (r *PostgresRepository) List(ctx context.Context, page models.Page) ([]*models.Account, error) {
	rows, err := r.db.QueryContext(ctx, selectAccount+`
		 ORDER BY id
		 LIMIT $1 OFFSET $2`, page.Limit, page.Offset)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := make([]*models.Account, 0, page.Limit)
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

// Update persists the name and password hash.
func (r *PostgresRepository) Update(ctx context.Context, account *models.Account) (*models.Account, error) {
	query :=
		`UPDATE accounts SET name = $2, password_hash = $3, updated_at = now()
		 WHERE id = $1
		 RETURNING updated_at
		 `

	err := r.db.QueryRowContext(ctx, query, account.ID, account.Name, account.PasswordHash).Scan(&account.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return account, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id int64) error {
	return r.exec(ctx, `DELETE FROM accounts WHERE id = $1`, id)
}

func (r *PostgresRepository) SetActive(ctx context.Context, id int64, active bool) error {
	return r.exec(ctx, `UPDATE accounts SET active = $2, updated_at = now() WHERE id = $1`, id, active)
}

func (r *PostgresRepository) SetPicture(ctx context.Context, id int64, key string) error {
	return r.exec(ctx, `UPDATE accounts SET picture = $2, updated_at = now() WHERE id = $1`, id, key)
}

// exec runs a single-row statement; no affected row means common.ErrorNotFound.
func (r *PostgresRepository) exec(ctx context.Context, query string, args ...any) error {
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}
