// Package notes stores notes in PostgreSQL. Reads join the sender and
// recipient names.
package notes

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/noteshare/internal/common"
	"github.com/dmitrijs2005/noteshare/internal/dbx"
	"github.com/dmitrijs2005/noteshare/internal/server/models"
)

const selectNote = `SELECT n.id, n.text, n.from_id, f.name, n.to_id, t.name, n.read, n.date, n.created_at, n.updated_at
		 FROM notes n
		 JOIN accounts f ON f.id = n.from_id
		 JOIN accounts t ON t.id = n.to_id`

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

func scanNote(row scanner) (*models.Note, error) {
	n := &models.Note{}
	err := row.Scan(&n.ID, &n.Text, &n.From.ID, &n.From.Name, &n.To.ID, &n.To.Name,
		&n.Read, &n.Date, &n.CreatedAt, &n.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return n, nil
}

// Create inserts note. Party names are taken from the caller as given.
func (r *PostgresRepository) Create(ctx context.Context, note *models.Note) (*models.Note, error) {
	query :=
		`INSERT INTO notes (text, from_id, to_id, read, date)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, created_at, updated_at
		 `

	err := r.db.QueryRowContext(ctx, query, note.Text, note.From.ID, note.To.ID, note.Read, note.Date).
		Scan(&note.ID, &note.CreatedAt, &note.UpdatedAt)

	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return note, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*models.Note, error) {
	n, err := scanNote(r.db.QueryRowContext(ctx, selectNote+`
		 WHERE n.id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}

// List returns notes newest first.
func (r *PostgresRepository) List(ctx context.Context, page models.Page) ([]*models.Note, error) {
	rows, err := r.db.QueryContext(ctx, selectNote+`
		 ORDER BY n.id DESC
		 LIMIT $1 OFFSET $2`, page.Limit, page.Offset)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := make([]*models.Note, 0, page.Limit)
	for rows.Next() {
		n, err := scanNote(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

// Update persists text and the read flag.
func (r *PostgresRepository) Update(ctx context.Context, note *models.Note) (*models.Note, error) {
	query :=
		`UPDATE notes SET text = $2, read = $3, updated_at = now()
		 WHERE id = $1
		 RETURNING updated_at
		 `

	err := r.db.QueryRowContext(ctx, query, note.ID, note.Text, note.Read).Scan(&note.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return note, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM notes WHERE id = $1`, id)
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

// DeleteByAccount removes every note the account sent or received and
// reports how many were removed.
func (r *PostgresRepository) DeleteByAccount(ctx context.Context, accountID int64) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM notes WHERE from_id = $1 OR to_id = $1`, accountID)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}
