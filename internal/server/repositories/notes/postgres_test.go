package notes

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/noteshare/internal/common"
	"github.com/dmitrijs2005/noteshare/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var noteCols = []string{"id", "text", "from_id", "from_name", "to_id", "to_name", "read", "date", "created_at", "updated_at"}

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		_ = db.Close()
	})
	return NewPostgresRepository(db), mock
}

func TestCreate(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	now := time.Now()

	q := `(?s)^INSERT\s+INTO\s+notes\s*\(text,\s*from_id,\s*to_id,\s*read,\s*date\)\s*VALUES\s*\(\$1,\s*\$2,\s*\$3,\s*\$4,\s*\$5\)\s*RETURNING\s+id,\s*created_at,\s*updated_at\s*$`
	mock.ExpectQuery(q).
		WithArgs("hello", int64(1), int64(2), false, now).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(int64(10), now, now))

	n := &models.Note{Text: "hello", From: models.Party{ID: 1, Name: "a"}, To: models.Party{ID: 2, Name: "b"}, Date: now}
	got, err := repo.Create(context.Background(), n)
	require.NoError(t, err)
	assert.Equal(t, int64(10), got.ID)
	assert.Equal(t, "b", got.To.Name)
}

func TestCreate_DBError(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(`INSERT\s+INTO\s+notes`).WillReturnError(errors.New("fk violation"))

	_, err := repo.Create(context.Background(), &models.Note{Text: "hello"})
	assert.ErrorContains(t, err, "db error: fk violation")
}

func TestGetByID(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	now := time.Now()

	q := `(?s)^SELECT\s+n\.id,.*FROM\s+notes\s+n\s+JOIN\s+accounts\s+f\s+ON\s+f\.id\s*=\s*n\.from_id\s+JOIN\s+accounts\s+t\s+ON\s+t\.id\s*=\s*n\.to_id\s+WHERE\s+n\.id\s*=\s*\$1$`
	mock.ExpectQuery(q).
		WithArgs(int64(10)).
		WillReturnRows(sqlmock.NewRows(noteCols).AddRow(int64(10), "hello", int64(1), "alice", int64(2), "bob", true, now, now, now))

	got, err := repo.GetByID(context.Background(), 10)
	require.NoError(t, err)
	assert.Equal(t, models.Party{ID: 1, Name: "alice"}, got.From)
	assert.Equal(t, models.Party{ID: 2, Name: "bob"}, got.To)
	assert.True(t, got.Read)
	assert.Equal(t, int64(1), got.OwnerID())
}

func TestGetByID_NotFound(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(`WHERE\s+n\.id`).WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByID(context.Background(), 10)
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestList_NewestFirst(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	now := time.Now()

	mock.ExpectQuery(`ORDER\s+BY\s+n\.id\s+DESC\s+LIMIT\s+\$1\s+OFFSET\s+\$2$`).
		WithArgs(10, 0).
		WillReturnRows(sqlmock.NewRows(noteCols).
			AddRow(int64(3), "c", int64(1), "alice", int64(2), "bob", false, now, now, now).
			AddRow(int64(2), "b", int64(2), "bob", int64(1), "alice", false, now, now, now))

	got, err := repo.List(context.Background(), models.DefaultPage())
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, int64(3), got[0].ID)
	assert.Equal(t, "bob", got[1].From.Name)
}

func TestList_QueryError(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(`FROM\s+notes`).WillReturnError(errors.New("db err"))

	_, err := repo.List(context.Background(), models.DefaultPage())
	assert.ErrorContains(t, err, "db error: db err")
}

func TestUpdate(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	now := time.Now()

	q := `(?s)^UPDATE\s+notes\s+SET\s+text\s*=\s*\$2,\s*read\s*=\s*\$3,\s*updated_at\s*=\s*now\(\)\s+WHERE\s+id\s*=\s*\$1\s+RETURNING\s+updated_at\s*$`
	mock.ExpectQuery(q).
		WithArgs(int64(10), "edited", true).
		WillReturnRows(sqlmock.NewRows([]string{"updated_at"}).AddRow(now))

	got, err := repo.Update(context.Background(), &models.Note{ID: 10, Text: "edited", Read: true})
	require.NoError(t, err)
	assert.Equal(t, now, got.UpdatedAt)
}

func TestDelete(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectExec(`^DELETE FROM notes WHERE id = \$1$`).WithArgs(int64(10)).WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, repo.Delete(context.Background(), 10))

	mock.ExpectExec(`^DELETE FROM notes WHERE id = \$1$`).WithArgs(int64(11)).WillReturnResult(sqlmock.NewResult(0, 0))
	assert.ErrorIs(t, repo.Delete(context.Background(), 11), common.ErrorNotFound)
}

func TestDeleteByAccount(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectExec(`^DELETE FROM notes WHERE from_id = \$1 OR to_id = \$1$`).
		WithArgs(int64(4)).
		WillReturnResult(sqlmock.NewResult(0, 3))

	n, err := repo.DeleteByAccount(context.Background(), 4)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
}
