package services

import (
	"context"
	"database/sql"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/noteshare/internal/common"
	"github.com/dmitrijs2005/noteshare/internal/dbx"
	"github.com/dmitrijs2005/noteshare/internal/server/auth"
	"github.com/dmitrijs2005/noteshare/internal/server/models"
	"github.com/dmitrijs2005/noteshare/internal/server/repositories/accounts"
	"github.com/dmitrijs2005/noteshare/internal/server/repositories/notes"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// memStore is an in-memory stand-in for the database behind both repositories.
type memStore struct {
	mu          sync.Mutex
	accounts    map[int64]models.Account
	notes       map[int64]models.Note
	nextAccount int64
	nextNote    int64

	accountsErr   error
	notesErr      error
	setPictureErr error
}

func newMemStore() *memStore {
	return &memStore{accounts: map[int64]models.Account{}, notes: map[int64]models.Note{}}
}

type fakeManager struct{ st *memStore }

func (m *fakeManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m *fakeManager) Accounts(dbx.DBTX) accounts.Repository        { return &memAccounts{m.st} }
func (m *fakeManager) Notes(dbx.DBTX) notes.Repository              { return &memNotes{m.st} }

type memAccounts struct{ st *memStore }

func (r *memAccounts) Create(ctx context.Context, a *models.Account) (*models.Account, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	if r.st.accountsErr != nil {
		return nil, r.st.accountsErr
	}
	for _, existing := range r.st.accounts {
		if existing.Email == a.Email {
			return nil, common.ErrorAlreadyExists
		}
	}
	r.st.nextAccount++
	a.ID = r.st.nextAccount
	a.Active = true
	a.CreatedAt = time.Now()
	a.UpdatedAt = a.CreatedAt
	r.st.accounts[a.ID] = *a
	return a, nil
}

func (r *memAccounts) find(match func(models.Account) bool) (*models.Account, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	if r.st.accountsErr != nil {
		return nil, r.st.accountsErr
	}
	for _, a := range r.st.accounts {
		if match(a) {
			a := a
			return &a, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (r *memAccounts) GetByID(ctx context.Context, id int64) (*models.Account, error) {
	return r.find(func(a models.Account) bool { return a.ID == id })
}

func (r *memAccounts) FindActiveByID(ctx context.Context, id int64) (*models.Account, error) {
	return r.find(func(a models.Account) bool { return a.ID == id && a.Active })
}

func (r *memAccounts) FindActiveByEmail(ctx context.Context, email string) (*models.Account, error) {
	return r.find(func(a models.Account) bool { return a.Email == email && a.Active })
}

func (r *memAccounts) List(ctx context.Context, page models.Page) ([]*models.Account, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	all := make([]*models.Account, 0, len(r.st.accounts))
	for _, a := range r.st.accounts {
		a := a
		all = append(all, &a)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })
	return window(all, page), nil
}

func (r *memAccounts) Update(ctx context.Context, a *models.Account) (*models.Account, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	if _, ok := r.st.accounts[a.ID]; !ok {
		return nil, common.ErrorNotFound
	}
	a.UpdatedAt = time.Now()
	r.st.accounts[a.ID] = *a
	return a, nil
}

func (r *memAccounts) mutate(id int64, fn func(*models.Account)) error {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	a, ok := r.st.accounts[id]
	if !ok {
		return common.ErrorNotFound
	}
	fn(&a)
	r.st.accounts[id] = a
	return nil
}

func (r *memAccounts) Delete(ctx context.Context, id int64) error {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	if _, ok := r.st.accounts[id]; !ok {
		return common.ErrorNotFound
	}
	delete(r.st.accounts, id)
	return nil
}

func (r *memAccounts) SetActive(ctx context.Context, id int64, active bool) error {
	return r.mutate(id, func(a *models.Account) { a.Active = active })
}

func (r *memAccounts) SetPicture(ctx context.Context, id int64, key string) error {
	if r.st.setPictureErr != nil {
		return r.st.setPictureErr
	}
	return r.mutate(id, func(a *models.Account) { a.Picture = key })
}

type memNotes struct{ st *memStore }

func (r *memNotes) Create(ctx context.Context, n *models.Note) (*models.Note, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	if r.st.notesErr != nil {
		return nil, r.st.notesErr
	}
	r.st.nextNote++
	n.ID = r.st.nextNote
	n.CreatedAt = time.Now()
	n.UpdatedAt = n.CreatedAt
	r.st.notes[n.ID] = *n
	return n, nil
}

// joined resolves party names the way the SQL join does.
func (r *memNotes) joined(n models.Note) (*models.Note, bool) {
	from, okFrom := r.st.accounts[n.From.ID]
	to, okTo := r.st.accounts[n.To.ID]
	if !okFrom || !okTo {
		return nil, false
	}
	n.From.Name = from.Name
	n.To.Name = to.Name
	return &n, true
}

func (r *memNotes) GetByID(ctx context.Context, id int64) (*models.Note, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	n, ok := r.st.notes[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	j, ok := r.joined(n)
	if !ok {
		return nil, common.ErrorNotFound
	}
	return j, nil
}

func (r *memNotes) List(ctx context.Context, page models.Page) ([]*models.Note, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	all := make([]*models.Note, 0, len(r.st.notes))
	for _, n := range r.st.notes {
		if j, ok := r.joined(n); ok {
			all = append(all, j)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID > all[j].ID })
	return window(all, page), nil
}

func (r *memNotes) Update(ctx context.Context, n *models.Note) (*models.Note, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	if _, ok := r.st.notes[n.ID]; !ok {
		return nil, common.ErrorNotFound
	}
	n.UpdatedAt = time.Now()
	r.st.notes[n.ID] = *n
	return n, nil
}

func (r *memNotes) Delete(ctx context.Context, id int64) error {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	if _, ok := r.st.notes[id]; !ok {
		return common.ErrorNotFound
	}
	delete(r.st.notes, id)
	return nil
}

func (r *memNotes) DeleteByAccount(ctx context.Context, accountID int64) (int64, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	if r.st.notesErr != nil {
		return 0, r.st.notesErr
	}
	var n int64
	for id, note := range r.st.notes {
		if note.From.ID == accountID || note.To.ID == accountID {
			delete(r.st.notes, id)
			n++
		}
	}
	return n, nil
}

func window[T any](all []T, page models.Page) []T {
	if page.Offset >= len(all) {
		return []T{}
	}
	end := page.Offset + page.Limit
	if end > len(all) {
		end = len(all)
	}
	return all[page.Offset:end]
}

// seedAccount stores an account with a bcrypt hash of password.
func seedAccount(t *testing.T, st *memStore, name, email, password string) *models.Account {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	a, err := (&memAccounts{st}).Create(context.Background(), &models.Account{Name: name, Email: email, PasswordHash: string(hash)})
	require.NoError(t, err)
	return a
}

func testCodec(t *testing.T) *auth.Codec {
	t.Helper()
	c, err := auth.NewCodec(auth.Settings{
		Secret:     []byte("services-secret"),
		Audience:   "noteshare-clients",
		Issuer:     "noteshare",
		AccessTTL:  15 * time.Minute,
		RefreshTTL: time.Hour,
	})
	require.NoError(t, err)
	return c
}
