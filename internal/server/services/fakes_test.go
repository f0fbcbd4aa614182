package services

import (
	"context"
	"database/sql"
	"errors"
	"sync"
	"time"

	"github.com/dmitrijs2005/sessionkeeper/internal/common"
	"github.com/dmitrijs2005/sessionkeeper/internal/dbx"
	"github.com/dmitrijs2005/sessionkeeper/internal/server/models"
	refreshtokensrepo "github.com/dmitrijs2005/sessionkeeper/internal/server/repositories/refreshtokens"
	usersrepo "github.com/dmitrijs2005/sessionkeeper/internal/server/repositories/users"
)

var errBoom = errors.New("boom")

type fakeUsersRepo struct {
	mu     sync.Mutex
	nextID int64
	byMail map[string]*models.User

	createErr error
	getErr    error
}

func newFakeUsersRepo() *fakeUsersRepo {
	return &fakeUsersRepo{byMail: map[string]*models.User{}}
}

func (f *fakeUsersRepo) Create(ctx context.Context, u *models.User) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return nil, f.createErr
	}
	if _, ok := f.byMail[u.Email]; ok {
		return nil, common.ErrorAlreadyExists
	}
	f.nextID++
	u.ID = f.nextID
	cp := *u
	f.byMail[u.Email] = &cp
	return u, nil
}

func (f *fakeUsersRepo) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	u, ok := f.byMail[email]
	if !ok {
		return nil, common.ErrorNotFound
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUsersRepo) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	for _, u := range f.byMail {
		if u.ID == id {
			cp := *u
			return &cp, nil
		}
	}
	return nil, common.ErrorNotFound
}

// update applies fn to the stored user with the given email.
func (f *fakeUsersRepo) update(email string, fn func(u *models.User)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if u, ok := f.byMail[email]; ok {
		fn(u)
	}
}

func (f *fakeUsersRepo) remove(email string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.byMail, email)
}

type fakeRefreshRepo struct {
	mu      sync.Mutex
	records map[string]*models.RefreshToken

	createErrs []error
	findErr    error
	delErr     error
	expiredErr error

	deleted    []string
	expiredNow time.Time
}

func newFakeRefreshRepo() *fakeRefreshRepo {
	return &fakeRefreshRepo{records: map[string]*models.RefreshToken{}}
}

func (f *fakeRefreshRepo) Create(ctx context.Context, t *models.RefreshToken) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.createErrs) > 0 {
		err := f.createErrs[0]
		f.createErrs = f.createErrs[1:]
		if err != nil {
			return err
		}
	}
	if _, ok := f.records[t.TokenID]; ok {
		return common.ErrorAlreadyExists
	}
	cp := *t
	f.records[t.TokenID] = &cp
	return nil
}

func (f *fakeRefreshRepo) Find(ctx context.Context, tokenID string) (*models.RefreshToken, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.findErr != nil {
		return nil, f.findErr
	}
	t, ok := f.records[tokenID]
	if !ok {
		return nil, common.ErrorNotFound
	}
	cp := *t
	return &cp, nil
}

func (f *fakeRefreshRepo) Delete(ctx context.Context, tokenID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.delErr != nil {
		return f.delErr
	}
	f.deleted = append(f.deleted, tokenID)
	delete(f.records, tokenID)
	return nil
}

func (f *fakeRefreshRepo) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.expiredErr != nil {
		return 0, f.expiredErr
	}
	f.expiredNow = now
	var n int64
	for id, t := range f.records {
		if !now.Before(t.ExpiresAt) {
			delete(f.records, id)
			n++
		}
	}
	return n, nil
}

func (f *fakeRefreshRepo) len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.records)
}

type fakeRepoManager struct {
	u *fakeUsersRepo
	r *fakeRefreshRepo
}

func newFakeRepoManager() *fakeRepoManager {
	return &fakeRepoManager{u: newFakeUsersRepo(), r: newFakeRefreshRepo()}
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error           { return nil }
func (m *fakeRepoManager) Users(db dbx.DBTX) usersrepo.Repository                 { return m.u }
func (m *fakeRepoManager) RefreshTokens(db dbx.DBTX) refreshtokensrepo.Repository { return m.r }
