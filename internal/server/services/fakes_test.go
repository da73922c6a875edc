package services

import (
	"context"
	"database/sql"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/gophauth/internal/common"
	"github.com/dmitrijs2005/gophauth/internal/dbx"
	"github.com/dmitrijs2005/gophauth/internal/server/models"
	"github.com/dmitrijs2005/gophauth/internal/server/repositories/resetcodes"
	"github.com/dmitrijs2005/gophauth/internal/server/repositories/users"
)

// memStore backs both fake repositories so that users and codes share state
// the way the two tables do.
type memStore struct {
	mu    sync.Mutex
	seq   int
	now   func() time.Time
	users map[string]*models.User
	codes map[string]*models.ResetCode

	nextCode  string
	onFind    func()
	createErr error
	findErr   error
	updateErr error
}

func newMemStore(now func() time.Time) *memStore {
	return &memStore{
		now:      now,
		users:    map[string]*models.User{},
		codes:    map[string]*models.ResetCode{},
		nextCode: "123456",
	}
}

func (s *memStore) id(prefix string) string {
	s.seq++
	return prefix + strconv.Itoa(s.seq)
}

func (s *memStore) codeFor(userID string) *models.ResetCode {
	s.mu.Lock()
	defer s.mu.Unlock()
	rc, ok := s.codes[userID]
	if !ok {
		return nil
	}
	cp := *rc
	return &cp
}

func (s *memStore) user(email string) *models.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[email]
	if !ok {
		return nil
	}
	cp := *u
	return &cp
}

type memUsers struct{ s *memStore }

func (r memUsers) Create(_ context.Context, email, hash string) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.createErr != nil {
		return nil, r.s.createErr
	}
	if _, ok := r.s.users[email]; ok {
		return nil, common.ErrDuplicateEmail
	}
	u := &models.User{ID: r.s.id("u-"), Email: email, PasswordHash: hash, CreatedAt: r.s.now()}
	r.s.users[email] = u
	cp := *u
	return &cp, nil
}

func (r memUsers) FindByEmail(_ context.Context, email string) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.findErr != nil {
		return nil, r.s.findErr
	}
	u, ok := r.s.users[email]
	if !ok {
		return nil, common.ErrorNotFound
	}
	cp := *u
	return &cp, nil
}

func (r memUsers) UpdatePasswordHash(_ context.Context, userID, hash string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.updateErr != nil {
		return r.s.updateErr
	}
	for _, u := range r.s.users {
		if u.ID == userID {
			u.PasswordHash = hash
			return nil
		}
	}
	return common.ErrorNotFound
}

type memCodes struct{ s *memStore }

func (r memCodes) ReplaceForUser(_ context.Context, userID string, createdAt time.Time) (*models.ResetCode, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	rc := &models.ResetCode{ID: r.s.id("rc-"), UserID: userID, Code: r.s.nextCode, CreatedAt: createdAt}
	r.s.codes[userID] = rc
	cp := *rc
	return &cp, nil
}

func (r memCodes) FindByUserID(_ context.Context, userID string) (*models.ResetCode, error) {
	if r.s.onFind != nil {
		r.s.onFind()
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	rc, ok := r.s.codes[userID]
	if !ok {
		return nil, common.ErrorNotFound
	}
	cp := *rc
	return &cp, nil
}

func (r memCodes) ReserveAttempt(_ context.Context, id string, limit int) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, rc := range r.s.codes {
		if rc.ID == id {
			if rc.Attempts >= limit {
				return rc.Attempts, resetcodes.ErrAttemptsExhausted
			}
			rc.Attempts++
			return rc.Attempts, nil
		}
	}
	return 0, common.ErrorNotFound
}

func (r memCodes) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for uid, rc := range r.s.codes {
		if rc.ID == id {
			delete(r.s.codes, uid)
		}
	}
	return nil
}

type memRepoManager struct{ s *memStore }

func (m memRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m memRepoManager) Users(dbx.DBTX) users.Repository              { return memUsers{m.s} }
func (m memRepoManager) ResetCodes(dbx.DBTX) resetcodes.Repository    { return memCodes{m.s} }

// plainHasher stands in for argon2id in tests that do not care about the
// algorithm. It remembers every hash it was asked to verify against.
type plainHasher struct {
	mu       sync.Mutex
	verified []string
}

func (h *plainHasher) Hash(password string) (string, error) {
	if password == "" {
		return "", common.ErrorBadRequest
	}
	return "plain:" + password, nil
}

func (h *plainHasher) Verify(password, hash string) (bool, error) {
	h.mu.Lock()
	h.verified = append(h.verified, hash)
	h.mu.Unlock()
	if !strings.HasPrefix(hash, "plain:") {
		return false, nil
	}
	return hash == "plain:"+password, nil
}

type sentCode struct{ email, code string }

type recordingSender struct {
	mu   sync.Mutex
	sent []sentCode
	err  error
}

func (r *recordingSender) SendResetCode(_ context.Context, email, code string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, sentCode{email: email, code: code})
	return r.err
}

func (r *recordingSender) all() []sentCode {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]sentCode(nil), r.sent...)
}
