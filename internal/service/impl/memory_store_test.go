package impl

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/abdullah-iqbal-cbs/CBS-main/internal/domain"
	"github.com/abdullah-iqbal-cbs/CBS-main/internal/store"

	"github.com/google/uuid"
)

// memoryStore mimics the postgres store closely enough for service tests:
// unique identities, not-found sentinels and rollback on failed transactions.
type memoryStore struct {
	mu       sync.Mutex
	users    map[uuid.UUID]*domain.User
	contacts []domain.Contact
	audit    []domain.AuditLog

	// createHook runs before every user insert; a non-nil error aborts it.
	createHook func(usr *domain.User) error
}

func newMemoryStore() *memoryStore {
	return &memoryStore{users: make(map[uuid.UUID]*domain.User)}
}

func (m *memoryStore) WithTx(ctx context.Context, fn func(tx storeTx) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	snapshot := m.snapshot()
	if err := fn(&memoryTx{store: m}); err != nil {
		m.users = snapshot
		return err
	}
	return nil
}

func (m *memoryStore) snapshot() map[uuid.UUID]*domain.User {
	users := make(map[uuid.UUID]*domain.User, len(m.users))
	for id, user := range m.users {
		copy := *user
		users[id] = &copy
	}
	return users
}

func (m *memoryStore) userStore() *memoryUserStore { return &memoryUserStore{store: m} }

func (m *memoryStore) contactStore() *memoryContactStore { return &memoryContactStore{store: m} }

func (m *memoryStore) auditStore() *memoryAuditStore { return &memoryAuditStore{store: m} }

func (m *memoryStore) userByEmail(email string) (*domain.User, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email != nil && strings.EqualFold(*u.Email, email) {
			copy := *u
			return &copy, true
		}
	}
	return nil, false
}

func (m *memoryStore) userCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.users)
}

func (m *memoryStore) auditActions() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, 0, len(m.audit))
	for _, e := range m.audit {
		out = append(out, e.Action)
	}
	return out
}

func (m *memoryStore) seed(u *domain.User) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now().UTC()
	}
	copy := *u
	m.users[u.ID] = &copy
}

type memoryTx struct {
	store *memoryStore
}

func (t *memoryTx) Users() userStore { return &memoryUserStore{store: t.store, inTx: true} }

type memoryUserStore struct {
	store *memoryStore
	inTx  bool // the enclosing WithTx already holds the lock
}

func (u *memoryUserStore) lock() func() {
	if u.inTx {
		return func() {}
	}
	u.store.mu.Lock()
	return u.store.mu.Unlock
}

func (u *memoryUserStore) find(match func(*domain.User) bool) (*domain.User, error) {
	defer u.lock()()
	for _, usr := range u.store.users {
		if match(usr) {
			copy := *usr
			return &copy, nil
		}
	}
	return nil, store.ErrRecordNotFound
}

func sameString(a, b *string, fold bool) bool {
	if a == nil || b == nil {
		return false
	}
	if fold {
		return strings.EqualFold(*a, *b)
	}
	return *a == *b
}

func (u *memoryUserStore) conflicts(usr *domain.User) bool {
	for id, other := range u.store.users {
		if id == usr.ID {
			continue
		}
		if sameString(usr.Email, other.Email, true) ||
			sameString(usr.Mobile, other.Mobile, false) ||
			sameString(usr.GoogleID, other.GoogleID, false) ||
			sameString(usr.GithubID, other.GithubID, false) ||
			sameString(usr.FacebookID, other.FacebookID, false) {
			return true
		}
	}
	return false
}

func (u *memoryUserStore) Create(ctx context.Context, usr *domain.User) error {
	defer u.lock()()
	if u.store.createHook != nil {
		if err := u.store.createHook(usr); err != nil {
			return err
		}
	}
	if usr.ID == uuid.Nil {
		usr.ID = uuid.New()
	}
	if u.conflicts(usr) {
		return domain.ErrDuplicateIdentity
	}
	now := time.Now().UTC()
	usr.CreatedAt, usr.UpdatedAt = now, now
	copy := *usr
	u.store.users[usr.ID] = &copy
	return nil
}

func (u *memoryUserStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return u.find(func(usr *domain.User) bool { return usr.ID == id })
}

func (u *memoryUserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return u.find(func(usr *domain.User) bool { return sameString(usr.Email, &email, true) })
}

func (u *memoryUserStore) GetByMobile(ctx context.Context, mobile string) (*domain.User, error) {
	return u.find(func(usr *domain.User) bool { return sameString(usr.Mobile, &mobile, false) })
}

func (u *memoryUserStore) GetByProviderID(ctx context.Context, p domain.Provider, externalID string) (*domain.User, error) {
	return u.find(func(usr *domain.User) bool { return sameString(usr.ProviderID(p), &externalID, false) })
}

func (u *memoryUserStore) GetByResetToken(ctx context.Context, tokenHash string, now time.Time) (*domain.User, error) {
	return u.find(func(usr *domain.User) bool {
		return usr.ResetTokenValid(now) && *usr.ResetToken == tokenHash
	})
}

func (u *memoryUserStore) ExistsByEmailOrMobile(ctx context.Context, email string, mobile *string) (bool, error) {
	_, err := u.find(func(usr *domain.User) bool {
		return sameString(usr.Email, &email, true) || sameString(usr.Mobile, mobile, false)
	})
	if err != nil {
		return false, nil
	}
	return true, nil
}

func (u *memoryUserStore) update(id uuid.UUID, fn func(usr *domain.User)) error {
	defer u.lock()()
	usr, ok := u.store.users[id]
	if !ok {
		return store.ErrRecordNotFound
	}
	next := *usr
	fn(&next)
	if u.conflicts(&next) {
		return domain.ErrDuplicateIdentity
	}
	next.UpdatedAt = time.Now().UTC()
	u.store.users[id] = &next
	return nil
}

func (u *memoryUserStore) SetProviderID(ctx context.Context, id uuid.UUID, p domain.Provider, externalID string) error {
	return u.update(id, func(usr *domain.User) { usr.SetProviderID(p, externalID) })
}

func (u *memoryUserStore) TouchLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	return u.update(id, func(usr *domain.User) { usr.LastLoginAt = &at })
}

func (u *memoryUserStore) SetResetToken(ctx context.Context, id uuid.UUID, tokenHash string, expiry time.Time) error {
	return u.update(id, func(usr *domain.User) {
		usr.ResetToken = &tokenHash
		usr.ResetTokenExpiry = &expiry
	})
}

func (u *memoryUserStore) ConsumeResetToken(ctx context.Context, id uuid.UUID, tokenHash string, now time.Time, passwordHash string) (bool, error) {
	defer u.lock()()
	usr, ok := u.store.users[id]
	if !ok || !usr.ResetTokenValid(now) || *usr.ResetToken != tokenHash {
		return false, nil
	}
	usr.PasswordHash = &passwordHash
	usr.ResetToken = nil
	usr.ResetTokenExpiry = nil
	usr.UpdatedAt = now
	return true, nil
}

func (u *memoryUserStore) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	return u.update(id, func(usr *domain.User) {
		usr.PasswordHash = &passwordHash
		usr.ResetToken = nil
		usr.ResetTokenExpiry = nil
	})
}

func (u *memoryUserStore) Activate(ctx context.Context, id uuid.UUID) error {
	return u.update(id, func(usr *domain.User) {
		usr.IsActive = true
		usr.EmailVerified = true
	})
}

func (u *memoryUserStore) List(ctx context.Context, search string, offset, limit int) ([]domain.User, int64, error) {
	defer u.lock()()
	search = strings.ToLower(strings.TrimSpace(search))
	var matched []domain.User
	for _, usr := range u.store.users {
		if search != "" &&
			!strings.Contains(strings.ToLower(usr.Name), search) &&
			!strings.Contains(strings.ToLower(usr.EmailOrEmpty()), search) {
			continue
		}
		matched = append(matched, *usr)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].ID.String() < matched[j].ID.String() })

	total := int64(len(matched))
	if offset >= len(matched) {
		return []domain.User{}, total, nil
	}
	end := offset + limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[offset:end], total, nil
}

type memoryContactStore struct {
	store *memoryStore
}

func (c *memoryContactStore) List(ctx context.Context) ([]domain.Contact, error) {
	c.store.mu.Lock()
	defer c.store.mu.Unlock()
	return append([]domain.Contact(nil), c.store.contacts...), nil
}

func (c *memoryContactStore) GetByUserID(ctx context.Context, userID uuid.UUID) (*domain.Contact, error) {
	c.store.mu.Lock()
	defer c.store.mu.Unlock()
	for _, ct := range c.store.contacts {
		if ct.UserID == userID {
			copy := ct
			return &copy, nil
		}
	}
	return nil, store.ErrRecordNotFound
}

type memoryAuditStore struct {
	store *memoryStore
}

func (a *memoryAuditStore) Record(ctx context.Context, entry *domain.AuditLog) error {
	a.store.mu.Lock()
	defer a.store.mu.Unlock()
	a.store.audit = append(a.store.audit, *entry)
	return nil
}
