package impl

import (
	"context"
	"errors"
	"time"

	"github.com/abdullah-iqbal-cbs/CBS-main/internal/domain"
	"github.com/abdullah-iqbal-cbs/CBS-main/internal/store"

	"github.com/google/uuid"
)

type userStore interface {
	Create(ctx context.Context, usr *domain.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByMobile(ctx context.Context, mobile string) (*domain.User, error)
	GetByProviderID(ctx context.Context, p domain.Provider, externalID string) (*domain.User, error)
	GetByResetToken(ctx context.Context, tokenHash string, now time.Time) (*domain.User, error)
	ExistsByEmailOrMobile(ctx context.Context, email string, mobile *string) (bool, error)
	SetProviderID(ctx context.Context, id uuid.UUID, p domain.Provider, externalID string) error
	TouchLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error
	SetResetToken(ctx context.Context, id uuid.UUID, tokenHash string, expiry time.Time) error
	ConsumeResetToken(ctx context.Context, id uuid.UUID, tokenHash string, now time.Time, passwordHash string) (bool, error)
	UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error
	Activate(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, search string, offset, limit int) ([]domain.User, int64, error)
}

type contactStore interface {
	List(ctx context.Context) ([]domain.Contact, error)
	GetByUserID(ctx context.Context, userID uuid.UUID) (*domain.Contact, error)
}

type auditStore interface {
	Record(ctx context.Context, entry *domain.AuditLog) error
}

// dataStore is the transactional view the identity resolver works through.
type dataStore interface {
	WithTx(ctx context.Context, fn func(tx storeTx) error) error
}

type storeTx interface {
	Users() userStore
}

type gormStoreAdapter struct {
	store *store.Store
}

func (g gormStoreAdapter) WithTx(ctx context.Context, fn func(tx storeTx) error) error {
	if g.store == nil {
		return ErrNilStore
	}
	return g.store.WithTx(ctx, func(tx *store.Store) error {
		return fn(gormTxAdapter{tx: tx})
	})
}

type gormTxAdapter struct {
	tx *store.Store
}

func (g gormTxAdapter) Users() userStore { return g.tx.Users() }

func isNotFound(err error) bool {
	return errors.Is(err, store.ErrRecordNotFound)
}
