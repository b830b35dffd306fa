package store

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/abdullah-iqbal-cbs/CBS-main/internal/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserStore struct{ db *gorm.DB }

func (s *Store) Users() *UserStore { return &UserStore{db: s.DB} }

// Create inserts usr. Unique violations on email, mobile or a provider id
// surface as domain.ErrDuplicateIdentity; the index is the source of truth.
func (u *UserStore) Create(ctx context.Context, usr *domain.User) error {
	if usr.ID == uuid.Nil {
		usr.ID = uuid.New()
	}
	now := time.Now().UTC()
	if usr.CreatedAt.IsZero() {
		usr.CreatedAt = now
	}
	usr.UpdatedAt = now
	if err := u.db.WithContext(ctx).Create(usr).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.ErrDuplicateIdentity
		}
		return err
	}
	return nil
}

func (u *UserStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	var user domain.User
	if err := u.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return &user, nil
}

func (u *UserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	var user domain.User
	if err := u.db.WithContext(ctx).First(&user, "email = ?", email).Error; err != nil {
		return nil, notFound(err)
	}
	return &user, nil
}

func (u *UserStore) GetByMobile(ctx context.Context, mobile string) (*domain.User, error) {
	var user domain.User
	if err := u.db.WithContext(ctx).First(&user, "mobile = ?", mobile).Error; err != nil {
		return nil, notFound(err)
	}
	return &user, nil
}

func (u *UserStore) GetByProviderID(ctx context.Context, p domain.Provider, externalID string) (*domain.User, error) {
	var user domain.User
	if err := u.db.WithContext(ctx).First(&user, p.Column()+" = ?", externalID).Error; err != nil {
		return nil, notFound(err)
	}
	return &user, nil
}

// GetByResetToken only matches tokens whose expiry is still after now.
func (u *UserStore) GetByResetToken(ctx context.Context, tokenHash string, now time.Time) (*domain.User, error) {
	var user domain.User
	err := u.db.WithContext(ctx).
		First(&user, "reset_token = ? AND reset_token_expiry > ?", tokenHash, now).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &user, nil
}

func (u *UserStore) ExistsByEmailOrMobile(ctx context.Context, email string, mobile *string) (bool, error) {
	q := u.db.WithContext(ctx).Model(&domain.User{}).Where("email = ?", email)
	if mobile != nil && *mobile != "" {
		q = q.Or("mobile = ?", *mobile)
	}
	var n int64
	if err := q.Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

func (u *UserStore) SetProviderID(ctx context.Context, id uuid.UUID, p domain.Provider, externalID string) error {
	return u.update(ctx, id, map[string]any{p.Column(): externalID})
}

func (u *UserStore) TouchLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	return u.update(ctx, id, map[string]any{"last_login_at": at})
}

func (u *UserStore) SetResetToken(ctx context.Context, id uuid.UUID, tokenHash string, expiry time.Time) error {
	return u.update(ctx, id, map[string]any{
		"reset_token":        tokenHash,
		"reset_token_expiry": expiry,
	})
}

// ConsumeResetToken sets the new password and clears the reset fields in one
// statement, guarded by the token hash and expiry. It reports false when the
// token was already consumed, superseded or expired.
func (u *UserStore) ConsumeResetToken(ctx context.Context, id uuid.UUID, tokenHash string, now time.Time, passwordHash string) (bool, error) {
	tx := u.db.WithContext(ctx).Model(&domain.User{}).
		Where("id = ? AND reset_token = ? AND reset_token_expiry > ?", id, tokenHash, now).
		Updates(map[string]any{
			"password_hash":      passwordHash,
			"reset_token":        nil,
			"reset_token_expiry": nil,
			"updated_at":         now,
		})
	return tx.RowsAffected > 0, tx.Error
}

// UpdatePassword also drops any outstanding reset token so an older link
// cannot overwrite the new password.
func (u *UserStore) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	return u.update(ctx, id, map[string]any{
		"password_hash":      passwordHash,
		"reset_token":        nil,
		"reset_token_expiry": nil,
	})
}

func (u *UserStore) Activate(ctx context.Context, id uuid.UUID) error {
	return u.update(ctx, id, map[string]any{
		"is_active":      true,
		"email_verified": true,
	})
}

// List returns one page of users whose name or email contains search,
// ordered by id, plus the total match count.
func (u *UserStore) List(ctx context.Context, search string, offset, limit int) ([]domain.User, int64, error) {
	q := u.db.WithContext(ctx).Model(&domain.User{})
	if search = strings.TrimSpace(search); search != "" {
		like := "%" + escapeLike(search) + "%"
		q = q.Where("name ILIKE ? OR email ILIKE ?", like, like)
	}
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var users []domain.User
	if err := q.Order("id ASC").Offset(offset).Limit(limit).Find(&users).Error; err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

func (u *UserStore) update(ctx context.Context, id uuid.UUID, fields map[string]any) error {
	if _, ok := fields["updated_at"]; !ok {
		fields["updated_at"] = time.Now().UTC()
	}
	tx := u.db.WithContext(ctx).Model(&domain.User{}).Where("id = ?", id).Updates(fields)
	if tx.Error != nil {
		if errors.Is(tx.Error, gorm.ErrDuplicatedKey) {
			return domain.ErrDuplicateIdentity
		}
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return ErrRecordNotFound
	}
	return nil
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
