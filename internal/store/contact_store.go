package store

import (
	"context"

	"github.com/abdullah-iqbal-cbs/CBS-main/internal/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ContactStore struct{ db *gorm.DB }

func (s *Store) Contacts() *ContactStore { return &ContactStore{s.DB} }

func (cs *ContactStore) List(ctx context.Context) ([]domain.Contact, error) {
	var out []domain.Contact
	if err := cs.db.WithContext(ctx).Order("created_at ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (cs *ContactStore) GetByUserID(ctx context.Context, userID uuid.UUID) (*domain.Contact, error) {
	var out domain.Contact
	if err := cs.db.WithContext(ctx).First(&out, "user_id = ?", userID).Error; err != nil {
		return nil, notFound(err)
	}
	return &out, nil
}
