package store

import (
	"context"
	"time"

	"github.com/abdullah-iqbal-cbs/CBS-main/internal/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AuditStore struct{ db *gorm.DB }

func (s *Store) Audit() *AuditStore { return &AuditStore{s.DB} }

func (as *AuditStore) Record(ctx context.Context, entry *domain.AuditLog) error {
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}
	return as.db.WithContext(ctx).Create(entry).Error
}
