package service

import (
	"context"

	"github.com/abdullah-iqbal-cbs/CBS-main/internal/domain"
	"github.com/abdullah-iqbal-cbs/CBS-main/internal/dto"
)

type DirectoryService interface {
	ListUsers(ctx context.Context, search string, page, limit int) ([]*dto.UserResponse, dto.UserListMeta, error)
	GetUser(ctx context.Context, id domain.UserID) (*dto.UserResponse, error)
	ListContacts(ctx context.Context) ([]domain.Contact, error)
	GetContactByUserID(ctx context.Context, userID domain.UserID) (*domain.Contact, error)
}
