package impl

import (
	"context"
	"fmt"

	"github.com/abdullah-iqbal-cbs/CBS-main/internal/domain"
	"github.com/abdullah-iqbal-cbs/CBS-main/internal/dto"
	"github.com/abdullah-iqbal-cbs/CBS-main/internal/service"
	"github.com/abdullah-iqbal-cbs/CBS-main/internal/store"
)

const (
	DefaultPageLimit = 20
	MaxPageLimit     = 100
)

var _ service.DirectoryService = (*DirectoryServiceImpl)(nil)

type DirectoryServiceImpl struct {
	Users    userStore
	Contacts contactStore
}

func NewDirectoryServiceImpl(st *store.Store) *DirectoryServiceImpl {
	return &DirectoryServiceImpl{Users: st.Users(), Contacts: st.Contacts()}
}

// ListUsers clamps page to >= 1 and limit to [1, MaxPageLimit]; a
// non-positive limit means DefaultPageLimit.
func (d *DirectoryServiceImpl) ListUsers(ctx context.Context, search string, page, limit int) ([]*dto.UserResponse, dto.UserListMeta, error) {
	if page < 1 {
		page = 1
	}
	switch {
	case limit <= 0:
		limit = DefaultPageLimit
	case limit > MaxPageLimit:
		limit = MaxPageLimit
	}
	meta := dto.UserListMeta{Page: page, Limit: limit}

	users, total, err := d.Users.List(ctx, search, (page-1)*limit, limit)
	if err != nil {
		return nil, meta, fmt.Errorf("list users: %w", err)
	}
	meta.Total = total

	out := make([]*dto.UserResponse, 0, len(users))
	for i := range users {
		out = append(out, dto.NewUserResponse(&users[i]))
	}
	return out, meta, nil
}

func (d *DirectoryServiceImpl) GetUser(ctx context.Context, id domain.UserID) (*dto.UserResponse, error) {
	user, err := d.Users.GetByID(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return dto.NewUserResponse(user), nil
}

func (d *DirectoryServiceImpl) ListContacts(ctx context.Context) ([]domain.Contact, error) {
	contacts, err := d.Contacts.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list contacts: %w", err)
	}
	if contacts == nil {
		contacts = []domain.Contact{}
	}
	return contacts, nil
}

func (d *DirectoryServiceImpl) GetContactByUserID(ctx context.Context, userID domain.UserID) (*domain.Contact, error) {
	c, err := d.Contacts.GetByUserID(ctx, userID)
	if err != nil {
		if isNotFound(err) {
			return nil, domain.ErrContactNotFound
		}
		return nil, fmt.Errorf("get contact: %w", err)
	}
	return c, nil
}
