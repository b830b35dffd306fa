package impl

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/abdullah-iqbal-cbs/CBS-main/internal/domain"
	"github.com/abdullah-iqbal-cbs/CBS-main/internal/dto"
	"github.com/abdullah-iqbal-cbs/CBS-main/internal/service"
	"github.com/abdullah-iqbal-cbs/CBS-main/internal/store"
)

const defaultSocialName = "No Name"

var _ service.IdentityResolver = (*IdentityResolverImpl)(nil)

// IdentityResolverImpl maps a provider profile onto exactly one user row:
// by provider id, then by email, else a new social-only account.
type IdentityResolverImpl struct {
	Store dataStore
	now   func() time.Time
}

func NewIdentityResolverImpl(st *store.Store) *IdentityResolverImpl {
	return &IdentityResolverImpl{Store: gormStoreAdapter{store: st}}
}

func (r *IdentityResolverImpl) Resolve(ctx context.Context, p domain.Provider, profile dto.SocialProfile) (*domain.User, error) {
	user, err := r.resolve(ctx, p, profile)
	if errors.Is(err, domain.ErrDuplicateIdentity) {
		// A concurrent first login inserted the row between our lookup and
		// our insert; the retry finds and links it.
		user, err = r.resolve(ctx, p, profile)
	}
	if err != nil {
		return nil, fmt.Errorf("resolve %s identity: %w", p, err)
	}
	return user, nil
}

func (r *IdentityResolverImpl) resolve(ctx context.Context, p domain.Provider, profile dto.SocialProfile) (*domain.User, error) {
	externalID := strings.TrimSpace(profile.ExternalID)
	if externalID == "" {
		return nil, errors.New("empty external id")
	}
	email := strings.TrimSpace(profile.Email)

	var out *domain.User
	err := r.Store.WithTx(ctx, func(tx storeTx) error {
		users := tx.Users()

		user, err := r.find(ctx, users, p, externalID, email)
		if err != nil {
			return err
		}
		if user == nil {
			user = newSocialUser(p, externalID, email, profile)
			if err := users.Create(ctx, user); err != nil {
				return err
			}
		} else if id := user.ProviderID(p); id == nil || *id != externalID {
			if err := users.SetProviderID(ctx, user.ID, p, externalID); err != nil {
				return err
			}
			user.SetProviderID(p, externalID)
		}

		now := r.nowTime()
		if err := users.TouchLastLogin(ctx, user.ID, now); err != nil {
			return err
		}
		user.LastLoginAt = &now
		out = user
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *IdentityResolverImpl) find(ctx context.Context, users userStore, p domain.Provider, externalID, email string) (*domain.User, error) {
	user, err := users.GetByProviderID(ctx, p, externalID)
	if err == nil {
		return user, nil
	}
	if !isNotFound(err) {
		return nil, err
	}
	if email == "" {
		return nil, nil
	}
	user, err = users.GetByEmail(ctx, email)
	if err == nil {
		return user, nil
	}
	if !isNotFound(err) {
		return nil, err
	}
	return nil, nil
}

func newSocialUser(p domain.Provider, externalID, email string, profile dto.SocialProfile) *domain.User {
	name := strings.TrimSpace(profile.DisplayName)
	if name == "" {
		name = defaultSocialName
	}
	u := &domain.User{
		Name:          name,
		IsActive:      true,
		EmailVerified: p.Trusted(),
	}
	if email != "" {
		u.Email = &email
	}
	u.SetProviderID(p, externalID)

	avatar := strings.TrimSpace(profile.AvatarURL)
	if avatar == "" && p == domain.ProviderFacebook {
		avatar = "https://graph.facebook.com/" + externalID + "/picture?type=large"
	}
	if avatar != "" {
		u.AvatarURL = &avatar
	}
	return u
}

func (r *IdentityResolverImpl) nowTime() time.Time {
	if r.now != nil {
		return r.now()
	}
	return time.Now().UTC()
}
