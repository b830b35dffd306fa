package service

import (
	"context"

	"github.com/abdullah-iqbal-cbs/CBS-main/internal/domain"
	"github.com/abdullah-iqbal-cbs/CBS-main/internal/dto"
)

type IdentityResolver interface {
	Resolve(ctx context.Context, provider domain.Provider, profile dto.SocialProfile) (*domain.User, error)
}
