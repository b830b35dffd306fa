package service

import (
	"context"

	"github.com/abdullah-iqbal-cbs/CBS-main/internal/domain"
	"github.com/abdullah-iqbal-cbs/CBS-main/internal/dto"
)

type AuthService interface {
	Signup(ctx context.Context, r dto.SignupRequest, ip, ua string) (*dto.UserResponse, error)
	Login(ctx context.Context, r dto.LoginRequest, ip, ua string) (*dto.LoginResponse, error)
	SocialLogin(ctx context.Context, provider domain.Provider, profile dto.SocialProfile, ip, ua string) (*dto.LoginResponse, error)
	ForgotPassword(ctx context.Context, email, ip, ua string) error
	ResetPassword(ctx context.Context, r dto.ResetPasswordRequest, ip, ua string) error
	ChangePassword(ctx context.Context, userID domain.UserID, r dto.ChangePasswordRequest) error
	// ActivateAccount reports alreadyActive when the account needed no change.
	ActivateAccount(ctx context.Context, token string) (alreadyActive bool, err error)
	ResendActivation(ctx context.Context, email string) (alreadyActive bool, err error)
	Me(ctx context.Context, userID domain.UserID) (*dto.UserResponse, error)
}
