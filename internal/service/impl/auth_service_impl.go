package impl

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/abdullah-iqbal-cbs/CBS-main/internal/domain"
	"github.com/abdullah-iqbal-cbs/CBS-main/internal/dto"
	"github.com/abdullah-iqbal-cbs/CBS-main/internal/netutil"
	"github.com/abdullah-iqbal-cbs/CBS-main/internal/observability/metrics"
	"github.com/abdullah-iqbal-cbs/CBS-main/internal/observability/middleware"
	"github.com/abdullah-iqbal-cbs/CBS-main/internal/service"
	"github.com/abdullah-iqbal-cbs/CBS-main/internal/store"
)

const DefaultResetTokenTTL = time.Hour

type AuthConfig struct {
	// FrontendURL prefixes the activation and reset links sent by email.
	FrontendURL   string
	ResetTokenTTL time.Duration
}

var _ service.AuthService = (*AuthServiceImpl)(nil)

type AuthServiceImpl struct {
	Users           userStore
	Audit           auditStore
	PasswordService service.PasswordService
	TService        service.TokenService
	Resolver        service.IdentityResolver
	Email           service.EmailService
	Config          AuthConfig

	now func() time.Time
}

func NewAuthServiceImpl(
	st *store.Store,
	passwordService service.PasswordService,
	tokenService service.TokenService,
	resolver service.IdentityResolver,
	email service.EmailService,
	cfg AuthConfig,
) *AuthServiceImpl {
	return &AuthServiceImpl{
		Users:           st.Users(),
		Audit:           st.Audit(),
		PasswordService: passwordService,
		TService:        tokenService,
		Resolver:        resolver,
		Email:           email,
		Config:          cfg,
	}
}

func (a *AuthServiceImpl) Signup(ctx context.Context, r dto.SignupRequest, ip, ua string) (resp *dto.UserResponse, err error) {
	defer func() {
		metrics.AuthSignupsTotal.WithLabelValues(metrics.Result(err)).Inc()
	}()

	email := strings.TrimSpace(r.Email)
	name := strings.TrimSpace(r.Name)
	if email == "" || name == "" || r.Password == "" {
		return nil, domain.ErrInvalidBody
	}
	mobile := trimmedOrNil(r.Mobile)

	// Fast path only; the unique indexes decide races in Create.
	taken, err := a.Users.ExistsByEmailOrMobile(ctx, email, mobile)
	if err != nil {
		return nil, fmt.Errorf("signup: uniqueness check: %w", err)
	}
	if taken {
		return nil, domain.ErrDuplicateIdentity
	}

	hash, err := a.PasswordService.Hash(r.Password)
	if err != nil {
		return nil, fmt.Errorf("signup: hash password: %w", err)
	}

	u := &domain.User{
		Email:        &email,
		Mobile:       mobile,
		Name:         name,
		PasswordHash: &hash,
		IsActive:     false, // flipped by ActivateAccount
	}
	if err := a.Users.Create(ctx, u); err != nil {
		if errors.Is(err, domain.ErrDuplicateIdentity) {
			return nil, err
		}
		return nil, fmt.Errorf("signup: create user: %w", err)
	}

	// The account exists from here on; activation mail problems are logged
	// and the user can ask for a new link.
	a.sendActivation(ctx, u)
	a.record(ctx, &u.ID, domain.AuditSignup, ip, ua, nil)

	slog.Info("user signed up", append(middleware.LogAttrs(ctx), "user_id", u.ID)...)
	return dto.NewUserResponse(u), nil
}

func (a *AuthServiceImpl) Login(ctx context.Context, r dto.LoginRequest, ip, ua string) (resp *dto.LoginResponse, err error) {
	defer func() {
		metrics.AuthLoginsTotal.WithLabelValues("password", metrics.Result(err)).Inc()
	}()

	email := strings.TrimSpace(r.Email)
	mobile := strings.TrimSpace(r.Mobile)
	if r.Password == "" || (email == "") == (mobile == "") {
		return nil, domain.ErrInvalidBody
	}

	var user *domain.User
	if email != "" {
		user, err = a.Users.GetByEmail(ctx, email)
	} else {
		user, err = a.Users.GetByMobile(ctx, mobile)
	}
	if err != nil {
		if isNotFound(err) {
			a.PasswordService.DummyVerify(r.Password)
			return nil, domain.ErrInvalidCredentials // don't leak which field failed
		}
		return nil, fmt.Errorf("login: lookup: %w", err)
	}
	if !user.IsActive {
		return nil, domain.ErrAccountDisabled
	}
	if !a.PasswordService.Verify(r.Password, user.PasswordHash) {
		return nil, domain.ErrInvalidCredentials
	}

	now := a.nowTime()
	if err := a.Users.TouchLastLogin(ctx, user.ID, now); err != nil {
		return nil, fmt.Errorf("login: stamp last login: %w", err)
	}
	user.LastLoginAt = &now

	resp, err = a.issueSession(user)
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}
	a.record(ctx, &user.ID, domain.AuditLogin, ip, ua, nil)
	return resp, nil
}

func (a *AuthServiceImpl) SocialLogin(ctx context.Context, p domain.Provider, profile dto.SocialProfile, ip, ua string) (resp *dto.LoginResponse, err error) {
	defer func() {
		metrics.AuthLoginsTotal.WithLabelValues(string(p), metrics.Result(err)).Inc()
	}()

	user, err := a.Resolver.Resolve(ctx, p, profile)
	if err != nil {
		return nil, err
	}
	resp, err = a.issueSession(user)
	if err != nil {
		return nil, fmt.Errorf("social login: %w", err)
	}
	a.record(ctx, &user.ID, domain.AuditSocialLogin, ip, ua, map[string]any{"provider": p})
	return resp, nil
}

// ForgotPassword returns nil for unknown addresses too; callers must not be
// able to tell the two apart.
func (a *AuthServiceImpl) ForgotPassword(ctx context.Context, email, ip, ua string) (err error) {
	defer func() {
		metrics.PasswordResetsTotal.WithLabelValues("request", metrics.Result(err)).Inc()
	}()

	email = strings.TrimSpace(email)
	if email == "" {
		return domain.ErrInvalidBody
	}
	user, err := a.Users.GetByEmail(ctx, email)
	if err != nil {
		if isNotFound(err) {
			return nil
		}
		return fmt.Errorf("forgot password: lookup: %w", err)
	}

	secret, secretHash, err := a.TService.IssueResetSecret()
	if err != nil {
		return fmt.Errorf("forgot password: issue secret: %w", err)
	}
	if err := a.Users.SetResetToken(ctx, user.ID, secretHash, a.nowTime().Add(a.resetTTL())); err != nil {
		return fmt.Errorf("forgot password: store token: %w", err)
	}

	resetURL := a.Config.FrontendURL + "/reset-password?token=" + url.QueryEscape(secret)
	err = a.Email.SendPasswordReset(ctx, user.EmailOrEmpty(), user.Name, resetURL)
	metrics.EmailsSentTotal.WithLabelValues("password_reset", metrics.Result(err)).Inc()
	if err != nil {
		// Surfacing this would reveal that the address has an account.
		slog.Error("send reset email", append(middleware.LogAttrs(ctx), "user_id", user.ID, "error", err)...)
	}
	a.record(ctx, &user.ID, domain.AuditResetRequested, ip, ua, nil)
	return nil
}

func (a *AuthServiceImpl) ResetPassword(ctx context.Context, r dto.ResetPasswordRequest, ip, ua string) (err error) {
	defer func() {
		metrics.PasswordResetsTotal.WithLabelValues("confirm", metrics.Result(err)).Inc()
	}()

	token := strings.TrimSpace(r.Token)
	if token == "" || r.NewPassword == "" {
		return domain.ErrInvalidBody
	}

	tokenHash := a.TService.HashSecretForLookup(token)
	now := a.nowTime()
	user, err := a.Users.GetByResetToken(ctx, tokenHash, now)
	if err != nil {
		if isNotFound(err) {
			return domain.ErrResetTokenInvalid
		}
		return fmt.Errorf("reset password: lookup: %w", err)
	}

	hash, err := a.PasswordService.Hash(r.NewPassword)
	if err != nil {
		return fmt.Errorf("reset password: hash: %w", err)
	}
	ok, err := a.Users.ConsumeResetToken(ctx, user.ID, tokenHash, now, hash)
	if err != nil {
		return fmt.Errorf("reset password: consume: %w", err)
	}
	if !ok {
		// Lost a race with another confirm or a newer request.
		return domain.ErrResetTokenInvalid
	}
	a.record(ctx, &user.ID, domain.AuditPasswordReset, ip, ua, nil)
	return nil
}

func (a *AuthServiceImpl) ChangePassword(ctx context.Context, userID domain.UserID, r dto.ChangePasswordRequest) error {
	if r.CurrentPassword == "" || r.NewPassword == "" {
		return domain.ErrInvalidBody
	}
	user, err := a.Users.GetByID(ctx, userID)
	if err != nil {
		if isNotFound(err) {
			return domain.ErrUserNotFound
		}
		return fmt.Errorf("change password: lookup: %w", err)
	}
	if !user.HasPassword() {
		return domain.ErrSocialLoginNoPassword
	}
	if !a.PasswordService.Verify(r.CurrentPassword, user.PasswordHash) {
		return domain.ErrUnauthorized
	}
	hash, err := a.PasswordService.Hash(r.NewPassword)
	if err != nil {
		return fmt.Errorf("change password: hash: %w", err)
	}
	if err := a.Users.UpdatePassword(ctx, user.ID, hash); err != nil {
		return fmt.Errorf("change password: update: %w", err)
	}
	a.record(ctx, &user.ID, domain.AuditPasswordChange, "", "", nil)
	return nil
}

func (a *AuthServiceImpl) ActivateAccount(ctx context.Context, token string) (bool, error) {
	userID, err := a.TService.VerifyActivationToken(token)
	if err != nil {
		slog.Info("activation token rejected", append(middleware.LogAttrs(ctx), "reason", err)...)
		return false, domain.ErrActivationTokenInvalid
	}
	user, err := a.Users.GetByID(ctx, userID)
	if err != nil {
		if isNotFound(err) {
			return false, domain.ErrUserNotFound
		}
		return false, fmt.Errorf("activate: lookup: %w", err)
	}
	if user.IsActive {
		return true, nil
	}
	if err := a.Users.Activate(ctx, user.ID); err != nil {
		return false, fmt.Errorf("activate: %w", err)
	}
	a.record(ctx, &user.ID, domain.AuditActivate, "", "", nil)
	return false, nil
}

// ResendActivation mails a fresh link. Earlier links stay valid until they
// expire; any of them activates the same account.
func (a *AuthServiceImpl) ResendActivation(ctx context.Context, email string) (bool, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return false, domain.ErrInvalidBody
	}
	user, err := a.Users.GetByEmail(ctx, email)
	if err != nil {
		if isNotFound(err) {
			return false, domain.ErrUserNotFound
		}
		return false, fmt.Errorf("resend activation: lookup: %w", err)
	}
	if user.IsActive {
		return true, nil
	}
	token, err := a.TService.IssueActivationToken(user.ID)
	if err != nil {
		return false, fmt.Errorf("resend activation: issue token: %w", err)
	}
	err = a.Email.SendActivation(ctx, user.EmailOrEmpty(), user.Name, a.activationURL(token))
	metrics.EmailsSentTotal.WithLabelValues("activation", metrics.Result(err)).Inc()
	if err != nil {
		return false, fmt.Errorf("resend activation: send: %w", err)
	}
	return false, nil
}

func (a *AuthServiceImpl) Me(ctx context.Context, userID domain.UserID) (*dto.UserResponse, error) {
	user, err := a.Users.GetByID(ctx, userID)
	if err != nil {
		if isNotFound(err) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("me: lookup: %w", err)
	}
	return dto.NewUserResponse(user), nil
}

// ====== Helpers ======

func (a *AuthServiceImpl) issueSession(user *domain.User) (*dto.LoginResponse, error) {
	safe := dto.NewUserResponse(user)
	token, expiresIn, err := a.TService.IssueSessionToken(safe)
	if err != nil {
		return nil, fmt.Errorf("issue session token: %w", err)
	}
	return &dto.LoginResponse{Token: token, ExpiresIn: expiresIn, User: safe}, nil
}

func (a *AuthServiceImpl) sendActivation(ctx context.Context, u *domain.User) {
	token, err := a.TService.IssueActivationToken(u.ID)
	if err != nil {
		slog.Error("issue activation token", append(middleware.LogAttrs(ctx), "user_id", u.ID, "error", err)...)
		return
	}
	err = a.Email.SendActivation(ctx, u.EmailOrEmpty(), u.Name, a.activationURL(token))
	metrics.EmailsSentTotal.WithLabelValues("activation", metrics.Result(err)).Inc()
	if err != nil {
		slog.Error("send activation email", append(middleware.LogAttrs(ctx), "user_id", u.ID, "error", err)...)
	}
}

func (a *AuthServiceImpl) activationURL(token string) string {
	return a.Config.FrontendURL + "/activate/" + url.PathEscape(token)
}

// record writes an audit row; failures never fail the flow.
func (a *AuthServiceImpl) record(ctx context.Context, userID *domain.UserID, action, ip, ua string, meta map[string]any) {
	if a.Audit == nil {
		return
	}
	entry := &domain.AuditLog{
		UserID:    userID,
		Action:    action,
		IP:        normalizeIP(ip),
		UserAgent: netutil.TruncateUserAgent(ua),
	}
	if len(meta) > 0 {
		if b, err := json.Marshal(meta); err == nil {
			entry.Metadata = b
		}
	}
	if err := a.Audit.Record(ctx, entry); err != nil {
		slog.Warn("audit record failed", append(middleware.LogAttrs(ctx), "action", action, "error", err)...)
	}
}

func (a *AuthServiceImpl) resetTTL() time.Duration {
	if a.Config.ResetTokenTTL > 0 {
		return a.Config.ResetTokenTTL
	}
	return DefaultResetTokenTTL
}

func (a *AuthServiceImpl) nowTime() time.Time {
	if a.now != nil {
		return a.now()
	}
	return time.Now().UTC()
}

func trimmedOrNil(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}

func normalizeIP(ip string) string {
	if normalized, ok := netutil.NormalizeIP(ip); ok {
		return normalized
	}
	return strings.TrimSpace(ip)
}
