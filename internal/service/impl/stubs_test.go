package impl

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"
)

const testFrontendURL = "https://app.example.test"

type sentEmail struct {
	kind string
	to   string
	name string
	url  string
}

type stubEmailService struct {
	mu   sync.Mutex
	err  error
	sent []sentEmail
}

func (s *stubEmailService) SendActivation(ctx context.Context, to, name, activateURL string) error {
	return s.record("activation", to, name, activateURL)
}

func (s *stubEmailService) SendPasswordReset(ctx context.Context, to, name, resetURL string) error {
	return s.record("password_reset", to, name, resetURL)
}

func (s *stubEmailService) record(kind, to, name, link string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = append(s.sent, sentEmail{kind: kind, to: to, name: name, url: link})
	return s.err
}

func (s *stubEmailService) last(kind string) (sentEmail, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := len(s.sent) - 1; i >= 0; i-- {
		if s.sent[i].kind == kind {
			return s.sent[i], true
		}
	}
	return sentEmail{}, false
}

func (s *stubEmailService) count(kind string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, e := range s.sent {
		if e.kind == kind {
			n++
		}
	}
	return n
}

// activationToken pulls the token out of the last activation link.
func (s *stubEmailService) activationToken() (string, error) {
	e, ok := s.last("activation")
	if !ok {
		return "", errors.New("no activation email sent")
	}
	prefix := testFrontendURL + "/activate/"
	if !strings.HasPrefix(e.url, prefix) {
		return "", errors.New("unexpected activation url " + e.url)
	}
	return url.PathUnescape(strings.TrimPrefix(e.url, prefix))
}

// resetSecret pulls the token query parameter out of the last reset link.
func (s *stubEmailService) resetSecret() (string, error) {
	e, ok := s.last("password_reset")
	if !ok {
		return "", errors.New("no reset email sent")
	}
	if !strings.HasPrefix(e.url, testFrontendURL+"/reset-password?token=") {
		return "", errors.New("unexpected reset url " + e.url)
	}
	u, err := url.Parse(e.url)
	if err != nil {
		return "", err
	}
	return u.Query().Get("token"), nil
}

// countingPasswordService wraps the bcrypt service and counts dummy compares.
type countingPasswordService struct {
	*PasswordServiceImpl
	mu          sync.Mutex
	dummyCalls  int
	verifyCalls int
}

func newCountingPasswordService() *countingPasswordService {
	return &countingPasswordService{PasswordServiceImpl: NewPasswordServiceBcrypt(bcrypt.MinCost)}
}

func (c *countingPasswordService) Verify(password string, hash *string) bool {
	c.mu.Lock()
	c.verifyCalls++
	c.mu.Unlock()
	return c.PasswordServiceImpl.Verify(password, hash)
}

func (c *countingPasswordService) DummyVerify(password string) {
	c.mu.Lock()
	c.dummyCalls++
	c.mu.Unlock()
	c.PasswordServiceImpl.DummyVerify(password)
}

func newTestTokenService() *TokenServiceImpl {
	return NewTokenServiceHS256(TokenConfig{
		Issuer:           "crm-backend",
		Audience:         "crm-clients",
		SessionTTL:       time.Hour,
		SessionSecret:    []byte("session-secret-for-tests"),
		ActivationTTL:    24 * time.Hour,
		ActivationSecret: []byte("activation-secret-for-tests"),
	})
}

type authFixture struct {
	store     *memoryStore
	email     *stubEmailService
	passwords *countingPasswordService
	tokens    *TokenServiceImpl
	svc       *AuthServiceImpl
}

func newAuthFixture() *authFixture {
	st := newMemoryStore()
	f := &authFixture{
		store:     st,
		email:     &stubEmailService{},
		passwords: newCountingPasswordService(),
		tokens:    newTestTokenService(),
	}
	f.svc = &AuthServiceImpl{
		Users:           st.userStore(),
		Audit:           st.auditStore(),
		PasswordService: f.passwords,
		TService:        f.tokens,
		Resolver:        &IdentityResolverImpl{Store: st},
		Email:           f.email,
		Config:          AuthConfig{FrontendURL: testFrontendURL, ResetTokenTTL: time.Hour},
	}
	return f
}
