package impl

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"time"

	"github.com/abdullah-iqbal-cbs/CBS-main/internal/domain"
	"github.com/abdullah-iqbal-cbs/CBS-main/internal/dto"
	"github.com/abdullah-iqbal-cbs/CBS-main/internal/observability/metrics"
	"github.com/abdullah-iqbal-cbs/CBS-main/internal/service"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// ====== Config ======

type TokenConfig struct {
	Issuer           string        // e.g. "crm-backend"
	Audience         string        // e.g. "crm-clients"
	SessionTTL       time.Duration // e.g. 1h
	SessionSecret    []byte        // HS256
	ActivationTTL    time.Duration // e.g. 24h
	ActivationSecret []byte        // HS256, distinct from SessionSecret
}

const (
	resetSecretBytes   = 32
	activationAudience = "account-activation"
)

// ====== Claims ======

type ActivationClaims struct {
	UserID string `json:"id"`
	jwt.RegisteredClaims
}

// ====== Service ======

var _ service.TokenService = (*TokenServiceImpl)(nil)

type TokenServiceImpl struct {
	cfg TokenConfig
}

func NewTokenServiceHS256(cfg TokenConfig) *TokenServiceImpl {
	return &TokenServiceImpl{cfg: cfg}
}

func (t *TokenServiceImpl) IssueActivationToken(userID domain.UserID) (token string, err error) {
	defer func() {
		metrics.TokensIssuedTotal.WithLabelValues("activation", metrics.Result(err)).Inc()
	}()
	now := time.Now().UTC()
	claims := ActivationClaims{
		UserID: userID.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    t.cfg.Issuer,
			Audience:  jwt.ClaimStrings{activationAudience},
			ExpiresAt: jwt.NewNumericDate(now.Add(t.cfg.ActivationTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.cfg.ActivationSecret)
}

// VerifyActivationToken returns domain.ErrTokenExpired for a well-signed token
// past its expiry and domain.ErrTokenInvalid for everything else.
func (t *TokenServiceImpl) VerifyActivationToken(token string) (domain.UserID, error) {
	claims := &ActivationClaims{}
	if err := t.parse(token, claims, t.cfg.ActivationSecret, activationAudience); err != nil {
		return uuid.Nil, err
	}
	id, err := uuid.Parse(claims.UserID)
	if err != nil {
		return uuid.Nil, domain.ErrTokenInvalid
	}
	return id, nil
}

func (t *TokenServiceImpl) IssueSessionToken(user *dto.UserResponse) (token string, expiresIn int64, err error) {
	defer func() {
		metrics.TokensIssuedTotal.WithLabelValues("session", metrics.Result(err)).Inc()
	}()
	if user == nil || user.ID == "" {
		return "", 0, errors.New("session token needs a user")
	}
	now := time.Now().UTC()
	claims := service.SessionClaims{
		User: *user,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    t.cfg.Issuer,
			Subject:   user.ID,
			Audience:  jwt.ClaimStrings{t.cfg.Audience},
			ExpiresAt: jwt.NewNumericDate(now.Add(t.cfg.SessionTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
			ID:        uuid.NewString(),
		},
	}
	token, err = jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.cfg.SessionSecret)
	if err != nil {
		return "", 0, err
	}
	return token, int64(t.cfg.SessionTTL.Seconds()), nil
}

func (t *TokenServiceImpl) VerifySessionToken(token string) (*service.SessionClaims, error) {
	claims := &service.SessionClaims{}
	if err := t.parse(token, claims, t.cfg.SessionSecret, t.cfg.Audience); err != nil {
		return nil, err
	}
	if claims.Subject == "" || claims.Subject != claims.User.ID {
		return nil, domain.ErrTokenInvalid
	}
	return claims, nil
}

func (t *TokenServiceImpl) IssueResetSecret() (secret, secretHash string, err error) {
	defer func() {
		metrics.TokensIssuedTotal.WithLabelValues("reset", metrics.Result(err)).Inc()
	}()
	buf := make([]byte, resetSecretBytes)
	if _, err = rand.Read(buf); err != nil {
		return "", "", err
	}
	secret = hex.EncodeToString(buf)
	return secret, t.HashSecretForLookup(secret), nil
}

// HashSecretForLookup is a plain SHA-256: the secret already carries 256 bits
// of entropy and the digest must be deterministic for the indexed lookup.
func (t *TokenServiceImpl) HashSecretForLookup(secret string) string {
	sum := sha256.Sum256([]byte(secret))
	return hex.EncodeToString(sum[:])
}

// ====== Helpers ======

func (t *TokenServiceImpl) parse(token string, claims jwt.Claims, key []byte, audience string) error {
	if token == "" {
		return domain.ErrTokenInvalid
	}
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(t.cfg.Issuer),
		jwt.WithAudience(audience),
		jwt.WithExpirationRequired(),
	)
	_, err := parser.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return key, nil
	})
	switch {
	case err == nil:
		return nil
	case errors.Is(err, jwt.ErrTokenExpired):
		return domain.ErrTokenExpired
	default:
		return domain.ErrTokenInvalid
	}
}
