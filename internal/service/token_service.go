package service

import (
	"github.com/abdullah-iqbal-cbs/CBS-main/internal/domain"
	"github.com/abdullah-iqbal-cbs/CBS-main/internal/dto"

	"github.com/golang-jwt/jwt/v5"
)

// SessionClaims is the payload of a session token: the sanitized user as it
// was at issuance.
type SessionClaims struct {
	User dto.UserResponse `json:"user"`
	jwt.RegisteredClaims
}

type TokenService interface {
	IssueActivationToken(userID domain.UserID) (string, error)
	VerifyActivationToken(token string) (domain.UserID, error)

	IssueSessionToken(user *dto.UserResponse) (token string, expiresIn int64, err error)
	VerifySessionToken(token string) (*SessionClaims, error)

	// IssueResetSecret returns the plaintext secret for the email and the
	// digest to persist.
	IssueResetSecret() (secret, secretHash string, err error)
	HashSecretForLookup(secret string) string
}
