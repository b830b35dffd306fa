package impl

import (
	"golang.org/x/crypto/bcrypt"
)

const DefaultBcryptCost = 10

// MaxPasswordBytes is the most bcrypt will hash.
const MaxPasswordBytes = 72

// dummyPassword only ever feeds DummyVerify; its hash is never persisted.
const dummyPassword = "crm-timing-equaliser"

type PasswordServiceImpl struct {
	cost      int
	dummyHash []byte
}

func NewPasswordServiceBcrypt(cost int) *PasswordServiceImpl {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultBcryptCost
	}
	dummy, _ := bcrypt.GenerateFromPassword([]byte(dummyPassword), cost)
	return &PasswordServiceImpl{cost: cost, dummyHash: dummy}
}

func (p *PasswordServiceImpl) Hash(password string) (string, error) {
	if password == "" {
		return "", ErrEmptyPassword
	}
	if len(password) > MaxPasswordBytes {
		return "", ErrPasswordTooLong
	}
	h, err := bcrypt.GenerateFromPassword([]byte(password), p.cost)
	if err != nil {
		return "", err
	}
	return string(h), nil
}

func (p *PasswordServiceImpl) Verify(password string, hash *string) bool {
	if hash == nil || *hash == "" || password == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(*hash), []byte(password)) == nil
}

func (p *PasswordServiceImpl) DummyVerify(password string) {
	if len(p.dummyHash) == 0 {
		return
	}
	_ = bcrypt.CompareHashAndPassword(p.dummyHash, []byte(password))
}

// Cost is the work factor new hashes are created with.
func (p *PasswordServiceImpl) Cost() int { return p.cost }
