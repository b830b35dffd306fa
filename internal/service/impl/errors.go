package impl

import (
	"errors"
	"fmt"

	"github.com/abdullah-iqbal-cbs/CBS-main/internal/domain"
)

var (
	ErrEmptyPassword = errors.New("empty password")
	ErrNilStore      = errors.New("nil store")
	// ErrPasswordTooLong is a bad request: bcrypt only reads 72 bytes.
	ErrPasswordTooLong = fmt.Errorf("%w: password longer than %d bytes", domain.ErrInvalidBody, MaxPasswordBytes)
)
