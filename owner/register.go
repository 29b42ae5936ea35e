package owner

import (
	"context"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/luminara-app/backend/srvcerr"
)

type RegisterParams struct {
	Email    string
	Password string
}

func (s *OwnerSrvc) Register(ctx context.Context, p RegisterParams) (res *Owner, err error) {
	if err := validateEmail(p.Email); err != nil {
		return nil, err
	}
	if err := validatePassword(p.Password); err != nil {
		return nil, err
	}

	all, err := s.repo.List(ctx)
	if err != nil {
		return nil, srvcerr.ErrInternalSE().SetDebug(err)
	}

	for _, rec := range all {
		// email must be unique among registered owners
		if rec.Email != "" && strings.EqualFold(rec.Email, p.Email) {
			return nil, newErrEmailExists()
		}
	}

	bcryptPwd, err := bcrypt.GenerateFromPassword(
		[]byte(p.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, srvcerr.ErrInternalSE().SetDebug(err)
	}

	rec := &OwnerRecord{
		UUID:      uuid.New(),
		Email:     p.Email,
		BcryptPwd: bcryptPwd,
		Version:   0,
		CreatedAt: time.Now().UTC(),
	}

	err = s.repo.Save(ctx, rec)
	if err != nil {
		return nil, srvcerr.ErrInternalSE().SetDebug(err)
	}

	return rec.toOwner(), nil
}

// Validation functions
func validateEmail(email string) error {
	const maxEmailLength = 320
	if len(email) == 0 {
		return newErrEmailEmpty()
	}
	if len(email) > maxEmailLength {
		return newErrEmailTooLong()
	}

	_, err := mail.ParseAddress(email)
	if err != nil {
		return newErrEmailInvalid()
	}

	return nil
}

func validatePassword(password string) error {
	const minPasswordLength = 8
	if len(password) < minPasswordLength {
		return newErrPasswordTooShort(minPasswordLength)
	}
	if len(password) > 1024 {
		return newErrPasswordTooLong()
	}
	return nil
}
