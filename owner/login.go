package owner

import (
	"context"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/luminara-app/backend/srvcerr"
)

func (s *OwnerSrvc) Login(ctx context.Context, email string, password string) (res *Owner, err error) {
	all, err := s.repo.List(ctx)
	if err != nil {
		errMsg := fmt.Errorf("error listing owners: %w", err)
		return nil, srvcerr.ErrInternalSE().SetDebug(errMsg)
	}

	for _, rec := range all {
		if rec.Email == email {
			err = bcrypt.CompareHashAndPassword(rec.BcryptPwd, []byte(password))
			if err == nil {
				return rec.toOwner(), nil
			}
		}
	}

	return nil, newErrEmailOrPasswordIncorrect()
}
