package services

import (
	"context"

	"github.com/yigit/nnpgpt/internal/app/models"
	"github.com/yigit/nnpgpt/internal/pkg/apperrors"
	"github.com/yigit/nnpgpt/internal/pkg/auth"
)

// Authenticator decides whether a login for role may proceed
type Authenticator interface {
	Authenticate(ctx context.Context, role models.Role, passcode string) error
}

// PasscodeAuthenticator protects roles with bcrypt-hashed passcodes.
// Students always pass; a role without a configured hash is open.
type PasscodeAuthenticator struct {
	hashes map[models.Role]string
}

// NewPasscodeAuthenticator creates an authenticator from role to bcrypt hash
func NewPasscodeAuthenticator(hashes map[models.Role]string) *PasscodeAuthenticator {
	copied := make(map[models.Role]string, len(hashes))
	for role, hash := range hashes {
		if hash != "" {
			copied[role] = hash
		}
	}
	return &PasscodeAuthenticator{hashes: copied}
}

// Authenticate checks passcode against the hash configured for role
func (a *PasscodeAuthenticator) Authenticate(_ context.Context, role models.Role, passcode string) error {
	if !role.Valid() {
		return apperrors.ErrInvalidRole
	}
	if role == models.RoleStudent {
		return nil
	}
	hash, protected := a.hashes[role]
	if !protected {
		return nil
	}
	if passcode == "" || !auth.CheckPasscode(hash, passcode) {
		return apperrors.ErrInvalidCredentials
	}
	return nil
}
