package auth

import (
	"github.com/yigit/nnpgpt/internal/app/models"
	"github.com/yigit/nnpgpt/internal/pkg/apperrors"
)

// ErrVaultReadOnly is returned when a role tries to edit the institutional vault
var ErrVaultReadOnly = apperrors.NewForbiddenError("only lecturers and admins can modify the course vault")

// AuthorizationService answers role questions for the session routes
type AuthorizationService struct {
	vaultEditors map[models.Role]bool
}

// NewAuthorizationService creates the default policy: lecturers and admins curate
// the vault, students only read it and keep their own research.
func NewAuthorizationService() *AuthorizationService {
	return &AuthorizationService{
		vaultEditors: map[models.Role]bool{
			models.RoleLecturer: true,
			models.RoleAdmin:    true,
		},
	}
}

// CanModifyVault reports whether role may edit or delete vault entries
func (s *AuthorizationService) CanModifyVault(role models.Role) bool {
	return s.vaultEditors[role]
}

// ValidateVaultEditor returns ErrVaultReadOnly unless role may edit the vault
func (s *AuthorizationService) ValidateVaultEditor(role models.Role) error {
	if !role.Valid() {
		return apperrors.ErrInvalidRole
	}
	if !s.CanModifyVault(role) {
		return ErrVaultReadOnly
	}
	return nil
}
