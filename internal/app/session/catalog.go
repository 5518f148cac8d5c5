package session

import (
	"context"

	"github.com/yigit/nnpgpt/internal/app/models"
)

// CourseCatalog supplies the available courses and the institutional vault of each one.
type CourseCatalog interface {
	ListCourses(ctx context.Context) ([]models.Course, error)
	// VaultFor returns an empty slice for unknown course ids
	VaultFor(ctx context.Context, courseID string) ([]models.FileMetadata, error)
	Course(ctx context.Context, courseID string) (models.Course, bool, error)
}

// Purger drops data kept on behalf of one session node. Every configured purger
// runs as part of a session reset.
type Purger interface {
	Purge(ctx context.Context, sessionID string) error
}

// PurgerFunc adapts a plain function to Purger
type PurgerFunc func(ctx context.Context, sessionID string) error

func (f PurgerFunc) Purge(ctx context.Context, sessionID string) error {
	return f(ctx, sessionID)
}
