package seed

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	appModels "github.com/yigit/nnpgpt/internal/app/models"
	appRepos "github.com/yigit/nnpgpt/internal/app/repositories"
	"github.com/yigit/nnpgpt/internal/pkg/apperrors"
)

// CatalogWriter is the write side of the database catalog
type CatalogWriter interface {
	CountCourses(ctx context.Context) (int64, error)
	CreateCourse(ctx context.Context, course appModels.Course) error
	AddFile(ctx context.Context, courseID *string, position int, f appModels.FileMetadata) error
}

// CreateDefaultData copies the bundled catalog into an empty database catalog.
// A database that already has courses is left alone. Individual failures are
// collected and returned together.
func CreateDefaultData(ctx context.Context, dst CatalogWriter, src appRepos.Catalog, lgr zerolog.Logger) error {
	count, err := dst.CountCourses(ctx)
	if err != nil {
		return fmt.Errorf("failed to count courses: %w", err)
	}
	if count > 0 {
		lgr.Info().Int64("courses", count).Msg("Catalog already populated, skipping default data")
		return nil
	}

	courses, err := src.ListCourses(ctx)
	if err != nil {
		return fmt.Errorf("failed to read default courses: %w", err)
	}

	lgr.Info().Int("courses", len(courses)).Msg("Creating default catalog data...")
	var finalErr error

	for _, course := range courses {
		err := dst.CreateCourse(ctx, course)
		if err != nil && !errors.Is(err, apperrors.ErrCourseAlreadyExists) {
			lgr.Error().Err(err).Str("courseID", course.ID).Msg("Error creating default course")
			finalErr = errors.Join(finalErr, err)
			continue
		}

		vault, err := src.VaultFor(ctx, course.ID)
		if err != nil {
			finalErr = errors.Join(finalErr, err)
			continue
		}
		courseID := course.ID
		for i, f := range vault {
			if err := dst.AddFile(ctx, &courseID, i, f); err != nil {
				lgr.Error().Err(err).Str("fileID", f.ID).Msg("Error creating default vault file")
				finalErr = errors.Join(finalErr, err)
			}
		}
	}

	research, err := src.ResearchSeed(ctx)
	if err != nil {
		return errors.Join(finalErr, err)
	}
	for i, f := range research {
		if err := dst.AddFile(ctx, nil, i, f); err != nil {
			lgr.Error().Err(err).Str("fileID", f.ID).Msg("Error creating research seed file")
			finalErr = errors.Join(finalErr, err)
		}
	}

	if finalErr == nil {
		lgr.Info().Msg("Default catalog data created")
	}
	return finalErr
}
