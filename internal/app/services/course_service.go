package services

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/yigit/nnpgpt/internal/app/models"
	"github.com/yigit/nnpgpt/internal/app/models/dto"
	"github.com/yigit/nnpgpt/internal/app/session"
	"github.com/yigit/nnpgpt/internal/pkg/apperrors"
	"github.com/yigit/nnpgpt/internal/pkg/helpers"
)

// CourseService serves the read-only course catalog
type CourseService struct {
	catalog session.CourseCatalog
	logger  zerolog.Logger
}

// NewCourseService creates a new CourseService
func NewCourseService(catalog session.CourseCatalog, logger zerolog.Logger) *CourseService {
	return &CourseService{catalog: catalog, logger: logger}
}

// ListCourses returns one page of the catalog
func (s *CourseService) ListCourses(ctx context.Context, page, size int) (*dto.CourseListResponse, error) {
	courses, err := s.catalog.ListCourses(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to list courses")
		return nil, fmt.Errorf("failed to list courses: %w", err)
	}

	start, end := helpers.CalculateSliceIndices(page, size, len(courses))
	pageItems := make([]models.Course, 0, end-start)
	pageItems = append(pageItems, courses[start:end]...)

	return &dto.CourseListResponse{
		Courses:    pageItems,
		Pagination: helpers.NewPaginationInfo(int64(len(courses)), page, size),
	}, nil
}

// GetCourse returns one course with its vault
func (s *CourseService) GetCourse(ctx context.Context, id string) (*dto.CourseDetailResponse, error) {
	course, ok, err := s.catalog.Course(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Str("courseID", id).Msg("Failed to get course")
		return nil, fmt.Errorf("failed to get course: %w", err)
	}
	if !ok {
		return nil, apperrors.ErrCourseNotFound
	}

	vault, err := s.catalog.VaultFor(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Str("courseID", id).Msg("Failed to load course vault")
		return nil, fmt.Errorf("failed to load course vault: %w", err)
	}
	if vault == nil {
		vault = []models.FileMetadata{}
	}
	return &dto.CourseDetailResponse{Course: course, Vault: vault}, nil
}
