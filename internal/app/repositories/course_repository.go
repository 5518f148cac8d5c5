package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/yigit/nnpgpt/internal/app/models"
	"github.com/yigit/nnpgpt/internal/pkg/apperrors"
	"github.com/yigit/nnpgpt/internal/pkg/dberrors"
	"github.com/yigit/nnpgpt/internal/pkg/logger"
)

const (
	coursesPkeyConstraint    = "courses_pkey"
	vaultFilesPkeyConstraint = "vault_files_pkey"
)

var (
	courseColumns = []string{"id", "name", "department", "icon_name", "description"}
	fileColumns   = []string{"id", "name", "type", "source", "tags", "content", "url", "locked", "uploaded_by", "upload_date"}
)

// CourseRepository serves the course catalog from PostgreSQL
type CourseRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewCourseRepository creates a new CourseRepository
func NewCourseRepository(db *pgxpool.Pool) *CourseRepository {
	return &CourseRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func (r *CourseRepository) listCoursesQuery() (string, []interface{}, error) {
	return r.sb.Select(courseColumns...).
		From("courses").
		OrderBy("department ASC", "name ASC").
		ToSql()
}

func (r *CourseRepository) courseByIDQuery(id string) (string, []interface{}, error) {
	return r.sb.Select(courseColumns...).
		From("courses").
		Where(squirrel.Eq{"id": id}).
		Limit(1).
		ToSql()
}

// vaultQuery selects the files of one course, or the research seed when courseID is nil
func (r *CourseRepository) vaultQuery(courseID *string) (string, []interface{}, error) {
	q := r.sb.Select(fileColumns...).From("vault_files")
	if courseID == nil {
		q = q.Where(squirrel.Eq{"course_id": nil})
	} else {
		q = q.Where(squirrel.Eq{"course_id": *courseID})
	}
	return q.OrderBy("position ASC", "id ASC").ToSql()
}

// ListCourses returns every course ordered by department and name
func (r *CourseRepository) ListCourses(ctx context.Context) ([]models.Course, error) {
	sql, args, err := r.listCoursesQuery()
	if err != nil {
		logger.Error().Err(err).Msg("Error building list courses SQL")
		return nil, fmt.Errorf("failed to build list courses query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing list courses query")
		return nil, fmt.Errorf("error querying courses: %w", err)
	}
	defer rows.Close()

	courses := []models.Course{}
	for rows.Next() {
		var c models.Course
		if err := rows.Scan(&c.ID, &c.Name, &c.Department, &c.IconName, &c.Description); err != nil {
			logger.Error().Err(err).Msg("Error scanning course row")
			return nil, fmt.Errorf("error scanning course row: %w", err)
		}
		courses = append(courses, c)
	}
	if err := rows.Err(); err != nil {
		logger.Error().Err(err).Msg("Error iterating course rows")
		return nil, fmt.Errorf("error iterating course rows: %w", err)
	}

	return courses, nil
}

// Course looks a course up by id. ok is false when it does not exist.
func (r *CourseRepository) Course(ctx context.Context, id string) (models.Course, bool, error) {
	sql, args, err := r.courseByIDQuery(id)
	if err != nil {
		logger.Error().Err(err).Msg("Error building get course SQL")
		return models.Course{}, false, fmt.Errorf("failed to build get course query: %w", err)
	}

	var c models.Course
	err = r.db.QueryRow(ctx, sql, args...).Scan(&c.ID, &c.Name, &c.Department, &c.IconName, &c.Description)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Course{}, false, nil
		}
		logger.Error().Err(err).Str("courseID", id).Msg("Error scanning course row")
		return models.Course{}, false, fmt.Errorf("error getting course by ID: %w", err)
	}
	return c, true, nil
}

// VaultFor returns the institutional documents of a course in display order.
// Unknown course ids yield an empty vault.
func (r *CourseRepository) VaultFor(ctx context.Context, courseID string) ([]models.FileMetadata, error) {
	return r.queryFiles(ctx, &courseID)
}

// ResearchSeed returns the documents every new student session starts with
func (r *CourseRepository) ResearchSeed(ctx context.Context) ([]models.FileMetadata, error) {
	return r.queryFiles(ctx, nil)
}

func (r *CourseRepository) queryFiles(ctx context.Context, courseID *string) ([]models.FileMetadata, error) {
	sql, args, err := r.vaultQuery(courseID)
	if err != nil {
		logger.Error().Err(err).Msg("Error building vault SQL")
		return nil, fmt.Errorf("failed to build vault query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing vault query")
		return nil, fmt.Errorf("error querying vault files: %w", err)
	}
	defer rows.Close()

	files := []models.FileMetadata{}
	for rows.Next() {
		var (
			f          models.FileMetadata
			uploadDate *time.Time
		)
		if err := rows.Scan(&f.ID, &f.Name, &f.Type, &f.Source, &f.Tags, &f.Content, &f.URL, &f.Locked, &f.UploadedBy, &uploadDate); err != nil {
			logger.Error().Err(err).Msg("Error scanning vault file row")
			return nil, fmt.Errorf("error scanning vault file row: %w", err)
		}
		f.UploadDate = uploadDate
		if f.Tags == nil {
			f.Tags = []string{}
		}
		files = append(files, f)
	}
	if err := rows.Err(); err != nil {
		logger.Error().Err(err).Msg("Error iterating vault file rows")
		return nil, fmt.Errorf("error iterating vault file rows: %w", err)
	}

	return files, nil
}

// CountCourses returns the number of courses in the catalog
func (r *CourseRepository) CountCourses(ctx context.Context) (int64, error) {
	sql, args, err := r.sb.Select("COUNT(*)").From("courses").ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build count courses query: %w", err)
	}

	var total int64
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&total); err != nil {
		logger.Error().Err(err).Msg("Error counting courses")
		return 0, fmt.Errorf("error counting courses: %w", err)
	}
	return total, nil
}

// CreateCourse inserts a course. A duplicate id yields apperrors.ErrCourseAlreadyExists.
func (r *CourseRepository) CreateCourse(ctx context.Context, course models.Course) error {
	sql, args, err := r.sb.Insert("courses").
		Columns(courseColumns...).
		Values(course.ID, course.Name, course.Department, course.IconName, course.Description).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building create course SQL")
		return fmt.Errorf("failed to build create course query: %w", err)
	}

	if _, err := r.db.Exec(ctx, sql, args...); err != nil {
		if dberrors.IsDuplicateConstraintError(err, coursesPkeyConstraint) {
			return apperrors.ErrCourseAlreadyExists
		}
		logger.Error().Err(err).Str("courseID", course.ID).Msg("Error executing create course query")
		return fmt.Errorf("error creating course: %w", err)
	}
	return nil
}

// AddFile stores a vault file for courseID, or a research seed file when courseID is nil.
// Files already present are left alone.
func (r *CourseRepository) AddFile(ctx context.Context, courseID *string, position int, f models.FileMetadata) error {
	tags := f.Tags
	if tags == nil {
		tags = []string{}
	}
	sql, args, err := r.sb.Insert("vault_files").
		Columns(append([]string{"course_id", "position"}, fileColumns...)...).
		Values(courseID, position, f.ID, f.Name, f.Type, f.Source, tags, f.Content, f.URL, f.Locked, f.UploadedBy, f.UploadDate).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building add vault file SQL")
		return fmt.Errorf("failed to build add vault file query: %w", err)
	}

	if _, err := r.db.Exec(ctx, sql, args...); err != nil {
		switch {
		case dberrors.IsDuplicateConstraintError(err, vaultFilesPkeyConstraint):
			return nil
		case dberrors.IsForeignKeyViolation(err):
			return apperrors.ErrCourseNotFound
		case dberrors.IsCheckViolation(err):
			return fmt.Errorf("%w: file %s has an unknown type or source", apperrors.ErrValidationFailed, f.ID)
		}
		logger.Error().Err(err).Str("fileID", f.ID).Msg("Error executing add vault file query")
		return fmt.Errorf("error adding vault file: %w", err)
	}
	return nil
}
