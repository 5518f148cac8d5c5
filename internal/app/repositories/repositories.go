package repositories

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/yigit/nnpgpt/internal/app/models"
	"github.com/yigit/nnpgpt/internal/app/session"
)

// Catalog is the course catalog as seen by the services: the session-facing
// lookups plus the seed every fresh student research collection starts from.
type Catalog interface {
	session.CourseCatalog
	ResearchSeed(ctx context.Context) ([]models.FileMetadata, error)
}

// Repositories holds all the repository instances
type Repositories struct {
	Catalog          Catalog
	CourseRepository *CourseRepository
}

// NewRepositories backs the catalog with PostgreSQL
func NewRepositories(db *pgxpool.Pool) *Repositories {
	courses := NewCourseRepository(db)
	return &Repositories{
		Catalog:          courses,
		CourseRepository: courses,
	}
}

// NewFileRepositories backs the catalog with a YAML file
func NewFileRepositories(catalog *FileCatalog) *Repositories {
	return &Repositories{Catalog: catalog}
}
