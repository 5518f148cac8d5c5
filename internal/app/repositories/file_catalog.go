package repositories

import (
	"context"
	"fmt"
	"os"

	"github.com/yigit/nnpgpt/internal/app/models"
	"gopkg.in/yaml.v3"
)

// catalogDocument is the on-disk layout of a catalog file
type catalogDocument struct {
	Courses  []models.Course                  `yaml:"courses"`
	Vaults   map[string][]models.FileMetadata `yaml:"vaults"`
	Research []models.FileMetadata            `yaml:"research"`
}

// FileCatalog is a read-only catalog loaded once from YAML
type FileCatalog struct {
	courses  []models.Course
	byID     map[string]models.Course
	vaults   map[string][]models.FileMetadata
	research []models.FileMetadata
}

// LoadFileCatalog reads a catalog file. A missing file yields an empty catalog.
func LoadFileCatalog(path string) (*FileCatalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return NewFileCatalog(nil, nil, nil)
		}
		return nil, fmt.Errorf("failed to read catalog file: %w", err)
	}

	var doc catalogDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse catalog file %s: %w", path, err)
	}
	return NewFileCatalog(doc.Courses, doc.Vaults, doc.Research)
}

// NewFileCatalog builds a catalog from in-memory data, rejecting duplicate ids
func NewFileCatalog(courses []models.Course, vaults map[string][]models.FileMetadata, research []models.FileMetadata) (*FileCatalog, error) {
	c := &FileCatalog{
		courses:  make([]models.Course, 0, len(courses)),
		byID:     make(map[string]models.Course, len(courses)),
		vaults:   make(map[string][]models.FileMetadata, len(vaults)),
		research: copyFiles(research),
	}

	for _, course := range courses {
		if course.ID == "" {
			return nil, fmt.Errorf("catalog course %q has no id", course.Name)
		}
		if _, dup := c.byID[course.ID]; dup {
			return nil, fmt.Errorf("duplicate course id %q in catalog", course.ID)
		}
		c.byID[course.ID] = course
		c.courses = append(c.courses, course)
	}

	seen := make(map[string]string)
	for courseID, files := range vaults {
		if _, ok := c.byID[courseID]; !ok {
			return nil, fmt.Errorf("vault for unknown course %q", courseID)
		}
		for _, f := range files {
			if prev, dup := seen[f.ID]; dup || f.ID == "" {
				return nil, fmt.Errorf("file id %q in course %q is empty or already used by %q", f.ID, courseID, prev)
			}
			seen[f.ID] = courseID
		}
		c.vaults[courseID] = copyFiles(files)
	}
	return c, nil
}

func (c *FileCatalog) ListCourses(context.Context) ([]models.Course, error) {
	return append([]models.Course{}, c.courses...), nil
}

func (c *FileCatalog) Course(_ context.Context, id string) (models.Course, bool, error) {
	course, ok := c.byID[id]
	return course, ok, nil
}

// VaultFor returns a copy of the course vault, empty for unknown ids
func (c *FileCatalog) VaultFor(_ context.Context, courseID string) ([]models.FileMetadata, error) {
	return copyFiles(c.vaults[courseID]), nil
}

func (c *FileCatalog) ResearchSeed(context.Context) ([]models.FileMetadata, error) {
	return copyFiles(c.research), nil
}

func copyFiles(in []models.FileMetadata) []models.FileMetadata {
	out := make([]models.FileMetadata, len(in))
	for i, f := range in {
		out[i] = f.Clone()
	}
	return out
}
