package repositories

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/yigit/nnpgpt/internal/app/models"
)

const catalogYAML = `
courses:
  - id: cs101
    name: Intro to Computing
    department: Computer Science
    iconName: cpu
    description: Foundations of programming.
  - id: ee201
    name: Circuit Theory
    department: Electrical Engineering
    iconName: zap
vaults:
  cs101:
    - id: cs101-syllabus
      name: Syllabus.pdf
      type: pdf
      source: institutional
      tags: [Syllabus]
      locked: true
research:
  - id: research-guide
    name: Research guide.pdf
    type: pdf
    source: personal
`

func writeCatalog(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write catalog: %v", err)
	}
	return path
}

func TestLoadFileCatalog(t *testing.T) {
	c, err := LoadFileCatalog(writeCatalog(t, catalogYAML))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	ctx := context.Background()

	courses, _ := c.ListCourses(ctx)
	if len(courses) != 2 || courses[0].ID != "cs101" || courses[0].IconName != "cpu" {
		t.Fatalf("courses = %+v", courses)
	}

	course, ok, err := c.Course(ctx, "ee201")
	if err != nil || !ok || course.Name != "Circuit Theory" {
		t.Fatalf("course = %+v, %v, %v", course, ok, err)
	}
	if _, ok, _ := c.Course(ctx, "nope"); ok {
		t.Fatalf("unknown course reported as found")
	}

	vault, _ := c.VaultFor(ctx, "cs101")
	if len(vault) != 1 || vault[0].Type != models.FileKindPDF || !vault[0].Locked {
		t.Fatalf("vault = %+v", vault)
	}
	if empty, _ := c.VaultFor(ctx, "ee201"); len(empty) != 0 || empty == nil {
		t.Fatalf("course without vault must give an empty, non-nil slice")
	}
	if unknown, _ := c.VaultFor(ctx, "nope"); len(unknown) != 0 {
		t.Fatalf("unknown course vault = %+v", unknown)
	}

	seed, _ := c.ResearchSeed(ctx)
	if len(seed) != 1 || seed[0].Source != models.SourcePersonal {
		t.Fatalf("research seed = %+v", seed)
	}
}

func TestFileCatalogReturnsCopies(t *testing.T) {
	c, err := LoadFileCatalog(writeCatalog(t, catalogYAML))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	ctx := context.Background()

	vault, _ := c.VaultFor(ctx, "cs101")
	vault[0].Tags[0] = "changed"
	vault[0].Name = "changed"

	again, _ := c.VaultFor(ctx, "cs101")
	if again[0].Name != "Syllabus.pdf" || again[0].Tags[0] != "Syllabus" {
		t.Fatalf("catalog data was mutated through a returned vault")
	}
}

func TestLoadFileCatalogMissingFile(t *testing.T) {
	c, err := LoadFileCatalog(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("missing file must give an empty catalog: %v", err)
	}
	courses, _ := c.ListCourses(context.Background())
	if len(courses) != 0 {
		t.Fatalf("courses = %+v", courses)
	}
}

func TestLoadFileCatalogRejectsBadData(t *testing.T) {
	tests := map[string]string{
		"duplicate course":     "courses:\n  - id: a\n  - id: a\n",
		"vault without course": "vaults:\n  ghost:\n    - id: f1\n",
		"duplicate file": "courses:\n  - id: a\n  - id: b\n" +
			"vaults:\n  a:\n    - id: f1\n  b:\n    - id: f1\n",
		"invalid yaml": "courses: [",
	}
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := LoadFileCatalog(writeCatalog(t, body)); err == nil {
				t.Fatalf("expected an error")
			}
		})
	}
}

func TestCourseRepositoryQueries(t *testing.T) {
	r := NewCourseRepository(nil)

	sql, args, err := r.courseByIDQuery("cs101")
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if !strings.Contains(sql, "FROM courses WHERE id = $1") || len(args) != 1 || args[0] != "cs101" {
		t.Fatalf("course query = %q %v", sql, args)
	}

	courseID := "cs101"
	sql, args, err = r.vaultQuery(&courseID)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if !strings.Contains(sql, "WHERE course_id = $1 ORDER BY position ASC") || len(args) != 1 {
		t.Fatalf("vault query = %q %v", sql, args)
	}

	sql, args, err = r.vaultQuery(nil)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if !strings.Contains(sql, "WHERE course_id IS NULL") || len(args) != 0 {
		t.Fatalf("research query = %q %v", sql, args)
	}

	sql, _, err = r.listCoursesQuery()
	if err != nil || !strings.Contains(sql, "ORDER BY department ASC, name ASC") {
		t.Fatalf("list query = %q, %v", sql, err)
	}
}
