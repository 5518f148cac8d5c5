package seed

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	appModels "github.com/yigit/nnpgpt/internal/app/models"
	appRepos "github.com/yigit/nnpgpt/internal/app/repositories"
	"github.com/yigit/nnpgpt/internal/pkg/apperrors"
)

type fakeWriter struct {
	existing   int64
	courses    []string
	files      map[string][]string
	failCreate string
}

func (f *fakeWriter) CountCourses(context.Context) (int64, error) {
	return f.existing, nil
}

func (f *fakeWriter) CreateCourse(_ context.Context, c appModels.Course) error {
	if c.ID == f.failCreate {
		return errors.New("insert failed")
	}
	f.courses = append(f.courses, c.ID)
	return nil
}

func (f *fakeWriter) AddFile(_ context.Context, courseID *string, _ int, file appModels.FileMetadata) error {
	if f.files == nil {
		f.files = map[string][]string{}
	}
	key := "research"
	if courseID != nil {
		key = *courseID
	}
	f.files[key] = append(f.files[key], file.ID)
	return nil
}

func sourceCatalog(t *testing.T) *appRepos.FileCatalog {
	t.Helper()
	c, err := appRepos.NewFileCatalog(
		[]appModels.Course{{ID: "cs101", Name: "Intro"}, {ID: "ee201", Name: "Circuits"}},
		map[string][]appModels.FileMetadata{"cs101": {{ID: "f1"}, {ID: "f2"}}},
		[]appModels.FileMetadata{{ID: "r1"}},
	)
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}
	return c
}

func TestCreateDefaultDataCopiesCatalog(t *testing.T) {
	w := &fakeWriter{}
	if err := CreateDefaultData(context.Background(), w, sourceCatalog(t), zerolog.Nop()); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if len(w.courses) != 2 {
		t.Fatalf("courses = %v", w.courses)
	}
	if got := w.files["cs101"]; len(got) != 2 || got[0] != "f1" {
		t.Fatalf("vault files = %v", got)
	}
	if got := w.files["research"]; len(got) != 1 {
		t.Fatalf("research files = %v", got)
	}
}

func TestCreateDefaultDataSkipsPopulatedCatalog(t *testing.T) {
	w := &fakeWriter{existing: 3}
	if err := CreateDefaultData(context.Background(), w, sourceCatalog(t), zerolog.Nop()); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if len(w.courses) != 0 || len(w.files) != 0 {
		t.Fatalf("populated catalog was modified")
	}
}

func TestCreateDefaultDataCollectsErrors(t *testing.T) {
	w := &fakeWriter{failCreate: "cs101"}
	err := CreateDefaultData(context.Background(), w, sourceCatalog(t), zerolog.Nop())
	if err == nil {
		t.Fatalf("expected an error")
	}
	if errors.Is(err, apperrors.ErrCourseAlreadyExists) {
		t.Fatalf("unexpected error kind %v", err)
	}
	if len(w.courses) != 1 || w.courses[0] != "ee201" {
		t.Fatalf("remaining courses must still be created, got %v", w.courses)
	}
	if len(w.files["cs101"]) != 0 {
		t.Fatalf("files of a failed course must be skipped")
	}
}
