package services

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/yigit/nnpgpt/internal/app/models"
	"github.com/yigit/nnpgpt/internal/app/models/dto"
)

func TestPreview(t *testing.T) {
	f := newFixture(t)
	previews := NewPreviewService(f.registry, f.cache, zerolog.Nop())
	ctx := context.Background()
	id := f.newNode(t)

	got, err := previews.Preview(ctx, id)
	if err != nil {
		t.Fatalf("preview: %v", err)
	}
	if !got.Empty {
		t.Fatalf("expected an empty preview without selection: %+v", got)
	}

	if _, err := f.sessions.Login(ctx, id, &dto.LoginRequest{Role: "lecturer", CourseID: "cs101"}); err != nil {
		t.Fatalf("login: %v", err)
	}
	f.sessions.SelectFile(id, "v1")

	got, err = previews.Preview(ctx, id)
	if err != nil {
		t.Fatalf("preview: %v", err)
	}
	if got.Empty || got.FileID != "v1" || got.URL != "https://cdn.example.edu/syllabus.pdf" {
		t.Fatalf("unexpected preview: %+v", got)
	}
	if _, hit, _ := f.cache.Get(ctx, id, previewKey(testVault[0])); !hit {
		t.Fatalf("preview was not memoised")
	}

	content := "Updated syllabus"
	updated, err := f.sessions.UpdateFile(ctx, id, "v1", models.FilePatch{Content: &content})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	got, _ = previews.Preview(ctx, id)
	if got.Content != content {
		t.Fatalf("stale preview served after edit: %+v", got)
	}

	if _, err := f.sessions.Logout(ctx, id); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if _, hit, _ := f.cache.Get(ctx, id, previewKey(updated)); hit {
		t.Fatalf("logout did not purge memoised previews")
	}
}

func TestPreviewOfFileWithoutContent(t *testing.T) {
	f := newFixture(t)
	previews := NewPreviewService(f.registry, f.cache, zerolog.Nop())
	ctx := context.Background()
	id := f.newNode(t)

	if _, err := f.sessions.Login(ctx, id, &dto.LoginRequest{Role: "student"}); err != nil {
		t.Fatalf("login: %v", err)
	}
	f.sessions.SelectFile(id, "r1")

	got, err := previews.Preview(ctx, id)
	if err != nil {
		t.Fatalf("preview: %v", err)
	}
	if !got.Empty || got.FileID != "r1" {
		t.Fatalf("expected an empty preview for r1: %+v", got)
	}
}
