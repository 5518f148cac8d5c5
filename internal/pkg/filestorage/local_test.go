package filestorage

import (
	"bytes"
	"mime/multipart"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
)

func multipartHeader(t *testing.T, name, body string) *multipart.FileHeader {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("files", name)
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := part.Write([]byte(body)); err != nil {
		t.Fatalf("write part: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}

	req := httptest.NewRequest("POST", "/", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	if err := req.ParseMultipartForm(1 << 20); err != nil {
		t.Fatalf("parse form: %v", err)
	}
	return req.MultipartForm.File["files"][0]
}

func TestSaveAndDeleteDocument(t *testing.T) {
	ls, err := NewLocalStorage(t.TempDir(), "http://localhost:8080/documents/")
	if err != nil {
		t.Fatalf("new storage: %v", err)
	}

	url, err := ls.SaveDocument("node-1", multipartHeader(t, "Notes.PDF", "%PDF-1.7"))
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if !strings.HasPrefix(url, "http://localhost:8080/documents/node-1/") || !strings.HasSuffix(url, ".pdf") {
		t.Fatalf("unexpected url %q", url)
	}

	data, err := os.ReadFile(ls.GetFullPath(url))
	if err != nil || string(data) != "%PDF-1.7" {
		t.Fatalf("stored content %q, err %v", data, err)
	}

	if err := ls.DeleteDocument(url); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := ls.DeleteDocument(url); err != nil {
		t.Fatalf("second delete should be a no-op: %v", err)
	}
}

func TestPurgeSessionAndPathSafety(t *testing.T) {
	ls, err := NewLocalStorage(t.TempDir(), "")
	if err != nil {
		t.Fatalf("new storage: %v", err)
	}
	url, err := ls.SaveDocument("node-2", multipartHeader(t, "scan.png", "png"))
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if !strings.HasPrefix(url, "documents/node-2/") {
		t.Fatalf("unexpected relative url %q", url)
	}

	if err := ls.PurgeSession("node-2"); err != nil {
		t.Fatalf("purge: %v", err)
	}
	if _, err := os.Stat(ls.GetFullPath(url)); !os.IsNotExist(err) {
		t.Fatalf("expected document removed, stat err %v", err)
	}

	if _, err := ls.SaveDocument("../escape", multipartHeader(t, "x.pdf", "x")); err == nil {
		t.Fatalf("expected traversal session id to be rejected")
	}
	if ls.GetFullPath("../..") != "" {
		t.Fatalf("expected traversal url to be rejected")
	}
}

func TestIsStored(t *testing.T) {
	remote, err := NewLocalStorage(t.TempDir(), "http://localhost:8080/documents")
	if err != nil {
		t.Fatalf("new storage: %v", err)
	}
	relative, err := NewLocalStorage(t.TempDir(), "")
	if err != nil {
		t.Fatalf("new storage: %v", err)
	}

	tests := []struct {
		name  string
		store *LocalStorage
		url   string
		want  bool
	}{
		{"absolute url", remote, "http://localhost:8080/documents/s1/a.pdf", true},
		{"catalog link", remote, "https://cdn.example.edu/s1/a.pdf", false},
		{"relative url", relative, "documents/s1/a.pdf", true},
		{"relative traversal", relative, "documents/s1/..", false},
		{"empty", relative, "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.store.IsStored(tt.url); got != tt.want {
				t.Fatalf("IsStored(%q) = %v, want %v", tt.url, got, tt.want)
			}
		})
	}
}
