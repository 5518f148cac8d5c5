package services

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	appAuth "github.com/yigit/nnpgpt/internal/app/auth"
	"github.com/yigit/nnpgpt/internal/app/models"
	"github.com/yigit/nnpgpt/internal/app/session"
	"github.com/yigit/nnpgpt/internal/pkg/auth"
	"github.com/yigit/nnpgpt/internal/pkg/cache"
)

var (
	testCourse = models.Course{ID: "cs101", Name: "Intro to Computing", Department: "Computer Science"}
	testVault  = []models.FileMetadata{
		{ID: "v1", Name: "Syllabus.pdf", Type: models.FileKindPDF, Source: models.SourceInstitutional, URL: "https://cdn.example.edu/syllabus.pdf"},
		{ID: "v2", Name: "Lecture 1.pdf", Type: models.FileKindPDF, Source: models.SourceInstitutional, Content: "Binary numbers"},
	}
	testResearch = []models.FileMetadata{
		{ID: "r1", Name: "Thesis draft.doc", Type: models.FileKindDoc, Source: models.SourcePersonal},
	}
)

type stubCatalog struct {
	courses []models.Course
	vaults  map[string][]models.FileMetadata
	err     error
}

func (s *stubCatalog) ListCourses(context.Context) ([]models.Course, error) {
	return append([]models.Course(nil), s.courses...), s.err
}

func (s *stubCatalog) VaultFor(_ context.Context, id string) ([]models.FileMetadata, error) {
	if s.err != nil {
		return nil, s.err
	}
	out := make([]models.FileMetadata, 0, len(s.vaults[id]))
	for _, f := range s.vaults[id] {
		out = append(out, f.Clone())
	}
	return out, nil
}

func (s *stubCatalog) Course(_ context.Context, id string) (models.Course, bool, error) {
	if s.err != nil {
		return models.Course{}, false, s.err
	}
	for _, c := range s.courses {
		if c.ID == id {
			return c, true, nil
		}
	}
	return models.Course{}, false, nil
}

// memoryDocuments is a DocumentStore that keeps URLs in a set
type memoryDocuments struct {
	mu      sync.Mutex
	n       int
	stored  map[string]string
	failing bool
	// afterSave runs once, outside the lock, after the next successful save
	afterSave func()
}

func newMemoryDocuments() *memoryDocuments {
	return &memoryDocuments{stored: map[string]string{}}
}

func (m *memoryDocuments) SaveDocument(sessionID string, fh *multipart.FileHeader) (string, error) {
	m.mu.Lock()
	if m.failing {
		m.mu.Unlock()
		return "", fmt.Errorf("disk full")
	}
	m.n++
	url := fmt.Sprintf("documents/%s/%d", sessionID, m.n)
	m.stored[url] = sessionID
	hook := m.afterSave
	m.afterSave = nil
	m.mu.Unlock()

	if hook != nil {
		hook()
	}
	return url, nil
}

func (m *memoryDocuments) DeleteDocument(url string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.stored, url)
	return nil
}

func (m *memoryDocuments) IsStored(url string) bool {
	return strings.HasPrefix(url, "documents/")
}

func (m *memoryDocuments) PurgeSession(sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for url, sid := range m.stored {
		if sid == sessionID {
			delete(m.stored, url)
		}
	}
	return nil
}

func (m *memoryDocuments) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.stored)
}

type fixture struct {
	catalog   *stubCatalog
	documents *memoryDocuments
	cache     *cache.MemoryCache
	registry  *Registry
	jwt       *auth.JWTService
	sessions  *SessionService
	now       time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	f := &fixture{
		catalog: &stubCatalog{
			courses: []models.Course{testCourse, {ID: "ee201", Name: "Circuit Theory"}},
			vaults:  map[string][]models.FileMetadata{testCourse.ID: testVault},
		},
		documents: newMemoryDocuments(),
		cache:     cache.NewMemoryCache(0),
		jwt: auth.NewJWTService(auth.JWTConfig{
			SecretKey:      "test-secret",
			AccessTokenExp: time.Hour,
			TokenIssuer:    "nnpgpt-test",
		}),
		now: time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC),
	}

	factory := func(id string) *session.Controller {
		return session.NewController(id, session.Options{
			Catalog: f.catalog,
			Purgers: []session.Purger{
				session.PurgerFunc(f.cache.Purge),
				session.PurgerFunc(func(_ context.Context, sid string) error { return f.documents.PurgeSession(sid) }),
			},
			ResearchSeed: testResearch,
			Now:          func() time.Time { return f.now },
		})
	}
	f.registry = NewRegistry(factory, 0, zerolog.Nop())
	f.sessions = NewSessionService(
		f.registry,
		f.catalog,
		NewPasscodeAuthenticator(nil),
		appAuth.NewAuthorizationService(),
		f.jwt,
		f.documents,
		nil,
		zerolog.Nop(),
	)
	f.sessions.now = func() time.Time { return f.now }
	return f
}

func (f *fixture) newNode(t *testing.T) string {
	t.Helper()
	snap, err := f.sessions.CreateSession(context.Background())
	if err != nil {
		t.Fatalf("create session: %v", err)
	}
	return snap.ID
}

func uploadHeaders(t *testing.T, files map[string]string) []*multipart.FileHeader {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for name, contentType := range files {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="files"; filename="%s"`, name))
		if contentType != "" {
			h.Set("Content-Type", contentType)
		}
		part, err := w.CreatePart(h)
		if err != nil {
			t.Fatalf("create part: %v", err)
		}
		part.Write([]byte("bytes of " + name))
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}

	req := httptest.NewRequest("POST", "/", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	if err := req.ParseMultipartForm(1 << 20); err != nil {
		t.Fatalf("parse form: %v", err)
	}
	return req.MultipartForm.File["files"]
}
