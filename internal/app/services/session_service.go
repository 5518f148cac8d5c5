package services

import (
	"context"
	"fmt"
	"mime"
	"mime/multipart"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	appAuth "github.com/yigit/nnpgpt/internal/app/auth"
	"github.com/yigit/nnpgpt/internal/app/models"
	"github.com/yigit/nnpgpt/internal/app/models/dto"
	"github.com/yigit/nnpgpt/internal/app/session"
	"github.com/yigit/nnpgpt/internal/pkg/apperrors"
	"github.com/yigit/nnpgpt/internal/pkg/auth"
	"github.com/yigit/nnpgpt/internal/pkg/filestorage"
	"github.com/yigit/nnpgpt/internal/pkg/metrics"
)

// MaxFilesPerUpload bounds one multipart upload
const MaxFilesPerUpload = 20

// defaultDisplayNames is used when a login carries no name
var defaultDisplayNames = map[models.Role]string{
	models.RoleStudent:  "Student",
	models.RoleLecturer: "Lecturer",
	models.RoleAdmin:    "Administrator",
}

// SessionService drives node lifecycles and forwards user actions to the node's controller
type SessionService struct {
	registry      *Registry
	catalog       session.CourseCatalog
	authenticator Authenticator
	authz         *appAuth.AuthorizationService
	jwtService    *auth.JWTService
	documents     filestorage.DocumentStore
	metrics       *metrics.Metrics
	onEvict       []func(ctx context.Context, sessionID string)
	now           func() time.Time
	logger        zerolog.Logger
}

// NewSessionService creates a new SessionService. metrics may be nil.
func NewSessionService(
	registry *Registry,
	catalog session.CourseCatalog,
	authenticator Authenticator,
	authz *appAuth.AuthorizationService,
	jwtService *auth.JWTService,
	documents filestorage.DocumentStore,
	m *metrics.Metrics,
	logger zerolog.Logger,
) *SessionService {
	return &SessionService{
		registry:      registry,
		catalog:       catalog,
		authenticator: authenticator,
		authz:         authz,
		jwtService:    jwtService,
		documents:     documents,
		metrics:       m,
		now:           time.Now,
		logger:        logger,
	}
}

// OnEvict registers a hook run for every node removed by EvictIdle
func (s *SessionService) OnEvict(hook func(ctx context.Context, sessionID string)) {
	s.onEvict = append(s.onEvict, hook)
}

// Controller returns the controller of a live node
func (s *SessionService) Controller(id string) (*session.Controller, error) {
	return lookupController(s.registry, id)
}

// CreateSession starts a new unauthenticated node
func (s *SessionService) CreateSession(ctx context.Context) (session.Snapshot, error) {
	ctrl, err := s.registry.Create()
	if err != nil {
		return session.Snapshot{}, err
	}
	s.updateActiveGauge()

	s.logger.Info().Str("sessionID", ctrl.ID()).Msg("Session node started")
	return ctrl.Snapshot(), nil
}

// GetSession returns a snapshot of the node
func (s *SessionService) GetSession(id string) (session.Snapshot, error) {
	ctrl, err := s.Controller(id)
	if err != nil {
		return session.Snapshot{}, err
	}
	return ctrl.Snapshot(), nil
}

// Login wipes the node, authenticates it as the requested role and issues a token
// bound to the resulting session epoch
func (s *SessionService) Login(ctx context.Context, id string, req *dto.LoginRequest) (*dto.LoginResponse, error) {
	ctrl, err := s.Controller(id)
	if err != nil {
		return nil, err
	}

	role := models.Role(req.Role)
	if !role.Valid() {
		return nil, apperrors.ErrInvalidRole
	}

	if err := s.authenticator.Authenticate(ctx, role, req.Passcode); err != nil {
		s.logger.Warn().Err(err).Str("sessionID", id).Str("role", string(role)).Msg("Login rejected")
		return nil, err
	}

	var preselected *models.Course
	if req.CourseID != "" {
		course, err := s.findCourse(ctx, req.CourseID)
		if err != nil {
			return nil, err
		}
		preselected = &course
	}

	epoch, err := ctrl.Authenticate(ctx, role, preselected)
	if err != nil {
		s.logger.Error().Err(err).Str("sessionID", id).Msg("Failed to authenticate session")
		return nil, fmt.Errorf("failed to authenticate session: %w", err)
	}

	token, expiresIn, err := s.jwtService.GenerateToken(id, role, epoch)
	if err != nil {
		s.logger.Error().Err(err).Str("sessionID", id).Msg("Failed to issue session token")
		return nil, err
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		name = defaultDisplayNames[role]
	}

	s.logger.Info().Str("sessionID", id).Str("role", string(role)).Uint64("epoch", epoch).Msg("Session authenticated")
	return &dto.LoginResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   expiresIn,
		User: models.User{
			ID:         id,
			Name:       name,
			Email:      req.Email,
			Role:       role,
			Status:     models.UserActive,
			LastActive: s.now(),
		},
		Session: ctrl.Snapshot(),
	}, nil
}

// Logout wipes the node back to the unauthenticated state
func (s *SessionService) Logout(ctx context.Context, id string) (session.Snapshot, error) {
	ctrl, err := s.Controller(id)
	if err != nil {
		return session.Snapshot{}, err
	}
	ctrl.Logout(ctx)
	s.logger.Info().Str("sessionID", id).Msg("Session logged out")
	return ctrl.Snapshot(), nil
}

// SelectCourse binds the node to a course; nil or empty id goes back to course selection
func (s *SessionService) SelectCourse(ctx context.Context, id string, courseID *string) (session.Snapshot, error) {
	ctrl, err := s.Controller(id)
	if err != nil {
		return session.Snapshot{}, err
	}

	var course *models.Course
	if courseID != nil && *courseID != "" {
		c, err := s.findCourse(ctx, *courseID)
		if err != nil {
			return session.Snapshot{}, err
		}
		course = &c
	}

	if err := ctrl.SelectCourse(ctx, course); err != nil {
		return session.Snapshot{}, err
	}
	return ctrl.Snapshot(), nil
}

// UploadFiles stores the uploaded bytes and adds one record per file to the
// vault (staff) or research collection (students)
func (s *SessionService) UploadFiles(ctx context.Context, id string, headers []*multipart.FileHeader) (*dto.UploadResponse, error) {
	ctrl, err := s.Controller(id)
	if err != nil {
		return nil, err
	}
	if !ctrl.IsAuthenticated() {
		return nil, apperrors.ErrNotAuthenticated
	}
	// the batch belongs to the session in effect now, not to whoever logs in next
	epoch := ctrl.Epoch()
	if len(headers) > MaxFilesPerUpload {
		return nil, apperrors.NewBadRequestError(fmt.Sprintf("at most %d files per upload", MaxFilesPerUpload))
	}
	if len(headers) == 0 {
		return &dto.UploadResponse{Files: []models.FileMetadata{}, Session: ctrl.Snapshot()}, nil
	}

	uploads := make([]models.UploadedFile, 0, len(headers))
	for _, fh := range headers {
		url, err := s.documents.SaveDocument(id, fh)
		if err != nil {
			s.discard(uploads)
			s.logger.Error().Err(err).Str("sessionID", id).Str("filename", fh.Filename).Msg("Failed to store uploaded document")
			return nil, fmt.Errorf("failed to store %s: %w", fh.Filename, err)
		}
		uploads = append(uploads, models.UploadedFile{
			Name:      filepath.Base(fh.Filename),
			MediaType: mediaTypeOf(fh),
			Size:      fh.Size,
			URL:       url,
		})
	}

	created := ctrl.UploadFilesAt(epoch, uploads)
	if created == nil {
		// logged out or replaced by another login while the bytes were being written
		s.discard(uploads)
		if !ctrl.IsAuthenticated() {
			return nil, apperrors.ErrNotAuthenticated
		}
		return nil, apperrors.NewCustomError(apperrors.ErrConflict, "session changed while the files were uploaded")
	}

	s.logger.Info().Str("sessionID", id).Int("count", len(created)).Msg("Documents uploaded")
	return &dto.UploadResponse{Files: created, Session: ctrl.Snapshot()}, nil
}

func (s *SessionService) discard(uploads []models.UploadedFile) {
	for _, u := range uploads {
		if u.URL == "" {
			continue
		}
		if err := s.documents.DeleteDocument(u.URL); err != nil {
			s.logger.Warn().Err(err).Str("url", u.URL).Msg("Failed to discard stored document")
		}
	}
}

// mediaTypeOf prefers the part's Content-Type and falls back to the extension
func mediaTypeOf(fh *multipart.FileHeader) string {
	ct := fh.Header.Get("Content-Type")
	if ct != "" && ct != "application/octet-stream" {
		return ct
	}
	if byExt := mime.TypeByExtension(strings.ToLower(filepath.Ext(fh.Filename))); byExt != "" {
		return byExt
	}
	return ct
}

// DeleteFile removes a vault entry and, if this service stored it, its bytes
func (s *SessionService) DeleteFile(ctx context.Context, id, fileID string) (session.Snapshot, error) {
	ctrl, err := s.vaultEditor(id)
	if err != nil {
		return session.Snapshot{}, err
	}

	var url string
	for _, f := range ctrl.Snapshot().Vault {
		if f.ID == fileID {
			url = f.URL
			break
		}
	}

	if !ctrl.DeleteFile(fileID) {
		return session.Snapshot{}, apperrors.ErrFileNotFound
	}
	if url != "" && s.documents.IsStored(url) {
		if err := s.documents.DeleteDocument(url); err != nil {
			s.logger.Warn().Err(err).Str("sessionID", id).Str("url", url).Msg("Failed to delete stored document")
		}
	}
	return ctrl.Snapshot(), nil
}

// UpdateFile edits a vault entry in place
func (s *SessionService) UpdateFile(ctx context.Context, id, fileID string, patch models.FilePatch) (models.FileMetadata, error) {
	ctrl, err := s.vaultEditor(id)
	if err != nil {
		return models.FileMetadata{}, err
	}
	updated, ok := ctrl.UpdateFile(fileID, patch)
	if !ok {
		return models.FileMetadata{}, apperrors.ErrFileNotFound
	}
	return updated, nil
}

func (s *SessionService) vaultEditor(id string) (*session.Controller, error) {
	ctrl, err := s.Controller(id)
	if err != nil {
		return nil, err
	}
	snap := ctrl.Snapshot()
	if !snap.Authenticated {
		return nil, apperrors.ErrNotAuthenticated
	}
	if err := s.authz.ValidateVaultEditor(snap.Role); err != nil {
		return nil, err
	}
	return ctrl, nil
}

// SelectFile points the preview at a file. An empty id deselects; an unknown
// id leaves nothing selected.
func (s *SessionService) SelectFile(id, fileID string) (session.Snapshot, error) {
	ctrl, err := s.Controller(id)
	if err != nil {
		return session.Snapshot{}, err
	}
	if fileID == "" {
		ctrl.DeselectFile()
	} else {
		ctrl.SelectFile(fileID)
	}
	return ctrl.Snapshot(), nil
}

// SetActiveTab switches the workspace tab
func (s *SessionService) SetActiveTab(id string, tab models.Tab) (session.Snapshot, error) {
	ctrl, err := s.Controller(id)
	if err != nil {
		return session.Snapshot{}, err
	}
	if err := ctrl.SetActiveTab(tab); err != nil {
		return session.Snapshot{}, err
	}
	return ctrl.Snapshot(), nil
}

// RecordUsage adds increment to the node's usage counter
func (s *SessionService) RecordUsage(id string, increment int) (models.UsageStats, error) {
	ctrl, err := s.Controller(id)
	if err != nil {
		return models.UsageStats{}, err
	}
	usage, ok := ctrl.RecordUsage(increment)
	if !ok {
		return models.UsageStats{}, apperrors.ErrNotAuthenticated
	}
	return usage, nil
}

// ValidateSessionToken checks that token was issued for node id and that the node
// is still in the session epoch the token was issued for
func (s *SessionService) ValidateSessionToken(id, token string) (*auth.Claims, error) {
	claims, err := s.jwtService.ValidateToken(token)
	if err != nil {
		return nil, err
	}
	if claims.SessionID != id {
		return nil, apperrors.NewForbiddenError("token was issued for another session")
	}

	ctrl, err := s.Controller(id)
	if err != nil {
		return nil, err
	}
	if !ctrl.IsAuthenticated() || ctrl.Epoch() != claims.Epoch {
		return nil, apperrors.ErrTokenRevoked
	}
	return claims, nil
}

// EvictIdle drops nodes inactive for longer than idle and runs the eviction hooks
func (s *SessionService) EvictIdle(ctx context.Context, idle time.Duration) int {
	evicted := s.registry.EvictIdle(s.now(), idle)
	for _, id := range evicted {
		for _, hook := range s.onEvict {
			hook(ctx, id)
		}
	}
	if len(evicted) > 0 {
		if s.metrics != nil {
			s.metrics.SessionsEvicted.Add(float64(len(evicted)))
		}
		s.updateActiveGauge()
		s.logger.Info().Int("evicted", len(evicted)).Int("remaining", s.registry.Len()).Msg("Idle session nodes evicted")
	}
	return len(evicted)
}

func (s *SessionService) updateActiveGauge() {
	if s.metrics != nil {
		s.metrics.ActiveSessions.Set(float64(s.registry.Len()))
	}
}

func (s *SessionService) findCourse(ctx context.Context, courseID string) (models.Course, error) {
	course, ok, err := s.catalog.Course(ctx, courseID)
	if err != nil {
		s.logger.Error().Err(err).Str("courseID", courseID).Msg("Failed to look up course")
		return models.Course{}, fmt.Errorf("failed to look up course: %w", err)
	}
	if !ok {
		return models.Course{}, apperrors.ErrCourseNotFound
	}
	return course, nil
}
