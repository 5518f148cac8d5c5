package filestorage

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/yigit/nnpgpt/internal/pkg/logger"
)

// LocalStorage handles saving documents to the local filesystem.
type LocalStorage struct {
	basePath string // root directory, one sub-directory per session
	baseURL  string // prefix for returned URLs; empty means relative "documents/..." paths
}

// NewLocalStorage creates a new LocalStorage instance, creating basePath if needed.
func NewLocalStorage(basePath, baseURL string) (*LocalStorage, error) {
	if err := os.MkdirAll(basePath, os.ModePerm); err != nil {
		logger.Error().Err(err).Str("path", basePath).Msg("Failed to create storage directory")
		return nil, fmt.Errorf("failed to create storage directory %s: %w", basePath, err)
	}
	logger.Info().Str("path", basePath).Msg("Local document storage directory ensured")

	return &LocalStorage{
		basePath: basePath,
		baseURL:  strings.TrimRight(baseURL, "/"),
	}, nil
}

// BasePath returns the storage root, used for static serving
func (ls *LocalStorage) BasePath() string {
	return ls.basePath
}

// SaveDocument saves an uploaded file to the session's sub-directory
func (ls *LocalStorage) SaveDocument(sessionID string, fileHeader *multipart.FileHeader) (string, error) {
	if fileHeader == nil {
		return "", nil
	}
	if !validSegment(sessionID) {
		return "", fmt.Errorf("invalid session folder %q", sessionID)
	}

	file, err := fileHeader.Open()
	if err != nil {
		logger.Error().Err(err).Str("filename", fileHeader.Filename).Msg("Failed to open uploaded file")
		return "", fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer file.Close()

	dir := filepath.Join(ls.basePath, sessionID)
	if err := os.MkdirAll(dir, os.ModePerm); err != nil {
		logger.Error().Err(err).Str("path", dir).Msg("Failed to create session directory")
		return "", fmt.Errorf("failed to create session directory: %w", err)
	}

	// unique name on disk, the original name stays in the metadata
	storedName := uuid.New().String() + strings.ToLower(filepath.Ext(fileHeader.Filename))
	dstPath := filepath.Join(dir, storedName)

	dst, err := os.Create(dstPath)
	if err != nil {
		logger.Error().Err(err).Str("path", dstPath).Msg("Failed to create destination file")
		return "", fmt.Errorf("failed to create destination file: %w", err)
	}
	defer dst.Close()

	if _, err = io.Copy(dst, file); err != nil {
		logger.Error().Err(err).Str("path", dstPath).Msg("Failed to copy uploaded file content")
		_ = os.Remove(dstPath)
		return "", fmt.Errorf("failed to save file content: %w", err)
	}

	var url string
	if ls.baseURL != "" {
		url = ls.baseURL + "/" + sessionID + "/" + storedName
	} else {
		url = "documents/" + sessionID + "/" + storedName
	}

	logger.Debug().Str("filename", fileHeader.Filename).Str("saved_as", storedName).Str("url", url).Msg("Document saved")
	return url, nil
}

// DeleteDocument removes a stored document given its URL.
// Missing files count as deleted.
func (ls *LocalStorage) DeleteDocument(fileURL string) error {
	physicalPath := ls.GetFullPath(fileURL)
	if physicalPath == "" {
		return fmt.Errorf("invalid file path: %s", fileURL)
	}

	if _, err := os.Stat(physicalPath); os.IsNotExist(err) {
		logger.Warn().Str("path", physicalPath).Msg("Document to delete does not exist")
		return nil
	}
	if err := os.Remove(physicalPath); err != nil {
		logger.Error().Err(err).Str("path", physicalPath).Msg("Failed to delete document")
		return fmt.Errorf("failed to delete document: %w", err)
	}
	return nil
}

// PurgeSession removes the session's whole folder
func (ls *LocalStorage) PurgeSession(sessionID string) error {
	if !validSegment(sessionID) {
		return fmt.Errorf("invalid session folder %q", sessionID)
	}
	if err := os.RemoveAll(filepath.Join(ls.basePath, sessionID)); err != nil {
		return fmt.Errorf("failed to purge session documents: %w", err)
	}
	return nil
}

// IsStored reports whether url points into this store, as opposed to a
// catalog link that merely looks like a path
func (ls *LocalStorage) IsStored(fileURL string) bool {
	prefix := "documents/"
	if ls.baseURL != "" {
		prefix = ls.baseURL + "/"
	}
	return strings.HasPrefix(fileURL, prefix) && ls.GetFullPath(fileURL) != ""
}

// GetFullPath maps a document URL back to its location on disk.
// Only the last two segments (session folder and file name) are trusted.
func (ls *LocalStorage) GetFullPath(fileURL string) string {
	parts := strings.Split(strings.TrimRight(fileURL, "/"), "/")
	if len(parts) < 2 {
		return ""
	}
	session, name := parts[len(parts)-2], parts[len(parts)-1]
	if !validSegment(session) || !validSegment(name) {
		return ""
	}
	return filepath.Join(ls.basePath, session, name)
}

func validSegment(s string) bool {
	return s != "" && s != "." && s != ".." && !strings.ContainsAny(s, `/\`)
}
