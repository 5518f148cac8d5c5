package session

import (
	"fmt"
	"strings"
	"time"

	"github.com/yigit/nnpgpt/internal/app/models"
)

const (
	tagUpload        = "Upload"
	tagInstitutional = "Institutional"
	tagNew           = "NEW"
	defaultScopeName = "Academic"
)

// KindFromMediaType infers the coarse document kind from a declared media type
func KindFromMediaType(mediaType string) models.FileKind {
	mt := strings.ToLower(mediaType)
	switch {
	case strings.Contains(mt, "pdf"):
		return models.FileKindPDF
	case strings.Contains(mt, "image"):
		return models.FileKindImage
	default:
		return models.FileKindDoc
	}
}

// placeholderContent stands in for text extraction, which is not performed
func placeholderContent(fileName string, course *models.Course) string {
	scope := defaultScopeName
	if course != nil && course.Name != "" {
		scope = course.Name
	}
	return fmt.Sprintf("Extracted content from %s. This institutional asset is now indexed for AI retrieval and cross-referencing within the %s context.", fileName, scope)
}

// buildUpload synthesizes the metadata record for one uploaded file
func buildUpload(id string, in models.UploadedFile, role models.Role, course *models.Course, now time.Time) models.FileMetadata {
	source, roleTag := models.SourceInstitutional, tagInstitutional
	if role == models.RoleStudent {
		source, roleTag = models.SourcePersonal, tagUpload
	}
	uploaded := now
	return models.FileMetadata{
		ID:         id,
		Name:       in.Name,
		Type:       KindFromMediaType(in.MediaType),
		Source:     source,
		Tags:       []string{roleTag, tagNew},
		Content:    placeholderContent(in.Name, course),
		URL:        in.URL,
		UploadedBy: string(role),
		UploadDate: &uploaded,
	}
}
