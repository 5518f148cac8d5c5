package dto

import (
	"github.com/yigit/nnpgpt/internal/app/models"
	"github.com/yigit/nnpgpt/internal/app/session"
)

// LoginRequest starts a fresh session on a node
type LoginRequest struct {
	Role     string `json:"role" binding:"required,oneof=student lecturer admin"`
	CourseID string `json:"courseId" binding:"omitempty,courseid"`
	Passcode string `json:"passcode" binding:"omitempty,max=128"`
	Name     string `json:"name" binding:"omitempty,max=120"`
	Email    string `json:"email" binding:"omitempty,email"`
}

// LoginResponse carries the token bound to the new session epoch
type LoginResponse struct {
	AccessToken string           `json:"accessToken"`
	TokenType   string           `json:"tokenType"`
	ExpiresIn   int              `json:"expiresIn"`
	User        models.User      `json:"user"`
	Session     session.Snapshot `json:"session"`
}

// SelectCourseRequest binds the session to a course; a null or empty id goes back to course selection
type SelectCourseRequest struct {
	CourseID *string `json:"courseId" binding:"omitempty"`
}

// SelectFileRequest points the preview at a file; an empty id deselects
type SelectFileRequest struct {
	FileID string `json:"fileId" binding:"max=64"`
}

// SetTabRequest switches the workspace tab
type SetTabRequest struct {
	Tab string `json:"tab" binding:"required,oneof=chat library settings"`
}

// RecordUsageRequest adds to the usage counter
type RecordUsageRequest struct {
	Increment int `json:"increment" binding:"min=0,max=100000"`
}

// UpdateFileRequest edits a vault entry in place
type UpdateFileRequest struct {
	Name    *string   `json:"name" binding:"omitempty,min=1,max=255"`
	Tags    *[]string `json:"tags" binding:"omitempty,max=20,dive,min=1,max=40"`
	Content *string   `json:"content" binding:"omitempty,max=20000"`
	URL     *string   `json:"url" binding:"omitempty,max=2048"`
	Locked  *bool     `json:"locked"`
}

// ToPatch converts the request into the domain patch
func (r UpdateFileRequest) ToPatch() models.FilePatch {
	return models.FilePatch{
		Name:    r.Name,
		Tags:    r.Tags,
		Content: r.Content,
		URL:     r.URL,
		Locked:  r.Locked,
	}
}

// UploadResponse lists the records created by an upload
type UploadResponse struct {
	Files   []models.FileMetadata `json:"files"`
	Session session.Snapshot      `json:"session"`
}

// PreviewResponse is what the preview pane renders; Empty means nothing to show
type PreviewResponse struct {
	FileID  string          `json:"fileId,omitempty"`
	Name    string          `json:"name,omitempty"`
	Type    models.FileKind `json:"type,omitempty"`
	URL     string          `json:"url,omitempty"`
	Content string          `json:"content,omitempty"`
	Empty   bool            `json:"empty"`
}
