package models

import "time"

// FileKind is the coarse document type used by the preview pane
type FileKind string

const (
	FileKindPDF   FileKind = "pdf"
	FileKindDoc   FileKind = "doc"
	FileKindImage FileKind = "image"
)

// FileSource tells whether a document belongs to the institution or to the student
type FileSource string

const (
	SourceInstitutional FileSource = "institutional"
	SourcePersonal      FileSource = "personal"
)

// FileMetadata describes one document surfaced in a vault or research collection
type FileMetadata struct {
	ID         string     `json:"id" yaml:"id" db:"id"`
	Name       string     `json:"name" yaml:"name" db:"name"`
	Type       FileKind   `json:"type" yaml:"type" db:"type"`
	Source     FileSource `json:"source" yaml:"source" db:"source"`
	Tags       []string   `json:"tags" yaml:"tags" db:"tags"`
	Content    string     `json:"content,omitempty" yaml:"content" db:"content"`
	URL        string     `json:"url,omitempty" yaml:"url" db:"url"`
	Locked     bool       `json:"locked,omitempty" yaml:"locked" db:"locked"`
	UploadedBy string     `json:"uploadedBy,omitempty" yaml:"uploadedBy" db:"uploaded_by"`
	UploadDate *time.Time `json:"uploadDate,omitempty" yaml:"uploadDate" db:"upload_date"`
}

// Clone returns a copy that shares no mutable state with f
func (f FileMetadata) Clone() FileMetadata {
	c := f
	if f.Tags != nil {
		c.Tags = append([]string(nil), f.Tags...)
	}
	if f.UploadDate != nil {
		d := *f.UploadDate
		c.UploadDate = &d
	}
	return c
}

// FilePatch holds the optional fields of an in-place vault edit
type FilePatch struct {
	Name    *string   `json:"name,omitempty"`
	Tags    *[]string `json:"tags,omitempty"`
	Content *string   `json:"content,omitempty"`
	URL     *string   `json:"url,omitempty"`
	Locked  *bool     `json:"locked,omitempty"`
}

// Apply merges the set fields of p into f
func (p FilePatch) Apply(f FileMetadata) FileMetadata {
	if p.Name != nil {
		f.Name = *p.Name
	}
	if p.Tags != nil {
		f.Tags = append([]string(nil), (*p.Tags)...)
	}
	if p.Content != nil {
		f.Content = *p.Content
	}
	if p.URL != nil {
		f.URL = *p.URL
	}
	if p.Locked != nil {
		f.Locked = *p.Locked
	}
	return f
}

// UploadedFile is a raw file handle handed over by the transport layer
type UploadedFile struct {
	Name      string
	MediaType string
	Size      int64
	// URL is where the document store persisted the bytes, if it did
	URL string
}
