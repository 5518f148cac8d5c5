package session

import (
	"time"

	"github.com/yigit/nnpgpt/internal/app/models"
)

// EventType names a session lifecycle event
type EventType string

const (
	EventReset          EventType = "session.reset"
	EventAuthenticated  EventType = "session.authenticated"
	EventLoggedOut      EventType = "session.logged_out"
	EventOverlayCleared EventType = "session.overlay_cleared"
	EventCourseSelected EventType = "course.selected"
	EventFilesUploaded  EventType = "files.uploaded"
	EventFileUpdated    EventType = "file.updated"
	EventFileDeleted    EventType = "file.deleted"
	EventSelection      EventType = "selection.changed"
	EventTabChanged     EventType = "tab.changed"
	EventUsageRecorded  EventType = "usage.recorded"
)

// Event is published after a mutation has been applied
type Event struct {
	Type      EventType             `json:"type"`
	SessionID string                `json:"sessionId"`
	Epoch     uint64                `json:"epoch"`
	At        time.Time             `json:"at"`
	Role      models.Role           `json:"role,omitempty"`
	CourseID  string                `json:"courseId,omitempty"`
	FileID    string                `json:"fileId,omitempty"`
	Files     []models.FileMetadata `json:"files,omitempty"`
	Increment int                   `json:"increment,omitempty"`
}

// EventSink receives session events. Publish must not block.
type EventSink interface {
	Publish(ev Event)
}

// MultiSink fans one event out to several sinks
type MultiSink []EventSink

func (m MultiSink) Publish(ev Event) {
	for _, s := range m {
		if s != nil {
			s.Publish(ev)
		}
	}
}

type discardSink struct{}

func (discardSink) Publish(Event) {}
