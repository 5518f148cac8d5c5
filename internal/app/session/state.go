package session

import (
	"github.com/yigit/nnpgpt/internal/app/models"
)

// State is the position of a session in the authentication x course-gate machine
type State string

const (
	StateUnauthenticated    State = "unauthenticated"
	StateNoCourse           State = "authenticated_no_course"
	StateWithCourse         State = "authenticated_with_course"
	StateAuthenticatedAdmin State = "authenticated_admin"
)

// View is the screen a client is allowed to render for a state
type View string

const (
	ViewAuth            View = "auth"
	ViewCourseSelection View = "course-selection"
	ViewWorkspace       View = "workspace"
)

// deriveState computes the machine state from the raw session fields
func deriveState(authenticated bool, role models.Role, course *models.Course) State {
	switch {
	case !authenticated:
		return StateUnauthenticated
	case role == models.RoleAdmin:
		return StateAuthenticatedAdmin
	case course == nil:
		return StateNoCourse
	default:
		return StateWithCourse
	}
}

// ViewFor maps a state to the only view it may reach.
// Non-admin sessions without a course never reach the workspace.
func ViewFor(s State) View {
	switch s {
	case StateNoCourse:
		return ViewCourseSelection
	case StateWithCourse, StateAuthenticatedAdmin:
		return ViewWorkspace
	default:
		return ViewAuth
	}
}

// Snapshot is a deep, read-only copy of a session
type Snapshot struct {
	ID             string                `json:"id"`
	Authenticated  bool                  `json:"authenticated"`
	Role           models.Role           `json:"role,omitempty"`
	SelectedCourse *models.Course        `json:"selectedCourse,omitempty"`
	ActiveTab      models.Tab            `json:"activeTab"`
	Vault          []models.FileMetadata `json:"vault"`
	Research       []models.FileMetadata `json:"research"`
	Usage          models.UsageStats     `json:"usage"`
	SelectedFile   *models.FileMetadata  `json:"selectedFile,omitempty"`
	Transitioning  bool                  `json:"transitioning"`
	State          State                 `json:"state"`
	View           View                  `json:"view"`
	Epoch          uint64                `json:"epoch"`
}

func cloneFiles(in []models.FileMetadata) []models.FileMetadata {
	out := make([]models.FileMetadata, len(in))
	for i, f := range in {
		out[i] = f.Clone()
	}
	return out
}

func findFile(files []models.FileMetadata, id string) (int, bool) {
	for i := range files {
		if files[i].ID == id {
			return i, true
		}
	}
	return -1, false
}
