package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/yigit/nnpgpt/internal/app/models"
	"github.com/yigit/nnpgpt/internal/app/models/dto"
	"github.com/yigit/nnpgpt/internal/app/session"
	"github.com/yigit/nnpgpt/internal/pkg/apperrors"
	"github.com/yigit/nnpgpt/internal/pkg/ids"
)

// ChatContext is what the engine may ground a reply on
type ChatContext struct {
	Role         models.Role
	CourseName   string
	Vault        []models.FileMetadata
	SelectedFile *models.FileMetadata
	DeepStudy    bool
}

// ChatEngine produces assistant replies
type ChatEngine interface {
	Reply(ctx context.Context, cc ChatContext, prompt string) (models.Message, error)
}

// ChatService defines the interface for chat operations
type ChatService interface {
	Send(ctx context.Context, sessionID string, req *dto.ChatRequest) (*dto.ChatResponse, error)
}

// chatServiceImpl implements ChatService
type chatServiceImpl struct {
	nodes  controllerLookup
	engine ChatEngine
	logger zerolog.Logger
}

// NewChatService creates a new ChatService
func NewChatService(nodes controllerLookup, engine ChatEngine, logger zerolog.Logger) ChatService {
	return &chatServiceImpl{
		nodes:  nodes,
		engine: engine,
		logger: logger,
	}
}

// Send runs one exchange and records one usage unit for it
func (s *chatServiceImpl) Send(ctx context.Context, sessionID string, req *dto.ChatRequest) (*dto.ChatResponse, error) {
	ctrl, err := lookupController(s.nodes, sessionID)
	if err != nil {
		return nil, err
	}

	snap := ctrl.Snapshot()
	switch {
	case !snap.Authenticated:
		return nil, apperrors.ErrNotAuthenticated
	case snap.View != session.ViewWorkspace:
		return nil, apperrors.ErrCourseRequired
	case snap.ActiveTab != models.TabChat:
		return nil, apperrors.ErrChatTabInactive
	}

	cc := ChatContext{
		Role:         snap.Role,
		CourseName:   "Academic",
		Vault:        snap.Vault,
		SelectedFile: snap.SelectedFile,
		DeepStudy:    req.DeepStudy,
	}
	if snap.SelectedCourse != nil {
		cc.CourseName = snap.SelectedCourse.Name
	}

	s.logger.Debug().
		Str("sessionID", sessionID).
		Int("vaultSize", len(cc.Vault)).
		Bool("deepStudy", req.DeepStudy).
		Msg("Sending chat prompt")

	reply, err := s.engine.Reply(ctx, cc, req.Prompt)
	if err != nil {
		return nil, err
	}

	// the session may have been wiped while the engine was thinking
	usage, ok := ctrl.RecordUsageAt(snap.Epoch, 1)
	if !ok {
		return nil, apperrors.NewCustomError(apperrors.ErrConflict, "session changed while the reply was generated")
	}

	return &dto.ChatResponse{Message: reply, Usage: usage}, nil
}

// ContextEngine is the bundled engine. It does not generate answers; it only
// acknowledges which documents a real engine would have grounded on.
type ContextEngine struct {
	newID func() string
}

// NewContextEngine creates the bundled engine
func NewContextEngine() *ContextEngine {
	return &ContextEngine{newID: ids.New}
}

// Reply cites the selected file, or the whole vault when nothing is selected
func (e *ContextEngine) Reply(ctx context.Context, cc ChatContext, prompt string) (models.Message, error) {
	if err := ctx.Err(); err != nil {
		return models.Message{}, err
	}

	var citations []string
	if cc.SelectedFile != nil {
		citations = []string{cc.SelectedFile.Name}
	} else {
		for _, f := range cc.Vault {
			citations = append(citations, f.Name)
		}
	}

	mode := "Quick answer"
	if cc.DeepStudy {
		mode = "Deep study"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s for the %s context", mode, cc.CourseName)
	switch len(citations) {
	case 0:
		b.WriteString(", with no indexed documents to cite.")
	case 1:
		fmt.Fprintf(&b, ", grounded on %s.", citations[0])
	default:
		fmt.Fprintf(&b, ", grounded on %d indexed documents.", len(citations))
	}
	fmt.Fprintf(&b, " Prompt received: %q", strings.TrimSpace(prompt))

	return models.Message{
		ID:        e.newID(),
		Role:      models.MessageRoleAssistant,
		Content:   b.String(),
		Citations: citations,
		DeepStudy: cc.DeepStudy,
	}, nil
}
