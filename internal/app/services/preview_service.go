package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"

	"github.com/rs/zerolog"
	"github.com/yigit/nnpgpt/internal/app/models"
	"github.com/yigit/nnpgpt/internal/app/models/dto"
	"github.com/yigit/nnpgpt/internal/pkg/cache"
)

// PreviewService resolves the selected file into something the preview pane can render
type PreviewService struct {
	nodes  controllerLookup
	cache  cache.SessionCache
	logger zerolog.Logger
}

// NewPreviewService creates a new PreviewService
func NewPreviewService(nodes controllerLookup, sessionCache cache.SessionCache, logger zerolog.Logger) *PreviewService {
	return &PreviewService{nodes: nodes, cache: sessionCache, logger: logger}
}

// Preview returns the preview of the selected file. No selection, or a file with
// neither url nor content, is an empty preview.
func (s *PreviewService) Preview(ctx context.Context, sessionID string) (*dto.PreviewResponse, error) {
	ctrl, err := lookupController(s.nodes, sessionID)
	if err != nil {
		return nil, err
	}

	file, ok := ctrl.SelectedFile()
	if !ok {
		return &dto.PreviewResponse{Empty: true}, nil
	}

	key := previewKey(file)
	if raw, hit, err := s.cache.Get(ctx, sessionID, key); err != nil {
		s.logger.Warn().Err(err).Str("sessionID", sessionID).Msg("Preview cache read failed")
	} else if hit {
		var cached dto.PreviewResponse
		if err := json.Unmarshal(raw, &cached); err == nil {
			return &cached, nil
		}
	}

	resp := &dto.PreviewResponse{
		FileID:  file.ID,
		Name:    file.Name,
		Type:    file.Type,
		URL:     file.URL,
		Content: file.Content,
		Empty:   file.URL == "" && file.Content == "",
	}

	if raw, err := json.Marshal(resp); err == nil {
		if err := s.cache.Put(ctx, sessionID, key, raw); err != nil {
			s.logger.Warn().Err(err).Str("sessionID", sessionID).Msg("Preview cache write failed")
		}
	}
	return resp, nil
}

// previewKey changes whenever an edit changes what would be rendered
func previewKey(f models.FileMetadata) string {
	sum := sha256.Sum256([]byte(f.ID + "\x00" + f.Name + "\x00" + f.URL + "\x00" + f.Content))
	return "preview:" + hex.EncodeToString(sum[:8])
}
