// Package services holds the use cases behind the HTTP handlers. Services own
// the session registry and translate requests into SessionController calls.
//
// Services defined in this package:
//   - Registry: keeps one SessionController per connected node
//   - SessionService: node lifecycle, login, course/vault/tab mutations
//   - CourseService: paginated catalog listing
//   - ChatService: gated chat exchange on top of a ChatEngine
//   - PreviewService: memoised document previews
//   - ThemeService: per-client light/dark preference
package services

import (
	"github.com/yigit/nnpgpt/internal/app/session"
	"github.com/yigit/nnpgpt/internal/pkg/apperrors"
)

// controllerLookup resolves a node id to its controller
type controllerLookup interface {
	Get(id string) (*session.Controller, bool)
}

func lookupController(nodes controllerLookup, id string) (*session.Controller, error) {
	ctrl, ok := nodes.Get(id)
	if !ok {
		return nil, apperrors.ErrSessionNotFound
	}
	return ctrl, nil
}
