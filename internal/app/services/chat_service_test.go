package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/yigit/nnpgpt/internal/app/models"
	"github.com/yigit/nnpgpt/internal/app/models/dto"
	"github.com/yigit/nnpgpt/internal/pkg/apperrors"
)

type failingEngine struct{ err error }

// hookEngine calls during, then answers like ContextEngine
type hookEngine struct{ during func() }

func (e hookEngine) Reply(ctx context.Context, cc ChatContext, prompt string) (models.Message, error) {
	e.during()
	return NewContextEngine().Reply(ctx, cc, prompt)
}

func (e failingEngine) Reply(context.Context, ChatContext, string) (models.Message, error) {
	return models.Message{}, e.err
}

func TestChatGates(t *testing.T) {
	f := newFixture(t)
	chat := NewChatService(f.registry, NewContextEngine(), zerolog.Nop())
	ctx := context.Background()
	id := f.newNode(t)
	req := &dto.ChatRequest{Prompt: "What is on the exam?"}

	if _, err := chat.Send(ctx, "missing", req); !errors.Is(err, apperrors.ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
	if _, err := chat.Send(ctx, id, req); !errors.Is(err, apperrors.ErrNotAuthenticated) {
		t.Fatalf("expected ErrNotAuthenticated, got %v", err)
	}

	if _, err := f.sessions.Login(ctx, id, &dto.LoginRequest{Role: "student"}); err != nil {
		t.Fatalf("login: %v", err)
	}
	if _, err := chat.Send(ctx, id, req); !errors.Is(err, apperrors.ErrCourseRequired) {
		t.Fatalf("expected ErrCourseRequired, got %v", err)
	}

	course := "cs101"
	if _, err := f.sessions.SelectCourse(ctx, id, &course); err != nil {
		t.Fatalf("select course: %v", err)
	}
	if _, err := f.sessions.SetActiveTab(id, models.TabLibrary); err != nil {
		t.Fatalf("set tab: %v", err)
	}
	if _, err := chat.Send(ctx, id, req); !errors.Is(err, apperrors.ErrChatTabInactive) {
		t.Fatalf("expected ErrChatTabInactive, got %v", err)
	}
}

func TestChatRecordsUsageAndCitesContext(t *testing.T) {
	f := newFixture(t)
	chat := NewChatService(f.registry, NewContextEngine(), zerolog.Nop())
	ctx := context.Background()
	id := f.newNode(t)

	if _, err := f.sessions.Login(ctx, id, &dto.LoginRequest{Role: "student", CourseID: "cs101"}); err != nil {
		t.Fatalf("login: %v", err)
	}

	resp, err := chat.Send(ctx, id, &dto.ChatRequest{Prompt: "summarise"})
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	if resp.Usage.Used != 1 {
		t.Fatalf("usage = %+v, want 1 used", resp.Usage)
	}
	if len(resp.Message.Citations) != 2 || resp.Message.Role != models.MessageRoleAssistant {
		t.Fatalf("expected the whole vault to be cited: %+v", resp.Message)
	}
	if !strings.Contains(resp.Message.Content, "Intro to Computing") {
		t.Fatalf("reply does not name the course: %q", resp.Message.Content)
	}

	f.sessions.SelectFile(id, "v2")
	resp, err = chat.Send(ctx, id, &dto.ChatRequest{Prompt: "explain", DeepStudy: true})
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	if len(resp.Message.Citations) != 1 || resp.Message.Citations[0] != "Lecture 1.pdf" || !resp.Message.DeepStudy {
		t.Fatalf("expected only the selected file to be cited: %+v", resp.Message)
	}
	if resp.Usage.Used != 2 {
		t.Fatalf("usage = %+v, want 2 used", resp.Usage)
	}
}

func TestAdminChatsWithoutCourse(t *testing.T) {
	f := newFixture(t)
	chat := NewChatService(f.registry, NewContextEngine(), zerolog.Nop())
	ctx := context.Background()
	id := f.newNode(t)

	if _, err := f.sessions.Login(ctx, id, &dto.LoginRequest{Role: "admin"}); err != nil {
		t.Fatalf("login: %v", err)
	}
	resp, err := chat.Send(ctx, id, &dto.ChatRequest{Prompt: "status"})
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	if !strings.Contains(resp.Message.Content, "Academic") {
		t.Fatalf("expected the default scope in %q", resp.Message.Content)
	}
}

func TestChatEngineErrorIsReturnedUnchanged(t *testing.T) {
	f := newFixture(t)
	boom := errors.New("engine offline")
	chat := NewChatService(f.registry, failingEngine{err: boom}, zerolog.Nop())
	ctx := context.Background()
	id := f.newNode(t)

	if _, err := f.sessions.Login(ctx, id, &dto.LoginRequest{Role: "admin"}); err != nil {
		t.Fatalf("login: %v", err)
	}
	if _, err := chat.Send(ctx, id, &dto.ChatRequest{Prompt: "hi"}); err != boom {
		t.Fatalf("error = %v, want %v", err, boom)
	}
	snap, _ := f.sessions.GetSession(id)
	if snap.Usage.Used != 0 {
		t.Fatalf("failed exchange recorded usage: %+v", snap.Usage)
	}
}

func TestChatRacingLogoutRecordsNothing(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := f.newNode(t)
	chat := NewChatService(f.registry, hookEngine{during: func() {
		if _, err := f.sessions.Logout(ctx, id); err != nil {
			t.Errorf("logout: %v", err)
		}
	}}, zerolog.Nop())

	if _, err := f.sessions.Login(ctx, id, &dto.LoginRequest{Role: "admin"}); err != nil {
		t.Fatalf("login: %v", err)
	}
	if _, err := chat.Send(ctx, id, &dto.ChatRequest{Prompt: "hi"}); !errors.Is(err, apperrors.ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
	snap, _ := f.sessions.GetSession(id)
	if snap.Usage != models.FreshUsage() {
		t.Fatalf("logged out node has usage %+v", snap.Usage)
	}
}
