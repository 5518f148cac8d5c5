package services

import (
	"encoding/json"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/yigit/nnpgpt/internal/app/models"
	"github.com/yigit/nnpgpt/internal/app/session"
	"github.com/yigit/nnpgpt/internal/pkg/metrics"
)

type capturingBroadcaster struct {
	topics   []string
	payloads [][]byte
}

func (c *capturingBroadcaster) Broadcast(topic string, data []byte) bool {
	c.topics = append(c.topics, topic)
	c.payloads = append(c.payloads, data)
	return true
}

func TestEventBridgePublishesJSONToTheNode(t *testing.T) {
	out := &capturingBroadcaster{}
	bridge := NewEventBridge(out, zerolog.Nop())

	bridge.Publish(session.Event{Type: session.EventTabChanged, SessionID: "node-1", Epoch: 3})

	if len(out.topics) != 1 || out.topics[0] != "node-1" {
		t.Fatalf("topics = %v", out.topics)
	}
	var decoded session.Event
	if err := json.Unmarshal(out.payloads[0], &decoded); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if decoded.Type != session.EventTabChanged || decoded.Epoch != 3 {
		t.Fatalf("decoded = %+v", decoded)
	}
}

func TestMetricsSinkCountsEvents(t *testing.T) {
	m := metrics.New()
	sink := NewMetricsSink(m)

	sink.Publish(session.Event{Type: session.EventAuthenticated, Role: models.RoleStudent})
	sink.Publish(session.Event{Type: session.EventLoggedOut})
	sink.Publish(session.Event{Type: session.EventFilesUploaded, Files: []models.FileMetadata{
		{Source: models.SourcePersonal}, {Source: models.SourcePersonal},
	}})
	sink.Publish(session.Event{Type: session.EventUsageRecorded, Increment: 5})

	if got := testutil.ToFloat64(m.SessionResets); got != 2 {
		t.Fatalf("resets = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.Logins.WithLabelValues("student")); got != 1 {
		t.Fatalf("student logins = %v", got)
	}
	if got := testutil.ToFloat64(m.FilesUploaded.WithLabelValues("personal")); got != 2 {
		t.Fatalf("personal uploads = %v", got)
	}
	if got := testutil.ToFloat64(m.UsageRecorded); got != 5 {
		t.Fatalf("usage = %v", got)
	}
}
