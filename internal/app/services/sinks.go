package services

import (
	"encoding/json"

	"github.com/rs/zerolog"
	"github.com/yigit/nnpgpt/internal/app/session"
	"github.com/yigit/nnpgpt/internal/pkg/metrics"
)

// Broadcaster delivers a payload to every live client of a session node
type Broadcaster interface {
	Broadcast(topic string, data []byte) bool
}

// EventBridge forwards session events to the node's websocket clients
type EventBridge struct {
	out    Broadcaster
	logger zerolog.Logger
}

// NewEventBridge creates a sink publishing JSON events on out
func NewEventBridge(out Broadcaster, logger zerolog.Logger) *EventBridge {
	return &EventBridge{out: out, logger: logger}
}

// Publish implements session.EventSink
func (b *EventBridge) Publish(ev session.Event) {
	data, err := json.Marshal(ev)
	if err != nil {
		b.logger.Error().Err(err).Str("type", string(ev.Type)).Msg("Failed to encode session event")
		return
	}
	b.out.Broadcast(ev.SessionID, data)
}

// MetricsSink counts session events
type MetricsSink struct {
	m *metrics.Metrics
}

// NewMetricsSink creates a sink updating m
func NewMetricsSink(m *metrics.Metrics) *MetricsSink {
	return &MetricsSink{m: m}
}

// Publish implements session.EventSink
func (s *MetricsSink) Publish(ev session.Event) {
	switch ev.Type {
	case session.EventReset, session.EventLoggedOut:
		s.m.SessionResets.Inc()
	case session.EventAuthenticated:
		// every login starts with a wipe
		s.m.SessionResets.Inc()
		s.m.Logins.WithLabelValues(string(ev.Role)).Inc()
	case session.EventFilesUploaded:
		for _, f := range ev.Files {
			s.m.FilesUploaded.WithLabelValues(string(f.Source)).Inc()
		}
	case session.EventUsageRecorded:
		s.m.UsageRecorded.Add(float64(ev.Increment))
	}
}
