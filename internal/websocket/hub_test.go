package websocket

import (
	"testing"
	"time"

	"go.uber.org/zap"
)

// TestShouldBroadcastEvent tests per-type broadcast gating
func TestShouldBroadcastEvent(t *testing.T) {
	logger := zap.NewNop()

	t.Run("NilConfigDropsEverything", func(t *testing.T) {
		hub := NewHub(nil, logger)
		for _, et := range []EventType{
			EventTypeRunStarted, EventTypeCompliance, EventTypeCreative,
			EventTypeRunComplete, EventTypeConnection,
		} {
			if hub.shouldBroadcastEvent(et) {
				t.Errorf("Nil config should drop %s", et)
			}
		}
	})

	t.Run("SelectiveGating", func(t *testing.T) {
		hub := NewHub(&HubConfig{
			BroadcastRuns:      true,
			BroadcastCreatives: true,
		}, logger)

		if !hub.shouldBroadcastEvent(EventTypeRunStarted) {
			t.Error("Run events should pass")
		}
		if !hub.shouldBroadcastEvent(EventTypeRunComplete) {
			t.Error("Run-complete events should pass")
		}
		if !hub.shouldBroadcastEvent(EventTypeCreative) {
			t.Error("Creative events should pass")
		}
		if hub.shouldBroadcastEvent(EventTypeCompliance) {
			t.Error("Compliance events should be dropped")
		}
		if hub.shouldBroadcastEvent(EventTypeConnection) {
			t.Error("System events should be dropped")
		}
	})

	t.Run("UnknownTypeDropped", func(t *testing.T) {
		hub := NewHub(&HubConfig{
			BroadcastRuns: true, BroadcastCompliance: true,
			BroadcastCreatives: true, BroadcastSystem: true,
		}, logger)
		if hub.shouldBroadcastEvent(EventType("mystery")) {
			t.Error("Unknown event types should be dropped")
		}
	})
}

// TestBroadcastEvent tests that gated events never reach the channel
func TestBroadcastEvent(t *testing.T) {
	hub := NewHub(&HubConfig{BroadcastRuns: true}, zap.NewNop())

	hub.BroadcastEvent(Event{Type: EventTypeCompliance, Timestamp: time.Now()})
	select {
	case ev := <-hub.broadcast:
		t.Errorf("Gated event leaked to the channel: %v", ev.Type)
	default:
	}

	hub.BroadcastEvent(Event{Type: EventTypeRunStarted, Timestamp: time.Now()})
	select {
	case ev := <-hub.broadcast:
		if ev.Type != EventTypeRunStarted {
			t.Errorf("Unexpected event type: %v", ev.Type)
		}
	default:
		t.Error("Allowed event never reached the channel")
	}
}
