package florafolio

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

type captureSink struct {
	events chan AuditEvent
}

func newCaptureSink(buffer int) *captureSink {
	return &captureSink{events: make(chan AuditEvent, buffer)}
}

func (s *captureSink) Emit(ctx context.Context, event AuditEvent) {
	select {
	case s.events <- event:
	case <-ctx.Done():
	}
}

func (s *captureSink) next(t *testing.T) AuditEvent {
	t.Helper()
	select {
	case event := <-s.events:
		return event
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for audit event")
		return AuditEvent{}
	}
}

type countingSink struct {
	count atomic.Int64
}

func (s *countingSink) Emit(context.Context, AuditEvent) {
	s.count.Add(1)
}

func TestDispatcherDeliversEvents(t *testing.T) {
	sink := newCaptureSink(8)
	d := newAuditDispatcher(sink)
	defer d.Close()

	d.Emit(AuditEvent{EventType: "login_success", Username: "alice", Success: true})

	event := sink.next(t)
	if event.EventType != "login_success" || event.Username != "alice" || !event.Success {
		t.Fatalf("unexpected event: %+v", event)
	}
	if event.Timestamp.IsZero() {
		t.Error("dispatcher did not stamp the event")
	}
}

func TestDispatcherDrainsOnClose(t *testing.T) {
	sink := &countingSink{}
	d := newAuditDispatcher(sink)

	const n = 50
	for i := 0; i < n; i++ {
		d.Emit(AuditEvent{EventType: "register"})
	}
	d.Close()

	if got := sink.count.Load(); got != n {
		t.Fatalf("delivered %d events, want %d", got, n)
	}
	// Emit after Close is a silent no-op.
	d.Emit(AuditEvent{EventType: "register"})
}

func TestNilDispatcherIsInert(t *testing.T) {
	var d *auditDispatcher
	d.Emit(AuditEvent{EventType: "logout"})
	d.Close()

	if d.Dropped() != 0 {
		t.Fatal("nil dispatcher reports drops")
	}
}

func TestJSONWriterSink(t *testing.T) {
	var buf bytes.Buffer
	sink := NewJSONWriterSink(&buf)

	sink.Emit(context.Background(), AuditEvent{
		Timestamp: time.Unix(1_700_000_000, 0).UTC(),
		EventType: "password_change",
		Username:  "alice",
		Success:   true,
	})
	sink.Emit(context.Background(), AuditEvent{EventType: "logout", Success: true})

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("wrote %d lines, want 2", len(lines))
	}

	var event AuditEvent
	if err := json.Unmarshal([]byte(lines[0]), &event); err != nil {
		t.Fatalf("first line is not JSON: %v", err)
	}
	if event.EventType != "password_change" || event.Username != "alice" {
		t.Fatalf("unexpected event: %+v", event)
	}
}

func TestEngineEmitsLoginAudit(t *testing.T) {
	sink := newCaptureSink(8)

	env := newTestEngineWithSink(t, sink)
	env.register(t, "alice", "secret1")

	if event := sink.next(t); event.EventType != "register" {
		t.Fatalf("first event = %q, want register", event.EventType)
	}

	if _, err := env.engine.Login(context.Background(), "alice", "secret1", "10.0.0.1"); err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	event := sink.next(t)
	if event.EventType != "login_success" || event.Username != "alice" || event.Address != "10.0.0.1" {
		t.Fatalf("unexpected event: %+v", event)
	}

	_, _ = env.engine.Login(context.Background(), "alice", "wrong-password", "10.0.0.1")
	event = sink.next(t)
	if event.EventType != "login_failure" || event.Success {
		t.Fatalf("unexpected event: %+v", event)
	}
}
