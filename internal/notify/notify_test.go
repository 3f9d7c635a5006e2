package notify

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"

	"station_monitor/internal/models"
)

type captureWriter struct {
	msgs   []kafka.Message
	err    error
	closed bool
}

func (c *captureWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if c.err != nil {
		return c.err
	}
	c.msgs = append(c.msgs, msgs...)
	return nil
}

func (c *captureWriter) Close() error {
	c.closed = true
	return nil
}

func TestKafkaPublisher_KeysByStation(t *testing.T) {
	w := &captureWriter{}
	p := &KafkaPublisher{w: w, timeout: time.Second}

	e := models.LogEntry{ID: 9, Station: "S1", Status: models.StatusAlarm1, Actual: 301}
	if err := p.Publish(context.Background(), e); err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if len(w.msgs) != 1 {
		t.Fatalf("messages = %d, want 1", len(w.msgs))
	}
	if string(w.msgs[0].Key) != "S1" {
		t.Fatalf("key = %q, want S1", w.msgs[0].Key)
	}
	var got alarmEvent
	if err := json.Unmarshal(w.msgs[0].Value, &got); err != nil {
		t.Fatalf("payload: %v", err)
	}
	if got.Type != "station_alarm" || got.Entry.ID != 9 || got.Entry.Actual != 301 {
		t.Fatalf("payload = %+v", got)
	}

	_ = p.Close()
	if !w.closed {
		t.Fatalf("Close not forwarded")
	}
}

func TestKafkaPublisher_WrapsWriteError(t *testing.T) {
	down := errors.New("broker down")
	p := &KafkaPublisher{w: &captureWriter{err: down}, timeout: time.Second}
	if err := p.Publish(context.Background(), models.LogEntry{Station: "S1"}); !errors.Is(err, down) {
		t.Fatalf("err = %v, want wrapped broker error", err)
	}
}

func TestNewKafkaPublisher_Validates(t *testing.T) {
	if _, err := NewKafkaPublisher([]string{" ", ""}, "alarms"); err == nil {
		t.Fatalf("expected error for empty brokers")
	}
	if _, err := NewKafkaPublisher([]string{"localhost:9092"}, ""); err == nil {
		t.Fatalf("expected error for empty topic")
	}
	p, err := NewKafkaPublisher([]string{"localhost:9092"}, "station-alarms")
	if err != nil {
		t.Fatalf("NewKafkaPublisher: %v", err)
	}
	_ = p.Close()
}

// gatePublisher holds every Publish until release is closed.
type gatePublisher struct {
	release chan struct{}
	mu      sync.Mutex
	sent    []int64
	err     error
	closed  bool
}

func newGatePublisher() *gatePublisher {
	return &gatePublisher{release: make(chan struct{})}
}

func (g *gatePublisher) Publish(_ context.Context, e models.LogEntry) error {
	<-g.release
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.err != nil {
		return g.err
	}
	g.sent = append(g.sent, e.ID)
	return nil
}

func (g *gatePublisher) Close() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.closed = true
	return nil
}

func TestAsync_PublishDoesNotWaitForBroker(t *testing.T) {
	inner := newGatePublisher()
	a := NewAsync(inner, 4, nil)

	start := time.Now()
	for i := int64(1); i <= 3; i++ {
		if err := a.Publish(context.Background(), models.LogEntry{ID: i, Station: "S1"}); err != nil {
			t.Fatalf("Publish(%d): %v", i, err)
		}
	}
	if d := time.Since(start); d > 100*time.Millisecond {
		t.Fatalf("Publish blocked for %v", d)
	}

	close(inner.release)
	if err := a.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if len(inner.sent) != 3 || inner.sent[0] != 1 || inner.sent[2] != 3 {
		t.Fatalf("delivered = %v, want [1 2 3]", inner.sent)
	}
	if !inner.closed {
		t.Fatalf("Close not forwarded")
	}
	if err := a.Publish(context.Background(), models.LogEntry{ID: 4}); !errors.Is(err, ErrClosed) {
		t.Fatalf("publish after close: %v", err)
	}
}

func TestAsync_DropsWhenQueueFull(t *testing.T) {
	inner := newGatePublisher()
	a := NewAsync(inner, 1, nil)
	defer func() {
		close(inner.release)
		_ = a.Close()
	}()

	var full bool
	// the worker holds one event, the queue one more
	for i := int64(1); i <= 4; i++ {
		if err := a.Publish(context.Background(), models.LogEntry{ID: i}); errors.Is(err, ErrQueueFull) {
			full = true
			break
		}
	}
	if !full {
		t.Fatalf("expected ErrQueueFull")
	}
}

func TestAsync_ReportsDeliveryErrors(t *testing.T) {
	inner := newGatePublisher()
	inner.err = errors.New("broker down")
	close(inner.release)

	var mu sync.Mutex
	var failed []int64
	a := NewAsync(inner, 0, func(e models.LogEntry, err error) {
		mu.Lock()
		defer mu.Unlock()
		failed = append(failed, e.ID)
	})
	_ = a.Publish(context.Background(), models.LogEntry{ID: 7})
	_ = a.Close()

	if len(failed) != 1 || failed[0] != 7 {
		t.Fatalf("failed = %v, want [7]", failed)
	}
}
