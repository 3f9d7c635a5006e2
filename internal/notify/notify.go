// Package notify fans alarm rows out to downstream consumers.
package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/segmentio/kafka-go"

	"station_monitor/internal/models"
)

// Publisher delivers a stored log row. Implementations must be safe for
// concurrent use.
type Publisher interface {
	Publish(ctx context.Context, e models.LogEntry) error
	Close() error
}

// Nop drops everything. Used when no broker is configured.
type Nop struct{}

func (Nop) Publish(context.Context, models.LogEntry) error { return nil }
func (Nop) Close() error { return nil }

// messageWriter is the part of *kafka.Writer the publisher uses.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type KafkaPublisher struct {
	w       messageWriter
	timeout time.Duration
}

// NewKafkaPublisher writes to topic, keyed by station so one station's rows
// stay ordered on a partition.
func NewKafkaPublisher(brokers []string, topic string) (*KafkaPublisher, error) {
	var addrs []string
	for _, b := range brokers {
		if b = strings.TrimSpace(b); b != "" {
			addrs = append(addrs, b)
		}
	}
	if len(addrs) == 0 {
		return nil, fmt.Errorf("kafka: no brokers")
	}
	if topic == "" {
		return nil, fmt.Errorf("kafka: empty topic")
	}
	return &KafkaPublisher{
		w: &kafka.Writer{
			Addr:         kafka.TCP(addrs...),
			Topic:        topic,
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireOne,
			BatchTimeout: 10 * time.Millisecond,
		},
		timeout: 5 * time.Second,
	}, nil
}

// alarmEvent is the wire payload.
type alarmEvent struct {
	Type  string          `json:"type"`
	Entry models.LogEntry `json:"entry"`
}

func (p *KafkaPublisher) Publish(ctx context.Context, e models.LogEntry) error {
	value, err := json.Marshal(alarmEvent{Type: "station_alarm", Entry: e})
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	if err := p.w.WriteMessages(ctx, kafka.Message{
		Key:   []byte(e.Station),
		Value: value,
		Time:  e.CreatedAt,
	}); err != nil {
		return fmt.Errorf("publish station %s log %d: %w", e.Station, e.ID, err)
	}
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.w.Close()
}

const defaultQueueSize = 256

var (
	// ErrQueueFull means the event was dropped because the worker is behind.
	ErrQueueFull = errors.New("notify: publish queue full")
	ErrClosed    = errors.New("notify: publisher closed")
)

// Async hands events to a single worker goroutine, so Publish never waits
// on the broker. Delivery errors are reported through onErr.
type Async struct {
	next  Publisher
	queue chan models.LogEntry
	onErr func(models.LogEntry, error)
	done  chan struct{}

	mu     sync.RWMutex
	closed bool
}

func NewAsync(next Publisher, size int, onErr func(models.LogEntry, error)) *Async {
	if size <= 0 {
		size = defaultQueueSize
	}
	a := &Async{
		next:  next,
		queue: make(chan models.LogEntry, size),
		onErr: onErr,
		done:  make(chan struct{}),
	}
	go a.run()
	return a
}

func (a *Async) run() {
	defer close(a.done)
	for e := range a.queue {
		// the caller's context may be a finished request
		if err := a.next.Publish(context.Background(), e); err != nil && a.onErr != nil {
			a.onErr(e, err)
		}
	}
}

// Publish enqueues e and returns at once.
func (a *Async) Publish(_ context.Context, e models.LogEntry) error {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.closed {
		return ErrClosed
	}
	select {
	case a.queue <- e:
		return nil
	default:
		return ErrQueueFull
	}
}

// Close delivers what is already queued, then closes the wrapped publisher.
func (a *Async) Close() error {
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return nil
	}
	a.closed = true
	close(a.queue)
	a.mu.Unlock()

	<-a.done
	return a.next.Close()
}
