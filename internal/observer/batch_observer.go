package observer

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// BatchEvent describes one step of a quantification batch.
type BatchEvent struct {
	Type      EventType `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	File      string    `json:"file,omitempty"`
	Threshold int       `json:"threshold,omitempty"`
	Reason    string    `json:"reason,omitempty"`
}

// EventType represents the type of batch event
type EventType string

const (
	// FileProcessed when one image has been measured and recorded
	FileProcessed EventType = "file_processed"
	// FileSkipped when a directory entry is excluded from the batch
	FileSkipped EventType = "file_skipped"
	// FileFailed when decoding or measuring one image fails
	FileFailed EventType = "file_failed"
	// BatchCompleted when the whole directory has been walked
	BatchCompleted EventType = "batch_completed"
)

// Observer receives batch events.
type Observer interface {
	OnEvent(ctx context.Context, event BatchEvent)
	Name() string
}

// Subject publishes batch events to subscribed observers.
type Subject interface {
	Subscribe(observer Observer)
	Unsubscribe(observer Observer)
	Notify(ctx context.Context, event BatchEvent)
}

// EventPublisher implements Subject. Notification is synchronous so
// observers see events in batch order; a panicking observer is isolated
// from the pipeline.
type EventPublisher struct {
	mu        sync.RWMutex
	observers []Observer
}

// NewEventPublisher creates a new event publisher
func NewEventPublisher() Subject {
	return &EventPublisher{}
}

// Subscribe adds an observer
func (p *EventPublisher) Subscribe(observer Observer) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.observers = append(p.observers, observer)
}

// Unsubscribe removes an observer by name
func (p *EventPublisher) Unsubscribe(observer Observer) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for i, obs := range p.observers {
		if obs.Name() == observer.Name() {
			p.observers = append(p.observers[:i], p.observers[i+1:]...)
			break
		}
	}
}

// Notify delivers the event to every subscribed observer in order.
func (p *EventPublisher) Notify(ctx context.Context, event BatchEvent) {
	p.mu.RLock()
	observers := make([]Observer, len(p.observers))
	copy(observers, p.observers)
	p.mu.RUnlock()

	for _, observer := range observers {
		func(obs Observer) {
			defer func() {
				if r := recover(); r != nil {
					logrus.WithField("observer", obs.Name()).
						WithField("panic", r).
						Error("Observer panicked while handling event")
				}
			}()
			obs.OnEvent(ctx, event)
		}(observer)
	}
}

// ProgressTracker counts batch events across runs. Safe for concurrent
// use; the HTTP surface reads it while batches execute.
type ProgressTracker struct {
	mu        sync.RWMutex
	processed int64
	skipped   int64
	failed    int64
	batches   int64
}

// NewProgressTracker creates a new progress tracker
func NewProgressTracker() *ProgressTracker {
	return &ProgressTracker{}
}

// OnEvent handles batch events by updating counters
func (t *ProgressTracker) OnEvent(ctx context.Context, event BatchEvent) {
	t.mu.Lock()
	defer t.mu.Unlock()
	switch event.Type {
	case FileProcessed:
		t.processed++
	case FileSkipped:
		t.skipped++
	case FileFailed:
		t.failed++
	case BatchCompleted:
		t.batches++
	}
}

// Name returns the observer name
func (t *ProgressTracker) Name() string {
	return "progress_tracker"
}

// Snapshot returns the current counters.
func (t *ProgressTracker) Snapshot() map[string]int64 {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return map[string]int64{
		"files_processed": t.processed,
		"files_skipped":   t.skipped,
		"files_failed":    t.failed,
		"batches":         t.batches,
	}
}

// ProgressPrinter writes one human-readable line per batch event. The
// CLI subscribes it to stdout so long batches show their progress.
type ProgressPrinter struct {
	w io.Writer
}

// NewProgressPrinter creates a printer writing to w
func NewProgressPrinter(w io.Writer) *ProgressPrinter {
	return &ProgressPrinter{w: w}
}

// OnEvent handles batch events by printing them
func (p *ProgressPrinter) OnEvent(ctx context.Context, event BatchEvent) {
	switch event.Type {
	case FileProcessed:
		fmt.Fprintf(p.w, "processed %s (threshold %s)\n", event.File, thresholdLabel(event.Threshold))
	case FileSkipped:
		fmt.Fprintf(p.w, "skipped %s: %s\n", event.File, event.Reason)
	case FileFailed:
		fmt.Fprintf(p.w, "error on %s: %s\n", event.File, event.Reason)
	}
}

// Name returns the observer name
func (p *ProgressPrinter) Name() string {
	return "progress_printer"
}

func thresholdLabel(level int) string {
	if level < 0 {
		return "-"
	}
	return fmt.Sprintf("%d", level)
}
