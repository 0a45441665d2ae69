package observer

import (
	"bytes"
	"context"
	"strings"
	"testing"
)

func TestProgressTrackerCounts(t *testing.T) {
	tracker := NewProgressTracker()
	publisher := NewEventPublisher()
	publisher.Subscribe(tracker)

	ctx := context.Background()
	publisher.Notify(ctx, BatchEvent{Type: FileProcessed, File: "a.png", Threshold: 42})
	publisher.Notify(ctx, BatchEvent{Type: FileProcessed, File: "b.png", Threshold: 42})
	publisher.Notify(ctx, BatchEvent{Type: FileSkipped, File: "notes.txt", Reason: "unsupported"})
	publisher.Notify(ctx, BatchEvent{Type: FileFailed, File: "bad.png", Reason: "decode"})
	publisher.Notify(ctx, BatchEvent{Type: BatchCompleted})

	snapshot := tracker.Snapshot()
	expected := map[string]int64{
		"files_processed": 2,
		"files_skipped":   1,
		"files_failed":    1,
		"batches":         1,
	}
	for key, want := range expected {
		if snapshot[key] != want {
			t.Errorf("Expected %s = %d, got %d", key, want, snapshot[key])
		}
	}
}

func TestUnsubscribeStopsDelivery(t *testing.T) {
	tracker := NewProgressTracker()
	publisher := NewEventPublisher()
	publisher.Subscribe(tracker)
	publisher.Unsubscribe(tracker)

	publisher.Notify(context.Background(), BatchEvent{Type: FileProcessed})
	if got := tracker.Snapshot()["files_processed"]; got != 0 {
		t.Errorf("Expected no deliveries after unsubscribe, got %d", got)
	}
}

func TestProgressPrinterOutput(t *testing.T) {
	var buf bytes.Buffer
	printer := NewProgressPrinter(&buf)

	ctx := context.Background()
	printer.OnEvent(ctx, BatchEvent{Type: FileProcessed, File: "a.png", Threshold: 120})
	printer.OnEvent(ctx, BatchEvent{Type: FileProcessed, File: "raw.png", Threshold: -1})
	printer.OnEvent(ctx, BatchEvent{Type: FileSkipped, File: "notes.txt", Reason: "unsupported extension"})
	printer.OnEvent(ctx, BatchEvent{Type: FileFailed, File: "bad.png", Reason: "decode failed"})
	printer.OnEvent(ctx, BatchEvent{Type: BatchCompleted})

	out := buf.String()
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 4 {
		t.Fatalf("Expected 4 printed lines, got %d:\n%s", len(lines), out)
	}
	if lines[0] != "processed a.png (threshold 120)" {
		t.Errorf("Unexpected processed line: %q", lines[0])
	}
	if lines[1] != "processed raw.png (threshold -)" {
		t.Errorf("Unexpected unthresholded line: %q", lines[1])
	}
	if !strings.Contains(lines[2], "skipped notes.txt") {
		t.Errorf("Unexpected skipped line: %q", lines[2])
	}
	if !strings.Contains(lines[3], "error on bad.png") {
		t.Errorf("Unexpected failure line: %q", lines[3])
	}
}

type panickingObserver struct{}

func (panickingObserver) OnEvent(ctx context.Context, event BatchEvent) { panic("boom") }
func (panickingObserver) Name() string                                  { return "panicking" }

func TestPanickingObserverIsIsolated(t *testing.T) {
	tracker := NewProgressTracker()
	publisher := NewEventPublisher()
	publisher.Subscribe(panickingObserver{})
	publisher.Subscribe(tracker)

	publisher.Notify(context.Background(), BatchEvent{Type: FileProcessed})
	if got := tracker.Snapshot()["files_processed"]; got != 1 {
		t.Errorf("Expected delivery to continue past a panicking observer, got %d", got)
	}
}
