package watcher

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"
)

func TestDebouncer_CollapsesBurst(t *testing.T) {
	d := NewDebouncer(50 * time.Millisecond)
	defer d.Stop()

	var calls atomic.Int32
	for i := 0; i < 5; i++ {
		d.Trigger(func() { calls.Add(1) })
		time.Sleep(5 * time.Millisecond)
	}

	time.Sleep(150 * time.Millisecond)

	if got := calls.Load(); got != 1 {
		t.Errorf("callback ran %d times, want 1", got)
	}
}

func TestDebouncer_StopCancelsPending(t *testing.T) {
	d := NewDebouncer(50 * time.Millisecond)

	var calls atomic.Int32
	d.Trigger(func() { calls.Add(1) })
	d.Stop()

	time.Sleep(120 * time.Millisecond)

	if got := calls.Load(); got != 0 {
		t.Errorf("callback ran %d times after Stop, want 0", got)
	}
}

func TestTreeWatcher_TriggersOnJSONChange(t *testing.T) {
	root := t.TempDir()
	sub := filepath.Join(root, "korg")
	if err := os.MkdirAll(sub, 0755); err != nil {
		t.Fatalf("MkdirAll() error = %v", err)
	}

	tw, err := New(&Config{
		Root:             root,
		DebounceInterval: 50 * time.Millisecond,
		Extensions:       []string{".json"},
		SkipHidden:       true,
	}, nil)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var calls atomic.Int32
	done := make(chan struct{})
	go func() {
		defer close(done)
		tw.Watch(ctx, func() error {
			calls.Add(1)
			return nil
		})
	}()

	// Let the watch set settle before producing events.
	time.Sleep(100 * time.Millisecond)

	if err := os.WriteFile(filepath.Join(sub, "ms-20.json"), []byte("{}"), 0644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	deadline := time.After(2 * time.Second)
	for calls.Load() == 0 {
		select {
		case <-deadline:
			t.Fatal("onChange not called within 2s of a JSON write")
		case <-time.After(20 * time.Millisecond):
		}
	}

	cancel()
	<-done
}

func TestTreeWatcher_IgnoresOtherExtensions(t *testing.T) {
	root := t.TempDir()

	tw, err := New(&Config{
		Root:             root,
		DebounceInterval: 30 * time.Millisecond,
		Extensions:       []string{".json"},
		SkipHidden:       true,
	}, nil)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var calls atomic.Int32
	done := make(chan struct{})
	go func() {
		defer close(done)
		tw.Watch(ctx, func() error {
			calls.Add(1)
			return nil
		})
	}()

	time.Sleep(100 * time.Millisecond)

	if err := os.WriteFile(filepath.Join(root, "notes.txt"), []byte("x"), 0644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	time.Sleep(300 * time.Millisecond)

	if got := calls.Load(); got != 0 {
		t.Errorf("onChange called %d times for a .txt write, want 0", got)
	}

	cancel()
	<-done
}

func TestScheduler_EmptyScheduleIsNoop(t *testing.T) {
	s := NewScheduler("")
	if err := s.Start(context.Background(), func() {}); err != nil {
		t.Errorf("Start() error = %v for empty schedule", err)
	}
	s.Stop()
}

func TestScheduler_InvalidSchedule(t *testing.T) {
	s := NewScheduler("not a cron")
	if err := s.Start(context.Background(), func() {}); err == nil {
		t.Error("Start() error = nil for invalid schedule")
	}
}
