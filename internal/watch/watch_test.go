package watch

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
)

func TestRelevant(t *testing.T) {
	cases := []struct {
		ev   fsnotify.Event
		want bool
	}{
		{fsnotify.Event{Name: "a.scene", Op: fsnotify.Write}, true},
		{fsnotify.Event{Name: "dir/b.XML", Op: fsnotify.Create}, true},
		{fsnotify.Event{Name: "a.scene", Op: fsnotify.Chmod}, false},
		{fsnotify.Event{Name: ".a.scene.swp", Op: fsnotify.Write}, false},
		{fsnotify.Event{Name: "notes.txt", Op: fsnotify.Write}, false},
	}
	for _, tc := range cases {
		if got := relevant(tc.ev); got != tc.want {
			t.Errorf("relevant(%v) = %v, want %v", tc.ev, got, tc.want)
		}
	}
}

func TestWatchBatchesChanges(t *testing.T) {
	dir := t.TempDir()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	batches := make(chan []string, 4)
	errc := make(chan error, 1)
	go func() {
		errc <- Watch(ctx, dir, Options{Debounce: 50 * time.Millisecond}, func(changed []string) {
			batches <- changed
		})
	}()
	// даём watcher'у подписаться
	time.Sleep(100 * time.Millisecond)

	a := filepath.Join(dir, "a.scene")
	for range 3 {
		if err := os.WriteFile(a, []byte("<scene/>"), 0o600); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.WriteFile(filepath.Join(dir, "ignored.txt"), []byte("x"), 0o600); err != nil {
		t.Fatal(err)
	}

	select {
	case got := <-batches:
		if len(got) != 1 || got[0] != a {
			t.Fatalf("batch = %v", got)
		}
	case <-ctx.Done():
		t.Fatal("no change reported")
	}

	cancel()
	if err := <-errc; err != nil {
		t.Fatal(err)
	}
}

func TestWatchMissingPath(t *testing.T) {
	err := Watch(context.Background(), filepath.Join(t.TempDir(), "nope"), Options{}, func([]string) {})
	if err == nil {
		t.Fatal("want error for a missing path")
	}
}
