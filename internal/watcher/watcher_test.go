package watcher

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestWatchDebouncesWrites(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "scene.json")
	other := filepath.Join(dir, "other.json")
	for _, p := range []string{path, other} {
		if err := os.WriteFile(p, []byte("{}"), 0644); err != nil {
			t.Fatal(err)
		}
	}

	fw, err := NewFileWatcher(100 * time.Millisecond)
	if err != nil {
		t.Fatal(err)
	}
	defer fw.Close()

	changed := make(chan string, 8)
	if err := fw.Watch([]string{path}, func(p string) { changed <- p }); err != nil {
		t.Fatal(err)
	}
	fw.Start()

	for i := 0; i < 3; i++ {
		if err := os.WriteFile(path, []byte(`{"objects": []}`), 0644); err != nil {
			t.Fatal(err)
		}
	}
	os.WriteFile(other, []byte("[]"), 0644)

	select {
	case p := <-changed:
		want, _ := filepath.Abs(path)
		if p != want {
			t.Errorf("Expected callback for %s, got %s", want, p)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Expected a change callback")
	}

	select {
	case p := <-changed:
		t.Errorf("Expected writes to be debounced, got a second callback for %s", p)
	case <-time.After(300 * time.Millisecond):
	}
}

func TestWatchMissingDirectory(t *testing.T) {
	fw, err := NewFileWatcher(time.Millisecond)
	if err != nil {
		t.Fatal(err)
	}
	defer fw.Close()
	if err := fw.Watch([]string{filepath.Join(t.TempDir(), "nope", "scene.json")}, func(string) {}); err == nil {
		t.Error("Expected error for a missing directory")
	}
}
