package driver

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

func TestWatchReportsChangedSources(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.wgsl", goodShader)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	changes := make(chan []string, 4)
	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, dir, "wgslfront.toml", func(paths []string) { changes <- paths })
	}()

	// дать watcher'у подписаться
	time.Sleep(200 * time.Millisecond)
	writeFile(t, dir, "a.wgsl", badShader)
	writeFile(t, dir, "ignored.txt", "x")

	select {
	case paths := <-changes:
		if len(paths) != 1 || filepath.Base(paths[0]) != "a.wgsl" {
			t.Fatalf("unexpected change set %v", paths)
		}
	case <-ctx.Done():
		t.Fatal("no change reported")
	}

	cancel()
	if err := <-done; err != nil {
		t.Fatalf("Watch: %v", err)
	}
}
