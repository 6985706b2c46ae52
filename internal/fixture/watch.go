package fixture

import (
	"context"
	"fmt"
	"log"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Watch reloads the fixture at path whenever it is written and passes the
// new data to fn. Invalid documents are logged and skipped. Watch blocks
// until ctx is done.
func Watch(ctx context.Context, path string, fn func(*ConnectData)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create fixture watcher: %w", err)
	}
	defer watcher.Close()

	// Editors often replace the file instead of writing it in place, so
	// watch the directory and filter by name.
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", path, err)
	}
	target := filepath.Clean(path)

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != target || ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			data, err := Load(path)
			if err != nil {
				log.Printf("Fixture reload skipped: %v", err)
				continue
			}
			log.Printf("Fixture reloaded from %s", path)
			fn(data)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Printf("Fixture watcher error: %v", err)
		}
	}
}
