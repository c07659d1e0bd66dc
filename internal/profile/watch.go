package profile

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// WatchDebounce coalesces bursts of filesystem events into one notification.
var WatchDebounce = 150 * time.Millisecond

// Watch signals on the returned channel whenever a profile file under Dir is
// created, written, renamed or removed. The channel is closed when ctx is done
// or the watcher fails.
func (s *Store) Watch(ctx context.Context) (<-chan struct{}, error) {
	if err := s.ensureDir(); err != nil {
		return nil, err
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := watcher.Add(s.Dir); err != nil {
		watcher.Close()
		return nil, err
	}

	changes := make(chan struct{}, 1)
	notify := func() {
		select {
		case changes <- struct{}{}:
		default:
		}
	}

	go func() {
		defer watcher.Close()
		defer close(changes)

		var debounce *time.Timer
		var fire <-chan time.Time
		for {
			select {
			case <-ctx.Done():
				if debounce != nil {
					debounce.Stop()
				}
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Ext(event.Name) != Ext {
					continue
				}
				if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
					continue
				}
				if debounce == nil {
					debounce = time.NewTimer(WatchDebounce)
				} else {
					debounce.Reset(WatchDebounce)
				}
				fire = debounce.C
			case <-fire:
				fire = nil
				notify()
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				s.errorf("watch %s: %v", s.Dir, err)
			}
		}
	}()

	return changes, nil
}
