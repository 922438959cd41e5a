package scratch

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/randalmurphal/promptpad/session"
)

// startCapture watches the session's backing file and copies every non-blank
// save into the session cache. The watcher stops with the session.
func startCapture(s *session.Session, logger *zap.Logger) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}

	// Watch the directory; editors often replace the file on save.
	if err := watcher.Add(filepath.Dir(s.Path)); err != nil {
		watcher.Close()
		return fmt.Errorf("watch %s: %w", filepath.Dir(s.Path), err)
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		base := filepath.Base(s.Path)
		for {
			select {
			case ev, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Base(ev.Name) != base {
					continue
				}
				if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
					continue
				}
				data, err := os.ReadFile(s.Path)
				if err != nil {
					continue
				}
				s.SetCachedText(string(data))

			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				logger.Debug("scratch watcher error", zap.Error(err))
			}
		}
	}()

	s.OnStop(func() {
		watcher.Close()
		<-done
	})
	return nil
}
