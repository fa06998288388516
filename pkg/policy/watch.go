package policy

import (
	"context"

	"github.com/fsnotify/fsnotify"

	"github.com/kishhcodes/cloudgate/pkg/shared/logging"
)

// Watch reloads the policy from path whenever it is written to, until ctx
// is canceled. It runs in the caller's goroutine and returns only when
// watching ends (ctx cancellation or a fatal watcher error).
func (e *Engine) Watch(ctx context.Context, path string, log logging.Fields, logf func(msg string, fields logging.Fields)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := watcher.Add(path); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if err := e.LoadFile(ctx, path); err != nil {
				if logf != nil {
					logf("policy hot-reload failed", log.Error(err))
				}
				continue
			}
			if logf != nil {
				logf("policy hot-reloaded", log)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			if logf != nil {
				logf("policy watcher error", log.Error(err))
			}
		}
	}
}
