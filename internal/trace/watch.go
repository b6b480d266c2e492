package trace

import (
	"fmt"
	"os"

	"github.com/fsnotify/fsnotify"

	"github.com/orizon-lang/orizon-gc/internal/gcruntime"
)

// Watcher replays a script file against a Manager every time the file
// is written, using fsnotify for OS-native change notification instead
// of polling the file's mtime.
type Watcher struct {
	w    *fsnotify.Watcher
	path string
}

// NewWatcher opens path and starts watching it for writes. The script
// is not run until the first change or an explicit RunOnce call.
func NewWatcher(path string) (*Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("trace: %w", err)
	}

	if err := w.Add(path); err != nil {
		w.Close()

		return nil, fmt.Errorf("trace: watch %s: %w", path, err)
	}

	return &Watcher{w: w, path: path}, nil
}

// Close stops watching.
func (w *Watcher) Close() error { return w.w.Close() }

// RunOnce parses and runs the script file's current contents against m.
func (w *Watcher) RunOnce(m *gcruntime.Manager, report func(line int, survived, freed int)) error {
	f, err := os.Open(w.path)
	if err != nil {
		return fmt.Errorf("trace: %w", err)
	}
	defer f.Close()

	cmds, err := Parse(f)
	if err != nil {
		return err
	}

	Run(m, cmds, report)

	return nil
}

// Loop blocks, re-running the script against m every time the watched
// file is written or created, until the file is removed or the
// watcher's channels are closed. onErr receives non-fatal errors (a
// parse failure, a transient read failure, a watcher error) and the
// loop keeps going; a nil onErr silently ignores them.
func (w *Watcher) Loop(m *gcruntime.Manager, report func(line int, survived, freed int), onErr func(error)) {
	for {
		select {
		case ev, ok := <-w.w.Events:
			if !ok {
				return
			}

			if ev.Op&fsnotify.Write == 0 && ev.Op&fsnotify.Create == 0 {
				if ev.Op&fsnotify.Remove != 0 {
					return
				}

				continue
			}

			if err := w.RunOnce(m, report); err != nil && onErr != nil {
				onErr(err)
			}
		case err, ok := <-w.w.Errors:
			if !ok {
				return
			}

			if onErr != nil {
				onErr(err)
			}
		}
	}
}
