package catalog

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

// Watcher reports models whose directory contents changed. Events are
// debounced so an exporter writing several files yields one callback.
type Watcher struct {
	root     string
	debounce time.Duration
	fs       *fsnotify.Watcher
	log      zerolog.Logger
}

// NewWatcher watches root and every directory directly below it.
func NewWatcher(root string, debounce time.Duration, log zerolog.Logger) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	w := &Watcher{root: filepath.Clean(root), debounce: debounce, fs: fw, log: log}
	if err := fw.Add(w.root); err != nil {
		fw.Close()
		return nil, err
	}
	dirs, err := os.ReadDir(w.root)
	if err != nil {
		fw.Close()
		return nil, err
	}
	for _, d := range dirs {
		if d.IsDir() {
			w.add(filepath.Join(w.root, d.Name()))
		}
	}
	return w, nil
}

func (w *Watcher) add(dir string) {
	if err := w.fs.Add(dir); err != nil {
		w.log.Warn().Err(err).Str("dir", dir).Msg("watch failed")
	}
}

// Run calls fn with each changed model name until ctx is done. It closes
// the underlying watcher on return.
func (w *Watcher) Run(ctx context.Context, fn func(model string)) error {
	defer w.fs.Close()
	pending := map[string]bool{}
	var fire <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-w.fs.Events:
			if !ok {
				return nil
			}
			name, ok := w.modelOf(ev.Name)
			if !ok {
				continue
			}
			if ev.Has(fsnotify.Create) && filepath.Dir(ev.Name) == w.root {
				if st, err := os.Stat(ev.Name); err == nil && st.IsDir() {
					w.add(ev.Name)
				}
			}
			pending[name] = true
			fire = time.After(w.debounce)
		case err, ok := <-w.fs.Errors:
			if !ok {
				return nil
			}
			w.log.Warn().Err(err).Msg("watcher error")
		case <-fire:
			names := make([]string, 0, len(pending))
			for n := range pending {
				names = append(names, n)
			}
			sort.Strings(names)
			pending = map[string]bool{}
			fire = nil
			for _, n := range names {
				fn(n)
			}
		}
	}
}

// modelOf maps a path below root to the model directory it belongs to.
func (w *Watcher) modelOf(path string) (string, bool) {
	rel, err := filepath.Rel(w.root, path)
	if err != nil || rel == "." || strings.HasPrefix(rel, "..") {
		return "", false
	}
	first, _, nested := strings.Cut(filepath.ToSlash(rel), "/")
	if !nested {
		// plain files at the root are not models; removed dirs still count
		if st, err := os.Stat(path); err == nil && !st.IsDir() {
			return "", false
		}
	}
	return first, true
}
