package app

import (
	"context"
	"errors"
	"io/fs"
	"net/http"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/coreman2200/funtimes-modelviewer/internal/catalog"
	diag "github.com/coreman2200/funtimes-modelviewer/internal/diagnostics"
	"github.com/coreman2200/funtimes-modelviewer/internal/orientation"
	"github.com/coreman2200/funtimes-modelviewer/internal/viewer"
	"github.com/coreman2200/funtimes-modelviewer/internal/ws"
)

// DefaultDebounce is how long the watcher waits for a model directory to
// settle before reporting it.
const DefaultDebounce = 250 * time.Millisecond

type Options struct {
	ModelsDir string
	Format    string // default scene format for pages that name none
	Watch     bool
	Debounce  time.Duration

	SerialPort string
	SerialBaud int

	Log zerolog.Logger
}

// Core is the shared server side of the viewer: the hub plus the
// background feeds that push into it.
type Core struct {
	State *ws.State

	dir    string
	format string
	log    zerolog.Logger
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// InitCore starts the watcher and serial feed requested by o. Feeds that
// fail to start are logged and skipped; the hub still serves.
func InitCore(ctx context.Context, o Options) (*Core, error) {
	if o.ModelsDir == "" {
		return nil, errors.New("models dir is required")
	}
	ctx, cancel := context.WithCancel(ctx)
	c := &Core{
		State:  ws.NewState(o.ModelsDir),
		dir:    o.ModelsDir,
		format: o.Format,
		log:    o.Log,
		cancel: cancel,
	}

	if o.Watch {
		d := o.Debounce
		if d <= 0 {
			d = DefaultDebounce
		}
		w, err := catalog.NewWatcher(o.ModelsDir, d, o.Log)
		if err != nil {
			o.Log.Warn().Err(err).Str("dir", o.ModelsDir).Msg("watch failed; live reload disabled")
		} else {
			c.goRun(func() { _ = w.Run(ctx, c.OnChange) })
		}
	}

	if o.SerialPort != "" {
		r := &orientation.Reader{Port: o.SerialPort, Baud: o.SerialBaud, Log: o.Log}
		c.goRun(func() { _ = r.Run(ctx, c.State.Orientation) })
	}
	return c, nil
}

func (c *Core) goRun(fn func()) {
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		fn()
	}()
}

// OnChange re-inspects model after its files changed and tells the
// viewers. Pages only reload when the scene still parses.
func (c *Core) OnChange(model string) {
	e, err := catalog.Find(c.dir, model)
	if err != nil {
		c.log.Info().Str("model", model).Msg("model removed")
		c.State.Diag(diag.Removed(model))
		return
	}
	e.Inspect()
	d := e.Diagnostic()
	c.log.Info().Str("model", model).Str("code", d.Code).Msg("model changed")
	c.State.Diag(d)
	if e.Error == "" {
		c.State.Reload(model)
	}
}

// Handler serves the page from assets, scene files from the models dir
// and the hub routes.
func (c *Core) Handler(assets fs.FS) http.Handler {
	mux := http.NewServeMux()
	c.State.Routes(mux)
	mux.Handle("/models/", http.StripPrefix("/models/", http.FileServer(http.Dir(c.dir))))
	page := http.FileServer(http.FS(assets))
	if c.format != "" && c.format != viewer.DefaultFormat {
		page = withFormat(page, c.format)
	}
	mux.Handle("/", page)
	return mux
}

// withFormat redirects page requests that name no format to format.
func withFormat(h http.Handler, format string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if r.URL.Path != "/" || q.Has("format") {
			h.ServeHTTP(w, r)
			return
		}
		q.Set("format", format)
		http.Redirect(w, r, "/?"+q.Encode(), http.StatusFound)
	})
}

// Close stops the feeds and waits for them.
func (c *Core) Close() {
	c.cancel()
	c.wg.Wait()
}

// WithCORS lets pages served elsewhere reach the API.
func WithCORS(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(200)
			return
		}
		h.ServeHTTP(w, r)
	})
}
