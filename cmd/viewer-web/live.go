package main

import (
	"context"
	"encoding/json"
	"time"

	"github.com/gopherjs/gopherjs/js"
	"github.com/rs/zerolog"

	diag "github.com/coreman2200/funtimes-modelviewer/internal/diagnostics"
	"github.com/coreman2200/funtimes-modelviewer/internal/live"
	"github.com/coreman2200/funtimes-modelviewer/internal/viewer"
)

const retry = 3 * time.Second

// subscribe keeps a websocket open to the hub and applies what it sends.
// Pages opened from disk have no hub; the first failure is logged once.
func subscribe(ctx context.Context, url string, sel viewer.Selection, v *viewer.Viewer, log zerolog.Logger) {
	name := sel.Model
	if name == "" {
		name = viewer.DefaultModelName
	}
	for ctx.Err() == nil {
		closed := make(chan struct{})
		sock := js.Global.Get("WebSocket").New(url)
		sock.Set("onmessage", func(ev *js.Object) {
			var m live.Message
			if err := json.Unmarshal([]byte(ev.Get("data").String()), &m); err != nil {
				log.Debug().Err(err).Msg("bad live message")
				return
			}
			handle(m, name, v, log)
		})
		sock.Set("onclose", func(*js.Object) { close(closed) })

		select {
		case <-ctx.Done():
			sock.Call("close")
			return
		case <-closed:
		}
		log.Debug().Str("url", url).Dur("retry", retry).Msg("live connection closed")
		select {
		case <-ctx.Done():
			return
		case <-time.After(retry):
		}
	}
}

func handle(m live.Message, model string, v *viewer.Viewer, log zerolog.Logger) {
	switch m.Type {
	case live.TypeReload:
		if m.Model == model {
			log.Info().Str("model", model).Msg("scene changed, reloading page")
			js.Global.Get("location").Call("reload")
		}
	case live.TypeOrientation:
		if m.Quat != nil {
			v.Orient(m.Quat.Quaternion())
		}
	case live.TypeDiag:
		if m.Diag == nil || m.Diag.Evidence["model"] != model {
			return
		}
		ev := log.Info()
		switch m.Diag.Severity {
		case diag.Warn:
			ev = log.Warn()
		case diag.Err:
			ev = log.Error()
		}
		ev.Str("code", m.Diag.Code).Str("detail", m.Diag.Detail).Msg(m.Diag.Summary)
	}
}
