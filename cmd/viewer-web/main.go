// Command viewer-web is the in-page viewer. Build it with
//
//	gopherjs build ./cmd/viewer-web -o web/viewer.js
//
// and load it after three.js, GLTFLoader and OrbitControls.
package main

import (
	"context"
	"os"

	"github.com/gopherjs/gopherjs/js"
	"github.com/rs/zerolog"
	"honnef.co/go/js/dom"

	"github.com/coreman2200/funtimes-modelviewer/internal/threejs"
	"github.com/coreman2200/funtimes-modelviewer/internal/viewer"
)

func main() {
	doc := dom.GetWindow().Document().(dom.HTMLDocument)
	if doc.ReadyState() != "loading" {
		go start()
		return
	}
	doc.AddEventListener("DOMContentLoaded", false, func(dom.Event) { go start() })
}

func start() {
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, NoColor: true}).
		With().Timestamp().Str("app", "viewer").Logger()

	win := threejs.NewWindow()
	sel := viewer.ParseSelection(win.Href())

	opts := viewer.DefaultOptions()
	opts.Log = logger
	v, err := viewer.New(threejs.New(), win, opts)
	if err != nil {
		logger.Error().Err(err).Msg("viewer init failed")
		return
	}
	v.Resize()

	ctx := context.Background()
	if err := v.Load(ctx, sel); err != nil {
		logger.Warn().Err(err).Msg("load")
	}

	go subscribe(ctx, liveURL(), sel, v, logger)

	if err := v.Run(ctx, win.Events(ctx)); err != nil {
		logger.Debug().Err(err).Msg("loop stopped")
	}
}

// liveURL points at the hub on the host that served the page.
func liveURL() string {
	loc := js.Global.Get("location")
	scheme := "ws:"
	if loc.Get("protocol").String() == "https:" {
		scheme = "wss:"
	}
	return scheme + "//" + loc.Get("host").String() + "/ws"
}
