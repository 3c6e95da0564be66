// Command modelviewer-desktop shows the viewer page in a native window.
package main

import (
	"context"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/wailsapp/wails/v2"
	"github.com/wailsapp/wails/v2/pkg/options"
	"github.com/wailsapp/wails/v2/pkg/options/assetserver"

	modelviewer "github.com/coreman2200/funtimes-modelviewer"
	"github.com/coreman2200/funtimes-modelviewer/internal/app"
	"github.com/coreman2200/funtimes-modelviewer/internal/config"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.Kitchen})

	cfg := &config.Config{}
	if c, err := config.Load("config.yaml"); err != nil {
		log.Warn().Err(err).Msg("config load failed; using defaults")
	} else {
		cfg = c
	}

	core, err := app.InitCore(context.Background(), app.Options{
		ModelsDir:  config.Or(cfg.ModelsDir, "models"),
		Format:     cfg.Format,
		Watch:      cfg.Watch,
		SerialPort: cfg.Serial.Port,
		SerialBaud: config.Or(cfg.Serial.Baud, 115200),
		Log:        log.Logger,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("core init failed")
	}
	a := NewApp(core)

	if err := wails.Run(&options.App{
		Title:  "Model Viewer",
		Width:  config.Or(cfg.Window.Width, 1280),
		Height: config.Or(cfg.Window.Height, 720),
		AssetServer: &assetserver.Options{
			Assets:  modelviewer.Assets,
			Handler: core.Handler(modelviewer.Assets),
		},
		OnStartup:  a.startup,
		OnShutdown: a.shutdown,
		Bind:       []interface{}{a},
	}); err != nil {
		log.Fatal().Err(err).Msg("wails")
	}
}
