package main

import (
	"context"
	"errors"

	"github.com/rs/zerolog/log"

	"github.com/coreman2200/funtimes-modelviewer/internal/app"
	"github.com/coreman2200/funtimes-modelviewer/internal/catalog"
)

// App is bound into the window's JS runtime.
type App struct {
	core *app.Core
	ctx  context.Context
}

func NewApp(core *app.Core) *App { return &App{core: core} }

// ListModels returns the catalog without parsing the scene files.
func (a *App) ListModels() ([]catalog.Entry, error) {
	if a.core == nil {
		return nil, errors.New("core not ready")
	}
	entries, err := catalog.Scan(a.core.State.ModelsDir)
	if entries == nil {
		entries = []catalog.Entry{}
	}
	return entries, err
}

// ModelInfo parses one model's scene file.
func (a *App) ModelInfo(name string) (catalog.Entry, error) {
	if a.core == nil {
		return catalog.Entry{}, errors.New("core not ready")
	}
	e, err := catalog.Find(a.core.State.ModelsDir, name)
	if err != nil {
		return catalog.Entry{}, err
	}
	e.Inspect()
	log.Debug().Str("model", name).Str("error", e.Error).Msg("ModelInfo")
	return e, nil
}

func (a *App) startup(ctx context.Context) {
	a.ctx = ctx
	log.Info().Str("models", a.core.State.ModelsDir).Msg("desktop viewer started")
}

func (a *App) shutdown(ctx context.Context) {
	if a.core != nil {
		a.core.Close()
	}
}
