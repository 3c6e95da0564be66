// Command modelviewer serves the web viewer and inspects the models it
// shows.
package main

import (
	"context"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/coreman2200/funtimes-modelviewer/internal/config"
	"github.com/coreman2200/funtimes-modelviewer/internal/viewer"
)

// settings are the flag values, overridden by config.yaml where it sets them.
type settings struct {
	configPath string
	addr       string
	modelsDir  string
	format     string
	watch      bool
	logLevel   string
	serialPort string
	serialBaud int
}

func main() {
	s := &settings{}
	root := &cobra.Command{
		Use:           "modelviewer",
		Short:         "Browser 3D model viewer",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return s.resolve()
		},
	}
	pf := root.PersistentFlags()
	pf.StringVar(&s.configPath, "config", "config.yaml", "path to config.yaml")
	pf.StringVar(&s.modelsDir, "models-dir", "models", "directory holding <model>/scene.gltf")
	pf.StringVar(&s.format, "format", viewer.DefaultFormat, "scene file format: gltf | glb")
	pf.StringVar(&s.logLevel, "log-level", "info", "log level")

	root.AddCommand(serveCmd(s), modelsCmd(s), infoCmd(s), checkCmd(s), configCmd(s))

	if err := root.ExecuteContext(context.Background()); err != nil {
		log.Error().Err(err).Msg("modelviewer")
		os.Exit(1)
	}
}

// resolve sets up logging and folds config.yaml into s.
func (s *settings) resolve() error {
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})

	if c, err := config.Load(s.configPath); err != nil {
		log.Debug().Err(err).Str("path", s.configPath).Msg("config load failed; proceeding with flags")
	} else {
		s.apply(c)
	}

	lvl, err := zerolog.ParseLevel(s.logLevel)
	if err != nil {
		log.Warn().Str("log_level", s.logLevel).Msg("unknown log level; using info")
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)
	return nil
}

// config returns s in config.yaml form.
func (s *settings) config() *config.Config {
	return &config.Config{
		Addr:      s.addr,
		ModelsDir: s.modelsDir,
		Format:    s.format,
		Watch:     s.watch,
		LogLevel:  s.logLevel,
		Serial:    config.Serial{Port: s.serialPort, Baud: s.serialBaud},
	}
}

func (s *settings) apply(c *config.Config) {
	s.addr = config.Or(c.Addr, s.addr)
	s.modelsDir = config.Or(c.ModelsDir, s.modelsDir)
	s.format = config.Or(c.Format, s.format)
	s.logLevel = config.Or(c.LogLevel, s.logLevel)
	s.watch = s.watch || c.Watch
	s.serialPort = config.Or(c.Serial.Port, s.serialPort)
	s.serialBaud = config.Or(c.Serial.Baud, s.serialBaud)
}
