package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	modelviewer "github.com/coreman2200/funtimes-modelviewer"
	"github.com/coreman2200/funtimes-modelviewer/internal/app"
)

func serveCmd(s *settings) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the viewer page, the models and the live hub",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context(), s)
		},
	}
	f := cmd.Flags()
	f.StringVar(&s.addr, "addr", ":8080", "HTTP listen address")
	f.BoolVar(&s.watch, "watch", false, "reload pages when model files change")
	f.StringVar(&s.serialPort, "serial-port", "", "serial port streaming i,j,k,real orientation lines")
	f.IntVar(&s.serialBaud, "serial-baud", 115200, "serial baud rate")
	return cmd
}

func serve(ctx context.Context, s *settings) error {
	core, err := app.InitCore(ctx, app.Options{
		ModelsDir:  s.modelsDir,
		Format:     s.format,
		Watch:      s.watch,
		SerialPort: s.serialPort,
		SerialBaud: s.serialBaud,
		Log:        log.Logger,
	})
	if err != nil {
		return err
	}
	defer core.Close()

	srv := &http.Server{
		Addr:         s.addr,
		Handler:      app.WithCORS(core.Handler(modelviewer.Assets)),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		log.Info().Str("addr", s.addr).Str("models", s.modelsDir).Str("format", s.format).Bool("watch", s.watch).Msg("HTTP server starting")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errc <- err
		}
	}()

	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(ch)
	select {
	case sig := <-ch:
		log.Info().Str("signal", sig.String()).Msg("shutting down")
	case err := <-errc:
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
