package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/vsariola/taptempo"
	shared "github.com/vsariola/taptempo/cmd"
	"github.com/vsariola/taptempo/metronome"
	"github.com/vsariola/taptempo/server"
	"golang.org/x/sync/errgroup"
)

var (
	serveAddr   string
	serveSilent bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the tap tempo model over HTTP",
	Long: `Serve the tap tempo model over HTTP. Endpoints:

  POST /tap, /increment, /decrement, /reset, /metronome/toggle
  PUT  /mute       {"muted": true}
  GET  /state`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Flags().Changed("addr") {
			cfg.HTTP.Addr = serveAddr
		}
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		broker := metronome.NewBroker()
		var audio taptempo.AudioSink = &taptempo.NullAudioSink{}
		if !serveSilent {
			var closeAudio func()
			audio, closeAudio = shared.NewAudioSink(cfg)
			defer closeAudio()
		}
		sink, oscDisplay, err := shared.WithOSC(cfg, audio)
		if err != nil {
			return err
		}
		midi := shared.StartMIDI(broker, cfg)
		defer midi.Close()
		model := metronome.New(cfg, broker, metronome.NewLoopClock(broker), sink, shared.Displays(oscDisplay))
		srv := &http.Server{
			Addr:              cfg.HTTP.Addr,
			Handler:           server.New(broker, cfg.HTTP),
			ReadHeaderTimeout: 5 * time.Second,
		}
		g, ctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			model.Run(ctx)
			return nil
		})
		g.Go(func() error {
			logrus.WithField("addr", srv.Addr).Info("listening")
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})
		g.Go(func() error {
			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		})
		return g.Wait()
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen `address` (default from config)")
	serveCmd.Flags().BoolVar(&serveSilent, "silent", false, "do not open the audio device")
}
