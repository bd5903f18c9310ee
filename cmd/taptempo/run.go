package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	shared "github.com/vsariola/taptempo/cmd"
	"github.com/vsariola/taptempo/console"
	"github.com/vsariola/taptempo/metronome"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Tap the tempo in the terminal",
	Long:  "Tap the tempo in the terminal. Keys are read a line at a time:\n\n  " + console.Help,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()
		broker := metronome.NewBroker()
		audio, closeAudio := shared.NewAudioSink(cfg)
		defer closeAudio()
		sink, oscDisplay, err := shared.WithOSC(cfg, audio)
		if err != nil {
			return err
		}
		display, err := console.New(cmd.OutOrStdout(), cfg.StatusFormat, cfg.Language, sink)
		if err != nil {
			return err
		}
		midi := shared.StartMIDI(broker, cfg)
		defer midi.Close()
		model := metronome.New(cfg, broker, metronome.NewLoopClock(broker), display, shared.Displays(display, oscDisplay))
		fmt.Fprintln(cmd.ErrOrStderr(), console.Help)
		inputErr := make(chan error, 1)
		go func() {
			// stdin cannot be interrupted, so the loop does not wait for this
			inputErr <- console.ReadInput(ctx, cmd.InOrStdin(), broker)
			metronome.TrySend(broker.CloseModel, struct{}{})
		}()
		model.Run(ctx)
		fmt.Fprintln(cmd.OutOrStdout())
		select {
		case err := <-inputErr:
			if err != nil && !errors.Is(err, console.ErrQuit) && !errors.Is(err, context.Canceled) {
				return err
			}
		default:
		}
		return nil
	},
}
