package main

import (
	"os"

	"gioui.org/app"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	shared "github.com/vsariola/taptempo/cmd"
	"github.com/vsariola/taptempo/gioui"
	"github.com/vsariola/taptempo/metronome"
)

var guiCmd = &cobra.Command{
	Use:   "gui",
	Short: "Tap the tempo in a window",
	Long:  "Tap the tempo in a window. Click the pad or press space to tap; up and down adjust the tempo, M toggles the metronome, S mutes and R resets.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		preferences, err := gioui.MakePreferences()
		if err != nil {
			logrus.WithError(err).Warn("using default preferences")
		}
		broker := metronome.NewBroker()
		audio, closeAudio := shared.NewAudioSink(cfg)
		sink, oscDisplay, err := shared.WithOSC(cfg, audio)
		if err != nil {
			closeAudio()
			return err
		}
		midi := shared.StartMIDI(broker, cfg)
		pad := gioui.NewTapPad(cfg.Language, preferences)
		model := metronome.New(cfg, broker, metronome.NewLoopClock(broker), sink, shared.Displays(pad, oscDisplay))
		go func() {
			pad.Main(model)
			midi.Close()
			closeAudio()
			os.Exit(0)
		}()
		app.Main()
		return nil
	},
}
