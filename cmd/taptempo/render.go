package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/vsariola/taptempo"
	"github.com/vsariola/taptempo/oto"
)

var (
	renderBPM    float64
	renderBeats  int
	renderOutput string
	renderPCM    bool
	renderRaw    bool
)

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render a metronome click track to a file",
	Long:  "Render a metronome click track to a .wav file, or a headerless .raw file with --raw. By default the samples are stereo float32; --pcm converts them to 16-bit signed PCM. Output - writes to standard output.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !cfg.Range().Contains(renderBPM) {
			return fmt.Errorf("bpm %v is outside [%v, %v]", renderBPM, cfg.MinBPM, cfg.MaxBPM)
		}
		if renderBeats <= 0 {
			return fmt.Errorf("beats must be positive, got %d", renderBeats)
		}
		clicks := taptempo.DefaultClicks(cfg.SampleRate)
		for i := range clicks {
			file := cfg.Cues.File(taptempo.Cue(i))
			if file == "" {
				continue
			}
			buf, err := oto.LoadWav(file, cfg.SampleRate)
			if err != nil {
				return err
			}
			clicks[i] = buf
		}
		buffer := taptempo.Render(clicks, cfg.Pattern, cfg.SampleRate, renderBPM, renderBeats)
		var data []byte
		var err error
		if renderRaw {
			data, err = taptempo.Raw(buffer, renderPCM)
		} else {
			data, err = taptempo.Wav(buffer, cfg.SampleRate, renderPCM)
		}
		if err != nil {
			return err
		}
		output := renderOutput
		if output == "" {
			output = "click.wav"
			if renderRaw {
				output = "click.raw"
			}
		}
		if output == "-" {
			_, err := cmd.OutOrStdout().Write(data)
			return err
		}
		if err := os.WriteFile(output, data, 0o644); err != nil {
			return fmt.Errorf("could not write %v: %w", output, err)
		}
		logrus.WithFields(logrus.Fields{"file": output, "bytes": len(data)}).Info("rendered")
		return nil
	},
}

func init() {
	flags := renderCmd.Flags()
	flags.Float64Var(&renderBPM, "bpm", 120, "tempo in beats per minute")
	flags.IntVar(&renderBeats, "beats", 8, "number of beats to render")
	flags.StringVarP(&renderOutput, "output", "o", "", "output `file` (default click.wav or click.raw)")
	flags.BoolVar(&renderPCM, "pcm", false, "convert to 16-bit signed PCM")
	flags.BoolVar(&renderRaw, "raw", false, "write raw samples without a header")
}
