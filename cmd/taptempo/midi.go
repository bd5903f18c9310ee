package main

import (
	"fmt"

	"github.com/spf13/cobra"
	shared "github.com/vsariola/taptempo/cmd"
	"github.com/vsariola/taptempo/metronome"
)

var midiCmd = &cobra.Command{
	Use:   "midi",
	Short: "List the MIDI inputs",
	Long:  "List the MIDI inputs. Any prefix of a listed name can be given as midi.input in the config.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := shared.NewMIDIContext(metronome.NewBroker(), cfg.MIDI.Note)
		defer ctx.Close()
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "MIDI support: %v\n", ctx.Support())
		for input := range ctx.Inputs {
			fmt.Fprintln(out, input.String())
		}
		return nil
	},
}
