package main

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/vsariola/taptempo"
	"github.com/vsariola/taptempo/version"
)

var (
	configPath string
	logLevel   string
	cfg        taptempo.Config
)

var rootCmd = &cobra.Command{
	Use:          "taptempo",
	Short:        "Tap tempo estimator and metronome",
	Long:         "taptempo estimates the tempo from taps and plays it back as a metronome click.",
	Version:      version.VersionOrHash,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level, err := logrus.ParseLevel(logLevel)
		if err != nil {
			return err
		}
		logrus.SetOutput(cmd.ErrOrStderr())
		logrus.SetLevel(level)
		cfg, err = taptempo.LoadConfig(configPath)
		return err
	},
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&configPath, "config", "c", "", "config `file` (default taptempo/config.yml in the user config directory)")
	flags.StringVar(&logLevel, "log-level", "warn", "log `level`: trace, debug, info, warn or error")
	rootCmd.AddCommand(runCmd, guiCmd, serveCmd, renderCmd, midiCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
