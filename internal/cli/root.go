package cli

import (
	"github.com/spf13/cobra"
	"github.com/tingwen/newscast/internal/logging"
)

var (
	verbose    bool
	configPath string
	logger     *logging.Logger
)

var rootCmd = &cobra.Command{
	Use:   "newscast",
	Short: "Daily news video generator",
	Long: `Newscast assembles a narrated daily news video: it fetches or accepts
a compiled narration script, synthesizes per-block speech with voice
fallback, times subtitle chunks against the measured audio, renders
frames, and muxes everything into a single mp4.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger = logging.NewLogger(verbose)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().
		BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().
		StringVarP(&configPath, "config", "c", "newscast.toml", "Config file path")
}
