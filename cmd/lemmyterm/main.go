package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"lemmyterm/internal/config"
)

var (
	version = "dev"
	commit  = "unknown"
)

func NewLemmytermCommand() *cobra.Command {
	a := &app{}

	cmd := &cobra.Command{
		Use:   "lemmyterm",
		Short: "Private messages for Lemmy, in the terminal",
		Long: `lemmyterm reads and sends Lemmy private messages. Without a
subcommand it opens the interactive inbox.`,
		Version:       fmt.Sprintf("%s (commit: %s)", version, commit),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup()
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			a.close()
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runTUI()
		},
	}
	cmd.CompletionOptions.DisableDefaultCmd = true

	cmd.PersistentFlags().StringVarP(&a.cfgPath, "config", "c", "", "config file path (default is $HOME/.config/lemmyterm/config.yaml)")
	cmd.PersistentFlags().StringVarP(&a.instanceFlag, "instance", "i", "", "instance URL, e.g. lemmy.ml")
	cmd.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "enable debug logging")

	cmd.AddCommand(
		newTUICommand(a),
		newLoginCommand(a),
		newLogoutCommand(a),
		newListCommand(a),
		newSendCommand(a),
		newReadCommand(a),
		newDeleteCommand(a),
		newReportCommand(a),
		newPurgeCommand(a),
	)
	return cmd
}

func main() {
	_ = godotenv.Load(".env")
	if dir, err := config.Dir(); err == nil {
		_ = godotenv.Load(filepath.Join(dir, ".env"))
	}

	if err := NewLemmytermCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
