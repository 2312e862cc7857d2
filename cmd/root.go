// Package cmd wires the command-line surface: the root command starts
// the interactive TUI, the subcommands drive single operations against
// the remote library.
package cmd

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/Larhard/library-player/config"
	"github.com/Larhard/library-player/logging"
	"github.com/Larhard/library-player/remote"
	"github.com/Larhard/library-player/tui"
)

var (
	Version = "dev"

	cfgPath string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:     "library-player",
	Short:   "Browse, play and download a remote media library over SFTP",
	Version: Version,
	Long: `library-player browses a media library exposed over an SFTP-capable
SSH server, plays videos via an external player, downloads them (plus
matching subtitles) and deletes remote files.

Run without arguments to start the interactive TUI.`,
	RunE: runTUI,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "alternate config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func remoteConfig(cfg *config.Config) remote.Config {
	return remote.Config{
		Host:           cfg.Host,
		Port:           cfg.Port,
		User:           cfg.User,
		KeyFile:        cfg.KeyFile,
		KnownHostsFile: cfg.KnownHostsFile,
	}
}

func runTUI(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := logging.Setup(cfg.LogLevel, verbose, true); err != nil {
		return err
	}

	p := tea.NewProgram(tui.NewModel(cfg), tea.WithAltScreen())
	_, err = p.Run()
	return err
}
