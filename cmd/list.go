package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Larhard/library-player/library"
	"github.com/Larhard/library-player/logging"
	"github.com/Larhard/library-player/remote"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Print a playable URL for every video in the library",
	Long: `Perform one refresh of the remote library and print each video's
playable URL to standard output, one per line.`,
	RunE: runList,
}

func init() {
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := logging.Setup(cfg.LogLevel, verbose, false); err != nil {
		return err
	}

	sess, err := remote.Dial(remoteConfig(cfg))
	if err != nil {
		return err
	}
	defer sess.Close()

	state := library.NewState(cfg.BasePath)
	if _, err := state.Refresh(sess); err != nil {
		return err
	}
	root, err := state.RootPath()
	if err != nil {
		return err
	}

	videos, err := library.Videos(sess, root, library.DefaultVideoExtensions())
	if err != nil {
		return err
	}
	for _, v := range videos {
		url, err := state.PlayURL(cfg.BaseURL, v.RelPath)
		if err != nil {
			return err
		}
		fmt.Println(url)
	}
	return nil
}
