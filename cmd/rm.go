package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Larhard/library-player/library"
	"github.com/Larhard/library-player/logging"
	"github.com/Larhard/library-player/remote"
	"github.com/Larhard/library-player/transfer"
)

var rmForce bool

var rmCmd = &cobra.Command{
	Use:   "rm RELATIVE_PATH",
	Short: "Delete a remote file from the library",
	Args:  cobra.ExactArgs(1),
	RunE:  runRm,
}

func init() {
	rmCmd.Flags().BoolVarP(&rmForce, "force", "f", false, "delete without confirmation")
	rootCmd.AddCommand(rmCmd)
}

func runRm(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := logging.Setup(cfg.LogLevel, verbose, false); err != nil {
		return err
	}

	relPath := args[0]
	if !rmForce {
		fmt.Printf("Delete %s from the server? [y/N]: ", relPath)
		reader := bufio.NewReader(os.Stdin)
		response, _ := reader.ReadString('\n')
		response = strings.TrimSpace(strings.ToLower(response))
		if response != "y" && response != "yes" {
			fmt.Println("Deletion cancelled")
			return nil
		}
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

	if err := transfer.Delete(sess, root, relPath); err != nil {
		return err
	}
	fmt.Printf("Deleted %s\n", relPath)
	return nil
}
