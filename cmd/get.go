package cmd

import (
	"fmt"
	"os"
	"path"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/Larhard/library-player/library"
	"github.com/Larhard/library-player/logging"
	"github.com/Larhard/library-player/remote"
	"github.com/Larhard/library-player/transfer"
)

var getDir string

var getCmd = &cobra.Command{
	Use:   "get RELATIVE_PATH",
	Short: "Download a video plus its matching subtitles",
	Long: `Download the video at the given library-relative path, along with any
sibling subtitle tracks whose name starts with the video's base name,
into the download directory. Files that already exist locally are
skipped, so re-running after a failure resumes the task.`,
	Args: cobra.ExactArgs(1),
	RunE: runGet,
}

func init() {
	getCmd.Flags().StringVarP(&getDir, "dir", "d", "", "download directory (overrides config)")
	rootCmd.AddCommand(getCmd)
}

func runGet(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := logging.Setup(cfg.LogLevel, verbose, false); err != nil {
		return err
	}

	localDir := cfg.DownloadDir
	if getDir != "" {
		localDir = getDir
	}
	if err := os.MkdirAll(localDir, 0o755); err != nil {
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

	relPath := args[0]
	task, err := transfer.PlanDownload(sess, root, relPath)
	if err != nil {
		return err
	}
	log.Debug().Str("video", relPath).Strs("subtitles", task.Subtitles).Msg("planned download")

	var (
		bar     *progressbar.ProgressBar
		barPath string
	)
	sess.OnProgress = func(remotePath string, copied, total int64) {
		if remotePath != barPath {
			barPath = remotePath
			bar = progressbar.NewOptions64(total,
				progressbar.OptionSetDescription(path.Base(remotePath)),
				progressbar.OptionSetWriter(os.Stderr),
				progressbar.OptionShowBytes(true),
				progressbar.OptionSetWidth(40),
				progressbar.OptionThrottle(100*time.Millisecond),
				progressbar.OptionOnCompletion(func() {
					fmt.Fprint(os.Stderr, "\n")
				}),
			)
		}
		_ = bar.Set64(copied)
	}

	results, err := transfer.Execute(task, sess, root, localDir)
	for _, r := range results {
		fmt.Printf("%-10s  %s\n", r.Status, r.Filename)
	}
	return err
}
