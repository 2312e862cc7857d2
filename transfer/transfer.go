// Package transfer plans and executes downloads of remote videos plus
// their matching subtitle tracks, and removes remote files.
package transfer

import (
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"

	"github.com/Larhard/library-player/library"
)

// ErrTransfer wraps fetch and remove failures.
var ErrTransfer = errors.New("transfer failed")

// Fetcher copies one remote file to a local path.
type Fetcher interface {
	Fetch(remotePath, localPath string) error
}

// Remover deletes one remote file.
type Remover interface {
	Remove(remotePath string) error
}

// Task is one planned download: a video plus the subtitle tracks that
// sit next to it on the server. All paths are root-relative.
type Task struct {
	RelPath   string
	Subtitles []string
}

// Items returns the task's root-relative paths in download order, the
// video first.
func (t Task) Items() []string {
	return append([]string{t.RelPath}, t.Subtitles...)
}

// Status of a single item within an executed task.
type Status int

const (
	StatusDownloaded Status = iota
	StatusSkipped
)

func (s Status) String() string {
	if s == StatusSkipped {
		return "skipped"
	}
	return "downloaded"
}

// Result records what happened to one item of a task.
type Result struct {
	Filename string
	Status   Status
}

// PlanDownload lists the video's containing remote directory and
// collects sibling subtitles, in the order the lister returned them.
func PlanDownload(lister library.Lister, rootPath, relPath string) (Task, error) {
	relDir := path.Dir(relPath)
	remoteDir := rootPath
	if relDir != "." {
		remoteDir = rootPath + "/" + relDir
	}
	infos, err := lister.ListDir(remoteDir)
	if err != nil {
		return Task{}, fmt.Errorf("list %s: %w", remoteDir, err)
	}
	task := Task{RelPath: relPath}
	for _, fi := range infos {
		if fi.IsDir() {
			continue
		}
		if library.IsMatchingSubtitle(fi.Name(), relPath) {
			rel := fi.Name()
			if relDir != "." {
				rel = relDir + "/" + fi.Name()
			}
			task.Subtitles = append(task.Subtitles, rel)
		}
	}
	return task, nil
}

// Execute downloads every item of the task into localDir. An item whose
// target filename already exists locally is skipped without touching
// the network, so re-running a task after a failure is safe. The first
// fetch error aborts the remaining items.
func Execute(task Task, fetcher Fetcher, rootPath, localDir string) ([]Result, error) {
	var results []Result
	for _, rel := range task.Items() {
		name := path.Base(rel)
		localPath := filepath.Join(localDir, name)
		if _, err := os.Stat(localPath); err == nil {
			results = append(results, Result{Filename: name, Status: StatusSkipped})
			continue
		}
		if err := fetcher.Fetch(rootPath+"/"+rel, localPath); err != nil {
			return results, fmt.Errorf("%w: fetch %s: %w", ErrTransfer, rel, err)
		}
		results = append(results, Result{Filename: name, Status: StatusDownloaded})
	}
	return results, nil
}

// Delete removes the remote file at rootPath/relPath. Remote state is
// the only state, so there is nothing to roll back.
func Delete(remover Remover, rootPath, relPath string) error {
	full := rootPath + "/" + relPath
	if err := remover.Remove(full); err != nil {
		return fmt.Errorf("%w: remove %s: %w", ErrTransfer, full, err)
	}
	return nil
}
