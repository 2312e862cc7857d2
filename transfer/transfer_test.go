package transfer

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Larhard/library-player/library"
)

type fakeInfo struct {
	name string
	dir  bool
	size int64
}

func (f fakeInfo) Name() string { return f.name }
func (f fakeInfo) Size() int64  { return f.size }
func (f fakeInfo) Mode() fs.FileMode {
	if f.dir {
		return fs.ModeDir | 0o755
	}
	return 0o644
}
func (f fakeInfo) ModTime() time.Time { return time.Time{} }
func (f fakeInfo) IsDir() bool        { return f.dir }
func (f fakeInfo) Sys() any           { return nil }

type fakeLister struct {
	dirs map[string][]fs.FileInfo
}

func (l *fakeLister) ListDir(path string) ([]fs.FileInfo, error) {
	infos, ok := l.dirs[path]
	if !ok {
		return nil, fmt.Errorf("no such directory: %s", path)
	}
	return infos, nil
}

// fakeFetcher writes a marker file per fetch and records call order.
type fakeFetcher struct {
	calls  []string
	failOn string
}

func (f *fakeFetcher) Fetch(remotePath, localPath string) error {
	f.calls = append(f.calls, remotePath)
	if remotePath == f.failOn {
		return errors.New("connection reset")
	}
	return os.WriteFile(localPath, []byte("data"), 0o644)
}

type fakeRemover struct {
	removed []string
	err     error
}

func (r *fakeRemover) Remove(remotePath string) error {
	if r.err != nil {
		return r.err
	}
	r.removed = append(r.removed, remotePath)
	return nil
}

func TestPlanDownloadCollectsSiblingsInListerOrder(t *testing.T) {
	lister := &fakeLister{dirs: map[string][]fs.FileInfo{
		"/videos/h1": {
			fakeInfo{name: "Movie.Name.en.srt"},
			fakeInfo{name: "Other.srt"},
			fakeInfo{name: "Movie.Name.mkv"},
			fakeInfo{name: "Movie.Name.srt"},
			fakeInfo{name: "extras", dir: true},
		},
	}}

	task, err := PlanDownload(lister, "/videos/h1", "Movie.Name.mkv")
	require.NoError(t, err)
	require.Equal(t, "Movie.Name.mkv", task.RelPath)
	// Lister order, not sorted.
	require.Equal(t, []string{"Movie.Name.en.srt", "Movie.Name.srt"}, task.Subtitles)
}

func TestPlanDownloadNestedDirectory(t *testing.T) {
	lister := &fakeLister{dirs: map[string][]fs.FileInfo{
		"/videos/h1/sub": {
			fakeInfo{name: "B.mp4"},
			fakeInfo{name: "B.srt"},
		},
	}}

	task, err := PlanDownload(lister, "/videos/h1", "sub/B.mp4")
	require.NoError(t, err)
	require.Equal(t, []string{"sub/B.srt"}, task.Subtitles)
}

func TestExecuteDownloadsFreshAndSkipsExisting(t *testing.T) {
	dir := t.TempDir()
	task := Task{RelPath: "A.mkv", Subtitles: []string{"A.srt"}}

	fetcher := &fakeFetcher{}
	results, err := Execute(task, fetcher, "/videos/h1", dir)
	require.NoError(t, err)
	require.Equal(t, []Result{
		{Filename: "A.mkv", Status: StatusDownloaded},
		{Filename: "A.srt", Status: StatusDownloaded},
	}, results)
	require.Equal(t, []string{"/videos/h1/A.mkv", "/videos/h1/A.srt"}, fetcher.calls)

	// Second run: everything already exists, no network calls.
	fetcher.calls = nil
	results, err = Execute(task, fetcher, "/videos/h1", dir)
	require.NoError(t, err)
	require.Equal(t, []Result{
		{Filename: "A.mkv", Status: StatusSkipped},
		{Filename: "A.srt", Status: StatusSkipped},
	}, results)
	require.Empty(t, fetcher.calls)
}

func TestExecuteNeverOverwrites(t *testing.T) {
	dir := t.TempDir()
	existing := filepath.Join(dir, "A.mkv")
	require.NoError(t, os.WriteFile(existing, []byte("local copy"), 0o644))

	fetcher := &fakeFetcher{}
	results, err := Execute(Task{RelPath: "A.mkv"}, fetcher, "/videos/h1", dir)
	require.NoError(t, err)
	require.Equal(t, []Result{{Filename: "A.mkv", Status: StatusSkipped}}, results)
	require.Empty(t, fetcher.calls)

	data, err := os.ReadFile(existing)
	require.NoError(t, err)
	require.Equal(t, "local copy", string(data))
}

func TestExecuteFetchErrorAbortsRemainingItems(t *testing.T) {
	dir := t.TempDir()
	task := Task{RelPath: "A.mkv", Subtitles: []string{"A.srt", "A.en.srt"}}

	fetcher := &fakeFetcher{failOn: "/videos/h1/A.srt"}
	results, err := Execute(task, fetcher, "/videos/h1", dir)
	require.ErrorIs(t, err, ErrTransfer)
	require.Equal(t, []Result{{Filename: "A.mkv", Status: StatusDownloaded}}, results)
	// The third item was never attempted.
	require.Equal(t, []string{"/videos/h1/A.mkv", "/videos/h1/A.srt"}, fetcher.calls)
}

func TestDelete(t *testing.T) {
	remover := &fakeRemover{}
	require.NoError(t, Delete(remover, "/videos/h1", "sub/B.mp4"))
	require.Equal(t, []string{"/videos/h1/sub/B.mp4"}, remover.removed)

	remover = &fakeRemover{err: errors.New("no such file")}
	err := Delete(remover, "/videos/h1", "gone.mkv")
	require.ErrorIs(t, err, ErrTransfer)
}

// TestLibraryRoundTrip drives a whole refresh/download cycle against a
// canned remote tree: refresh resolves the security hash, the catalog
// lists the two videos in sorted order, and downloading A.mkv also
// fetches its subtitle. A repeated download skips everything.
func TestLibraryRoundTrip(t *testing.T) {
	lister := &fakeLister{dirs: map[string][]fs.FileInfo{
		"/videos": {fakeInfo{name: "hash1", dir: true}},
		"/videos/hash1": {
			fakeInfo{name: "A.mkv", size: 100},
			fakeInfo{name: "A.srt", size: 10},
			fakeInfo{name: "sub", dir: true},
		},
		"/videos/hash1/sub": {
			fakeInfo{name: "B.mp4", size: 200},
		},
	}}

	state := library.NewState("/videos")
	hash, err := state.Refresh(lister)
	require.NoError(t, err)
	require.Equal(t, "hash1", hash)

	root, err := state.RootPath()
	require.NoError(t, err)

	videos, err := library.Videos(lister, root, library.ExtensionSet{"mkv": true, "mp4": true})
	require.NoError(t, err)
	var rels []string
	for _, v := range videos {
		rels = append(rels, v.RelPath)
	}
	require.Equal(t, []string{"A.mkv", "sub/B.mp4"}, rels)

	task, err := PlanDownload(lister, root, "A.mkv")
	require.NoError(t, err)
	require.Equal(t, []string{"A.srt"}, task.Subtitles)

	dir := t.TempDir()
	fetcher := &fakeFetcher{}

	results, err := Execute(task, fetcher, root, dir)
	require.NoError(t, err)
	require.Len(t, results, 2)
	for _, r := range results {
		require.Equal(t, StatusDownloaded, r.Status)
	}

	results, err = Execute(task, fetcher, root, dir)
	require.NoError(t, err)
	require.Len(t, results, 2)
	for _, r := range results {
		require.Equal(t, StatusSkipped, r.Status)
	}
}
