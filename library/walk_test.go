package library

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
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

// fakeLister serves canned listings keyed by absolute path.
type fakeLister struct {
	dirs   map[string][]fs.FileInfo
	calls  []string
	failOn string
}

func (l *fakeLister) ListDir(path string) ([]fs.FileInfo, error) {
	l.calls = append(l.calls, path)
	if path == l.failOn {
		return nil, errors.New("permission denied")
	}
	infos, ok := l.dirs[path]
	if !ok {
		return nil, fmt.Errorf("no such directory: %s", path)
	}
	return infos, nil
}

func testTree() *fakeLister {
	return &fakeLister{dirs: map[string][]fs.FileInfo{
		// Deliberately unsorted to exercise per-directory sorting.
		"/media/hash1": {
			fakeInfo{name: "sub", dir: true},
			fakeInfo{name: "A.srt", size: 10},
			fakeInfo{name: "A.mkv", size: 1 << 20},
		},
		"/media/hash1/sub": {
			fakeInfo{name: "B.mp4", size: 2 << 20},
		},
	}}
}

func TestWalkPreOrderSorted(t *testing.T) {
	lister := testTree()
	entries, err := Walk(lister, "/media/hash1")
	require.NoError(t, err)

	var rels []string
	for _, e := range entries {
		rels = append(rels, e.RelPath)
	}
	require.Equal(t, []string{"A.mkv", "A.srt", "sub", "sub/B.mp4"}, rels)

	// One listing per directory.
	require.Equal(t, []string{"/media/hash1", "/media/hash1/sub"}, lister.calls)
}

func TestWalkPathInvariants(t *testing.T) {
	const root = "/media/hash1"
	entries, err := Walk(testTree(), root)
	require.NoError(t, err)

	for _, e := range entries {
		require.Equal(t, root+"/"+e.RelPath, e.FullPath)
		require.False(t, strings.HasPrefix(e.RelPath, root),
			"relative path %q carries the root prefix", e.RelPath)
	}
}

func TestWalkChildrenFollowParent(t *testing.T) {
	entries, err := Walk(testTree(), "/media/hash1")
	require.NoError(t, err)

	pos := make(map[string]int, len(entries))
	for i, e := range entries {
		pos[e.RelPath] = i
	}
	for _, e := range entries {
		if e.IsDir {
			for _, other := range entries {
				if other.RelPath != e.RelPath && strings.HasPrefix(other.RelPath, e.RelPath+"/") {
					require.Greater(t, pos[other.RelPath], pos[e.RelPath])
				}
			}
		}
	}
}

func TestWalkSubdirFailureAbortsWholeWalk(t *testing.T) {
	lister := testTree()
	lister.failOn = "/media/hash1/sub"

	entries, err := Walk(lister, "/media/hash1")
	require.Error(t, err)
	require.Nil(t, entries, "no partial result on failure")
}

func TestVideosFiltersCatalog(t *testing.T) {
	videos, err := Videos(testTree(), "/media/hash1", ExtensionSet{"mkv": true, "mp4": true})
	require.NoError(t, err)

	var rels []string
	for _, v := range videos {
		rels = append(rels, v.RelPath)
		require.False(t, v.IsDir)
	}
	require.Equal(t, []string{"A.mkv", "sub/B.mp4"}, rels)
}
