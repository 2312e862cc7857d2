// Package library models the remote media tree: walking it over SFTP,
// classifying entries into videos and subtitles, and tracking the
// session's rotating security hash.
package library

import "io/fs"

// Entry is one file-or-directory record discovered while walking the
// remote tree. Remote paths always use forward slashes.
type Entry struct {
	Name     string
	RelPath  string // relative to the walk root, never prefixed with it
	FullPath string // absolute path on the server
	IsDir    bool
	Mode     fs.FileMode
	Size     int64
}

// Lister issues directory listings against the remote server. It is
// satisfied by remote.SFTPSession and by canned fakes in tests.
type Lister interface {
	ListDir(path string) ([]fs.FileInfo, error)
}
