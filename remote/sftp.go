package remote

import (
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/pkg/sftp"
	"golang.org/x/crypto/ssh"
)

// SFTPSession is one connected SFTP session. It satisfies the Lister,
// Fetcher and Remover interfaces the library and transfer packages
// consume.
type SFTPSession struct {
	conn   *ssh.Client
	client *sftp.Client

	// OnProgress, when set, is called with cumulative byte counts
	// during Fetch. Set it before issuing transfers.
	OnProgress ProgressFunc
}

// ListDir lists one remote directory, in the order the server returned
// the entries.
func (s *SFTPSession) ListDir(path string) ([]fs.FileInfo, error) {
	infos, err := s.client.ReadDir(path)
	if err != nil {
		return nil, fmt.Errorf("read dir %s: %w", path, err)
	}
	return infos, nil
}

// Fetch copies one remote file to localPath. A partial local file is
// removed on failure so a retried download starts clean.
func (s *SFTPSession) Fetch(remotePath, localPath string) error {
	src, err := s.client.Open(remotePath)
	if err != nil {
		return fmt.Errorf("open %s: %w", remotePath, err)
	}
	defer src.Close()

	var total int64
	if fi, err := src.Stat(); err == nil {
		total = fi.Size()
	}

	dst, err := os.Create(localPath)
	if err != nil {
		return err
	}

	var w io.Writer = dst
	if s.OnProgress != nil {
		w = &progressWriter{w: dst, path: remotePath, total: total, fn: s.OnProgress}
	}
	if _, err := io.Copy(w, src); err != nil {
		dst.Close()
		os.Remove(localPath)
		return fmt.Errorf("fetch %s: %w", remotePath, err)
	}
	return dst.Close()
}

// Remove deletes one remote file.
func (s *SFTPSession) Remove(remotePath string) error {
	if err := s.client.Remove(remotePath); err != nil {
		return fmt.Errorf("remove %s: %w", remotePath, err)
	}
	return nil
}

// Close tears down the SFTP session and the underlying SSH connection.
func (s *SFTPSession) Close() error {
	err := s.client.Close()
	if cerr := s.conn.Close(); err == nil {
		err = cerr
	}
	return err
}

// progressWriter reports cumulative bytes written to the progress
// callback.
type progressWriter struct {
	w       io.Writer
	path    string
	total   int64
	written int64
	fn      ProgressFunc
}

func (pw *progressWriter) Write(p []byte) (int, error) {
	n, err := pw.w.Write(p)
	if n > 0 {
		pw.written += int64(n)
		pw.fn(pw.path, pw.written, pw.total)
	}
	return n, err
}
