// Package remote provides the SSH/SFTP transport used to reach the
// media server. Sessions are short-lived: each operation dials, does
// its work and closes, so no transport state is shared between
// concurrent operations.
package remote

import "errors"

// ErrConnection wraps dial, authentication and subsystem failures.
var ErrConnection = errors.New("connection failed")

// Config holds everything needed to dial the media server.
type Config struct {
	Host string
	Port int
	User string

	// KeyFile is an explicit private key. When empty, the ssh-agent
	// and the default key paths under ~/.ssh are tried.
	KeyFile string

	// KnownHostsFile overrides ~/.ssh/known_hosts for host key checks.
	KnownHostsFile string
}

// ProgressFunc receives cumulative bytes copied while a file is being
// fetched. total is 0 when the remote size is unknown.
type ProgressFunc func(remotePath string, copied, total int64)
