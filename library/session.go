package library

import (
	"errors"
	"fmt"
	"strings"
	"sync"
)

var (
	// ErrEmptyBase means the base directory listing returned no entries,
	// so no security hash could be established.
	ErrEmptyBase = errors.New("empty base directory")

	// ErrNoSession means the root path was requested before any
	// security hash was established via Refresh.
	ErrNoSession = errors.New("no session established")
)

// State tracks the server's rotating security hash: an opaque directory
// name under the base path that namespaces the media root for the
// current session. The hash is volatile — every operation that touches
// the remote tree re-fetches it via Refresh instead of trusting a
// cached value.
type State struct {
	mu       sync.Mutex
	basePath string
	hash     string
}

func NewState(basePath string) *State {
	return &State{basePath: strings.TrimSuffix(basePath, "/")}
}

// Refresh lists the base path and adopts the first entry's name, in the
// order the transport returned it, as the new security hash. An empty
// listing fails with ErrEmptyBase.
func (s *State) Refresh(lister Lister) (string, error) {
	infos, err := lister.ListDir(s.basePath)
	if err != nil {
		return "", err
	}
	if len(infos) == 0 {
		return "", fmt.Errorf("%w: %s", ErrEmptyBase, s.basePath)
	}
	s.mu.Lock()
	s.hash = infos[0].Name()
	s.mu.Unlock()
	return infos[0].Name(), nil
}

// RootPath returns the effective media root, basePath/hash. It fails
// with ErrNoSession until a Refresh has succeeded.
func (s *State) RootPath() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.hash == "" {
		return "", ErrNoSession
	}
	return s.basePath + "/" + s.hash, nil
}

// PlayURL builds the playable URL baseURL/hash/relPath for the current
// session. The path is joined verbatim, without percent-encoding.
func (s *State) PlayURL(baseURL, relPath string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.hash == "" {
		return "", ErrNoSession
	}
	return strings.TrimSuffix(baseURL, "/") + "/" + s.hash + "/" + relPath, nil
}
