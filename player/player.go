// Package player launches the external video player as a detached
// process. Nothing is awaited; the player outlives the call.
package player

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// Launch starts the player described by the argv template, with every
// "{url}" token replaced by url. A template that never mentions {url}
// gets the URL appended as the last argument.
func Launch(argv []string, url string) error {
	if len(argv) == 0 {
		argv = []string{"mpv", "{url}"}
	}
	args := Expand(argv, url)

	bin, err := resolveBinary(args[0])
	if err != nil {
		return err
	}

	cmd := exec.Command(bin, args[1:]...)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start %s: %w", bin, err)
	}

	// Reap in the background so the player never zombies.
	go func() { _ = cmd.Wait() }()
	return nil
}

// Expand substitutes the playable URL into the argv template.
func Expand(argv []string, url string) []string {
	out := make([]string, len(argv))
	found := false
	for i, a := range argv {
		out[i] = strings.ReplaceAll(a, "{url}", url)
		if out[i] != a {
			found = true
		}
	}
	if !found {
		out = append(out, url)
	}
	return out
}

// resolveBinary locates the player binary: PATH first, then common
// Windows install locations for mpv.
func resolveBinary(name string) (string, error) {
	if strings.ContainsRune(name, os.PathSeparator) {
		return name, nil
	}
	if p, err := exec.LookPath(name); err == nil {
		return p, nil
	}
	for _, p := range commonWindowsPaths(name) {
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
	}
	return "", fmt.Errorf("player %q not found in PATH", name)
}

func commonWindowsPaths(name string) []string {
	if name != "mpv" {
		return nil
	}
	username := os.Getenv("USERNAME")
	if username == "" {
		if home, err := os.UserHomeDir(); err == nil {
			username = filepath.Base(home)
		}
	}
	paths := []string{
		`C:\Program Files\mpv\mpv.exe`,
		`C:\Program Files (x86)\mpv\mpv.exe`,
		`C:\tools\mpv\mpv.exe`,
		`C:\ProgramData\chocolatey\lib\mpv\tools\mpv.exe`,
	}
	if username != "" {
		paths = append(paths,
			`C:\Users\`+username+`\scoop\apps\mpv\current\mpv.exe`,
			`C:\Users\`+username+`\scoop\shims\mpv.exe`,
			`C:\Users\`+username+`\AppData\Local\Microsoft\WindowsApps\mpv.exe`,
		)
	}
	return paths
}
