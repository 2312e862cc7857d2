package library

import (
	"path"
	"strings"
)

// ExtensionSet is a set of lowercase, dot-less file extensions.
type ExtensionSet map[string]bool

// DefaultVideoExtensions returns the extension set used to decide
// which remote files count as playable videos.
func DefaultVideoExtensions() ExtensionSet {
	return ExtensionSet{
		"mkv": true, "mp4": true, "avi": true, "webm": true,
		"m4v": true, "mov": true, "ts": true, "flv": true,
		"ogv": true, "wmv": true, "mpg": true, "mpeg": true,
		"m2ts": true,
	}
}

// ExtensionOf returns the substring after the last '.' in p, lowercased.
// A path without a dot is returned whole, lowercased.
func ExtensionOf(p string) string {
	if i := strings.LastIndex(p, "."); i >= 0 {
		return strings.ToLower(p[i+1:])
	}
	return strings.ToLower(p)
}

// IsVideo reports whether e is a playable video: a regular file whose
// extension is in exts.
func IsVideo(e Entry, exts ExtensionSet) bool {
	return !e.IsDir && exts[ExtensionOf(e.RelPath)]
}

// IsMatchingSubtitle reports whether candidateName is a subtitle track
// for the video at videoRelPath: it must start with the video's base
// name (filename with its last extension stripped) and end with ".srt".
// The suffix match is case-sensitive.
func IsMatchingSubtitle(candidateName, videoRelPath string) bool {
	stem := path.Base(videoRelPath)
	if i := strings.LastIndex(stem, "."); i >= 0 {
		stem = stem[:i]
	}
	return strings.HasPrefix(candidateName, stem) &&
		strings.HasSuffix(candidateName, ".srt")
}
