package library

import (
	"fmt"
	"sort"
)

// Walk lists the remote tree rooted at rootPath depth-first, pre-order:
// a directory is emitted before its children, and entries within each
// directory are sorted by name so listings are reproducible. One ListDir
// call is issued per directory. Any listing failure aborts the whole
// walk; there is no partial result.
func Walk(lister Lister, rootPath string) ([]Entry, error) {
	var entries []Entry
	if err := walkDir(lister, rootPath, "", &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

func walkDir(lister Lister, rootPath, rel string, out *[]Entry) error {
	dir := rootPath
	if rel != "" {
		dir = rootPath + "/" + rel
	}
	infos, err := lister.ListDir(dir)
	if err != nil {
		return fmt.Errorf("list %s: %w", dir, err)
	}
	sort.Slice(infos, func(i, j int) bool {
		return infos[i].Name() < infos[j].Name()
	})
	for _, fi := range infos {
		relPath := fi.Name()
		if rel != "" {
			relPath = rel + "/" + fi.Name()
		}
		*out = append(*out, Entry{
			Name:     fi.Name(),
			RelPath:  relPath,
			FullPath: rootPath + "/" + relPath,
			IsDir:    fi.IsDir(),
			Mode:     fi.Mode(),
			Size:     fi.Size(),
		})
		if fi.IsDir() {
			if err := walkDir(lister, rootPath, relPath, out); err != nil {
				return err
			}
		}
	}
	return nil
}

// Videos walks the tree rooted at rootPath and keeps only playable
// videos. Each call re-walks the tree.
func Videos(lister Lister, rootPath string, exts ExtensionSet) ([]Entry, error) {
	all, err := Walk(lister, rootPath)
	if err != nil {
		return nil, err
	}
	var videos []Entry
	for _, e := range all {
		if IsVideo(e, exts) {
			videos = append(videos, e)
		}
	}
	return videos, nil
}
