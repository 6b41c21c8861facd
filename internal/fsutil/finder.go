// Package fsutil provides file system utility functions.
package fsutil

import (
	"os"
	"sort"
	"strings"

	"github.com/spf13/afero"
)

// FindFilesByExtension recursively searches rootPath on fsys for files ending
// with one of the given extensions. A rootPath naming a file is returned as is
// when it matches. Paths are returned sorted.
func FindFilesByExtension(fsys afero.Fs, rootPath string, extensions ...string) ([]string, error) {
	if len(extensions) == 0 {
		panic("at least one extension is required")
	}

	var files []string
	err := afero.Walk(fsys, rootPath, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		for _, ext := range extensions {
			if strings.HasSuffix(info.Name(), ext) {
				files = append(files, path)
				break
			}
		}
		return nil
	})

	if err != nil {
		return nil, err
	}

	sort.Strings(files)
	return files, nil
}
