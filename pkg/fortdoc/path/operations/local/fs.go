package pathlocal

import (
	"io/fs"
	"os"
	"path/filepath"

	pathmodels "github.com/ImGajeed76/fortdoc/pkg/fortdoc/path/models"
)

// List returns the absolute paths of the directory entries, or of the whole
// tree below it when recursive is set.
func List(dirPath string, recursive bool) ([]string, error) {
	absPath, err := filepath.Abs(dirPath)
	if err != nil {
		return nil, &pathmodels.PathError{Op: "local-list-abs", Path: dirPath, Err: err}
	}

	info, err := os.Stat(absPath)
	if err != nil {
		return nil, &pathmodels.PathError{Op: "local-list-stat", Path: dirPath, Err: err}
	}
	if !info.IsDir() {
		return nil, &pathmodels.PathError{Op: "local-list-check", Path: dirPath, Err: pathmodels.ErrInvalid}
	}

	var paths []string
	if recursive {
		err = filepath.WalkDir(absPath, func(p string, _ fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if p != absPath {
				paths = append(paths, p)
			}
			return nil
		})
		if err != nil {
			return nil, &pathmodels.PathError{Op: "local-list-walk", Path: dirPath, Err: err}
		}
		return paths, nil
	}

	entries, err := os.ReadDir(absPath)
	if err != nil {
		return nil, &pathmodels.PathError{Op: "local-list-read", Path: dirPath, Err: err}
	}
	for _, entry := range entries {
		paths = append(paths, filepath.Join(absPath, entry.Name()))
	}
	return paths, nil
}

// Glob matches pattern inside dir using filepath.Match syntax.
func Glob(dir string, pattern string) ([]string, error) {
	if dir == "" {
		dir = "."
	}
	fullPattern := filepath.Join(dir, pattern)
	matches, err := filepath.Glob(fullPattern)
	if err != nil {
		return nil, &pathmodels.PathError{Op: "local-glob-match", Path: fullPattern, Err: err}
	}
	return matches, nil
}

// MakeDir creates a directory. With parents the missing parents are created
// too; with existsOk an existing directory is not an error.
func MakeDir(dirPath string, parents bool, existsOk bool) error {
	dirPath = filepath.Clean(dirPath)

	info, err := os.Stat(dirPath)
	switch {
	case err == nil && info.IsDir():
		if existsOk {
			return nil
		}
		return &pathmodels.PathError{Op: "local-mkdir-exists", Path: dirPath, Err: pathmodels.ErrExist}
	case err == nil:
		return &pathmodels.PathError{Op: "local-mkdir-notdir", Path: dirPath, Err: pathmodels.ErrExist}
	case !os.IsNotExist(err):
		return &pathmodels.PathError{Op: "local-mkdir-stat", Path: dirPath, Err: err}
	}

	perm := os.FileMode(pathmodels.DirPermissions)
	if parents {
		err = os.MkdirAll(dirPath, perm)
	} else {
		err = os.Mkdir(dirPath, perm)
	}
	if err != nil {
		return &pathmodels.PathError{Op: "local-mkdir", Path: dirPath, Err: err}
	}
	return nil
}

// Stat describes a file.
func Stat(filePath string) (*pathmodels.FileInfo, error) {
	info, err := os.Stat(filePath)
	if err != nil {
		return nil, &pathmodels.PathError{Op: "local-stat", Path: filePath, Err: err}
	}
	return pathmodels.FromFS(info), nil
}
