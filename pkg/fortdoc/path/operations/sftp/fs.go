package pathsftp

import (
	"context"
	"errors"
	"io/fs"
	"path"

	pathmodels "github.com/ImGajeed76/fortdoc/pkg/fortdoc/path/models"
	sftpmanager "github.com/ImGajeed76/fortdoc/pkg/fortdoc/sftp"
)

// List returns the remote paths below dir. Pooled clients are shared, so
// none of these functions close the client they get.
func List(ctx context.Context, dir string, recursive bool, details sftpmanager.ConnectionDetails) ([]string, error) {
	client, err := sftpmanager.GetClient(ctx, details)
	if err != nil {
		return nil, &pathmodels.PathError{Op: "sftp-list-get-client", Path: dir, Err: err}
	}

	info, err := client.Stat(dir)
	if err != nil {
		return nil, &pathmodels.PathError{Op: "sftp-list-stat", Path: dir, Err: err}
	}
	if !info.IsDir() {
		return nil, &pathmodels.PathError{Op: "sftp-list-check", Path: dir, Err: pathmodels.ErrInvalid}
	}

	var paths []string
	if recursive {
		walker := client.Walk(dir)
		for walker.Step() {
			if err := walker.Err(); err != nil {
				return nil, &pathmodels.PathError{Op: "sftp-list-walk", Path: walker.Path(), Err: err}
			}
			if walker.Path() != dir {
				paths = append(paths, walker.Path())
			}
		}
		return paths, nil
	}

	entries, err := client.ReadDir(dir)
	if err != nil {
		return nil, &pathmodels.PathError{Op: "sftp-list-read", Path: dir, Err: err}
	}
	for _, entry := range entries {
		paths = append(paths, path.Join(dir, entry.Name()))
	}
	return paths, nil
}

// Glob matches pattern inside the remote dir.
func Glob(ctx context.Context, dir string, pattern string, details sftpmanager.ConnectionDetails) ([]string, error) {
	if dir == "" {
		dir = "."
	}
	client, err := sftpmanager.GetClient(ctx, details)
	if err != nil {
		return nil, &pathmodels.PathError{Op: "sftp-glob-get-client", Path: dir, Err: err}
	}

	fullPattern := path.Join(dir, pattern)
	matches, err := client.Glob(fullPattern)
	if err != nil {
		return nil, &pathmodels.PathError{Op: "sftp-glob-match", Path: fullPattern, Err: err}
	}
	return matches, nil
}

// MakeDir creates a remote directory.
func MakeDir(ctx context.Context, dir string, parents bool, existsOk bool, details sftpmanager.ConnectionDetails) error {
	client, err := sftpmanager.GetClient(ctx, details)
	if err != nil {
		return &pathmodels.PathError{Op: "sftp-mkdir-get-client", Path: dir, Err: err}
	}
	dir = path.Clean(dir)

	info, err := client.Stat(dir)
	switch {
	case err == nil && info.IsDir():
		if existsOk {
			return nil
		}
		return &pathmodels.PathError{Op: "sftp-mkdir-exists", Path: dir, Err: pathmodels.ErrExist}
	case err == nil:
		return &pathmodels.PathError{Op: "sftp-mkdir-notdir", Path: dir, Err: pathmodels.ErrExist}
	case !errors.Is(err, fs.ErrNotExist):
		return &pathmodels.PathError{Op: "sftp-mkdir-stat", Path: dir, Err: err}
	}

	if parents {
		err = client.MkdirAll(dir)
	} else {
		err = client.Mkdir(dir)
	}
	if err != nil {
		return &pathmodels.PathError{Op: "sftp-mkdir", Path: dir, Err: err}
	}
	return nil
}

// Stat describes a remote file.
func Stat(ctx context.Context, filePath string, details sftpmanager.ConnectionDetails) (*pathmodels.FileInfo, error) {
	client, err := sftpmanager.GetClient(ctx, details)
	if err != nil {
		return nil, &pathmodels.PathError{Op: "sftp-stat-get-client", Path: filePath, Err: err}
	}
	info, err := client.Stat(filePath)
	if err != nil {
		return nil, &pathmodels.PathError{Op: "sftp-stat", Path: filePath, Err: err}
	}
	return pathmodels.FromFS(info), nil
}
