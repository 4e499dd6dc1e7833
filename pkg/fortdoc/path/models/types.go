package pathmodels

import (
	"io/fs"
	"time"
)

type FileMode uint32

type FileInfo struct {
	Name    string    // base name of the file
	Size    int64     // length in bytes
	Mode    FileMode  // file mode bits
	ModTime time.Time // modification time
	IsDir   bool      // is a directory
}

// FromFS converts a fs.FileInfo, as returned by both os and pkg/sftp.
func FromFS(info fs.FileInfo) *FileInfo {
	return &FileInfo{
		Name:    info.Name(),
		Size:    info.Size(),
		Mode:    FileMode(info.Mode()),
		ModTime: info.ModTime(),
		IsDir:   info.IsDir(),
	}
}

const (
	FilePermissions FileMode = 0644
	DirPermissions  FileMode = 0755
)

var (
	ErrNotExist   = fs.ErrNotExist   // Item does not exist
	ErrExist      = fs.ErrExist      // Item already exists
	ErrPermission = fs.ErrPermission // Permission denied
	ErrInvalid    = fs.ErrInvalid    // Invalid operation
)

// PathError records the failed operation, the path and the cause. Op names
// are "<backend>-<operation>[-<step>]", e.g. "sftp-read-open".
type PathError struct {
	Op   string
	Path string
	Err  error
}

func (e *PathError) Error() string {
	if e.Err == nil {
		return e.Op + " " + e.Path
	}
	return e.Op + " " + e.Path + ": " + e.Err.Error()
}

func (e *PathError) Unwrap() error { return e.Err }
