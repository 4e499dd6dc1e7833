package pathlocal

import (
	"bufio"
	"errors"
	"io"
	"os"

	"github.com/rs/zerolog/log"

	pathhelpers "github.com/ImGajeed76/fortdoc/pkg/fortdoc/path/helpers"
	pathmodels "github.com/ImGajeed76/fortdoc/pkg/fortdoc/path/models"
)

// ReadText reads a file and decodes it from the named encoding.
func ReadText(filePath string, encodingName string) (string, error) {
	enc, err := pathhelpers.Encoding(encodingName)
	if err != nil {
		return "", &pathmodels.PathError{Op: "local-read-get-encoding", Path: filePath, Err: err}
	}

	file, err := os.Open(filePath)
	if err != nil {
		return "", &pathmodels.PathError{Op: "local-read-open", Path: filePath, Err: err}
	}
	defer func() {
		if err := file.Close(); err != nil {
			log.Warn().Err(err).Str("path", filePath).Msg("closing file")
		}
	}()

	info, err := file.Stat()
	if err != nil {
		return "", &pathmodels.PathError{Op: "local-read-stat", Path: filePath, Err: err}
	}
	if info.IsDir() {
		return "", &pathmodels.PathError{Op: "local-read-check", Path: filePath, Err: pathmodels.ErrInvalid}
	}

	reader := bufio.NewReaderSize(file, pathhelpers.BufferSize(info.Size()))
	content, err := io.ReadAll(enc.NewDecoder().Reader(reader))
	if err != nil {
		return "", &pathmodels.PathError{Op: "local-read-decode", Path: filePath, Err: err}
	}
	return string(content), nil
}

// WriteText encodes content and writes it, creating or truncating the file.
// Content that the encoding cannot represent is rejected before the file is
// touched.
func WriteText(filePath string, content string, encodingName string) error {
	enc, err := pathhelpers.Encoding(encodingName)
	if err != nil {
		return &pathmodels.PathError{Op: "local-write-get-encoding", Path: filePath, Err: err}
	}

	encoded, err := enc.NewEncoder().Bytes([]byte(content))
	if err != nil {
		return &pathmodels.PathError{Op: "local-write-encode", Path: filePath, Err: err}
	}
	decoded, err := enc.NewDecoder().Bytes(encoded)
	if err != nil || string(decoded) != content {
		return &pathmodels.PathError{Op: "local-write-validate", Path: filePath,
			Err: errors.New("content cannot be represented in the specified encoding")}
	}

	file, err := os.OpenFile(filePath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, os.FileMode(pathmodels.FilePermissions))
	if err != nil {
		return &pathmodels.PathError{Op: "local-write-create", Path: filePath, Err: err}
	}

	writer := bufio.NewWriterSize(file, pathhelpers.BufferSize(int64(len(encoded))))
	if _, err := writer.Write(encoded); err != nil {
		file.Close()
		return &pathmodels.PathError{Op: "local-write-write", Path: filePath, Err: err}
	}
	if err := writer.Flush(); err != nil {
		file.Close()
		return &pathmodels.PathError{Op: "local-write-flush", Path: filePath, Err: err}
	}
	if err := file.Close(); err != nil {
		return &pathmodels.PathError{Op: "local-write-close", Path: filePath, Err: err}
	}
	return nil
}
