package pathsftp

import (
	"bufio"
	"bytes"
	"context"
	"io"
	"os"

	"github.com/rs/zerolog/log"

	pathhelpers "github.com/ImGajeed76/fortdoc/pkg/fortdoc/path/helpers"
	pathmodels "github.com/ImGajeed76/fortdoc/pkg/fortdoc/path/models"
	sftpmanager "github.com/ImGajeed76/fortdoc/pkg/fortdoc/sftp"
)

// ReadText reads a remote file and decodes it from the named encoding.
func ReadText(ctx context.Context, filePath string, encodingName string, details sftpmanager.ConnectionDetails) (string, error) {
	client, err := sftpmanager.GetClient(ctx, details)
	if err != nil {
		return "", &pathmodels.PathError{Op: "sftp-read-get-client", Path: filePath, Err: err}
	}

	enc, err := pathhelpers.Encoding(encodingName)
	if err != nil {
		return "", &pathmodels.PathError{Op: "sftp-read-get-encoding", Path: filePath, Err: err}
	}

	file, err := client.Open(filePath)
	if err != nil {
		return "", &pathmodels.PathError{Op: "sftp-read-open", Path: filePath, Err: err}
	}
	defer func() {
		if err := file.Close(); err != nil {
			log.Warn().Err(err).Str("path", filePath).Msg("closing remote file")
		}
	}()

	info, err := file.Stat()
	if err != nil {
		return "", &pathmodels.PathError{Op: "sftp-read-stat", Path: filePath, Err: err}
	}
	if info.IsDir() {
		return "", &pathmodels.PathError{Op: "sftp-read-check", Path: filePath, Err: pathmodels.ErrInvalid}
	}

	var buf bytes.Buffer
	buf.Grow(int(info.Size()))
	if _, err := io.Copy(&buf, bufio.NewReaderSize(file, pathhelpers.BufferSize(info.Size()))); err != nil {
		return "", &pathmodels.PathError{Op: "sftp-read-copy", Path: filePath, Err: err}
	}

	decoded, err := enc.NewDecoder().Bytes(buf.Bytes())
	if err != nil {
		return "", &pathmodels.PathError{Op: "sftp-read-decode", Path: filePath, Err: err}
	}
	return string(decoded), nil
}

// WriteText encodes content and writes it to a remote file, creating or
// truncating it.
func WriteText(ctx context.Context, filePath string, content string, encodingName string, details sftpmanager.ConnectionDetails) error {
	client, err := sftpmanager.GetClient(ctx, details)
	if err != nil {
		return &pathmodels.PathError{Op: "sftp-write-get-client", Path: filePath, Err: err}
	}

	enc, err := pathhelpers.Encoding(encodingName)
	if err != nil {
		return &pathmodels.PathError{Op: "sftp-write-get-encoding", Path: filePath, Err: err}
	}
	encoded, err := enc.NewEncoder().Bytes([]byte(content))
	if err != nil {
		return &pathmodels.PathError{Op: "sftp-write-encode", Path: filePath, Err: err}
	}

	file, err := client.OpenFile(filePath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC)
	if err != nil {
		return &pathmodels.PathError{Op: "sftp-write-create", Path: filePath, Err: err}
	}

	writer := bufio.NewWriterSize(file, pathhelpers.BufferSize(int64(len(encoded))))
	if _, err := writer.Write(encoded); err != nil {
		file.Close()
		return &pathmodels.PathError{Op: "sftp-write-write", Path: filePath, Err: err}
	}
	if err := writer.Flush(); err != nil {
		file.Close()
		return &pathmodels.PathError{Op: "sftp-write-flush", Path: filePath, Err: err}
	}
	if err := file.Close(); err != nil {
		return &pathmodels.PathError{Op: "sftp-write-close", Path: filePath, Err: err}
	}
	if err := client.Chmod(filePath, os.FileMode(pathmodels.FilePermissions)); err != nil {
		log.Debug().Err(err).Str("path", filePath).Msg("chmod remote file")
	}
	return nil
}
