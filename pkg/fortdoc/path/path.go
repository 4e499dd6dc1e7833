// Package path addresses source and output files that live either on the
// local disk or behind an sftp:// URL.
package path

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"path"
	"strconv"
	"strings"
	"sync"
	"time"
	"unicode"

	pathmodels "github.com/ImGajeed76/fortdoc/pkg/fortdoc/path/models"
	pathlocal "github.com/ImGajeed76/fortdoc/pkg/fortdoc/path/operations/local"
	pathsftp "github.com/ImGajeed76/fortdoc/pkg/fortdoc/path/operations/sftp"
	sftpmanager "github.com/ImGajeed76/fortdoc/pkg/fortdoc/sftp"
)

const (
	MaxPathLength  = 4096
	maxCredentials = 255
	defaultPort    = "22"
)

// RemoteOptions tunes how sftp:// paths connect.
type RemoteOptions struct {
	Port           int
	KeyFile        string
	ConnectTimeout time.Duration
	MaxRetries     int
	KeepAlive      time.Duration
	// Credentials supplies the password for a user on a host when the URL
	// carries none.
	Credentials func(user, host string) (string, error)
}

var (
	remoteMu sync.RWMutex
	remote   RemoteOptions
)

// Configure sets the options used by every sftp:// path.
func Configure(opts RemoteOptions) {
	remoteMu.Lock()
	remote = opts
	remoteMu.Unlock()
}

func remoteOptions() RemoteOptions {
	remoteMu.RLock()
	defer remoteMu.RUnlock()
	return remote
}

// Path is a local path or a remote one reached over SFTP.
type Path struct {
	path     string
	isSftp   bool
	host     string
	port     string
	username string
	password string
}

// New parses raw. It returns nil for an empty string or a malformed sftp URL.
func New(raw string) *Path {
	if raw == "" {
		return nil
	}

	if !strings.HasPrefix(raw, "sftp://") {
		return &Path{path: strings.ReplaceAll(raw, "\\", "/")}
	}

	u, err := url.Parse(raw)
	if err != nil || u.Hostname() == "" {
		return nil
	}

	p := &Path{
		path:   u.Path,
		isSftp: true,
		host:   u.Hostname(),
		port:   u.Port(),
	}
	if p.path == "" {
		p.path = "/"
	}
	if p.port == "" {
		p.port = defaultPort
		if opts := remoteOptions(); opts.Port != 0 {
			p.port = strconv.Itoa(opts.Port)
		}
	}
	if u.User != nil {
		p.username = u.User.Username()
		p.password, _ = u.User.Password()
	}
	return p
}

// with returns a path on the same host pointing at another location.
func (p *Path) with(location string) *Path {
	c := *p
	c.path = location
	return &c
}

func (p *Path) IsSftp() bool {
	return p.isSftp
}

// String returns the location without any connection details.
func (p *Path) String() string {
	return p.path
}

// SftpPath renders the full sftp URL, or "" for local paths.
func (p *Path) SftpPath() string {
	if !p.isSftp {
		return ""
	}

	var b strings.Builder
	b.WriteString("sftp://")
	if p.username != "" {
		b.WriteString(p.username)
		if p.password != "" {
			b.WriteString(":" + p.password)
		}
		b.WriteString("@")
	}
	b.WriteString(p.host + ":" + p.port)
	b.WriteString(p.path)
	return b.String()
}

// Validate checks the path and, for remote paths, the connection details.
func (p *Path) Validate() error {
	if p == nil {
		return errors.New("nil path")
	}
	if p.path == "" {
		return errors.New("empty path")
	}
	if len(p.path) > MaxPathLength {
		return fmt.Errorf("path length exceeds maximum allowed (%d characters)", MaxPathLength)
	}
	for _, r := range p.path {
		if r == 0 {
			return errors.New("path contains null byte")
		}
		if unicode.IsControl(r) {
			return fmt.Errorf("path contains invalid control character: %U", r)
		}
	}

	if !p.isSftp {
		return nil
	}
	if p.host == "" {
		return errors.New("missing sftp host")
	}
	port, err := strconv.Atoi(p.port)
	if err != nil {
		return fmt.Errorf("invalid sftp port %q", p.port)
	}
	if port < 1 || port > 65535 {
		return fmt.Errorf("sftp port %d out of range", port)
	}
	if len(p.username) > maxCredentials {
		return errors.New("username too long")
	}
	if len(p.password) > maxCredentials {
		return errors.New("password too long")
	}
	return nil
}

// Join appends elem. An absolute elem replaces the location but keeps the
// host.
func (p *Path) Join(elem string) *Path {
	if elem == "" {
		return p
	}
	elem = strings.ReplaceAll(elem, "\\", "/")
	if strings.HasPrefix(elem, "/") {
		return p.with(path.Clean(elem))
	}
	return p.with(path.Join(p.path, elem))
}

func (p *Path) Parent() *Path {
	trimmed := strings.TrimSuffix(p.path, "/")
	if trimmed == "" {
		return p.with("/")
	}
	return p.with(path.Dir(trimmed))
}

func (p *Path) Name() string {
	return path.Base(p.path)
}

// Stem is the name without its last extension.
func (p *Path) Stem() string {
	name := p.Name()
	if i := strings.LastIndex(name, "."); i > 0 {
		return name[:i]
	}
	return name
}

// Suffix is the last extension without the dot.
func (p *Path) Suffix() string {
	name := p.Name()
	if i := strings.LastIndex(name, "."); i > 0 {
		return name[i+1:]
	}
	return ""
}

func (p *Path) connection() (sftpmanager.ConnectionDetails, error) {
	opts := remoteOptions()
	port, err := strconv.Atoi(p.port)
	if err != nil {
		return sftpmanager.ConnectionDetails{}, fmt.Errorf("invalid sftp port %q", p.port)
	}

	details := sftpmanager.ConnectionDetails{
		Hostname:          p.host,
		Port:              port,
		Username:          p.username,
		Password:          p.password,
		KeyFile:           opts.KeyFile,
		ConnectTimeout:    opts.ConnectTimeout,
		MaxRetries:        opts.MaxRetries,
		KeepAliveInterval: opts.KeepAlive,
	}
	if details.Password == "" && opts.Credentials != nil {
		password, err := opts.Credentials(p.username, p.host)
		if err != nil && details.KeyFile == "" {
			return details, fmt.Errorf("no password for %s@%s: %w", p.username, p.host, err)
		}
		details.Password = password
	}
	return details, nil
}

// ReadText reads the file and decodes it from the named encoding.
func (p *Path) ReadText(encoding string) (string, error) {
	if !p.isSftp {
		return pathlocal.ReadText(p.path, encoding)
	}
	details, err := p.connection()
	if err != nil {
		return "", &pathmodels.PathError{Op: "read", Path: p.path, Err: err}
	}
	return pathsftp.ReadText(context.Background(), p.path, encoding, details)
}

// WriteText encodes content and replaces the file with it.
func (p *Path) WriteText(content string, encoding string) error {
	if !p.isSftp {
		return pathlocal.WriteText(p.path, content, encoding)
	}
	details, err := p.connection()
	if err != nil {
		return &pathmodels.PathError{Op: "write", Path: p.path, Err: err}
	}
	return pathsftp.WriteText(context.Background(), p.path, content, encoding, details)
}

func (p *Path) Stat() (*pathmodels.FileInfo, error) {
	if !p.isSftp {
		return pathlocal.Stat(p.path)
	}
	details, err := p.connection()
	if err != nil {
		return nil, &pathmodels.PathError{Op: "stat", Path: p.path, Err: err}
	}
	return pathsftp.Stat(context.Background(), p.path, details)
}

func (p *Path) Exists() bool {
	_, err := p.Stat()
	return err == nil
}

func (p *Path) IsDir() bool {
	info, err := p.Stat()
	return err == nil && info.IsDir
}

// MakeDir creates the directory, with its parents when parents is set.
func (p *Path) MakeDir(parents bool, existsOk bool) error {
	if !p.isSftp {
		return pathlocal.MakeDir(p.path, parents, existsOk)
	}
	details, err := p.connection()
	if err != nil {
		return &pathmodels.PathError{Op: "mkdir", Path: p.path, Err: err}
	}
	return pathsftp.MakeDir(context.Background(), p.path, parents, existsOk, details)
}

// List returns the entries of the directory.
func (p *Path) List(recursive bool) ([]*Path, error) {
	var (
		entries []string
		err     error
	)
	if p.isSftp {
		var details sftpmanager.ConnectionDetails
		if details, err = p.connection(); err != nil {
			return nil, &pathmodels.PathError{Op: "list", Path: p.path, Err: err}
		}
		entries, err = pathsftp.List(context.Background(), p.path, recursive, details)
	} else {
		entries, err = pathlocal.List(p.path, recursive)
	}
	if err != nil {
		return nil, err
	}
	return p.wrap(entries), nil
}

// Glob matches pattern inside the directory.
func (p *Path) Glob(pattern string) ([]*Path, error) {
	var (
		matches []string
		err     error
	)
	if p.isSftp {
		var details sftpmanager.ConnectionDetails
		if details, err = p.connection(); err != nil {
			return nil, &pathmodels.PathError{Op: "glob", Path: p.path, Err: err}
		}
		matches, err = pathsftp.Glob(context.Background(), p.path, pattern, details)
	} else {
		matches, err = pathlocal.Glob(p.path, pattern)
	}
	if err != nil {
		return nil, err
	}
	return p.wrap(matches), nil
}

func (p *Path) wrap(locations []string) []*Path {
	paths := make([]*Path, 0, len(locations))
	for _, location := range locations {
		paths = append(paths, p.with(strings.ReplaceAll(location, "\\", "/")))
	}
	return paths
}

// Lines reads the file and splits it into lines without their terminators.
func (p *Path) Lines(encoding string) ([]string, error) {
	text, err := p.ReadText(encoding)
	if err != nil {
		return nil, err
	}
	text = strings.TrimSuffix(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	if text == "" {
		return nil, nil
	}
	return strings.Split(text, "\n"), nil
}
