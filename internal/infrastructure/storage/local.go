package storage

import (
	"context"
	"fmt"
	"io"
	"mime"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/johnquangdev/voice-memo/internal/domain/repositories"
)

// LocalURLPrefix is where the server exposes files written by LocalDisk
const LocalURLPrefix = "/u"

// LocalDisk keeps audio on the local filesystem when no object store is configured
type LocalDisk struct {
	dir string
}

// NewLocalDisk creates dir if needed
func NewLocalDisk(dir string) (*LocalDisk, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create uploads dir: %w", err)
	}
	return &LocalDisk{dir: dir}, nil
}

// Dir returns the directory files are written to
func (l *LocalDisk) Dir() string {
	return l.dir
}

// path keeps only the base name so keys cannot escape dir
func (l *LocalDisk) path(key string) (string, error) {
	name := filepath.Base(filepath.Clean("/" + key))
	if name == "/" || name == "." || name == ".." {
		return "", fmt.Errorf("invalid key %q", key)
	}
	return filepath.Join(l.dir, name), nil
}

// PutObject writes reader to a temp file and renames it into place
func (l *LocalDisk) PutObject(_ context.Context, key string, reader io.Reader, _ int64, _ string) error {
	dst, err := l.path(key)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(l.dir, ".upload-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, reader); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	if err := os.Rename(tmp.Name(), dst); err != nil {
		return fmt.Errorf("failed to store %s: %w", key, err)
	}
	return nil
}

// OpenObject opens a stored file for ranged reads
func (l *LocalDisk) OpenObject(_ context.Context, key string) (*repositories.Object, error) {
	p, err := l.path(key)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(p)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%s: %w", key, repositories.ErrObjectNotFound)
		}
		return nil, fmt.Errorf("failed to open %s: %w", key, err)
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to stat %s: %w", key, err)
	}

	return &repositories.Object{
		Body:        f,
		Size:        info.Size(),
		ContentType: mime.TypeByExtension(filepath.Ext(p)),
		ModTime:     info.ModTime(),
	}, nil
}

// ObjectURL returns the static path the file is served under
func (l *LocalDisk) ObjectURL(key string) string {
	return path.Join(LocalURLPrefix, path.Base("/"+strings.TrimLeft(key, "/")))
}
