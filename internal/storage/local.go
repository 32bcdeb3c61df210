package storage

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"budgetboard/internal/logger"
)

// LocalStorageClient stores files under a root directory on the local file system
type LocalStorageClient struct {
	rootDir string
	log     *logger.Logger
}

// NewLocalStorageClient creates a new local storage client rooted at rootDir
func NewLocalStorageClient(rootDir string, log *logger.Logger) (*LocalStorageClient, error) {
	if rootDir == "" {
		rootDir = "exports"
	}
	if log == nil {
		log = logger.NewNop()
	}

	if err := os.MkdirAll(rootDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create root directory %s: %w", rootDir, err)
	}

	return &LocalStorageClient{
		rootDir: rootDir,
		log:     log.WithComponent("storage"),
	}, nil
}

// Close is a no-op for local storage
func (l *LocalStorageClient) Close() error {
	return nil
}

// RootDir returns the directory every path is resolved against
func (l *LocalStorageClient) RootDir() string {
	return l.rootDir
}

func (l *LocalStorageClient) resolve(p string) string {
	return filepath.Join(l.rootDir, filepath.FromSlash(cleanPath(p)))
}

// CreateDir creates a directory under the root
func (l *LocalStorageClient) CreateDir(ctx context.Context, dirPath string) error {
	full := l.resolve(dirPath)
	if err := os.MkdirAll(full, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", full, err)
	}
	return nil
}

// StoreFile writes fileData to filePath, creating parent directories
func (l *LocalStorageClient) StoreFile(ctx context.Context, filePath string, fileData []byte) error {
	full := l.resolve(filePath)
	if err := os.MkdirAll(filepath.Dir(full), 0755); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", full, err)
	}
	if err := os.WriteFile(full, fileData, 0644); err != nil {
		return fmt.Errorf("failed to write file %s: %w", full, err)
	}

	l.log.Debug("Stored file", map[string]interface{}{"path": full, "bytes": len(fileData)})
	return nil
}

// GetFile reads the file at filePath
func (l *LocalStorageClient) GetFile(ctx context.Context, filePath string) ([]byte, error) {
	full := l.resolve(filePath)
	data, err := os.ReadFile(full)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", full, err)
	}
	return data, nil
}

// ListDir lists the files under dirPath as root-relative slash paths, sorted.
// Without recursive only direct children are returned; directories end with "/".
func (l *LocalStorageClient) ListDir(ctx context.Context, dirPath string, recursive bool) ([]string, error) {
	full := l.resolve(dirPath)
	var out []string

	if !recursive {
		entries, err := os.ReadDir(full)
		if err != nil {
			return nil, fmt.Errorf("failed to list directory %s: %w", full, err)
		}
		for _, e := range entries {
			name := l.relative(filepath.Join(full, e.Name()))
			if e.IsDir() {
				name += "/"
			}
			out = append(out, name)
		}
		sort.Strings(out)
		return out, nil
	}

	err := filepath.WalkDir(full, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		out = append(out, l.relative(p))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk directory %s: %w", full, err)
	}
	sort.Strings(out)
	return out, nil
}

func (l *LocalStorageClient) relative(p string) string {
	rel, err := filepath.Rel(l.rootDir, p)
	if err != nil {
		return filepath.ToSlash(p)
	}
	return strings.TrimPrefix(filepath.ToSlash(rel), "./")
}

// FileExists reports whether a regular file exists at filePath
func (l *LocalStorageClient) FileExists(ctx context.Context, filePath string) (bool, error) {
	info, err := os.Stat(l.resolve(filePath))
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to stat %s: %w", filePath, err)
	}
	return !info.IsDir(), nil
}
