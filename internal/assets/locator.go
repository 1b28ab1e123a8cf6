// Package assets finds image files in a local mirror of the site's uploads.
package assets

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"

	"github.com/kfreiman/wpmd/internal/storage"
)

// SearchError is returned when the mirror tree cannot be walked
type SearchError struct {
	Root string
	Path string
	Err  error
}

func (e *SearchError) Error() string {
	msg := fmt.Sprintf("asset search failed under %s", e.Root)
	if e.Path != "" && e.Path != e.Root {
		msg += fmt.Sprintf(" (at: %s)", e.Path)
	}
	if e.Err != nil {
		msg += fmt.Sprintf(": %v", e.Err)
	}
	return msg
}

func (e *SearchError) Unwrap() error {
	return e.Err
}

// Searcher is the capability the image rule needs from a locator
type Searcher interface {
	Search(root string, pattern *regexp.Regexp) ([]string, error)
}

// LocatorConfig holds configuration for the Locator
type LocatorConfig struct {
	FileSystem storage.FileSystem // Optional: defaults to the read-only OS filesystem
	Logger     *slog.Logger       // Optional: defaults to a discard logger
}

// Locator searches a directory tree for files by name.
// Every call walks the tree again; nothing is cached.
type Locator struct {
	fs     storage.FileSystem
	logger *slog.Logger
}

// NewLocator creates a Locator
func NewLocator(config LocatorConfig) *Locator {
	if config.FileSystem == nil {
		config.FileSystem = storage.NewReadOnlyFileSystem()
	}
	if config.Logger == nil {
		config.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Locator{
		fs:     config.FileSystem,
		logger: config.Logger,
	}
}

// Search returns every file under root whose slash-separated path matches
// pattern, in lexical walk order. No match yields an empty slice.
func (l *Locator) Search(root string, pattern *regexp.Regexp) ([]string, error) {
	matches := []string{}

	err := l.fs.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return &SearchError{Root: root, Path: path, Err: err}
		}
		if info.IsDir() {
			return nil
		}
		if pattern.MatchString(filepath.ToSlash(path)) {
			matches = append(matches, path)
		}
		return nil
	})
	if err != nil {
		l.logger.ErrorContext(context.Background(), "asset search failed",
			"error", err,
			"mirror_root", root,
			"pattern", pattern.String(),
		)
		return nil, err
	}

	l.logger.DebugContext(context.Background(), "asset search completed",
		"mirror_root", root,
		"pattern", pattern.String(),
		"matches", len(matches),
	)

	return matches, nil
}
