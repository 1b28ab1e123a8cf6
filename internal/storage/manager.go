package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/adrg/frontmatter"
	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// StorageError represents a storage-related failure
type StorageError struct {
	Operation string
	Path      string
	Err       error
}

func (e *StorageError) Error() string {
	msg := fmt.Sprintf("storage error during %s", e.Operation)
	if e.Path != "" {
		msg += fmt.Sprintf(" (path: %s)", e.Path)
	}
	if e.Err != nil {
		msg += fmt.Sprintf(": %v", e.Err)
	}
	return msg
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// PostMeta is written as YAML front matter above the converted body
type PostMeta struct {
	Title      string   `yaml:"title"`
	Slug       string   `yaml:"slug,omitempty"`
	Date       string   `yaml:"date,omitempty"`
	Link       string   `yaml:"link,omitempty"`
	Categories []string `yaml:"categories,omitempty"`
	Tags       []string `yaml:"tags,omitempty"`
}

// StoreConfig holds configuration for the post store
type StoreConfig struct {
	BasePath   string
	Logger     *slog.Logger // Optional: defaults to a discard logger
	FileSystem FileSystem   // Optional: defaults to the OS filesystem
}

// PostStore writes converted posts as Markdown files
type PostStore struct {
	basePath string
	logger   *slog.Logger
	fs       FileSystem
}

// NewPostStore creates the output directory and returns a store rooted there
func NewPostStore(config StoreConfig) (*PostStore, error) {
	ctx := context.Background()

	if config.BasePath == "" {
		config.BasePath = "./output"
	}
	if config.FileSystem == nil {
		config.FileSystem = NewOSFileSystem()
	}
	if config.Logger == nil {
		config.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	if err := config.FileSystem.MkdirAll(config.BasePath, 0755); err != nil {
		config.Logger.ErrorContext(ctx, "failed to create output directory",
			"error", err,
			"path", config.BasePath,
			"operation", "init",
		)
		return nil, &StorageError{
			Operation: "init - create directory",
			Path:      config.BasePath,
			Err:       err,
		}
	}

	config.Logger.DebugContext(ctx, "post store initialized",
		"base_path", config.BasePath,
	)

	return &PostStore{
		basePath: config.BasePath,
		logger:   config.Logger,
		fs:       config.FileSystem,
	}, nil
}

// BasePath returns the directory posts are written to
func (ps *PostStore) BasePath() string {
	return ps.basePath
}

var unsafeNameRegex = regexp.MustCompile(`[^\p{L}\p{N}._-]+`)

// FileName returns the file name a post is stored under.
// Posts without a slug are named by a UUID v5 derived from link and title.
func FileName(meta PostMeta) string {
	slug := strings.TrimSpace(meta.Slug)
	if unescaped, err := url.PathUnescape(slug); err == nil {
		slug = unescaped
	}
	name := unsafeNameRegex.ReplaceAllString(slug, "-")
	name = strings.Trim(name, "-.")
	if name == "" {
		name = uuid.NewSHA1(uuid.NameSpaceURL, []byte(meta.Link+"\x00"+meta.Title)).String()
	}
	return name + ".md"
}

// RenderPost returns the file contents for a post: front matter then body
func RenderPost(meta PostMeta, markdown string) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString("---\n")

	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(meta); err != nil {
		return nil, fmt.Errorf("encoding front matter: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encoding front matter: %w", err)
	}

	buf.WriteString("---\n\n")
	buf.WriteString(strings.TrimSpace(markdown))
	buf.WriteString("\n")
	return buf.Bytes(), nil
}

// SavePost writes a post and returns the path it was written to.
// An existing file with the same name is overwritten.
func (ps *PostStore) SavePost(meta PostMeta, markdown string) (string, error) {
	ctx := context.Background()
	path := filepath.Join(ps.basePath, FileName(meta))

	content, err := RenderPost(meta, markdown)
	if err != nil {
		return "", &StorageError{
			Operation: "render post",
			Path:      path,
			Err:       err,
		}
	}

	if err := ps.fs.WriteFile(path, content, 0644); err != nil {
		ps.logger.ErrorContext(ctx, "failed to save post",
			"error", err,
			"path", path,
			"post_slug", meta.Slug,
			"operation", "save",
		)
		return "", &StorageError{
			Operation: "save post",
			Path:      path,
			Err:       err,
		}
	}

	ps.logger.DebugContext(ctx, "post saved",
		"path", path,
		"post_slug", meta.Slug,
		"bytes", len(content),
	)

	return path, nil
}

// ReadPost reads back a stored post by file name
func (ps *PostStore) ReadPost(name string) ([]byte, error) {
	path := filepath.Join(ps.basePath, name)
	content, err := ps.fs.ReadFile(path)
	if err != nil {
		return nil, &StorageError{
			Operation: "read post",
			Path:      path,
			Err:       err,
		}
	}
	return content, nil
}

// LoadPost reads back a stored post and splits it into front matter and body
func (ps *PostStore) LoadPost(name string) (PostMeta, string, error) {
	content, err := ps.ReadPost(name)
	if err != nil {
		return PostMeta{}, "", err
	}

	var meta PostMeta
	body, err := frontmatter.MustParse(bytes.NewReader(content), &meta)
	if err != nil {
		return PostMeta{}, "", &StorageError{
			Operation: "parse front matter",
			Path:      filepath.Join(ps.basePath, name),
			Err:       err,
		}
	}
	return meta, strings.TrimSpace(string(body)), nil
}

// ListPosts returns the names of the Markdown files in the store
func (ps *PostStore) ListPosts() ([]string, error) {
	entries, err := ps.fs.ReadDir(ps.basePath)
	if err != nil {
		return nil, &StorageError{
			Operation: "list posts",
			Path:      ps.basePath,
			Err:       err,
		}
	}

	var names []string
	for _, entry := range entries {
		if !entry.IsDir() && filepath.Ext(entry.Name()) == ".md" {
			names = append(names, entry.Name())
		}
	}
	return names, nil
}
