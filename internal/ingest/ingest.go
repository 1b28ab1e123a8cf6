// Package ingest converts every post of a WordPress export and stores the results.
package ingest

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/kfreiman/wpmd/internal/converter"
	"github.com/kfreiman/wpmd/internal/storage"
	"github.com/kfreiman/wpmd/internal/wxr"
)

// Ingestor defines the interface for export ingestion
type Ingestor interface {
	// IngestExport converts and stores every post of the export read from r
	IngestExport(ctx context.Context, r io.Reader) (Summary, error)
}

// Summary reports the outcome of an export run
type Summary struct {
	Converted int
	Failed    int
	Paths     []string
	Failures  []error
}

// IngestorConfig holds configuration for the export ingestor
type IngestorConfig struct {
	PostStore         *storage.PostStore
	DocumentConverter converter.DocumentConverter
	Logger            *slog.Logger // Optional: defaults to slog.Default()
	// PublishedOnly skips drafts and private posts
	PublishedOnly bool
}

// ExportIngestor implements the Ingestor interface
type ExportIngestor struct {
	postStore         *storage.PostStore
	documentConverter converter.DocumentConverter
	logger            *slog.Logger
	publishedOnly     bool
}

var _ Ingestor = (*ExportIngestor)(nil)

// NewIngestorWithConfig creates an export ingestor from config
func NewIngestorWithConfig(config IngestorConfig) *ExportIngestor {
	if config.Logger == nil {
		config.Logger = slog.Default()
	}
	return &ExportIngestor{
		postStore:         config.PostStore,
		documentConverter: config.DocumentConverter,
		logger:            config.Logger,
		publishedOnly:     config.PublishedOnly,
	}
}

// NewIngestor creates a new export ingestor
func NewIngestor(postStore *storage.PostStore, documentConverter converter.DocumentConverter) *ExportIngestor {
	return &ExportIngestor{
		postStore:         postStore,
		documentConverter: documentConverter,
		logger:            slog.Default(),
	}
}

// WithLogger sets a custom logger for the ingestor
func (i *ExportIngestor) WithLogger(logger *slog.Logger) *ExportIngestor {
	i.logger = logger
	return i
}

// IngestExport implements the Ingestor interface. A post that fails is
// logged and counted; the run carries on with the next one.
func (i *ExportIngestor) IngestExport(ctx context.Context, r io.Reader) (Summary, error) {
	var summary Summary

	if i.postStore == nil || i.documentConverter == nil {
		return summary, &ValidationError{
			Field:  "config",
			Reason: "post store and converter are required",
		}
	}

	export, err := wxr.Parse(r)
	if err != nil {
		return summary, fmt.Errorf("reading export: %w", err)
	}

	posts := export.Posts(i.publishedOnly)
	i.logger.InfoContext(ctx, "export loaded",
		"site", export.Title,
		"items", len(export.Items),
		"posts", len(posts),
	)

	for _, post := range posts {
		if err := ctx.Err(); err != nil {
			return summary, err
		}

		path, err := i.ingestPost(ctx, post)
		if err != nil {
			summary.Failed++
			summary.Failures = append(summary.Failures, err)
			i.logger.WarnContext(ctx, "post skipped",
				"error", err,
				"post_id", post.ID,
				"post_slug", post.Name,
			)
			continue
		}

		summary.Converted++
		summary.Paths = append(summary.Paths, path)
	}

	i.logger.InfoContext(ctx, "export converted",
		"converted", summary.Converted,
		"failed", summary.Failed,
		"output_path", i.postStore.BasePath(),
	)

	return summary, nil
}

func (i *ExportIngestor) ingestPost(ctx context.Context, post wxr.Item) (string, error) {
	markdown, err := i.documentConverter.Convert(ctx, post.Content)
	if err != nil {
		return "", &ConversionError{PostID: post.ID, Slug: post.Name, Err: err}
	}

	path, err := i.postStore.SavePost(PostMeta(post), markdown)
	if err != nil {
		return "", &ConversionError{PostID: post.ID, Slug: post.Name, Err: err}
	}

	i.logger.DebugContext(ctx, "post written",
		"post_id", post.ID,
		"path", path,
	)
	return path, nil
}

// PostMeta builds the front matter for an export item
func PostMeta(post wxr.Item) storage.PostMeta {
	return storage.PostMeta{
		Title:      strings.TrimSpace(post.Title),
		Slug:       post.Name,
		Date:       post.Date,
		Link:       post.Link,
		Categories: post.CategoryNames(),
		Tags:       post.TagNames(),
	}
}
