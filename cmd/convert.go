package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/kfreiman/wpmd/internal/config"
	"github.com/kfreiman/wpmd/internal/converter"
	"github.com/kfreiman/wpmd/internal/ingest"
	"github.com/kfreiman/wpmd/internal/storage"
)

// convertCmd converts a whole WordPress export
var convertCmd = &cobra.Command{
	Use:   "convert <export.xml>",
	Short: "Convert every post of a WordPress export",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		cfg, logger, err := setup(cmd)
		if err != nil {
			return err
		}

		publishedOnly, err := cmd.Flags().GetBool("published_only")
		if err != nil {
			return err
		}

		summary, err := runConvert(ctx, cfg, logger, args[0], publishedOnly)
		if err != nil {
			logger.ErrorContext(ctx, "export conversion failed",
				"error", err,
				"export", args[0],
			)
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "converted %d posts, %d failed, written to %s\n",
			summary.Converted, summary.Failed, cfg.OutputPath)
		return nil
	},
}

// postCmd converts a single post body
var postCmd = &cobra.Command{
	Use:   "post <file.html>",
	Short: "Convert one post body and print the markdown",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		cfg, logger, err := setup(cmd)
		if err != nil {
			return err
		}

		if err := runPost(ctx, cfg, logger, args[0], cmd.OutOrStdout()); err != nil {
			logger.ErrorContext(ctx, "post conversion failed",
				"error", err,
				"file", args[0],
			)
			return err
		}
		return nil
	},
}

func init() {
	convertCmd.Flags().String("output_dir", "", "directory converted posts are written to")
	convertCmd.Flags().Bool("published_only", false, "skip drafts and private posts")

	rootCmd.AddCommand(convertCmd)
	rootCmd.AddCommand(postCmd)
}

func newConverter(cfg config.Config, logger *slog.Logger) *converter.Converter {
	return converter.New(converter.Config{
		Options: cfg.ConverterOptions(),
		Logger:  logger,
	})
}

func runConvert(ctx context.Context, cfg config.Config, logger *slog.Logger, exportPath string, publishedOnly bool) (ingest.Summary, error) {
	f, err := os.Open(exportPath)
	if err != nil {
		return ingest.Summary{}, err
	}
	defer f.Close()

	store, err := storage.NewPostStore(storage.StoreConfig{
		BasePath: cfg.OutputPath,
		Logger:   logger,
	})
	if err != nil {
		return ingest.Summary{}, err
	}

	ingestor := ingest.NewIngestorWithConfig(ingest.IngestorConfig{
		PostStore:         store,
		DocumentConverter: newConverter(cfg, logger),
		Logger:            logger,
		PublishedOnly:     publishedOnly,
	})

	return ingestor.IngestExport(ctx, f)
}

func runPost(ctx context.Context, cfg config.Config, logger *slog.Logger, htmlPath string, out io.Writer) error {
	html, err := os.ReadFile(htmlPath)
	if err != nil {
		return err
	}

	markdown, err := newConverter(cfg, logger).Convert(ctx, string(html))
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(out, markdown)
	return err
}
