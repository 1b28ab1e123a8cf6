package cmd

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kfreiman/wpmd/internal/config"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func flagCommand() *cobra.Command {
	c := &cobra.Command{Use: "test"}
	c.Flags().String("mirror_root", "", "")
	c.Flags().String("mirror_prefix", "", "")
	c.Flags().String("public_base_url", "", "")
	c.Flags().Bool("save_images", false, "")
	c.Flags().String("assets_prefix", "", "")
	c.Flags().String("output_dir", "", "")
	return c
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, parseLevel("debug"))
	assert.Equal(t, slog.LevelWarn, parseLevel("warn"))
	assert.Equal(t, slog.LevelError, parseLevel("error"))
	assert.Equal(t, slog.LevelInfo, parseLevel("info"))
	assert.Equal(t, slog.LevelInfo, parseLevel("verbose"))
}

func TestNewLogger(t *testing.T) {
	defer slog.SetDefault(slog.Default())

	var buf bytes.Buffer
	logger := newLogger(cmdConfig{Format: "json", Level: "warn"}, &buf)

	logger.Info("hidden")
	logger.Warn("shown", "post_id", 3)

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
	assert.Contains(t, buf.String(), "post_id")
}

func TestApplyFlags(t *testing.T) {
	base := config.Config{
		MirrorRoot:   "/env/mirror",
		AssetsPrefix: "/assets",
		OutputPath:   "./output",
	}

	t.Run("unset flags keep environment values", func(t *testing.T) {
		cfg, err := applyFlags(flagCommand(), base)
		require.NoError(t, err)
		assert.Equal(t, base, cfg)
	})

	t.Run("set flags override", func(t *testing.T) {
		c := flagCommand()
		require.NoError(t, c.Flags().Set("mirror_root", "/flag/mirror"))
		require.NoError(t, c.Flags().Set("public_base_url", "https://cdn"))
		require.NoError(t, c.Flags().Set("save_images", "true"))
		require.NoError(t, c.Flags().Set("output_dir", "/tmp/out"))

		cfg, err := applyFlags(c, base)
		require.NoError(t, err)
		assert.Equal(t, "/flag/mirror", cfg.MirrorRoot)
		assert.Equal(t, "https://cdn", cfg.PublicBaseURL)
		assert.True(t, cfg.SaveScrapedImages)
		assert.Equal(t, "/tmp/out", cfg.OutputPath)
		assert.Equal(t, "/assets", cfg.AssetsPrefix)
	})
}

func TestRunPost(t *testing.T) {
	dir := t.TempDir()
	mirror := filepath.Join(dir, "uploads")
	require.NoError(t, os.MkdirAll(filepath.Join(mirror, "2020"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(mirror, "2020", "photo.jpg"), []byte("img"), 0644))

	htmlPath := filepath.Join(dir, "post.html")
	require.NoError(t, os.WriteFile(htmlPath,
		[]byte(`<h2>Hi</h2>`+"\n\n"+`<div class="wp-block-image"><img src="https://x/photo-300x200.jpg"></div>`), 0644))

	cfg := config.Config{
		MirrorRoot:    mirror,
		PublicBaseURL: "https://cdn.example.com/uploads",
	}

	var out bytes.Buffer
	require.NoError(t, runPost(context.Background(), cfg, discardLogger(), htmlPath, &out))
	assert.Equal(t, "## Hi\n\n![](https://cdn.example.com/uploads/2020/photo.jpg)\n", out.String())

	err := runPost(context.Background(), cfg, discardLogger(), filepath.Join(dir, "missing.html"), &out)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestRunConvert(t *testing.T) {
	dir := t.TempDir()
	exportPath := filepath.Join(dir, "export.xml")
	require.NoError(t, os.WriteFile(exportPath, []byte(`<?xml version="1.0" encoding="UTF-8" ?>
<rss version="2.0" xmlns:content="http://purl.org/rss/1.0/modules/content/" xmlns:wp="http://wordpress.org/export/1.2/">
<channel>
	<title>Blog</title>
	<item>
		<title>Hello</title>
		<content:encoded><![CDATA[<p>Hello <strong>world</strong></p>]]></content:encoded>
		<wp:post_id>1</wp:post_id>
		<wp:post_name>hello</wp:post_name>
		<wp:status>publish</wp:status>
		<wp:post_type>post</wp:post_type>
	</item>
	<item>
		<title>Later</title>
		<content:encoded><![CDATA[<p>wip</p>]]></content:encoded>
		<wp:post_id>2</wp:post_id>
		<wp:post_name>later</wp:post_name>
		<wp:status>draft</wp:status>
		<wp:post_type>post</wp:post_type>
	</item>
</channel>
</rss>`), 0644))

	cfg := config.Config{OutputPath: filepath.Join(dir, "out")}

	summary, err := runConvert(context.Background(), cfg, discardLogger(), exportPath, true)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Converted)
	assert.Zero(t, summary.Failed)

	content, err := os.ReadFile(filepath.Join(dir, "out", "hello.md"))
	require.NoError(t, err)
	assert.Equal(t, "---\ntitle: Hello\nslug: hello\n---\n\nHello **world**\n", string(content))

	_, err = os.Stat(filepath.Join(dir, "out", "later.md"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = runConvert(context.Background(), cfg, discardLogger(), filepath.Join(dir, "nope.xml"), false)
	assert.Error(t, err)
}
