package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kfreiman/wpmd/internal/converter"
)

func TestLoadConfig(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		cfg, err := LoadConfig()
		require.NoError(t, err)

		assert.Equal(t, "/assets", cfg.AssetsPrefix)
		assert.Equal(t, "./output", cfg.OutputPath)
		assert.False(t, cfg.SaveScrapedImages)
	})

	t.Run("reads environment", func(t *testing.T) {
		t.Setenv("WPMD_MIRROR_ROOT", "/srv/uploads")
		t.Setenv("WPMD_PUBLIC_BASE_URL", "https://blog.example.com/wp-content/uploads")
		t.Setenv("WPMD_SAVE_SCRAPED_IMAGES", "true")

		cfg, err := LoadConfig()
		require.NoError(t, err)

		assert.Equal(t, "/srv/uploads", cfg.MirrorRoot)
		assert.Equal(t, "https://blog.example.com/wp-content/uploads", cfg.PublicBaseURL)
		assert.True(t, cfg.SaveScrapedImages)
	})

	t.Run("invalid boolean", func(t *testing.T) {
		t.Setenv("WPMD_SAVE_SCRAPED_IMAGES", "maybe")

		_, err := LoadConfig()
		assert.Error(t, err)
	})
}

func TestConfig_With(t *testing.T) {
	cfg := Config{}.
		WithMirrorRoot("/m").
		WithMirrorPrefix("/").
		WithPublicBaseURL("https://cdn").
		WithSaveScrapedImages(true).
		WithAssetsPrefix("img").
		WithOutputPath("/out")

	assert.Equal(t, "/out", cfg.OutputPath)
	assert.Equal(t, converter.Options{
		SaveScrapedImages: true,
		AssetsPrefix:      "img",
		MirrorRoot:        "/m",
		MirrorPrefix:      "/",
		PublicBaseURL:     "https://cdn",
	}, cfg.ConverterOptions())
}

func TestUsage(t *testing.T) {
	usage, err := Usage()
	require.NoError(t, err)
	assert.Contains(t, usage, "WPMD_MIRROR_ROOT")
}
