// Package config loads wpmd settings from the environment.
package config

import (
	"github.com/ilyakaznacheev/cleanenv"

	"github.com/kfreiman/wpmd/internal/converter"
)

// Config holds the configuration for a conversion run
type Config struct {
	MirrorRoot        string `env:"WPMD_MIRROR_ROOT" env-description:"Local copy of wp-content/uploads searched for original images"`
	MirrorPrefix      string `env:"WPMD_MIRROR_PREFIX" env-description:"Local path prefix replaced by the public base URL (defaults to the mirror root)"`
	PublicBaseURL     string `env:"WPMD_PUBLIC_BASE_URL" env-description:"Public URL the mirror prefix maps to"`
	SaveScrapedImages bool   `env:"WPMD_SAVE_SCRAPED_IMAGES" env-default:"false" env-description:"Point images at the local assets prefix"`
	AssetsPrefix      string `env:"WPMD_ASSETS_PREFIX" env-default:"/assets" env-description:"Path prefix for local images"`
	OutputPath        string `env:"WPMD_OUTPUT_PATH" env-default:"./output" env-description:"Directory converted posts are written to"`
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (Config, error) {
	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Usage returns a description of the supported environment variables
func Usage() (string, error) {
	var cfg Config
	return cleanenv.GetDescription(&cfg, nil)
}

// WithMirrorRoot sets the mirror root
func (c Config) WithMirrorRoot(root string) Config {
	c.MirrorRoot = root
	return c
}

// WithMirrorPrefix sets the mirror prefix
func (c Config) WithMirrorPrefix(prefix string) Config {
	c.MirrorPrefix = prefix
	return c
}

// WithPublicBaseURL sets the public base URL
func (c Config) WithPublicBaseURL(url string) Config {
	c.PublicBaseURL = url
	return c
}

// WithSaveScrapedImages enables or disables local image paths
func (c Config) WithSaveScrapedImages(save bool) Config {
	c.SaveScrapedImages = save
	return c
}

// WithAssetsPrefix sets the local image prefix
func (c Config) WithAssetsPrefix(prefix string) Config {
	c.AssetsPrefix = prefix
	return c
}

// WithOutputPath sets the output directory
func (c Config) WithOutputPath(path string) Config {
	c.OutputPath = path
	return c
}

// ConverterOptions maps the configuration onto converter options
func (c Config) ConverterOptions() converter.Options {
	return converter.Options{
		SaveScrapedImages: c.SaveScrapedImages,
		AssetsPrefix:      c.AssetsPrefix,
		MirrorRoot:        c.MirrorRoot,
		MirrorPrefix:      c.MirrorPrefix,
		PublicBaseURL:     c.PublicBaseURL,
	}
}
