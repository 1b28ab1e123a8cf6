// Package cmd implements the wpmd command line.
package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/spf13/cobra"

	"github.com/kfreiman/wpmd/internal/config"
)

var rootCmd = &cobra.Command{
	Use:   "wpmd",
	Short: "Convert WordPress posts to Markdown",
	Long: `wpmd converts WordPress post HTML to Markdown.

Block-editor images are pointed at their full-size originals, looked up
in a local mirror of wp-content/uploads when only thumbnails are linked.
Tweets, CodePen embeds, scripts and iframes are kept as raw HTML.`,
	SilenceUsage: true,
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.String("mirror_root", "", "local copy of wp-content/uploads searched for originals")
	flags.String("mirror_prefix", "", "local path prefix replaced by --public_base_url")
	flags.String("public_base_url", "", "public URL the mirror prefix maps to")
	flags.Bool("save_images", false, "point images at --assets_prefix instead of the remote site")
	flags.String("assets_prefix", "", "path prefix for local images")

	rootCmd.SetHelpTemplate(rootCmd.HelpTemplate() + envHelp())
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func envHelp() string {
	usage, err := config.Usage()
	if err != nil {
		return ""
	}
	return "\n" + usage + "\n"
}

// setup loads logging and conversion settings. Flags set on the command
// line take precedence over the environment.
func setup(cmd *cobra.Command) (config.Config, *slog.Logger, error) {
	var cmdConf cmdConfig
	if err := cleanenv.ReadEnv(&cmdConf); err != nil {
		return config.Config{}, nil, fmt.Errorf("failed to load command config: %w", err)
	}
	logger := createLogger(cmdConf)

	cfg, err := config.LoadConfig()
	if err != nil {
		return config.Config{}, logger, fmt.Errorf("failed to load config: %w", err)
	}

	cfg, err = applyFlags(cmd, cfg)
	return cfg, logger, err
}

func applyFlags(cmd *cobra.Command, cfg config.Config) (config.Config, error) {
	flags := cmd.Flags()

	if flags.Changed("mirror_root") {
		v, err := flags.GetString("mirror_root")
		if err != nil {
			return cfg, err
		}
		cfg = cfg.WithMirrorRoot(v)
	}
	if flags.Changed("mirror_prefix") {
		v, err := flags.GetString("mirror_prefix")
		if err != nil {
			return cfg, err
		}
		cfg = cfg.WithMirrorPrefix(v)
	}
	if flags.Changed("public_base_url") {
		v, err := flags.GetString("public_base_url")
		if err != nil {
			return cfg, err
		}
		cfg = cfg.WithPublicBaseURL(v)
	}
	if flags.Changed("save_images") {
		v, err := flags.GetBool("save_images")
		if err != nil {
			return cfg, err
		}
		cfg = cfg.WithSaveScrapedImages(v)
	}
	if flags.Changed("assets_prefix") {
		v, err := flags.GetString("assets_prefix")
		if err != nil {
			return cfg, err
		}
		cfg = cfg.WithAssetsPrefix(v)
	}
	if flags.Lookup("output_dir") != nil && flags.Changed("output_dir") {
		v, err := flags.GetString("output_dir")
		if err != nil {
			return cfg, err
		}
		cfg = cfg.WithOutputPath(v)
	}

	return cfg, nil
}
