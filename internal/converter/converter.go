// Package converter turns WordPress post HTML into Markdown.
//
// Conversion runs in three steps: text-level normalization of the HTML,
// the html-to-markdown engine consulting an ordered RuleSet, and text-level
// cleanup of the Markdown. Embeds the engine cannot express (tweets, pens,
// scripts, iframes) are kept as raw HTML, and block-editor images are
// pointed at their full-resolution originals.
package converter

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"time"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/JohannesKaufmann/html-to-markdown/plugin"
	"github.com/PuerkitoBio/goquery"

	"github.com/kfreiman/wpmd/internal/assets"
)

// DocumentConverter defines the interface for document conversion
type DocumentConverter interface {
	// Convert converts post HTML to markdown
	Convert(ctx context.Context, html string) (string, error)
}

// Options controls a single conversion
type Options struct {
	// SaveScrapedImages points img sources at AssetsPrefix instead of the remote site
	SaveScrapedImages bool
	AssetsPrefix      string
	// MirrorRoot is searched for originals when only thumbnails are referenced
	MirrorRoot    string
	MirrorPrefix  string
	PublicBaseURL string
}

// Config holds configuration for the Converter
type Config struct {
	Options
	Searcher assets.Searcher // Optional: defaults to assets.NewLocator
	Logger   *slog.Logger    // Optional: defaults to a discard logger
}

// Converter converts post bodies with the default rule set
type Converter struct {
	opts   Options
	rules  RuleSet
	logger *slog.Logger
}

var _ DocumentConverter = (*Converter)(nil)

// New creates a Converter
func New(config Config) *Converter {
	if config.Logger == nil {
		config.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	resolver := NewImageResolver(ResolverConfig{
		MirrorRoot:    config.MirrorRoot,
		MirrorPrefix:  config.MirrorPrefix,
		PublicBaseURL: config.PublicBaseURL,
		Searcher:      config.Searcher,
		Logger:        config.Logger,
	})

	return &Converter{
		opts:   config.Options,
		rules:  DefaultRules(resolver),
		logger: config.Logger,
	}
}

// DefaultRules returns the rule set used for WordPress posts, in priority order
func DefaultRules(resolver *ImageResolver) RuleSet {
	return RuleSet{
		RawImageRule(resolver),
		TweetRule(),
		CodepenRule(),
		ScriptRule(),
		IframeRule(),
	}
}

// Rules returns the converter's rule set
func (c *Converter) Rules() RuleSet {
	return c.rules
}

// Convert converts one post body
func (c *Converter) Convert(ctx context.Context, html string) (string, error) {
	start := time.Now()

	markdown, err := Convert(html, c.rules, c.opts)
	if err != nil {
		c.logger.ErrorContext(ctx, "post conversion failed",
			"error", err,
			"html_bytes", len(html),
		)
		return "", err
	}

	c.logger.DebugContext(ctx, "post converted",
		"html_bytes", len(html),
		"markdown_bytes", len(markdown),
		"duration", time.Since(start),
	)
	return markdown, nil
}

// newEngine builds an engine for one conversion. Engines are not shared
// between calls so concurrent conversions keep their own failure state.
func newEngine(rules RuleSet, state *conversionState) *md.Converter {
	engine := md.NewConverter("", true, &md.Options{
		HeadingStyle:     "atx",
		BulletListMarker: "-",
		CodeBlockStyle:   "fenced",
	})
	engine.Use(plugin.Table())
	engine.AddRules(rules.engineRules(state)...)
	return engine
}

// Convert runs the whole pipeline on html: normalization, the engine with
// rules, and Markdown cleanup.
func Convert(html string, rules RuleSet, opts Options) (string, error) {
	content := PreNormalize(html, opts)

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(content))
	if err != nil {
		return "", &ConversionError{
			OriginalError: err,
			Hint:          "failed to parse HTML",
		}
	}

	state := &conversionState{}
	markdown := newEngine(rules, state).Convert(doc.Selection)
	if state.err != nil {
		convErr := &ConversionError{
			OriginalError: state.err,
			Rule:          state.rule.String(),
		}
		if state.rule == RuleRawImage {
			convErr.Hint = "mirror directory could not be searched"
		}
		return "", convErr
	}

	return PostNormalize(markdown), nil
}
