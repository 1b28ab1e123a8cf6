package converter

import (
	"regexp"
	"strings"
)

// DefaultAssetsPrefix is where scraped images are expected to live relative to the post
const DefaultAssetsPrefix = "/assets"

// iframePlaceholder keeps iframes non-empty through conversion
const iframePlaceholder = "."

var (
	doubleLineBreakRegex = regexp.MustCompile(`(\r?\n){2}`)
	thumbnailSrcRegex    = regexp.MustCompile(`(?i)(<img[^>]*src=")[^"]*?([^/"]+)(-\d+x\d+)\.(gif|jpe?g|png)("[^>]*>)`)
	imageSrcRegex        = regexp.MustCompile(`(?i)(<img[^>]*src=")[^"]*?([^/"]+\.(?:gif|jpe?g|png))("[^>]*>)`)
	iframeCloseRegex     = regexp.MustCompile(`(?i)</iframe>`)
	listMarkerRegex      = regexp.MustCompile(`(?m)^([ \t]*)([-+*]|\d+\.) {2,}`)
	iframePlaceholderRe  = regexp.MustCompile(`(?i)` + regexp.QuoteMeta(iframePlaceholder) + `(</iframe>)`)
)

// SeparateBlocks puts an empty div between double line breaks so adjacent
// paragraphs stay separated after conversion.
func SeparateBlocks(content string) string {
	return doubleLineBreakRegex.ReplaceAllString(content, "\n<div></div>\n")
}

// LocalizeImages points every img source at assetsPrefix, dropping the
// thumbnail size suffix where there is one.
func LocalizeImages(content, assetsPrefix string) string {
	if assetsPrefix == "" {
		assetsPrefix = DefaultAssetsPrefix
	}
	prefix := strings.TrimSuffix(assetsPrefix, "/")
	// "$" in the prefix must not be read as a group reference.
	prefix = strings.ReplaceAll(prefix, "$", "$$")

	content = thumbnailSrcRegex.ReplaceAllString(content, "${1}"+prefix+"/${2}.${4}${5}")
	return imageSrcRegex.ReplaceAllString(content, "${1}"+prefix+"/${2}${3}")
}

// MarkIframes inserts a placeholder before every closing iframe tag
func MarkIframes(content string) string {
	return iframeCloseRegex.ReplaceAllString(content, iframePlaceholder+"$0")
}

// TidyListMarkers collapses the spaces after a list marker to one
func TidyListMarkers(markdown string) string {
	return listMarkerRegex.ReplaceAllString(markdown, "${1}${2} ")
}

// UnmarkIframes removes the placeholder inserted by MarkIframes
func UnmarkIframes(markdown string) string {
	return iframePlaceholderRe.ReplaceAllString(markdown, "$1")
}

// PreNormalize prepares post HTML for the engine
func PreNormalize(content string, opts Options) string {
	content = SeparateBlocks(content)
	if opts.SaveScrapedImages {
		content = LocalizeImages(content, opts.AssetsPrefix)
	}
	return MarkIframes(content)
}

// PostNormalize cleans up the engine's Markdown
func PostNormalize(markdown string) string {
	return UnmarkIframes(TidyListMarkers(markdown))
}
