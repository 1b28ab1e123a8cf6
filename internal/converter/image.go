package converter

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/JohannesKaufmann/dom"
	"github.com/PuerkitoBio/goquery"

	"github.com/kfreiman/wpmd/internal/assets"
)

var (
	// imageExtRegex accepts candidate URLs ending in a recognized image extension
	imageExtRegex = regexp.MustCompile(`(?i)\.(?:jpe?g|png|gif)$`)

	// thumbnailRegex matches the "-300x200.jpg" suffix WordPress gives resized copies
	thumbnailRegex = regexp.MustCompile(`(?i)-\d+x\d+\.(?:jpe?g|png|gif)$`)

	// thumbnailBaseRegex captures the file name a thumbnail was resized from
	thumbnailBaseRegex = regexp.MustCompile(`(?i)([^/]*)-\d+x\d+\.(?:jpe?g|png|gif)$`)
)

// imageClasses mark the block-editor constructs that wrap a single image
var imageClasses = []string{"wp-block-image", "blocks-gallery-item"}

// imageContainerTags are the elements the engine dispatches on that can
// carry an image block class. Matching itself is by class only.
var imageContainerTags = []string{
	"div", "figure", "li", "p", "span", "section",
	"a", "ul", "ol", "article", "aside", "header", "footer", "main", "nav",
	"blockquote", "picture", "center", "table", "td", "th", "dl", "dd", "dt",
	"em", "strong", "b", "i", "small",
}

// Image is the Markdown image a construct resolves to
type Image struct {
	Alt string
	Src string
}

// Markdown renders the image as ![alt](src)
func (img Image) Markdown() string {
	return fmt.Sprintf("![%s](%s)", img.Alt, img.Src)
}

// ResolverConfig holds configuration for the ImageResolver
type ResolverConfig struct {
	// MirrorRoot is the local directory searched for originals. Empty disables the search.
	MirrorRoot string
	// MirrorPrefix is the part of a found path replaced by PublicBaseURL. Defaults to MirrorRoot.
	MirrorPrefix  string
	PublicBaseURL string
	Searcher      assets.Searcher // Optional: defaults to assets.NewLocator
	Logger        *slog.Logger    // Optional: defaults to a discard logger
}

// ImageResolver picks the full-resolution source for an image construct
type ImageResolver struct {
	mirrorRoot    string
	mirrorPrefix  string
	publicBaseURL string
	searcher      assets.Searcher
	logger        *slog.Logger
}

// NewImageResolver creates an ImageResolver
func NewImageResolver(config ResolverConfig) *ImageResolver {
	if config.Logger == nil {
		config.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if config.Searcher == nil {
		config.Searcher = assets.NewLocator(assets.LocatorConfig{Logger: config.Logger})
	}
	config.MirrorRoot = absPath(config.MirrorRoot)
	if config.MirrorPrefix == "" {
		config.MirrorPrefix = config.MirrorRoot
	}
	config.MirrorPrefix = absPath(config.MirrorPrefix)
	return &ImageResolver{
		mirrorRoot:    config.MirrorRoot,
		mirrorPrefix:  config.MirrorPrefix,
		publicBaseURL: config.PublicBaseURL,
		searcher:      config.Searcher,
		logger:        config.Logger,
	}
}

// absPath makes a configured mirror path absolute so it lines up with the
// cleaned paths the walk returns.
func absPath(path string) string {
	if path == "" {
		return ""
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return filepath.Clean(path)
	}
	return abs
}

// IsThumbnail reports whether the URL names a resized copy
func IsThumbnail(src string) bool {
	return thumbnailRegex.MatchString(src)
}

// Candidates returns the image URLs inside a construct: img sources first,
// then anchor targets, keeping only recognized image extensions.
func Candidates(selec *goquery.Selection) []string {
	candidates := imageURLs(selec, "img", "src", nil)
	return imageURLs(selec, "a", "href", candidates)
}

// imageURLs appends the attr values of the construct itself and of its
// descendants named tag that end in an image extension.
func imageURLs(selec *goquery.Selection, tag, attr string, urls []string) []string {
	collect := func(_ int, s *goquery.Selection) {
		if v := s.AttrOr(attr, ""); imageExtRegex.MatchString(v) {
			urls = append(urls, v)
		}
	}
	selec.Filter(tag).Each(collect)
	selec.Find(tag).Each(collect)
	return urls
}

// AltText returns the first non-empty img alt, else the first non-empty
// figcaption text.
func AltText(selec *goquery.Selection) string {
	var alt string
	selec.Find("img").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		alt = s.AttrOr("alt", "")
		return alt == ""
	})
	if alt != "" {
		return alt
	}

	selec.Find("figcaption").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		alt = strings.TrimSpace(s.Text())
		return alt == ""
	})
	return alt
}

// Resolve returns the image for a construct. ok is false when the construct
// holds no image candidate at all. Only a failed mirror search is an error.
func (r *ImageResolver) Resolve(selec *goquery.Selection) (img Image, ok bool, err error) {
	candidates := Candidates(selec)
	if len(candidates) == 0 {
		return Image{}, false, nil
	}

	var raw []string
	for _, c := range candidates {
		if !IsThumbnail(c) {
			raw = append(raw, c)
			break
		}
	}

	if len(raw) == 0 {
		found, err := r.findOriginal(candidates[0])
		if err != nil {
			return Image{}, false, err
		}
		if found != "" {
			raw = append(raw, found)
		}
	}

	src := candidates[0]
	if len(raw) > 0 {
		src = raw[0]
	}

	return Image{Alt: AltText(selec), Src: src}, true, nil
}

// findOriginal searches the mirror for the file a thumbnail was resized
// from and returns its public URL, or "" when there is none.
func (r *ImageResolver) findOriginal(thumbnail string) (string, error) {
	if r.mirrorRoot == "" {
		return "", nil
	}

	m := thumbnailBaseRegex.FindStringSubmatch(thumbnail)
	if m == nil || m[1] == "" {
		return "", nil
	}
	pattern := regexp.MustCompile(`(?i)(^|/)` + regexp.QuoteMeta(m[1]) + `\.(?:jpe?g|png|gif)$`)

	matches, err := r.searcher.Search(r.mirrorRoot, pattern)
	if err != nil {
		return "", err
	}
	if len(matches) == 0 {
		r.logger.DebugContext(context.Background(), "no original found in mirror",
			"thumbnail", thumbnail,
			"mirror_root", r.mirrorRoot,
		)
		return "", nil
	}

	return r.publicURL(matches[0]), nil
}

// publicURL rewrites a local mirror path to its public URL
func (r *ImageResolver) publicURL(localPath string) string {
	localPath = filepath.ToSlash(localPath)
	prefix := filepath.ToSlash(r.mirrorPrefix)
	if prefix == "" || !strings.HasPrefix(localPath, prefix) {
		return localPath
	}
	rel := strings.TrimPrefix(localPath, prefix)
	if r.publicBaseURL == "" {
		return rel
	}
	return strings.TrimSuffix(r.publicBaseURL, "/") + "/" + strings.TrimPrefix(rel, "/")
}

// RawImageRule replaces block-editor image constructs with a Markdown image
// pointing at the original upload rather than a resized copy.
func RawImageRule(resolver *ImageResolver) Rule {
	return Rule{
		Kind: RuleRawImage,
		Tags: imageContainerTags,
		Match: func(selec *goquery.Selection) bool {
			node := selec.Get(0)
			for _, class := range imageClasses {
				if dom.HasClass(node, class) {
					return true
				}
			}
			return false
		},
		Emit: func(content string, selec *goquery.Selection) (string, error) {
			img, ok, err := resolver.Resolve(selec)
			if err != nil {
				return "", err
			}
			if !ok {
				return content, nil
			}
			return img.Markdown(), nil
		},
	}
}
