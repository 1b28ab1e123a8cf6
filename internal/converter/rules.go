package converter

import (
	"regexp"
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/PuerkitoBio/goquery"
)

// RuleKind enumerates the node rewrite rules this package knows about
type RuleKind int

const (
	RuleRawImage RuleKind = iota
	RuleTweet
	RuleCodepen
	RuleScript
	RuleIframe
)

func (k RuleKind) String() string {
	switch k {
	case RuleRawImage:
		return "raw-image"
	case RuleTweet:
		return "tweet"
	case RuleCodepen:
		return "codepen"
	case RuleScript:
		return "script"
	case RuleIframe:
		return "iframe"
	default:
		return "unknown"
	}
}

// Rule overrides the default mapping for the nodes it matches.
// Match must not have side effects. Emit receives the already converted
// Markdown of the node's children and returns the replacement for the
// whole subtree.
type Rule struct {
	Kind  RuleKind
	Tags  []string
	Match func(selec *goquery.Selection) bool
	Emit  func(content string, selec *goquery.Selection) (string, error)
}

func (r Rule) handles(tag string) bool {
	for _, t := range r.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// RuleSet is an ordered list of rules. The first rule whose Match returns
// true wins; nodes no rule matches get the engine's default mapping.
type RuleSet []Rule

// Tags returns every tag any rule is registered for, in first-seen order
func (rs RuleSet) Tags() []string {
	seen := make(map[string]struct{})
	var tags []string
	for _, rule := range rs {
		for _, tag := range rule.Tags {
			if _, ok := seen[tag]; ok {
				continue
			}
			seen[tag] = struct{}{}
			tags = append(tags, tag)
		}
	}
	return tags
}

// Find returns the first rule matching the node, if any
func (rs RuleSet) Find(selec *goquery.Selection) (Rule, bool) {
	tag := goquery.NodeName(selec)
	for _, rule := range rs {
		if rule.handles(tag) && rule.Match(selec) {
			return rule, true
		}
	}
	return Rule{}, false
}

// conversionState carries the first rule failure out of the engine, whose
// replacement callbacks cannot return errors.
type conversionState struct {
	err  error
	rule RuleKind
}

func (s *conversionState) fail(kind RuleKind, err error) {
	if s.err == nil {
		s.err = err
		s.rule = kind
	}
}

// engineRules turns the rule set into one dispatcher per tag for the engine.
// The dispatcher returns nil when no rule matches so the engine falls back
// to its default rule for that tag.
func (rs RuleSet) engineRules(state *conversionState) []md.Rule {
	tags := rs.Tags()
	rules := make([]md.Rule, 0, len(tags))
	for _, tag := range tags {
		rules = append(rules, md.Rule{
			Filter: []string{tag},
			Replacement: func(content string, selec *goquery.Selection, _ *md.Options) *string {
				if state.err != nil {
					return md.String("")
				}
				rule, ok := rs.Find(selec)
				if !ok {
					return nil
				}
				out, err := rule.Emit(content, selec)
				if err != nil {
					state.fail(rule.Kind, err)
					return md.String("")
				}
				return &out
			},
		})
	}
	return rules
}

// engineAttributes are added to the parsed tree by the engine's own before
// hooks and must not leak into preserved markup.
var engineAttributes = []string{"data-index", "data-converter-list-prefix"}

// outerHTML serializes a node the way it appeared in the source document
func outerHTML(selec *goquery.Selection) (string, error) {
	clone := selec.First().Clone()
	for _, attr := range engineAttributes {
		clone.RemoveAttr(attr)
		clone.Find("[" + attr + "]").RemoveAttr(attr)
	}
	return goquery.OuterHtml(clone)
}

var booleanAttrRegex = regexp.MustCompile(`(\s(?:async|defer|nomodule|allowfullscreen|webkitallowfullscreen|mozallowfullscreen))=""`)

// normalizeBooleanAttrs renders bare boolean attributes of the opening tag
// without the empty value the HTML serializer adds.
func normalizeBooleanAttrs(markup string) string {
	end := strings.IndexByte(markup, '>')
	if end < 0 {
		return booleanAttrRegex.ReplaceAllString(markup, "$1")
	}
	return booleanAttrRegex.ReplaceAllString(markup[:end], "$1") + markup[end:]
}
