package converter

import (
	"github.com/JohannesKaufmann/dom"
	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// TweetRule keeps embedded tweets as their original blockquote markup
func TweetRule() Rule {
	return Rule{
		Kind: RuleTweet,
		Tags: []string{"blockquote"},
		Match: func(selec *goquery.Selection) bool {
			return dom.HasClass(selec.Get(0), "twitter-tweet")
		},
		Emit: func(_ string, selec *goquery.Selection) (string, error) {
			markup, err := outerHTML(selec)
			if err != nil {
				return "", err
			}
			return "\n\n" + markup, nil
		},
	}
}

// CodepenRule keeps embedded pens. The embed snippet has changed over the
// years; a codepen class plus a data-slug-hash attribute is what they share.
func CodepenRule() Rule {
	return Rule{
		Kind: RuleCodepen,
		Tags: []string{"p", "div"},
		Match: func(selec *goquery.Selection) bool {
			node := selec.Get(0)
			_, ok := dom.GetAttribute(node, "data-slug-hash")
			return ok && dom.HasClass(node, "codepen")
		},
		Emit: func(_ string, selec *goquery.Selection) (string, error) {
			markup, err := outerHTML(selec)
			if err != nil {
				return "", err
			}
			return "\n\n" + markup, nil
		},
	}
}

// ScriptRule keeps every script element (tweet, codepen and gist loaders).
// A script that follows an element rather than text stays on the line
// directly below it.
func ScriptRule() Rule {
	return Rule{
		Kind: RuleScript,
		Tags: []string{"script"},
		Match: func(*goquery.Selection) bool {
			return true
		},
		Emit: func(_ string, selec *goquery.Selection) (string, error) {
			markup, err := outerHTML(selec)
			if err != nil {
				return "", err
			}

			before := "\n\n"
			if prev := dom.PrevSiblingNode(selec.Get(0)); prev != nil && prev.Type != html.TextNode {
				before = "\n"
			}
			return before + normalizeBooleanAttrs(markup) + "\n\n", nil
		},
	}
}

// IframeRule keeps inline frames (embedded audio and video)
func IframeRule() Rule {
	return Rule{
		Kind: RuleIframe,
		Tags: []string{"iframe"},
		Match: func(*goquery.Selection) bool {
			return true
		},
		Emit: func(_ string, selec *goquery.Selection) (string, error) {
			markup, err := outerHTML(selec)
			if err != nil {
				return "", err
			}
			return "\n\n" + normalizeBooleanAttrs(markup) + "\n\n", nil
		},
	}
}
