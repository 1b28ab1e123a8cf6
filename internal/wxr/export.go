// Package wxr reads WordPress eXtended RSS exports.
package wxr

import (
	"encoding/xml"
	"fmt"
	"io"
	"strings"
)

const contentNamespace = "http://purl.org/rss/1.0/modules/content/"

// ParseError is returned for exports that are not well-formed WXR
type ParseError struct {
	Reason string
	Err    error
}

func (e *ParseError) Error() string {
	msg := fmt.Sprintf("invalid WordPress export: %s", e.Reason)
	if e.Err != nil {
		msg += fmt.Sprintf(": %v", e.Err)
	}
	return msg
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Category is a category or tag assigned to an item
type Category struct {
	Domain   string `xml:"domain,attr"`
	Nicename string `xml:"nicename,attr"`
	Name     string `xml:",chardata"`
}

// Item is one entry of the export: a post, page, attachment or menu item
type Item struct {
	Title      string     `xml:"title"`
	Link       string     `xml:"link"`
	Creator    string     `xml:"creator"`
	Content    string     `xml:"http://purl.org/rss/1.0/modules/content/ encoded"`
	ID         int        `xml:"post_id"`
	Date       string     `xml:"post_date"`
	Name       string     `xml:"post_name"`
	Status     string     `xml:"status"`
	Type       string     `xml:"post_type"`
	Categories []Category `xml:"category"`
}

// CategoryNames returns the names of the item's categories
func (it Item) CategoryNames() []string {
	return it.termNames("category")
}

// TagNames returns the names of the item's tags
func (it Item) TagNames() []string {
	return it.termNames("post_tag")
}

func (it Item) termNames(domain string) []string {
	var names []string
	for _, c := range it.Categories {
		if c.Domain == domain {
			names = append(names, strings.TrimSpace(c.Name))
		}
	}
	return names
}

// Export is the channel of a WXR document
type Export struct {
	Title string `xml:"title"`
	Link  string `xml:"link"`
	Items []Item `xml:"item"`
}

type rss struct {
	XMLName xml.Name `xml:"rss"`
	Channel *Export  `xml:"channel"`
}

// Parse reads a WXR document
func Parse(r io.Reader) (*Export, error) {
	var doc rss
	dec := xml.NewDecoder(r)
	// Exports declare UTF-8; anything else is passed through unchanged.
	dec.CharsetReader = func(_ string, input io.Reader) (io.Reader, error) {
		return input, nil
	}
	if err := dec.Decode(&doc); err != nil {
		return nil, &ParseError{Reason: "malformed XML", Err: err}
	}
	if doc.Channel == nil {
		return nil, &ParseError{Reason: "missing channel element"}
	}
	return doc.Channel, nil
}

// Posts returns the items of type post, skipping drafts when published is true
func (e *Export) Posts(published bool) []Item {
	var posts []Item
	for _, it := range e.Items {
		if it.Type != "post" {
			continue
		}
		if published && it.Status != "publish" {
			continue
		}
		posts = append(posts, it)
	}
	return posts
}
