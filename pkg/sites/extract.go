package sites

import (
	"errors"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var (
	ErrTitleNotFound   = errors.New("title not found")
	ErrContentNotFound = errors.New("content container not found")
)

const paragraphSeparator = "\n\n"

// Fields holds what was pulled out of one article page.
type Fields struct {
	Title   string
	Content string
	Date    string
}

// Extract runs title, content and date extraction for a profile.
// Only a missing title or content container is an error; a missing date yields "".
func Extract(doc *goquery.Document, p Profile) (Fields, error) {
	title, err := ExtractTitle(doc, p.Title)
	if err != nil {
		return Fields{}, fmt.Errorf("%s: %w", p.ID, err)
	}
	content, err := ExtractContent(doc, p.Content)
	if err != nil {
		return Fields{}, fmt.Errorf("%s: %w", p.ID, err)
	}
	return Fields{
		Title:   title,
		Content: content,
		Date:    ExtractDate(doc, p.Date),
	}, nil
}

// ExtractTitle returns the trimmed text of the first element matching sel.
func ExtractTitle(doc *goquery.Document, sel Selector) (string, error) {
	node := doc.Find(sel.CSS()).First()
	if node.Length() == 0 {
		return "", fmt.Errorf("%w (selector %q)", ErrTitleNotFound, sel.CSS())
	}
	return strings.TrimSpace(node.Text()), nil
}

// ExtractContent joins the trimmed text of every <p> inside the container with a blank line.
func ExtractContent(doc *goquery.Document, sel Selector) (string, error) {
	container := doc.Find(sel.CSS()).First()
	if container.Length() == 0 {
		return "", fmt.Errorf("%w (selector %q)", ErrContentNotFound, sel.CSS())
	}

	paragraphs := container.Find("p")
	parts := make([]string, 0, paragraphs.Length())
	paragraphs.Each(func(_ int, s *goquery.Selection) {
		parts = append(parts, strings.TrimSpace(s.Text()))
	})
	return strings.Join(parts, paragraphSeparator), nil
}
