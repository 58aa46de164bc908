package sites

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

var (
	// ErrDateUnavailable means the date marker was absent or unparseable.
	ErrDateUnavailable = errors.New("date unavailable")

	iconListDateRe = regexp.MustCompile(`(\d{4})\.(\d{2})\.(\d{2}) \d{2}:\d{2}`)

	isoLayouts = []string{
		time.RFC3339Nano,
		"2006-01-02T15:04:05",
		"2006-01-02T15:04",
		"2006-01-02 15:04:05",
		"2006-01-02",
	}
)

const (
	timeClassLayout = "January 2, 2006 3:04 PM"
	metaLabel       = "입력 :"
	metaLayout      = "2006/01/02"
	dateOutLayout   = "01/02"
)

// ExtractDate returns the publication date as MM/DD, or "" when it cannot be read.
func ExtractDate(doc *goquery.Document, strategy DateStrategy) string {
	date, err := DateOf(doc, strategy)
	if err != nil {
		return ""
	}
	return date
}

// DateOf is ExtractDate with the reason for a missing date.
func DateOf(doc *goquery.Document, strategy DateStrategy) (string, error) {
	if doc == nil {
		return "", fmt.Errorf("%w: nil document", ErrDateUnavailable)
	}
	switch strategy {
	case IconListPattern:
		return iconListDate(doc)
	case TimeClassPattern:
		return timeClassDate(doc)
	case IsoAttributePattern:
		return isoAttributeDate(doc)
	case MetaLabelPattern:
		return metaLabelDate(doc)
	default:
		return "", fmt.Errorf("%w: unknown strategy %d", ErrDateUnavailable, int(strategy))
	}
}

func iconListDate(doc *goquery.Document) (string, error) {
	icon := doc.Find("i.icon-clock-o").First()
	if icon.Length() == 0 {
		return "", fmt.Errorf("%w: clock icon missing", ErrDateUnavailable)
	}
	item := icon.Closest("li")
	if item.Length() == 0 {
		return "", fmt.Errorf("%w: clock icon outside a list item", ErrDateUnavailable)
	}
	m := iconListDateRe.FindStringSubmatch(strings.TrimSpace(item.Text()))
	if m == nil {
		return "", fmt.Errorf("%w: no YYYY.MM.DD HH:MM in %q", ErrDateUnavailable, strings.TrimSpace(item.Text()))
	}
	return m[2] + "/" + m[3], nil
}

func timeClassDate(doc *goquery.Document) (string, error) {
	node := doc.Find("time.the-time").First()
	if node.Length() == 0 {
		return "", fmt.Errorf("%w: time.the-time missing", ErrDateUnavailable)
	}
	t, err := time.Parse(timeClassLayout, strings.TrimSpace(node.Text()))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrDateUnavailable, err)
	}
	return t.Format(dateOutLayout), nil
}

func isoAttributeDate(doc *goquery.Document) (string, error) {
	node := doc.Find("time[datetime]").First()
	raw, ok := node.Attr("datetime")
	if !ok {
		return "", fmt.Errorf("%w: time[datetime] missing", ErrDateUnavailable)
	}
	raw = strings.TrimSpace(raw)
	for _, layout := range isoLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.Format(dateOutLayout), nil
		}
	}
	return "", fmt.Errorf("%w: %q is not ISO-8601", ErrDateUnavailable, raw)
}

func metaLabelDate(doc *goquery.Document) (string, error) {
	node := doc.Find("p.meta").First()
	if node.Length() == 0 {
		return "", fmt.Errorf("%w: p.meta missing", ErrDateUnavailable)
	}
	_, rest, found := strings.Cut(strings.TrimSpace(node.Text()), metaLabel)
	if !found {
		return "", fmt.Errorf("%w: %q label missing", ErrDateUnavailable, metaLabel)
	}
	tokens := strings.Fields(rest)
	if len(tokens) == 0 {
		return "", fmt.Errorf("%w: nothing after %q", ErrDateUnavailable, metaLabel)
	}
	t, err := time.Parse(metaLayout, tokens[0])
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrDateUnavailable, err)
	}
	return t.Format(dateOutLayout), nil
}
