package sites

import (
	"net/url"
	"strings"
)

// DateStrategy selects how a profile reads its publication date.
type DateStrategy int

const (
	// IconListPattern reads the list item wrapping a clock icon, e.g. "2024.05.01 10:30".
	IconListPattern DateStrategy = iota + 1
	// TimeClassPattern reads <time class="the-time"> text, e.g. "May 1, 2024 10:30 AM".
	TimeClassPattern
	// IsoAttributePattern reads the datetime attribute of the first <time datetime>.
	IsoAttributePattern
	// MetaLabelPattern reads <p class="meta"> and the date after the "입력 :" label.
	MetaLabelPattern
)

func (s DateStrategy) String() string {
	switch s {
	case IconListPattern:
		return "icon_list"
	case TimeClassPattern:
		return "time_class"
	case IsoAttributePattern:
		return "iso_attribute"
	case MetaLabelPattern:
		return "meta_label"
	default:
		return "unknown"
	}
}

// Selector describes one element by tag and attribute predicate,
// optionally scoped under a parent element.
type Selector struct {
	Tag     string
	ID      string
	Classes []string
	NoClass bool // element must not carry a class attribute
	Parent  *Selector
}

// CSS renders the selector in the syntax goquery understands.
func (s Selector) CSS() string {
	var b strings.Builder
	if s.Parent != nil {
		b.WriteString(s.Parent.CSS())
		b.WriteByte(' ')
	}
	b.WriteString(s.Tag)
	if s.ID != "" {
		b.WriteByte('#')
		b.WriteString(s.ID)
	}
	for _, c := range s.Classes {
		b.WriteByte('.')
		b.WriteString(c)
	}
	if s.NoClass {
		b.WriteString(":not([class])")
	}
	return b.String()
}

// Profile is the static extraction configuration for one news source.
type Profile struct {
	ID      string
	Name    string
	Domains []string
	Title   Selector
	Content Selector
	Date    DateStrategy
}

// Matches reports whether host belongs to the profile.
func (p Profile) Matches(host string) bool {
	for _, d := range p.Domains {
		if strings.HasSuffix(host, d) {
			return true
		}
	}
	return false
}

const (
	AITimesID     = "aitimes"
	VentureBeatID = "venturebeat"
	TechCrunchID  = "techcrunch"
	ZDNetKoreaID  = "zdnet_kr"
)

// profiles is matched in order. Domain suffixes must not overlap.
var profiles = []Profile{
	{
		ID:      AITimesID,
		Name:    "AI Times",
		Domains: []string{"aitimes.com", "aitimes.kr"},
		Title:   Selector{Tag: "h3", Classes: []string{"heading"}},
		Content: Selector{Tag: "article", ID: "article-view-content-div"},
		Date:    IconListPattern,
	},
	{
		ID:      VentureBeatID,
		Name:    "VentureBeat",
		Domains: []string{"venturebeat.com"},
		Title:   Selector{Tag: "h1", Classes: []string{"article-title"}},
		Content: Selector{Tag: "div", Classes: []string{"article-content"}},
		Date:    TimeClassPattern,
	},
	{
		ID:      TechCrunchID,
		Name:    "TechCrunch",
		Domains: []string{"techcrunch.com"},
		Title:   Selector{Tag: "h1", Classes: []string{"article-hero__title", "wp-block-post-title"}},
		Content: Selector{Tag: "div", Classes: []string{"entry-content", "wp-block-post-content"}},
		Date:    IsoAttributePattern,
	},
	{
		ID:      ZDNetKoreaID,
		Name:    "ZDNet Korea",
		Domains: []string{"zdnet.co.kr"},
		Title:   Selector{Tag: "h1", NoClass: true, Parent: &Selector{Tag: "div", Classes: []string{"news_head"}}},
		Content: Selector{Tag: "div", Classes: []string{"view_cont"}},
		Date:    MetaLabelPattern,
	},
}

// Profiles returns a copy of the profile table in match order.
func Profiles() []Profile {
	out := make([]Profile, len(profiles))
	copy(out, profiles)
	return out
}

// ProfileByID looks a profile up by its id.
func ProfileByID(id string) (Profile, bool) {
	id = strings.ToLower(strings.TrimSpace(id))
	for _, p := range profiles {
		if p.ID == id {
			return p, true
		}
	}
	return Profile{}, false
}

// Classify returns the profile whose domain matches the URL host.
// It never panics; unparseable or unknown URLs report false.
func Classify(rawURL string) (Profile, bool) {
	host := hostOf(rawURL)
	if host == "" {
		return Profile{}, false
	}
	for _, p := range profiles {
		if p.Matches(host) {
			return p, true
		}
	}
	return Profile{}, false
}

// hostOf extracts the lower-cased host, tolerating scheme-less input.
func hostOf(rawURL string) string {
	raw := strings.TrimSpace(rawURL)
	if raw == "" {
		return ""
	}
	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}
	parsed, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	return strings.TrimSuffix(strings.ToLower(parsed.Hostname()), ".")
}
