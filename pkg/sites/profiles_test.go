package sites

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		url  string
		want string
		ok   bool
	}{
		{"https://www.aitimes.com/news/articleView.html?idxno=1", AITimesID, true},
		{"https://www.aitimes.kr/news/articleView.html?idxno=2", AITimesID, true},
		{"https://example-aitimes.kr/x", AITimesID, true},
		{"http://VentureBeat.com/ai/some-story/", VentureBeatID, true},
		{"https://techcrunch.com/2024/05/01/story/", TechCrunchID, true},
		{"techcrunch.com/2024/05/01/story/", TechCrunchID, true},
		{"https://zdnet.co.kr/view/?no=20240501", ZDNetKoreaID, true},
		{"https://www.zdnet.co.kr:443/view/?no=1", ZDNetKoreaID, true},
		{"https://zdnet.com/article/x", "", false},
		{"https://example.org/techcrunch.com", "", false},
		{"", "", false},
		{"   ", "", false},
		{"://bad url", "", false},
		{"%zz", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			p, ok := Classify(tt.url)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, p.ID)
		})
	}
}

func TestProfilesAreMutuallyExclusive(t *testing.T) {
	all := Profiles()
	require.Len(t, all, 4)

	for _, p := range all {
		for _, d := range p.Domains {
			matches := 0
			for _, q := range all {
				if q.Matches(d) || q.Matches("www."+d) {
					matches++
				}
			}
			assert.Equal(t, 1, matches, "domain %s matched %d profiles", d, matches)
		}
	}
}

func TestProfilesReturnsCopy(t *testing.T) {
	all := Profiles()
	all[0].ID = "mutated"
	p, ok := ProfileByID(AITimesID)
	require.True(t, ok)
	assert.Equal(t, AITimesID, p.ID)
}

func TestSelectorCSS(t *testing.T) {
	tests := []struct {
		name string
		sel  Selector
		want string
	}{
		{"class", Selector{Tag: "h3", Classes: []string{"heading"}}, "h3.heading"},
		{"id", Selector{Tag: "article", ID: "article-view-content-div"}, "article#article-view-content-div"},
		{"multi class", Selector{Tag: "h1", Classes: []string{"a", "b"}}, "h1.a.b"},
		{"scoped no class", Selector{Tag: "h1", NoClass: true, Parent: &Selector{Tag: "div", Classes: []string{"news_head"}}}, "div.news_head h1:not([class])"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.sel.CSS())
		})
	}
}

func TestDateStrategyString(t *testing.T) {
	assert.Equal(t, "icon_list", IconListPattern.String())
	assert.Equal(t, "meta_label", MetaLabelPattern.String())
	assert.Equal(t, "unknown", DateStrategy(0).String())
}
