package collector

import (
	"fmt"
	"strings"
	"time"

	"github.com/gocolly/colly/v2"

	"github.com/edunaija/teachershub/internal/logger"
)

const (
	apClientTimeout = 15 * time.Second
	apMaxCandidates = 300
	apMinTitleLen   = 15
)

// APNewsFetcher scrapes the AP News education listing page.
// The markup is not a stable contract: when the page structure changes the
// selectors simply stop matching and the fetch yields zero candidates.
type APNewsFetcher struct {
	URL string
}

func NewAPNewsFetcher(url string) *APNewsFetcher {
	return &APNewsFetcher{URL: url}
}

func (f *APNewsFetcher) Name() string {
	return "apnews_education"
}

func (f *APNewsFetcher) Fetch() ([]Candidate, error) {
	logger.Log.WithField("url", f.URL).Info("fetch education news listing")

	c := colly.NewCollector(
		colly.UserAgent("TeachersHubBot/1.0"),
	)
	c.SetRequestTimeout(apClientTimeout)

	results := make([]Candidate, 0, 50)
	seen := make(map[string]struct{})

	c.OnHTML("a[href]", func(e *colly.HTMLElement) {
		if len(results) >= apMaxCandidates {
			return
		}

		link := e.Request.AbsoluteURL(e.Attr("href"))
		if !looksLikeArticleLink(link) {
			return
		}
		if _, ok := seen[link]; ok {
			return
		}

		card := e.DOM.Closest("div, li, article, section")

		title := strings.TrimSpace(e.Text)
		// Bare image links and "Read more" anchors carry no usable title;
		// fall back to the nearest heading in the same card.
		if len(title) < apMinTitleLen {
			title = strings.TrimSpace(card.Find("h1, h2, h3, h4, h5, h6").First().Text())
		}
		if len(title) < apMinTitleLen {
			return
		}

		summary := strings.TrimSpace(card.Find("p").First().Text())
		if summary == title {
			summary = ""
		}

		image := ""
		if src, ok := card.Find("img[src]").First().Attr("src"); ok {
			image = e.Request.AbsoluteURL(strings.TrimSpace(src))
		}

		seen[link] = struct{}{}
		results = append(results, Candidate{
			Title:   title,
			Summary: summary,
			Link:    link,
			Image:   image,
		})
	})

	if err := c.Visit(f.URL); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNetwork, err)
	}

	if len(results) == 0 {
		logger.Log.WithField("url", f.URL).Warn("education news listing yielded 0 candidates, page structure may have changed")
	}

	return results, nil
}

// looksLikeArticleLink drops navigation, share and index links.
func looksLikeArticleLink(link string) bool {
	l := strings.ToLower(link)
	if !strings.HasPrefix(l, "http://") && !strings.HasPrefix(l, "https://") {
		return false
	}
	for _, skip := range []string{"javascript:", "mailto:", "#", "tag/", "author/", "?page="} {
		if strings.Contains(l, skip) {
			return false
		}
	}
	return true
}
