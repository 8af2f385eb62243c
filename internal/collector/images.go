package collector

import (
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/edunaija/teachershub/internal/logger"
)

const imageClientTimeout = 10 * time.Second

// PageImageResolver fetches an article page and pulls the featured image
// out of its social meta tags. Used for candidates whose listing entry
// carried no image. Best effort: any failure resolves to "".
type PageImageResolver struct {
	Client *http.Client
}

func NewPageImageResolver() *PageImageResolver {
	return &PageImageResolver{Client: &http.Client{Timeout: imageClientTimeout}}
}

func (r *PageImageResolver) Resolve(articleURL string) string {
	resp, err := r.Client.Get(articleURL)
	if err != nil {
		logger.Log.WithField("url", articleURL).Debugf("featured image fetch failed: %v", err)
		return ""
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return ""
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return ""
	}

	for _, sel := range []string{
		`meta[property="og:image"]`,
		`meta[name="twitter:image"]`,
	} {
		if content, ok := doc.Find(sel).First().Attr("content"); ok {
			if img := strings.TrimSpace(content); img != "" {
				return img
			}
		}
	}
	if href, ok := doc.Find(`link[rel="image_src"]`).First().Attr("href"); ok {
		return strings.TrimSpace(href)
	}
	if src, ok := doc.Find("article img[src]").First().Attr("src"); ok {
		return strings.TrimSpace(src)
	}
	return ""
}
