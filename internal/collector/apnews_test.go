package collector

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

const listingFixture = `<!DOCTYPE html>
<html><body>
<nav><a href="/hub/education">Education</a></nav>
<div class="card">
  <h2><a href="/article/waec-exam-overhaul">New Exam Policy for WAEC Students in Nigeria</a></h2>
  <p>The examination council announced sweeping changes for secondary schools.</p>
  <img src="/images/waec.jpg">
</div>
<div class="card">
  <a href="/article/football-scores-update">Football Scores Update From the Weekend</a>
  <p>All the results from the league.</p>
</div>
<div class="card">
  <a href="mailto:tips@example.com">send us tips please do</a>
  <a href="/tag/education">browse the education tag here</a>
</div>
</body></html>`

func TestAPNewsFetcherParsesListing(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(listingFixture))
	}))
	defer srv.Close()

	f := NewAPNewsFetcher(srv.URL)
	got, err := f.Fetch()
	if err != nil {
		t.Fatalf("Fetch error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 candidates, got %d: %+v", len(got), got)
	}

	first := got[0]
	if first.Title != "New Exam Policy for WAEC Students in Nigeria" {
		t.Fatalf("unexpected first title: %q", first.Title)
	}
	if first.Link != srv.URL+"/article/waec-exam-overhaul" {
		t.Fatalf("relative link not resolved: %q", first.Link)
	}
	if first.Summary == "" {
		t.Fatalf("expected summary from sibling paragraph")
	}
	if first.Image != srv.URL+"/images/waec.jpg" {
		t.Fatalf("unexpected image: %q", first.Image)
	}

	if got[1].Title != "Football Scores Update From the Weekend" {
		t.Fatalf("unexpected second title: %q", got[1].Title)
	}
}

func TestAPNewsFetcherShortTitlesFallBackToHeading(t *testing.T) {
	const page = `<html><body><div>
      <h3>Lagos classrooms get new science textbooks</h3>
      <a href="/article/1">Read</a>
    </div></body></html>`
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(page))
	}))
	defer srv.Close()

	got, err := NewAPNewsFetcher(srv.URL).Fetch()
	if err != nil {
		t.Fatalf("Fetch error: %v", err)
	}
	if len(got) != 1 || got[0].Title != "Lagos classrooms get new science textbooks" {
		t.Fatalf("heading fallback failed: %+v", got)
	}
}

func TestAPNewsFetcherNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused from here on

	_, err := NewAPNewsFetcher(srv.URL).Fetch()
	if err == nil {
		t.Fatalf("expected network error")
	}
}

func TestLooksLikeArticleLink(t *testing.T) {
	cases := map[string]bool{
		"https://apnews.com/article/x":       true,
		"http://apnews.com/article/x":        true,
		"javascript:void(0)":                 false,
		"mailto:tips@example.com":            false,
		"https://apnews.com/tag/education":   false,
		"https://apnews.com/list?page=2":     false,
		"https://apnews.com/article/x#share": false,
		"/relative/never-resolved":           false,
	}
	for link, want := range cases {
		if got := looksLikeArticleLink(link); got != want {
			t.Fatalf("looksLikeArticleLink(%q) = %v, want %v", link, got, want)
		}
	}
}
