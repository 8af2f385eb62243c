package collector

import "errors"

// Candidate is one raw scraped item before filtering.
type Candidate struct {
	Title   string
	Summary string
	Link    string
	Image   string
}

// Fetcher abstracts a news source.
type Fetcher interface {
	Name() string
	Fetch() ([]Candidate, error)
}

// ErrNetwork marks a failed or timed-out request to the upstream source.
// The cycle aborts on it; the next scheduled run is the retry.
var ErrNetwork = errors.New("news source unreachable")
