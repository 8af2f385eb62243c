package processor

import (
	"strings"

	"github.com/edunaija/teachershub/internal/collector"
)

const (
	summaryMaxRunes  = 600
	articleCategory  = "education"
	minMeaningfulLen = 15
)

// Article is the cleaned shape handed to the store writer.
type Article struct {
	Title     string
	Summary   string
	SourceURL string
	ImageURL  string
	Category  string
}

// EducationProcessor filters raw candidates down to African education
// news and dedupes the batch by canonical link.
type EducationProcessor struct{}

func NewEducationProcessor() *EducationProcessor {
	return &EducationProcessor{}
}

// Process keeps matching candidates in their original order. Within one
// batch the first occurrence of a link wins; cross-cycle dedupe is the
// store writer's job.
func (p *EducationProcessor) Process(items []collector.Candidate) []Article {
	out := make([]Article, 0, len(items))
	seen := make(map[string]struct{})

	for _, it := range items {
		title := strings.TrimSpace(it.Title)
		summary := strings.TrimSpace(it.Summary)
		if len(title) < minMeaningfulLen || it.Link == "" {
			continue
		}
		if !IsEducationContent(title, summary) {
			continue
		}
		if _, ok := seen[it.Link]; ok {
			continue
		}
		seen[it.Link] = struct{}{}

		out = append(out, Article{
			Title:     title,
			Summary:   truncateRunes(summary, summaryMaxRunes),
			SourceURL: it.Link,
			ImageURL:  strings.TrimSpace(it.Image),
			Category:  articleCategory,
		})
	}

	return out
}

// truncateRunes cuts by rune count so multi-byte text cannot overflow the
// store's column width.
func truncateRunes(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	rs := []rune(s)
	if len(rs) <= limit {
		return s
	}
	// The ellipsis counts against the limit so the result still fits the
	// summary column.
	return string(rs[:limit-1]) + "…"
}
