package processor

import (
	"strings"

	"github.com/samber/lo"
)

// Keyword policy for the news feed: an article is kept only when it is about
// education AND carries African context, and mentions none of the excluded
// topics. Matching is case-insensitive substring over title + summary.

var educationKeywords = []string{
	"education", "school", "student", "teacher", "teaching", "university", "college",
	"academic", "curriculum", "learning", "classroom", "pedagogy", "instruction",
	"educator", "professor", "lecturer", "principal",
	"elementary", "secondary", "high school", "middle school", "kindergarten", "preschool",
	"exam", "examination", "assessment", "grading", "diploma", "degree",
	"scholarship", "tuition", "enrollment", "admission",
	"campus", "alumni", "graduate", "graduation",
	"literacy", "mathematics", "science",
	"education policy", "education reform", "education system", "school district",
	"boarding school", "public school", "private school",
	"textbook", "syllabus", "lesson", "assignment", "homework",
	"thesis", "dissertation",
	"waec", "jamb", "neco", "gce",
}

var africanContextTerms = []string{
	"africa", "african", "nigeria", "nigerian", "ghana", "ghanaian", "kenya", "kenyan",
	"south africa", "tanzania", "uganda", "ethiopia", "egypt", "morocco", "algeria",
	"tunisia", "libya", "sudan", "zimbabwe", "mozambique", "angola",
	"cameroon", "senegal", "ivory coast", "côte d'ivoire",
	"mali", "burkina faso", "niger", "chad", "rwanda", "burundi", "botswana",
	"namibia", "zambia", "malawi", "madagascar", "mauritius",
	"sierra leone", "liberia", "guinea", "gambia", "cape verde",
	"gabon", "congo", "central african republic", "dr congo",
	"west africa", "east africa", "southern africa", "north africa", "sub-saharan africa",
	"african union", "ecowas", "sadc", "eac",
	"lagos", "abuja", "accra", "nairobi",
	// Regional exam bodies imply the region by themselves
	"waec", "jamb", "neco",
}

var excludedTopics = []string{
	"sports", "entertainment", "celebrity", "movie", "music", "gaming",
	"fashion", "beauty", "recipe", "cooking", "travel", "tourism",
	"stock market", "real estate", "automotive",
}

// IsEducationContent reports whether a candidate belongs in the feed.
// Deterministic and side-effect free, so filter output order is exactly
// input order for whatever slice drives it.
func IsEducationContent(title, summary string) bool {
	combined := strings.ToLower(strings.TrimSpace(title + " " + summary))
	if combined == "" {
		return false
	}

	if lo.SomeBy(excludedTopics, func(t string) bool { return strings.Contains(combined, t) }) {
		return false
	}

	hasAfricanContext := lo.SomeBy(africanContextTerms, func(t string) bool {
		return strings.Contains(combined, t)
	})
	if !hasAfricanContext {
		return false
	}

	matches := lo.CountBy(educationKeywords, func(k string) bool {
		return strings.Contains(combined, k)
	})
	return matches > 0
}
